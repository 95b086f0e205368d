package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpenCashCutRequest body para abrir corte de caja.
type OpenCashCutRequest struct {
	WarehouseID   string          `json:"warehouse_id"`
	OpeningAmount decimal.Decimal `json:"opening_amount"`
}

// RegisterCashMovementRequest body para adjuntar un movimiento al corte.
type RegisterCashMovementRequest struct {
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	ReferenceType string          `json:"reference_type,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// CloseCashCutRequest body para cerrar el corte con el conteo real.
type CloseCashCutRequest struct {
	ActualFinalAmount decimal.Decimal `json:"actual_final_amount"`
	Notes             string          `json:"notes,omitempty"`
}

// CashCutResponse corte de caja.
type CashCutResponse struct {
	ID                  string           `json:"id"`
	WarehouseID         string           `json:"warehouse_id"`
	OpenedBy            string           `json:"opened_by"`
	OpenedAt            time.Time        `json:"opened_at"`
	ClosedBy            string           `json:"closed_by,omitempty"`
	ClosedAt            *time.Time       `json:"closed_at,omitempty"`
	OpeningAmount       decimal.Decimal  `json:"opening_amount"`
	CashSales           decimal.Decimal  `json:"cash_sales"`
	CardSales           decimal.Decimal  `json:"card_sales"`
	TransferSales       decimal.Decimal  `json:"transfer_sales"`
	TotalExpenses       decimal.Decimal  `json:"total_expenses"`
	ExpectedFinalAmount *decimal.Decimal `json:"expected_final_amount,omitempty"`
	ActualFinalAmount   *decimal.Decimal `json:"actual_final_amount,omitempty"`
	Difference          *decimal.Decimal `json:"difference,omitempty"`
	TransactionCount    int              `json:"transaction_count"`
	Notes               string           `json:"notes,omitempty"`
}

// CashMovementResponse movimiento de caja.
type CashMovementResponse struct {
	ID            string          `json:"id"`
	CashCutID     string          `json:"cash_cut_id"`
	WarehouseID   string          `json:"warehouse_id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	ReferenceType string          `json:"reference_type,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	CreatedBy     string          `json:"created_by"`
}

// CreateExpenseRequest body para registrar un gasto operativo.
type CreateExpenseRequest struct {
	WarehouseID   string          `json:"warehouse_id"`
	CategoryID    string          `json:"category_id"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	ExpenseDate   *time.Time      `json:"expense_date,omitempty"`
	ReceiptNumber string          `json:"receipt_number,omitempty"`
	Supplier      string          `json:"supplier,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// ExpenseResponse gasto operativo.
type ExpenseResponse struct {
	ID            string          `json:"id"`
	WarehouseID   string          `json:"warehouse_id"`
	CategoryID    string          `json:"category_id"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	ExpenseDate   time.Time       `json:"expense_date"`
	Status        string          `json:"status"`
	ApprovedBy    string          `json:"approved_by,omitempty"`
	ApprovalDate  *time.Time      `json:"approval_date,omitempty"`
	ReceiptNumber string          `json:"receipt_number,omitempty"`
	Supplier      string          `json:"supplier,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	CreatedBy     string          `json:"created_by"`
}

// CreateExpenseCategoryRequest body para alta de categoría de gasto.
type CreateExpenseCategoryRequest struct {
	Name        string `json:"name"`
	Code        string `json:"code,omitempty"`
	Description string `json:"description,omitempty"`
}

// ExpenseCategoryResponse categoría de gasto.
type ExpenseCategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code,omitempty"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
}
