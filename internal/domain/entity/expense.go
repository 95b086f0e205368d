package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del gasto operativo: pending -> approved | rejected (terminales).
const (
	ExpenseStatusPending  = "pending"
	ExpenseStatusApproved = "approved"
	ExpenseStatusRejected = "rejected"
)

// ExpenseCategory clasifica gastos operativos. Solo categorías activas
// admiten gastos nuevos.
type ExpenseCategory struct {
	ID          string
	Name        string // único
	Code        string
	Description string
	Status      string // active, inactive
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OperationalExpense es un gasto de la bodega sujeto a aprobación. Al
// aprobarse registra un movimiento de caja contra el corte abierto.
type OperationalExpense struct {
	ID            string
	WarehouseID   string
	CategoryID    string
	Description   string
	Amount        decimal.Decimal
	ExpenseDate   time.Time
	Status        string
	ApprovedBy    string
	ApprovalDate  *time.Time
	ReceiptNumber string
	Supplier      string
	Notes         string
	CreatedAt     time.Time
	CreatedBy     string
}
