package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSaleLineRequest línea de una venta nueva.
type CreateSaleLineRequest struct {
	ProductID string           `json:"product_id"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Discount  decimal.Decimal  `json:"discount,omitempty"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	WarehouseID      string                  `json:"warehouse_id"`
	CustomerName     string                  `json:"customer_name,omitempty"`
	PaymentMethod    string                  `json:"payment_method"`
	Discount         decimal.Decimal         `json:"discount,omitempty"`
	AmountReceived   *decimal.Decimal        `json:"amount_received,omitempty"`
	PaymentReference string                  `json:"payment_reference,omitempty"`
	Notes            string                  `json:"notes,omitempty"`
	Details          []CreateSaleLineRequest `json:"details"`
}

// SaleDetailResponse línea de la venta.
type SaleDetailResponse struct {
	ProductID   string          `json:"product_id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
}

// SaleResponse venta completa.
type SaleResponse struct {
	ID               string               `json:"id"`
	SaleNumber       string               `json:"sale_number"`
	WarehouseID      string               `json:"warehouse_id"`
	CustomerName     string               `json:"customer_name,omitempty"`
	UserID           string               `json:"user_id"`
	PaymentMethod    string               `json:"payment_method"`
	Details          []SaleDetailResponse `json:"details"`
	Subtotal         decimal.Decimal      `json:"subtotal"`
	Discount         decimal.Decimal      `json:"discount"`
	Total            decimal.Decimal      `json:"total"`
	AmountReceived   *decimal.Decimal     `json:"amount_received,omitempty"`
	Change           *decimal.Decimal     `json:"change,omitempty"`
	Status           string               `json:"status"`
	SaleDate         time.Time            `json:"sale_date"`
	PaymentReference string               `json:"payment_reference,omitempty"`
	Notes            string               `json:"notes,omitempty"`
	CancelledBy      string               `json:"cancelled_by,omitempty"`
	CancelledAt      *time.Time           `json:"cancelled_at,omitempty"`
}
