package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de caja. Cada tipo alimenta un acumulador del corte.
const (
	CashMovementSaleCash     = "sale_cash"
	CashMovementSaleCard     = "sale_card"
	CashMovementSaleTransfer = "sale_transfer"
	CashMovementExpense      = "expense"
)

// ValidCashMovementType valida el tipo de movimiento de caja.
func ValidCashMovementType(t string) bool {
	switch t {
	case CashMovementSaleCash, CashMovementSaleCard, CashMovementSaleTransfer, CashMovementExpense:
		return true
	}
	return false
}

// CashMovement es un movimiento de efectivo, siempre adjunto al corte de
// caja abierto de su bodega. Append-only.
type CashMovement struct {
	ID            string
	CashCutID     string
	WarehouseID   string
	Type          string
	Amount        decimal.Decimal
	ReferenceID   string // venta, gasto
	ReferenceType string
	Notes         string
	CreatedAt     time.Time
	CreatedBy     string
}
