package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashCut es la sesión de caja de una bodega: acota un conjunto de
// movimientos de efectivo y se concilia al cierre. Invariante: a lo sumo un
// corte abierto (ClosedAt == nil) por bodega.
type CashCut struct {
	ID            string
	WarehouseID   string
	OpenedBy      string
	OpenedAt      time.Time
	ClosedBy      string
	ClosedAt      *time.Time
	OpeningAmount decimal.Decimal

	// Acumuladores mantenidos en cada registro de movimiento.
	CashSales     decimal.Decimal
	CardSales     decimal.Decimal
	TransferSales decimal.Decimal
	TotalExpenses decimal.Decimal

	// Conciliación al cierre. Esperado = apertura + ventas en efectivo -
	// gastos; tarjeta y transferencia no son efectivo en caja.
	ExpectedFinalAmount *decimal.Decimal
	ActualFinalAmount   *decimal.Decimal
	Difference          *decimal.Decimal // actual - esperado

	TransactionCount int
	Notes            string
}

// IsClosed indica si el corte ya fue cerrado (irreversible).
func (c *CashCut) IsClosed() bool {
	return c.ClosedAt != nil
}
