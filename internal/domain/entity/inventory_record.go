package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryRecord es el registro de existencias de un producto en una
// bodega. Invariante: 0 <= ReservedQuantity <= PhysicalQuantity. El
// disponible es derivado, nunca se almacena.
type InventoryRecord struct {
	WarehouseID      string
	ProductID        string
	PhysicalQuantity decimal.Decimal
	ReservedQuantity decimal.Decimal
	MinStock         decimal.Decimal
	MaxStock         *decimal.Decimal // nil = sin tope
	UpdatedAt        time.Time
}

// Available devuelve el disponible para venta o apartado:
// físico - reservado.
func (r *InventoryRecord) Available() decimal.Decimal {
	return r.PhysicalQuantity.Sub(r.ReservedQuantity)
}
