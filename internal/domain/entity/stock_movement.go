package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeIn          = "in"           // entrada (reposición, recepción)
	MovementTypeOut         = "out"          // salida (venta confirmada)
	MovementTypeReserve     = "reserve"      // apartado contra disponible
	MovementTypeRelease     = "release"      // liberación de apartado
	MovementTypeAdjust      = "adjust"       // corrección directa de físico
	MovementTypeTransferOut = "transfer_out" // salida por traspaso
	MovementTypeTransferIn  = "transfer_in"  // entrada por traspaso
)

// Tipos de referencia de un movimiento.
const (
	ReferenceTypeSale          = "sale"
	ReferenceTypeCancelledSale = "cancelled_sale"
	ReferenceTypeTransfer      = "transfer"
	ReferenceTypeAdjustment    = "adjustment"
)

// StockMovement es un registro inmutable de un cambio de estado del
// inventario. Una fila por cambio; forma la pista de auditoría y permite
// recalcular saldos si el registro necesita reparación.
type StockMovement struct {
	ID                string
	WarehouseID       string
	ProductID         string
	Type              string
	Quantity          decimal.Decimal // siempre positiva; el tipo indica el sentido
	ResultingPhysical decimal.Decimal
	ResultingReserved decimal.Decimal
	ReferenceID       string // venta, traspaso, nota de ajuste
	ReferenceType     string
	Reason            string
	CreatedAt         time.Time
	CreatedBy         string // UserID del actor
}
