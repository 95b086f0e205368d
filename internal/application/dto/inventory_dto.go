package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockOperationRequest body para reservar, liberar, consumar salida o
// recibir entrada sobre una clave (bodega, producto).
type StockOperationRequest struct {
	WarehouseID   string          `json:"warehouse_id"`
	ProductID     string          `json:"product_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	ReferenceType string          `json:"reference_type,omitempty"`
	Reason        string          `json:"reason,omitempty"`
}

// AdjustStockRequest body para ajuste directo de físico.
type AdjustStockRequest struct {
	WarehouseID string          `json:"warehouse_id"`
	ProductID   string          `json:"product_id"`
	Delta       decimal.Decimal `json:"delta"`
	Reason      string          `json:"reason"`
}

// StockLimitsRequest body para fijar stock mínimo/máximo.
type StockLimitsRequest struct {
	WarehouseID string           `json:"warehouse_id"`
	ProductID   string           `json:"product_id"`
	MinStock    decimal.Decimal  `json:"min_stock"`
	MaxStock    *decimal.Decimal `json:"max_stock,omitempty"`
}

// InventoryRecordResponse existencias de una clave.
type InventoryRecordResponse struct {
	WarehouseID       string           `json:"warehouse_id"`
	ProductID         string           `json:"product_id"`
	PhysicalQuantity  decimal.Decimal  `json:"physical_quantity"`
	ReservedQuantity  decimal.Decimal  `json:"reserved_quantity"`
	AvailableQuantity decimal.Decimal  `json:"available_quantity"`
	MinStock          decimal.Decimal  `json:"min_stock"`
	MaxStock          *decimal.Decimal `json:"max_stock,omitempty"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// StockMovementResponse fila de la bitácora de movimientos.
type StockMovementResponse struct {
	ID                string          `json:"id"`
	WarehouseID       string          `json:"warehouse_id"`
	ProductID         string          `json:"product_id"`
	Type              string          `json:"type"`
	Quantity          decimal.Decimal `json:"quantity"`
	ResultingPhysical decimal.Decimal `json:"resulting_physical"`
	ResultingReserved decimal.Decimal `json:"resulting_reserved"`
	ReferenceID       string          `json:"reference_id,omitempty"`
	ReferenceType     string          `json:"reference_type,omitempty"`
	Reason            string          `json:"reason,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	CreatedBy         string          `json:"created_by"`
}
