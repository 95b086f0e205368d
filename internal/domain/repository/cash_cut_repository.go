package repository

import (
	"context"

	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
)

// CashCutRepository define el puerto de persistencia para cortes de caja.
type CashCutRepository interface {
	Create(ctx context.Context, cut *entity.CashCut) error
	GetByID(ctx context.Context, id string) (*entity.CashCut, error)
	// GetByIDForUpdate bloquea la fila del corte; los acumuladores solo se
	// tocan con el corte bloqueado.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.CashCut, error)
	// GetOpenByWarehouse devuelve el corte abierto de la bodega o nil.
	GetOpenByWarehouse(ctx context.Context, warehouseID string) (*entity.CashCut, error)
	GetOpenByWarehouseForUpdate(ctx context.Context, warehouseID string) (*entity.CashCut, error)
	Update(ctx context.Context, cut *entity.CashCut) error
	ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.CashCut, error)
}

// CashMovementRepository define el puerto append-only de movimientos de caja.
type CashMovementRepository interface {
	Append(ctx context.Context, movement *entity.CashMovement) error
	ListByCashCut(ctx context.Context, cashCutID string) ([]*entity.CashMovement, error)
}
