package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para ventas.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// GetByIDForUpdate bloquea la fila de la venta; la cancelación restaura
	// existencias con la venta bloqueada.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	Update(ctx context.Context, sale *entity.Sale) error
	ListByWarehouse(ctx context.Context, warehouseID, status string, from, to *time.Time, limit, offset int) ([]*entity.Sale, error)
}
