package repository

import (
	"context"

	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
)

// TransferRepository define el puerto de persistencia para traspasos.
// Un registro por Transfer con sus detalles embebidos.
type TransferRepository interface {
	Create(ctx context.Context, transfer *entity.Transfer) error
	GetByID(ctx context.Context, id string) (*entity.Transfer, error)
	// GetByIDForUpdate bloquea el traspaso mientras se valida y aplica la
	// transición, evitando dos despachos en carrera.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Transfer, error)
	Update(ctx context.Context, transfer *entity.Transfer) error
	List(ctx context.Context, status, warehouseID string, limit, offset int) ([]*entity.Transfer, error)
}

// GoodsInTransitRepository define el puerto del registro de tránsito (1:1
// con un traspaso despachado).
type GoodsInTransitRepository interface {
	Create(ctx context.Context, transit *entity.GoodsInTransit) error
	GetByTransferID(ctx context.Context, transferID string) (*entity.GoodsInTransit, error)
	Update(ctx context.Context, transit *entity.GoodsInTransit) error
}
