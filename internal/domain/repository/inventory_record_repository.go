package repository

import (
	"context"

	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
)

// InventoryRecordRepository define el puerto para el registro de existencias
// por (bodega, producto). Las mutaciones van siempre dentro de una
// transacción con GetForUpdate para que lectura y escritura sean indivisibles
// frente a llamadas concurrentes sobre la misma clave.
type InventoryRecordRepository interface {
	// Get devuelve el registro; si no existe, un registro en cero para la clave.
	Get(ctx context.Context, warehouseID, productID string) (*entity.InventoryRecord, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, warehouseID, productID string) (*entity.InventoryRecord, error)
	Upsert(ctx context.Context, record *entity.InventoryRecord) error
	ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.InventoryRecord, error)
	// ListBelowMinimum devuelve los registros con disponible por debajo de su
	// stock mínimo. Es una consulta, no una condición de error.
	ListBelowMinimum(ctx context.Context, warehouseID string) ([]*entity.InventoryRecord, error)
}
