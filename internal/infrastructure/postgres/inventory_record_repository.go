package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
	"github.com/tu-usuario/almacen-pro/internal/domain/repository"
)

var _ repository.InventoryRecordRepository = (*InventoryRecordRepo)(nil)

// InventoryRecordRepo implementación sobre PostgreSQL (usable con pool o tx).
type InventoryRecordRepo struct {
	q Querier
}

// NewInventoryRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRecordRepository(q Querier) *InventoryRecordRepo {
	return &InventoryRecordRepo{q: q}
}

const inventoryRecordCols = `warehouse_id, product_id, physical_quantity, reserved_quantity, min_stock, max_stock, updated_at`

// Get obtiene el registro de existencias; si no existe devuelve uno en cero
// para la clave.
func (r *InventoryRecordRepo) Get(ctx context.Context, warehouseID, productID string) (*entity.InventoryRecord, error) {
	query := `
		SELECT ` + inventoryRecordCols + `
		FROM inventory_records WHERE warehouse_id = $1 AND product_id = $2`
	return r.scanOne(ctx, query, warehouseID, productID)
}

// GetForUpdate obtiene el registro y bloquea la fila (SELECT FOR UPDATE).
func (r *InventoryRecordRepo) GetForUpdate(ctx context.Context, warehouseID, productID string) (*entity.InventoryRecord, error) {
	query := `
		SELECT ` + inventoryRecordCols + `
		FROM inventory_records WHERE warehouse_id = $1 AND product_id = $2
		FOR UPDATE`
	return r.scanOne(ctx, query, warehouseID, productID)
}

func (r *InventoryRecordRepo) scanOne(ctx context.Context, query, warehouseID, productID string) (*entity.InventoryRecord, error) {
	var rec entity.InventoryRecord
	err := r.q.QueryRow(ctx, query, warehouseID, productID).Scan(
		&rec.WarehouseID, &rec.ProductID, &rec.PhysicalQuantity, &rec.ReservedQuantity,
		&rec.MinStock, &rec.MaxStock, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.InventoryRecord{
				WarehouseID:      warehouseID,
				ProductID:        productID,
				PhysicalQuantity: decimal.Zero,
				ReservedQuantity: decimal.Zero,
				MinStock:         decimal.Zero,
			}, nil
		}
		return nil, fmt.Errorf("get inventory record: %w", err)
	}
	return &rec, nil
}

// Upsert inserta o actualiza el registro de la clave (bodega, producto).
func (r *InventoryRecordRepo) Upsert(ctx context.Context, record *entity.InventoryRecord) error {
	query := `
		INSERT INTO inventory_records (warehouse_id, product_id, physical_quantity, reserved_quantity, min_stock, max_stock, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (warehouse_id, product_id)
		DO UPDATE SET
			physical_quantity = EXCLUDED.physical_quantity,
			reserved_quantity = EXCLUDED.reserved_quantity,
			min_stock = EXCLUDED.min_stock,
			max_stock = EXCLUDED.max_stock,
			updated_at = now()`
	_, err := r.q.Exec(ctx, query,
		record.WarehouseID, record.ProductID, record.PhysicalQuantity,
		record.ReservedQuantity, record.MinStock, record.MaxStock,
	)
	if err != nil {
		return fmt.Errorf("upsert inventory record: %w", err)
	}
	return nil
}

// ListByWarehouse lista los registros de una bodega con paginación.
func (r *InventoryRecordRepo) ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.InventoryRecord, error) {
	query := `
		SELECT ` + inventoryRecordCols + `
		FROM inventory_records WHERE warehouse_id = $1
		ORDER BY product_id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory records: %w", err)
	}
	defer rows.Close()
	return scanInventoryRecords(rows)
}

// ListBelowMinimum devuelve los registros con disponible por debajo del
// stock mínimo configurado.
func (r *InventoryRecordRepo) ListBelowMinimum(ctx context.Context, warehouseID string) ([]*entity.InventoryRecord, error) {
	query := `
		SELECT ` + inventoryRecordCols + `
		FROM inventory_records
		WHERE warehouse_id = $1
		  AND min_stock > 0
		  AND (physical_quantity - reserved_quantity) < min_stock
		ORDER BY product_id`
	rows, err := r.q.Query(ctx, query, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list below minimum: %w", err)
	}
	defer rows.Close()
	return scanInventoryRecords(rows)
}

func scanInventoryRecords(rows pgx.Rows) ([]*entity.InventoryRecord, error) {
	var list []*entity.InventoryRecord
	for rows.Next() {
		var rec entity.InventoryRecord
		if err := rows.Scan(
			&rec.WarehouseID, &rec.ProductID, &rec.PhysicalQuantity, &rec.ReservedQuantity,
			&rec.MinStock, &rec.MaxStock, &rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan inventory record: %w", err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}
