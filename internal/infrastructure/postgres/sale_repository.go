package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/almacen-pro/internal/domain"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
	"github.com/tu-usuario/almacen-pro/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación sobre PostgreSQL. Las líneas de la venta se
// guardan embebidas como JSONB en la misma fila, igual que en los traspasos.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleCols = `id, sale_number, warehouse_id, customer_name, user_id, payment_method, details,
		subtotal, discount, total, amount_received, change, status, sale_date,
		payment_reference, notes, cancelled_by, cancelled_at`

// Create persiste una venta nueva.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	details, err := json.Marshal(sale.Details)
	if err != nil {
		return fmt.Errorf("marshal sale details: %w", err)
	}
	query := `
		INSERT INTO sales (` + saleCols + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err = r.q.Exec(ctx, query,
		sale.ID, sale.SaleNumber, sale.WarehouseID, sale.CustomerName, sale.UserID, sale.PaymentMethod, details,
		sale.Subtotal, sale.Discount, sale.Total, sale.AmountReceived, sale.Change, sale.Status, sale.SaleDate,
		sale.PaymentReference, sale.Notes, sale.CancelledBy, sale.CancelledAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("sale number %s: %w", sale.SaleNumber, domain.ErrDuplicate)
		}
		return fmt.Errorf("create sale: %w", err)
	}
	return nil
}

// GetByID obtiene una venta por ID; nil si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	query := `SELECT ` + saleCols + ` FROM sales WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

// GetByIDForUpdate obtiene y bloquea la venta (SELECT FOR UPDATE) para
// cancelarla sin carreras.
func (r *SaleRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	query := `SELECT ` + saleCols + ` FROM sales WHERE id = $1 FOR UPDATE`
	return r.scanOne(ctx, query, id)
}

func (r *SaleRepo) scanOne(ctx context.Context, query, id string) (*entity.Sale, error) {
	var s entity.Sale
	var details []byte
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.SaleNumber, &s.WarehouseID, &s.CustomerName, &s.UserID, &s.PaymentMethod, &details,
		&s.Subtotal, &s.Discount, &s.Total, &s.AmountReceived, &s.Change, &s.Status, &s.SaleDate,
		&s.PaymentReference, &s.Notes, &s.CancelledBy, &s.CancelledAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if err := json.Unmarshal(details, &s.Details); err != nil {
		return nil, fmt.Errorf("unmarshal sale details: %w", err)
	}
	return &s, nil
}

// Update reescribe el estado y los metadatos de cancelación de la venta.
func (r *SaleRepo) Update(ctx context.Context, sale *entity.Sale) error {
	query := `
		UPDATE sales SET
			status = $2, notes = $3, cancelled_by = $4, cancelled_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		sale.ID, sale.Status, sale.Notes, sale.CancelledBy, sale.CancelledAt,
	)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	return nil
}

// ListByWarehouse lista ventas de la bodega filtrando opcionalmente por
// estado y rango de fechas.
func (r *SaleRepo) ListByWarehouse(ctx context.Context, warehouseID, status string, from, to *time.Time, limit, offset int) ([]*entity.Sale, error) {
	query := `SELECT ` + saleCols + ` FROM sales WHERE warehouse_id = $1`
	args := []any{warehouseID}
	pos := 2
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, status)
		pos++
	}
	if from != nil {
		query += fmt.Sprintf(" AND sale_date >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND sale_date <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY sale_date DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		var details []byte
		if err := rows.Scan(
			&s.ID, &s.SaleNumber, &s.WarehouseID, &s.CustomerName, &s.UserID, &s.PaymentMethod, &details,
			&s.Subtotal, &s.Discount, &s.Total, &s.AmountReceived, &s.Change, &s.Status, &s.SaleDate,
			&s.PaymentReference, &s.Notes, &s.CancelledBy, &s.CancelledAt,
		); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		if err := json.Unmarshal(details, &s.Details); err != nil {
			return nil, fmt.Errorf("unmarshal sale details: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
