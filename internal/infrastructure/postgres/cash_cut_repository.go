package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/almacen-pro/internal/domain"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
	"github.com/tu-usuario/almacen-pro/internal/domain/repository"
)

var _ repository.CashCutRepository = (*CashCutRepo)(nil)

// CashCutRepo implementación sobre PostgreSQL. El índice único parcial
// cash_cuts_one_open_per_warehouse (warehouse_id WHERE closed_at IS NULL)
// respalda en BD la regla de un solo corte abierto por bodega.
type CashCutRepo struct {
	q Querier
}

// NewCashCutRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashCutRepository(q Querier) *CashCutRepo {
	return &CashCutRepo{q: q}
}

const cashCutCols = `id, warehouse_id, opened_by, opened_at, closed_by, closed_at, opening_amount,
		cash_sales, card_sales, transfer_sales, total_expenses,
		expected_final_amount, actual_final_amount, difference, transaction_count, notes`

// Create persiste un corte nuevo (abierto).
func (r *CashCutRepo) Create(ctx context.Context, cut *entity.CashCut) error {
	query := `
		INSERT INTO cash_cuts (` + cashCutCols + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		cut.ID, cut.WarehouseID, cut.OpenedBy, cut.OpenedAt, cut.ClosedBy, cut.ClosedAt,
		cut.OpeningAmount, cut.CashSales, cut.CardSales, cut.TransferSales, cut.TotalExpenses,
		cut.ExpectedFinalAmount, cut.ActualFinalAmount, cut.Difference, cut.TransactionCount, cut.Notes,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("bodega %s: %w", cut.WarehouseID, domain.ErrCashCutAlreadyOpen)
		}
		return fmt.Errorf("create cash cut: %w", err)
	}
	return nil
}

// GetByID obtiene un corte por ID; nil si no existe.
func (r *CashCutRepo) GetByID(ctx context.Context, id string) (*entity.CashCut, error) {
	query := `SELECT ` + cashCutCols + ` FROM cash_cuts WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

// GetByIDForUpdate obtiene y bloquea el corte (SELECT FOR UPDATE).
func (r *CashCutRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.CashCut, error) {
	query := `SELECT ` + cashCutCols + ` FROM cash_cuts WHERE id = $1 FOR UPDATE`
	return r.scanOne(ctx, query, id)
}

// GetOpenByWarehouse devuelve el corte abierto de la bodega o nil.
func (r *CashCutRepo) GetOpenByWarehouse(ctx context.Context, warehouseID string) (*entity.CashCut, error) {
	query := `SELECT ` + cashCutCols + ` FROM cash_cuts WHERE warehouse_id = $1 AND closed_at IS NULL`
	return r.scanOne(ctx, query, warehouseID)
}

// GetOpenByWarehouseForUpdate devuelve y bloquea el corte abierto o nil.
func (r *CashCutRepo) GetOpenByWarehouseForUpdate(ctx context.Context, warehouseID string) (*entity.CashCut, error) {
	query := `SELECT ` + cashCutCols + ` FROM cash_cuts WHERE warehouse_id = $1 AND closed_at IS NULL FOR UPDATE`
	return r.scanOne(ctx, query, warehouseID)
}

func (r *CashCutRepo) scanOne(ctx context.Context, query string, arg any) (*entity.CashCut, error) {
	var c entity.CashCut
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&c.ID, &c.WarehouseID, &c.OpenedBy, &c.OpenedAt, &c.ClosedBy, &c.ClosedAt,
		&c.OpeningAmount, &c.CashSales, &c.CardSales, &c.TransferSales, &c.TotalExpenses,
		&c.ExpectedFinalAmount, &c.ActualFinalAmount, &c.Difference, &c.TransactionCount, &c.Notes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cash cut: %w", err)
	}
	return &c, nil
}

// Update reescribe acumuladores, conciliación y cierre.
func (r *CashCutRepo) Update(ctx context.Context, cut *entity.CashCut) error {
	query := `
		UPDATE cash_cuts SET
			closed_by = $2, closed_at = $3,
			cash_sales = $4, card_sales = $5, transfer_sales = $6, total_expenses = $7,
			expected_final_amount = $8, actual_final_amount = $9, difference = $10,
			transaction_count = $11, notes = $12
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		cut.ID, cut.ClosedBy, cut.ClosedAt,
		cut.CashSales, cut.CardSales, cut.TransferSales, cut.TotalExpenses,
		cut.ExpectedFinalAmount, cut.ActualFinalAmount, cut.Difference,
		cut.TransactionCount, cut.Notes,
	)
	if err != nil {
		return fmt.Errorf("update cash cut: %w", err)
	}
	return nil
}

// ListByWarehouse lista cortes de una bodega, el más reciente primero.
func (r *CashCutRepo) ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.CashCut, error) {
	query := `
		SELECT ` + cashCutCols + `
		FROM cash_cuts WHERE warehouse_id = $1
		ORDER BY opened_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list cash cuts: %w", err)
	}
	defer rows.Close()

	var list []*entity.CashCut
	for rows.Next() {
		var c entity.CashCut
		if err := rows.Scan(
			&c.ID, &c.WarehouseID, &c.OpenedBy, &c.OpenedAt, &c.ClosedBy, &c.ClosedAt,
			&c.OpeningAmount, &c.CashSales, &c.CardSales, &c.TransferSales, &c.TotalExpenses,
			&c.ExpectedFinalAmount, &c.ActualFinalAmount, &c.Difference, &c.TransactionCount, &c.Notes,
		); err != nil {
			return nil, fmt.Errorf("scan cash cut: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
