package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
	"github.com/tu-usuario/almacen-pro/internal/domain/repository"
)

var _ repository.CashMovementRepository = (*CashMovementRepo)(nil)

// CashMovementRepo implementación append-only sobre PostgreSQL.
type CashMovementRepo struct {
	q Querier
}

// NewCashMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashMovementRepository(q Querier) *CashMovementRepo {
	return &CashMovementRepo{q: q}
}

// Append persiste un movimiento de caja. No hay update ni delete.
func (r *CashMovementRepo) Append(ctx context.Context, movement *entity.CashMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO cash_movements (id, cash_cut_id, warehouse_id, type, amount, reference_id, reference_type, notes, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.CashCutID, movement.WarehouseID, movement.Type,
		movement.Amount, movement.ReferenceID, movement.ReferenceType,
		movement.Notes, movement.CreatedAt, movement.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("append cash movement: %w", err)
	}
	return nil
}

// ListByCashCut lista los movimientos de un corte en orden cronológico.
func (r *CashMovementRepo) ListByCashCut(ctx context.Context, cashCutID string) ([]*entity.CashMovement, error) {
	query := `
		SELECT id, cash_cut_id, warehouse_id, type, amount, reference_id, reference_type, notes, created_at, created_by
		FROM cash_movements WHERE cash_cut_id = $1
		ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, cashCutID)
	if err != nil {
		return nil, fmt.Errorf("list cash movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.CashMovement
	for rows.Next() {
		var m entity.CashMovement
		if err := rows.Scan(
			&m.ID, &m.CashCutID, &m.WarehouseID, &m.Type, &m.Amount,
			&m.ReferenceID, &m.ReferenceType, &m.Notes, &m.CreatedAt, &m.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan cash movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
