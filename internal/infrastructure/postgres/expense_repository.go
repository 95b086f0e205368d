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

var _ repository.ExpenseRepository = (*ExpenseRepo)(nil)
var _ repository.ExpenseCategoryRepository = (*ExpenseCategoryRepo)(nil)

// ExpenseRepo implementación sobre PostgreSQL.
type ExpenseRepo struct {
	q Querier
}

// NewExpenseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewExpenseRepository(q Querier) *ExpenseRepo {
	return &ExpenseRepo{q: q}
}

const expenseCols = `id, warehouse_id, category_id, description, amount, expense_date, status,
		approved_by, approval_date, receipt_number, supplier, notes, created_at, created_by`

// Create persiste un gasto (pendiente).
func (r *ExpenseRepo) Create(ctx context.Context, expense *entity.OperationalExpense) error {
	query := `
		INSERT INTO operational_expenses (` + expenseCols + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		expense.ID, expense.WarehouseID, expense.CategoryID, expense.Description,
		expense.Amount, expense.ExpenseDate, expense.Status,
		expense.ApprovedBy, expense.ApprovalDate, expense.ReceiptNumber,
		expense.Supplier, expense.Notes, expense.CreatedAt, expense.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create expense: %w", err)
	}
	return nil
}

// GetByID obtiene un gasto por ID; nil si no existe.
func (r *ExpenseRepo) GetByID(ctx context.Context, id string) (*entity.OperationalExpense, error) {
	query := `SELECT ` + expenseCols + ` FROM operational_expenses WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

// GetByIDForUpdate obtiene y bloquea el gasto (SELECT FOR UPDATE).
func (r *ExpenseRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.OperationalExpense, error) {
	query := `SELECT ` + expenseCols + ` FROM operational_expenses WHERE id = $1 FOR UPDATE`
	return r.scanOne(ctx, query, id)
}

func (r *ExpenseRepo) scanOne(ctx context.Context, query, id string) (*entity.OperationalExpense, error) {
	var e entity.OperationalExpense
	err := r.q.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.WarehouseID, &e.CategoryID, &e.Description, &e.Amount,
		&e.ExpenseDate, &e.Status, &e.ApprovedBy, &e.ApprovalDate,
		&e.ReceiptNumber, &e.Supplier, &e.Notes, &e.CreatedAt, &e.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return &e, nil
}

// Update reescribe estado y resolución del gasto.
func (r *ExpenseRepo) Update(ctx context.Context, expense *entity.OperationalExpense) error {
	query := `
		UPDATE operational_expenses SET
			description = $2, amount = $3, expense_date = $4, status = $5,
			approved_by = $6, approval_date = $7, receipt_number = $8, supplier = $9, notes = $10
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		expense.ID, expense.Description, expense.Amount, expense.ExpenseDate, expense.Status,
		expense.ApprovedBy, expense.ApprovalDate, expense.ReceiptNumber, expense.Supplier, expense.Notes,
	)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return nil
}

// ListByWarehouse lista gastos de una bodega, con filtro opcional de estado.
func (r *ExpenseRepo) ListByWarehouse(ctx context.Context, warehouseID, status string, limit, offset int) ([]*entity.OperationalExpense, error) {
	query := `SELECT ` + expenseCols + ` FROM operational_expenses WHERE warehouse_id = $1`
	args := []any{warehouseID}
	pos := 2
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY expense_date DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var list []*entity.OperationalExpense
	for rows.Next() {
		var e entity.OperationalExpense
		if err := rows.Scan(
			&e.ID, &e.WarehouseID, &e.CategoryID, &e.Description, &e.Amount,
			&e.ExpenseDate, &e.Status, &e.ApprovedBy, &e.ApprovalDate,
			&e.ReceiptNumber, &e.Supplier, &e.Notes, &e.CreatedAt, &e.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// ExpenseCategoryRepo implementación sobre PostgreSQL.
type ExpenseCategoryRepo struct {
	q Querier
}

// NewExpenseCategoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewExpenseCategoryRepository(q Querier) *ExpenseCategoryRepo {
	return &ExpenseCategoryRepo{q: q}
}

const expenseCategoryCols = `id, name, code, description, status, created_at, updated_at`

// Create persiste una categoría; nombre duplicado -> domain.ErrDuplicate.
func (r *ExpenseCategoryRepo) Create(ctx context.Context, category *entity.ExpenseCategory) error {
	query := `
		INSERT INTO expense_categories (` + expenseCategoryCols + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		category.ID, category.Name, category.Code, category.Description,
		category.Status, category.CreatedAt, category.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("categoría %s: %w", category.Name, domain.ErrDuplicate)
		}
		return fmt.Errorf("create expense category: %w", err)
	}
	return nil
}

// GetByID obtiene una categoría por ID; nil si no existe.
func (r *ExpenseCategoryRepo) GetByID(ctx context.Context, id string) (*entity.ExpenseCategory, error) {
	query := `SELECT ` + expenseCategoryCols + ` FROM expense_categories WHERE id = $1`
	var c entity.ExpenseCategory
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Code, &c.Description, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get expense category: %w", err)
	}
	return &c, nil
}

// Update actualiza una categoría.
func (r *ExpenseCategoryRepo) Update(ctx context.Context, category *entity.ExpenseCategory) error {
	query := `
		UPDATE expense_categories SET
			name = $2, code = $3, description = $4, status = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		category.ID, category.Name, category.Code, category.Description,
		category.Status, category.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("categoría %s: %w", category.Name, domain.ErrDuplicate)
		}
		return fmt.Errorf("update expense category: %w", err)
	}
	return nil
}

// List lista categorías por nombre.
func (r *ExpenseCategoryRepo) List(ctx context.Context, limit, offset int) ([]*entity.ExpenseCategory, error) {
	query := `
		SELECT ` + expenseCategoryCols + `
		FROM expense_categories ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list expense categories: %w", err)
	}
	defer rows.Close()

	var list []*entity.ExpenseCategory
	for rows.Next() {
		var c entity.ExpenseCategory
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Code, &c.Description, &c.Status, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan expense category: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
