package repository

import (
	"context"

	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
)

// ExpenseRepository define el puerto de persistencia para gastos operativos.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *entity.OperationalExpense) error
	GetByID(ctx context.Context, id string) (*entity.OperationalExpense, error)
	// GetByIDForUpdate bloquea el gasto durante la aprobación o rechazo para
	// que dos aprobadores no lo resuelvan a la vez.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.OperationalExpense, error)
	Update(ctx context.Context, expense *entity.OperationalExpense) error
	ListByWarehouse(ctx context.Context, warehouseID, status string, limit, offset int) ([]*entity.OperationalExpense, error)
}

// ExpenseCategoryRepository define el puerto de persistencia para categorías
// de gasto.
type ExpenseCategoryRepository interface {
	Create(ctx context.Context, category *entity.ExpenseCategory) error
	GetByID(ctx context.Context, id string) (*entity.ExpenseCategory, error)
	Update(ctx context.Context, category *entity.ExpenseCategory) error
	List(ctx context.Context, limit, offset int) ([]*entity.ExpenseCategory, error)
}
