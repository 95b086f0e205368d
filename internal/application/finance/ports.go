package finance

import (
	"context"

	"github.com/tu-usuario/almacen-pro/internal/domain/repository"
)

// TxRunner ejecuta funciones dentro de una transacción de BD con los
// repositorios del libro de caja. El corte se bloquea (SELECT FOR UPDATE)
// antes de tocar acumuladores para que el registro de movimientos sea
// linealizable por bodega.
type TxRunner interface {
	RunCash(ctx context.Context, fn func(
		cutRepo repository.CashCutRepository,
		movRepo repository.CashMovementRepository,
	) error) error

	// RunExpense añade el repositorio de gastos: la aprobación resuelve el
	// gasto y registra su movimiento de caja en la misma transacción.
	RunExpense(ctx context.Context, fn func(
		expenseRepo repository.ExpenseRepository,
		cutRepo repository.CashCutRepository,
		movRepo repository.CashMovementRepository,
	) error) error
}
