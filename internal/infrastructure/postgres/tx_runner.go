package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/almacen-pro/internal/application/finance"
	"github.com/tu-usuario/almacen-pro/internal/application/inventory"
	"github.com/tu-usuario/almacen-pro/internal/application/sale"
	"github.com/tu-usuario/almacen-pro/internal/application/transfer"
	"github.com/tu-usuario/almacen-pro/internal/domain"
	"github.com/tu-usuario/almacen-pro/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)
var _ transfer.TxRunner = (*TxRunner)(nil)
var _ finance.TxRunner = (*TxRunner)(nil)
var _ sale.TxRunner = (*TxRunner)(nil)

// Reintentos ante fallas de serialización o deadlock antes de rendirse con
// domain.ErrTransient.
const txMaxAttempts = 3

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción con los repos del motor de existencias.
func (r *TxRunner) Run(ctx context.Context, fn func(
	recordRepo repository.InventoryRecordRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	return r.withRetry(ctx, func(tx pgx.Tx) error {
		return fn(NewInventoryRecordRepository(tx), NewStockMovementRepository(tx))
	})
}

// RunTransfer inicia una transacción con los repos del flujo de traspasos.
func (r *TxRunner) RunTransfer(ctx context.Context, fn func(
	recordRepo repository.InventoryRecordRepository,
	movRepo repository.StockMovementRepository,
	transferRepo repository.TransferRepository,
	transitRepo repository.GoodsInTransitRepository,
) error) error {
	return r.withRetry(ctx, func(tx pgx.Tx) error {
		return fn(
			NewInventoryRecordRepository(tx),
			NewStockMovementRepository(tx),
			NewTransferRepository(tx),
			NewGoodsInTransitRepository(tx),
		)
	})
}

// RunSale inicia una transacción con los repos del flujo de ventas: la
// salida de existencias, la venta y su cobro en caja van juntos.
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	recordRepo repository.InventoryRecordRepository,
	movRepo repository.StockMovementRepository,
	saleRepo repository.SaleRepository,
	cutRepo repository.CashCutRepository,
	cashMovRepo repository.CashMovementRepository,
) error) error {
	return r.withRetry(ctx, func(tx pgx.Tx) error {
		return fn(
			NewInventoryRecordRepository(tx),
			NewStockMovementRepository(tx),
			NewSaleRepository(tx),
			NewCashCutRepository(tx),
			NewCashMovementRepository(tx),
		)
	})
}

// RunCash inicia una transacción con los repos del libro de caja.
func (r *TxRunner) RunCash(ctx context.Context, fn func(
	cutRepo repository.CashCutRepository,
	movRepo repository.CashMovementRepository,
) error) error {
	return r.withRetry(ctx, func(tx pgx.Tx) error {
		return fn(NewCashCutRepository(tx), NewCashMovementRepository(tx))
	})
}

// RunExpense inicia una transacción con los repos de gastos y caja.
func (r *TxRunner) RunExpense(ctx context.Context, fn func(
	expenseRepo repository.ExpenseRepository,
	cutRepo repository.CashCutRepository,
	movRepo repository.CashMovementRepository,
) error) error {
	return r.withRetry(ctx, func(tx pgx.Tx) error {
		return fn(NewExpenseRepository(tx), NewCashCutRepository(tx), NewCashMovementRepository(tx))
	})
}

// withRetry ejecuta la transacción completa y la reintenta ante 40001/40P01.
// Los callbacks deben ser re-ejecutables: todo su estado sale de los repos
// atados a la tx.
func (r *TxRunner) withRetry(ctx context.Context, fn func(tx pgx.Tx) error) error {
	var lastErr error
	for attempt := 1; attempt <= txMaxAttempts; attempt++ {
		err := r.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if !isRetryableTxError(err) {
			return err
		}
		lastErr = err
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * 25 * time.Millisecond):
		}
	}
	return fmt.Errorf("transacción agotó %d intentos: %v: %w", txMaxAttempts, lastErr, domain.ErrTransient)
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
