package sale

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-pro/internal/application/finance"
	"github.com/tu-usuario/almacen-pro/internal/application/inventory"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
	"github.com/tu-usuario/almacen-pro/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios que necesita el flujo de ventas. La salida de existencias de
// todas las líneas, la venta y su cobro en caja se aplican en la misma tx:
// o todo o nada.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		recordRepo repository.InventoryRecordRepository,
		movRepo repository.StockMovementRepository,
		saleRepo repository.SaleRepository,
		cutRepo repository.CashCutRepository,
		cashMovRepo repository.CashMovementRepository,
	) error) error
}

// StockEngine son las primitivas de existencias que la venta ejecuta dentro
// de su propia transacción (reservar y consumar al vender, reingresar al
// cancelar).
type StockEngine interface {
	ReserveInTx(ctx context.Context, recordRepo repository.InventoryRecordRepository, movRepo repository.StockMovementRepository, in inventory.StockInput) (decimal.Decimal, error)
	CommitOutInTx(ctx context.Context, recordRepo repository.InventoryRecordRepository, movRepo repository.StockMovementRepository, in inventory.StockInput) error
	ReceiveInTx(ctx context.Context, recordRepo repository.InventoryRecordRepository, movRepo repository.StockMovementRepository, in inventory.StockInput) error
}

// CashEngine registra el cobro de la venta contra el corte de caja abierto
// de la bodega, dentro de la transacción de la venta.
type CashEngine interface {
	RegisterMovementInTx(ctx context.Context, cutRepo repository.CashCutRepository, movRepo repository.CashMovementRepository, warehouseID string, in finance.RegisterMovementInput) (*entity.CashMovement, error)
}

var _ StockEngine = (*inventory.StockUseCase)(nil)
var _ CashEngine = (*finance.CashCutUseCase)(nil)
