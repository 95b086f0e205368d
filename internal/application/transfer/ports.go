package transfer

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-pro/internal/application/inventory"
	"github.com/tu-usuario/almacen-pro/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios que necesita el flujo de traspasos. Despacho y recepción
// abarcan varias claves (una por línea); todas las líneas se aplican en la
// misma tx: o todas o ninguna.
type TxRunner interface {
	RunTransfer(ctx context.Context, fn func(
		recordRepo repository.InventoryRecordRepository,
		movRepo repository.StockMovementRepository,
		transferRepo repository.TransferRepository,
		transitRepo repository.GoodsInTransitRepository,
	) error) error
}

// StockEngine son las primitivas de existencias que el traspaso ejecuta
// dentro de su propia transacción (reservar y consumar en origen, recibir en
// destino).
type StockEngine interface {
	ReserveInTx(ctx context.Context, recordRepo repository.InventoryRecordRepository, movRepo repository.StockMovementRepository, in inventory.StockInput) (decimal.Decimal, error)
	CommitOutInTx(ctx context.Context, recordRepo repository.InventoryRecordRepository, movRepo repository.StockMovementRepository, in inventory.StockInput) error
	ReceiveInTx(ctx context.Context, recordRepo repository.InventoryRecordRepository, movRepo repository.StockMovementRepository, in inventory.StockInput) error
}

var _ StockEngine = (*inventory.StockUseCase)(nil)
