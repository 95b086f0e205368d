package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-pro/internal/domain"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
	"github.com/tu-usuario/almacen-pro/internal/domain/repository"
)

// StockUseCase es el administrador de existencias y apartados: reserva,
// libera, confirma salidas y recibe entradas por (bodega, producto), siempre
// dentro de una transacción con bloqueo de fila (SELECT FOR UPDATE) y con un
// movimiento append-only por cada cambio.
type StockUseCase struct {
	txRunner      TxRunner
	recordRepo    repository.InventoryRecordRepository // lecturas fuera de tx
	movementRepo  repository.StockMovementRepository
	warehouseRepo repository.WarehouseRepository
	productRepo   repository.ProductRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(
	txRunner TxRunner,
	recordRepo repository.InventoryRecordRepository,
	movementRepo repository.StockMovementRepository,
	warehouseRepo repository.WarehouseRepository,
	productRepo repository.ProductRepository,
) *StockUseCase {
	return &StockUseCase{
		txRunner:      txRunner,
		recordRepo:    recordRepo,
		movementRepo:  movementRepo,
		warehouseRepo: warehouseRepo,
		productRepo:   productRepo,
	}
}

// StockInput identifica la operación sobre una clave (bodega, producto).
type StockInput struct {
	WarehouseID   string
	ProductID     string
	Quantity      decimal.Decimal
	UserID        string
	ReferenceID   string
	ReferenceType string // sale, transfer, adjustment
	Reason        string
}

func (in StockInput) validate() error {
	if in.WarehouseID == "" || in.ProductID == "" || in.UserID == "" {
		return domain.ErrInvalidInput
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	return nil
}

// checkCatalog valida que bodega y producto existan y estén activos.
func (uc *StockUseCase) checkCatalog(ctx context.Context, warehouseID, productID string) error {
	wh, err := uc.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil || wh == nil || wh.Status != "active" {
		return domain.ErrNotFound
	}
	p, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil || p == nil || p.Status != "active" {
		return domain.ErrNotFound
	}
	return nil
}

// Reserve aparta cantidad contra el disponible. Falla con ErrInsufficientStock
// si disponible < cantidad. Devuelve el disponible resultante.
func (uc *StockUseCase) Reserve(ctx context.Context, in StockInput) (decimal.Decimal, error) {
	if err := in.validate(); err != nil {
		return decimal.Zero, err
	}
	if err := uc.checkCatalog(ctx, in.WarehouseID, in.ProductID); err != nil {
		return decimal.Zero, err
	}
	var available decimal.Decimal
	err := uc.txRunner.Run(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		movRepo repository.StockMovementRepository,
	) error {
		var err error
		available, err = uc.ReserveInTx(ctx, recordRepo, movRepo, in)
		return err
	})
	return available, err
}

// ReserveInTx ejecuta la reserva con los repositorios de la transacción del
// llamador (mismo patrón que el despacho de traspasos, que reserva varias
// líneas en una sola tx).
func (uc *StockUseCase) ReserveInTx(
	ctx context.Context,
	recordRepo repository.InventoryRecordRepository,
	movRepo repository.StockMovementRepository,
	in StockInput,
) (decimal.Decimal, error) {
	record, err := recordRepo.GetForUpdate(ctx, in.WarehouseID, in.ProductID)
	if err != nil {
		return decimal.Zero, err
	}
	if record.Available().LessThan(in.Quantity) {
		return decimal.Zero, domain.ErrInsufficientStock
	}
	record.ReservedQuantity = record.ReservedQuantity.Add(in.Quantity)
	record.UpdatedAt = time.Now()
	if err := recordRepo.Upsert(ctx, record); err != nil {
		return decimal.Zero, err
	}
	if err := appendMovement(ctx, movRepo, record, entity.MovementTypeReserve, in); err != nil {
		return decimal.Zero, err
	}
	return record.Available(), nil
}

// Release libera apartado por min(cantidad, reservado); nunca deja el
// reservado negativo. Se usa al cancelar una venta o traspaso.
func (uc *StockUseCase) Release(ctx context.Context, in StockInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	return uc.txRunner.Run(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		movRepo repository.StockMovementRepository,
	) error {
		return uc.ReleaseInTx(ctx, recordRepo, movRepo, in)
	})
}

// ReleaseInTx libera apartado dentro de la transacción del llamador.
func (uc *StockUseCase) ReleaseInTx(
	ctx context.Context,
	recordRepo repository.InventoryRecordRepository,
	movRepo repository.StockMovementRepository,
	in StockInput,
) error {
	record, err := recordRepo.GetForUpdate(ctx, in.WarehouseID, in.ProductID)
	if err != nil {
		return err
	}
	qty := decimal.Min(in.Quantity, record.ReservedQuantity)
	if qty.IsZero() {
		// Nada reservado: no hay efecto ni movimiento que registrar.
		return nil
	}
	record.ReservedQuantity = record.ReservedQuantity.Sub(qty)
	record.UpdatedAt = time.Now()
	if err := recordRepo.Upsert(ctx, record); err != nil {
		return err
	}
	released := in
	released.Quantity = qty
	return appendMovement(ctx, movRepo, record, entity.MovementTypeRelease, released)
}

// CommitOut consuma una salida previamente apartada (venta confirmada o
// traspaso despachado): descuenta físico y reservado. Requiere reservado >=
// cantidad. El movimiento es OUT, o TRANSFER_OUT si la referencia es un
// traspaso.
func (uc *StockUseCase) CommitOut(ctx context.Context, in StockInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	return uc.txRunner.Run(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		movRepo repository.StockMovementRepository,
	) error {
		return uc.CommitOutInTx(ctx, recordRepo, movRepo, in)
	})
}

// CommitOutInTx consuma la salida dentro de la transacción del llamador.
func (uc *StockUseCase) CommitOutInTx(
	ctx context.Context,
	recordRepo repository.InventoryRecordRepository,
	movRepo repository.StockMovementRepository,
	in StockInput,
) error {
	record, err := recordRepo.GetForUpdate(ctx, in.WarehouseID, in.ProductID)
	if err != nil {
		return err
	}
	if record.ReservedQuantity.LessThan(in.Quantity) {
		return domain.ErrInsufficientStock
	}
	record.PhysicalQuantity = record.PhysicalQuantity.Sub(in.Quantity)
	record.ReservedQuantity = record.ReservedQuantity.Sub(in.Quantity)
	record.UpdatedAt = time.Now()
	if err := recordRepo.Upsert(ctx, record); err != nil {
		return err
	}
	movType := entity.MovementTypeOut
	if in.ReferenceType == entity.ReferenceTypeTransfer {
		movType = entity.MovementTypeTransferOut
	}
	return appendMovement(ctx, movRepo, record, movType, in)
}

// ReceiveIn incrementa solo el físico (sin apartado): recepción de traspaso
// o reposición. El movimiento es IN, o TRANSFER_IN si la referencia es un
// traspaso.
func (uc *StockUseCase) ReceiveIn(ctx context.Context, in StockInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	if err := uc.checkCatalog(ctx, in.WarehouseID, in.ProductID); err != nil {
		return err
	}
	return uc.txRunner.Run(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		movRepo repository.StockMovementRepository,
	) error {
		return uc.ReceiveInTx(ctx, recordRepo, movRepo, in)
	})
}

// ReceiveInTx incrementa el físico dentro de la transacción del llamador.
func (uc *StockUseCase) ReceiveInTx(
	ctx context.Context,
	recordRepo repository.InventoryRecordRepository,
	movRepo repository.StockMovementRepository,
	in StockInput,
) error {
	record, err := recordRepo.GetForUpdate(ctx, in.WarehouseID, in.ProductID)
	if err != nil {
		return err
	}
	record.PhysicalQuantity = record.PhysicalQuantity.Add(in.Quantity)
	record.UpdatedAt = time.Now()
	if err := recordRepo.Upsert(ctx, record); err != nil {
		return err
	}
	movType := entity.MovementTypeIn
	if in.ReferenceType == entity.ReferenceTypeTransfer {
		movType = entity.MovementTypeTransferIn
	}
	return appendMovement(ctx, movRepo, record, movType, in)
}

// AdjustInput corrección directa del físico (ruta de auditoría, sin pasar
// por apartados). Delta puede ser negativo.
type AdjustInput struct {
	WarehouseID string
	ProductID   string
	Delta       decimal.Decimal
	Reason      string
	UserID      string
}

// Adjust aplica la corrección. El físico resultante debe quedar >= 0 y no
// puede caer por debajo del reservado vigente.
func (uc *StockUseCase) Adjust(ctx context.Context, in AdjustInput) error {
	if in.WarehouseID == "" || in.ProductID == "" || in.UserID == "" || in.Reason == "" {
		return domain.ErrInvalidInput
	}
	if in.Delta.IsZero() {
		return domain.ErrInvalidInput
	}
	if err := uc.checkCatalog(ctx, in.WarehouseID, in.ProductID); err != nil {
		return err
	}
	return uc.txRunner.Run(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		movRepo repository.StockMovementRepository,
	) error {
		record, err := recordRepo.GetForUpdate(ctx, in.WarehouseID, in.ProductID)
		if err != nil {
			return err
		}
		newPhysical := record.PhysicalQuantity.Add(in.Delta)
		if newPhysical.IsNegative() || newPhysical.LessThan(record.ReservedQuantity) {
			return domain.ErrInvalidInput
		}
		record.PhysicalQuantity = newPhysical
		record.UpdatedAt = time.Now()
		if err := recordRepo.Upsert(ctx, record); err != nil {
			return err
		}
		return appendMovement(ctx, movRepo, record, entity.MovementTypeAdjust, StockInput{
			WarehouseID:   in.WarehouseID,
			ProductID:     in.ProductID,
			Quantity:      in.Delta.Abs(),
			UserID:        in.UserID,
			ReferenceType: entity.ReferenceTypeAdjustment,
			Reason:        in.Reason,
		})
	})
}

// SetStockLimits fija stock mínimo y máximo del registro. Si hay máximo,
// debe ser >= mínimo.
func (uc *StockUseCase) SetStockLimits(ctx context.Context, warehouseID, productID string, minStock decimal.Decimal, maxStock *decimal.Decimal) error {
	if warehouseID == "" || productID == "" || minStock.IsNegative() {
		return domain.ErrInvalidInput
	}
	if maxStock != nil && maxStock.LessThan(minStock) {
		return domain.ErrInvalidInput
	}
	if err := uc.checkCatalog(ctx, warehouseID, productID); err != nil {
		return err
	}
	return uc.txRunner.Run(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		_ repository.StockMovementRepository,
	) error {
		record, err := recordRepo.GetForUpdate(ctx, warehouseID, productID)
		if err != nil {
			return err
		}
		record.MinStock = minStock
		record.MaxStock = maxStock
		record.UpdatedAt = time.Now()
		return recordRepo.Upsert(ctx, record)
	})
}

// Get devuelve el registro de existencias de la clave. Una bodega o producto
// desconocidos son ErrNotFound, no un registro en ceros.
func (uc *StockUseCase) Get(ctx context.Context, warehouseID, productID string) (*entity.InventoryRecord, error) {
	if warehouseID == "" || productID == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.checkCatalog(ctx, warehouseID, productID); err != nil {
		return nil, err
	}
	return uc.recordRepo.Get(ctx, warehouseID, productID)
}

// ListByWarehouse devuelve las existencias de una bodega.
func (uc *StockUseCase) ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.InventoryRecord, error) {
	if warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.recordRepo.ListByWarehouse(ctx, warehouseID, limit, offset)
}

// ListBelowMinimum devuelve los registros con disponible por debajo del
// stock mínimo. Es una consulta, no una condición de error.
func (uc *StockUseCase) ListBelowMinimum(ctx context.Context, warehouseID string) ([]*entity.InventoryRecord, error) {
	if warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.recordRepo.ListBelowMinimum(ctx, warehouseID)
}

// ListMovementsByWarehouse consulta la bitácora por bodega y rango de fechas.
func (uc *StockUseCase) ListMovementsByWarehouse(ctx context.Context, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	if warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.movementRepo.ListByWarehouse(ctx, warehouseID, from, to, limit, offset)
}

// ListMovementsByProduct consulta la bitácora por producto y rango de fechas.
func (uc *StockUseCase) ListMovementsByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.movementRepo.ListByProduct(ctx, productID, from, to, limit, offset)
}

// appendMovement registra el movimiento con los saldos resultantes del
// registro ya actualizado.
func appendMovement(
	ctx context.Context,
	movRepo repository.StockMovementRepository,
	record *entity.InventoryRecord,
	movType string,
	in StockInput,
) error {
	return movRepo.Append(ctx, &entity.StockMovement{
		ID:                uuid.New().String(),
		WarehouseID:       in.WarehouseID,
		ProductID:         in.ProductID,
		Type:              movType,
		Quantity:          in.Quantity,
		ResultingPhysical: record.PhysicalQuantity,
		ResultingReserved: record.ReservedQuantity,
		ReferenceID:       in.ReferenceID,
		ReferenceType:     in.ReferenceType,
		Reason:            in.Reason,
		CreatedAt:         time.Now(),
		CreatedBy:         in.UserID,
	})
}
