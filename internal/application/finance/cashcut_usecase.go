package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-pro/internal/domain"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
	"github.com/tu-usuario/almacen-pro/internal/domain/repository"
)

// CashCutUseCase administra el ciclo de vida del corte de caja por bodega:
// apertura, acumulación de movimientos y cierre con conciliación
// esperado-contra-real. A lo sumo un corte abierto por bodega.
type CashCutUseCase struct {
	txRunner      TxRunner
	cutRepo       repository.CashCutRepository // lecturas fuera de tx
	movementRepo  repository.CashMovementRepository
	warehouseRepo repository.WarehouseRepository
}

// NewCashCutUseCase construye el caso de uso.
func NewCashCutUseCase(
	txRunner TxRunner,
	cutRepo repository.CashCutRepository,
	movementRepo repository.CashMovementRepository,
	warehouseRepo repository.WarehouseRepository,
) *CashCutUseCase {
	return &CashCutUseCase{
		txRunner:      txRunner,
		cutRepo:       cutRepo,
		movementRepo:  movementRepo,
		warehouseRepo: warehouseRepo,
	}
}

// Open abre un corte con el fondo inicial. Falla con ErrCashCutAlreadyOpen
// si la bodega ya tiene un corte abierto.
func (uc *CashCutUseCase) Open(ctx context.Context, warehouseID, userID string, openingAmount decimal.Decimal) (*entity.CashCut, error) {
	if warehouseID == "" || userID == "" || openingAmount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	wh, err := uc.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil || wh == nil || wh.Status != "active" {
		return nil, domain.ErrNotFound
	}
	var cut *entity.CashCut
	err = uc.txRunner.RunCash(ctx, func(
		cutRepo repository.CashCutRepository,
		_ repository.CashMovementRepository,
	) error {
		open, err := cutRepo.GetOpenByWarehouseForUpdate(ctx, warehouseID)
		if err != nil {
			return err
		}
		if open != nil {
			return domain.ErrCashCutAlreadyOpen
		}
		cut = &entity.CashCut{
			ID:            uuid.New().String(),
			WarehouseID:   warehouseID,
			OpenedBy:      userID,
			OpenedAt:      time.Now(),
			OpeningAmount: openingAmount,
		}
		// El índice parcial único de la tabla respalda esta verificación
		// ante dos aperturas en carrera.
		return cutRepo.Create(ctx, cut)
	})
	if err != nil {
		return nil, err
	}
	return cut, nil
}

// RegisterMovementInput movimiento de caja contra un corte abierto.
type RegisterMovementInput struct {
	CashCutID     string
	Type          string
	Amount        decimal.Decimal
	ReferenceID   string
	ReferenceType string
	Notes         string
	UserID        string
}

// RegisterMovement adjunta un movimiento al corte y actualiza el acumulador
// correspondiente. Falla con ErrCashCutClosed si el corte ya cerró.
func (uc *CashCutUseCase) RegisterMovement(ctx context.Context, in RegisterMovementInput) (*entity.CashMovement, error) {
	if in.CashCutID == "" || in.UserID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidCashMovementType(in.Type) || !in.Amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	var movement *entity.CashMovement
	err := uc.txRunner.RunCash(ctx, func(
		cutRepo repository.CashCutRepository,
		movRepo repository.CashMovementRepository,
	) error {
		cut, err := cutRepo.GetByIDForUpdate(ctx, in.CashCutID)
		if err != nil {
			return err
		}
		if cut == nil {
			return domain.ErrNotFound
		}
		if cut.IsClosed() {
			return domain.ErrCashCutClosed
		}
		applyToAccumulators(cut, in.Type, in.Amount)
		if err := cutRepo.Update(ctx, cut); err != nil {
			return err
		}
		movement = &entity.CashMovement{
			ID:            uuid.New().String(),
			CashCutID:     cut.ID,
			WarehouseID:   cut.WarehouseID,
			Type:          in.Type,
			Amount:        in.Amount,
			ReferenceID:   in.ReferenceID,
			ReferenceType: in.ReferenceType,
			Notes:         in.Notes,
			CreatedAt:     time.Now(),
			CreatedBy:     in.UserID,
		}
		return movRepo.Append(ctx, movement)
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

// RegisterMovementInTx registra el movimiento contra el corte abierto de la
// bodega con los repositorios de la transacción del llamador (mismo patrón
// que las primitivas de existencias: la venta cobra en su propia tx). Falla
// con ErrNoOpenCashCut si la bodega no tiene corte abierto.
func (uc *CashCutUseCase) RegisterMovementInTx(
	ctx context.Context,
	cutRepo repository.CashCutRepository,
	movRepo repository.CashMovementRepository,
	warehouseID string,
	in RegisterMovementInput,
) (*entity.CashMovement, error) {
	if warehouseID == "" || in.UserID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidCashMovementType(in.Type) || !in.Amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	cut, err := cutRepo.GetOpenByWarehouseForUpdate(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if cut == nil {
		return nil, domain.ErrNoOpenCashCut
	}
	applyToAccumulators(cut, in.Type, in.Amount)
	if err := cutRepo.Update(ctx, cut); err != nil {
		return nil, err
	}
	movement := &entity.CashMovement{
		ID:            uuid.New().String(),
		CashCutID:     cut.ID,
		WarehouseID:   cut.WarehouseID,
		Type:          in.Type,
		Amount:        in.Amount,
		ReferenceID:   in.ReferenceID,
		ReferenceType: in.ReferenceType,
		Notes:         in.Notes,
		CreatedAt:     time.Now(),
		CreatedBy:     in.UserID,
	}
	if err := movRepo.Append(ctx, movement); err != nil {
		return nil, err
	}
	return movement, nil
}

// Close cierra el corte: esperado = apertura + ventas en efectivo - gastos
// (tarjeta y transferencia se rastrean aparte, no son efectivo en caja),
// diferencia = real - esperado. Irreversible: ningún movimiento posterior
// puede adjuntarse.
func (uc *CashCutUseCase) Close(ctx context.Context, cashCutID, userID string, actualFinalAmount decimal.Decimal, notes string) (*entity.CashCut, error) {
	if cashCutID == "" || userID == "" || actualFinalAmount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	var result *entity.CashCut
	err := uc.txRunner.RunCash(ctx, func(
		cutRepo repository.CashCutRepository,
		_ repository.CashMovementRepository,
	) error {
		cut, err := cutRepo.GetByIDForUpdate(ctx, cashCutID)
		if err != nil {
			return err
		}
		if cut == nil {
			return domain.ErrNotFound
		}
		if cut.IsClosed() {
			return domain.ErrCashCutClosed
		}
		expected := cut.OpeningAmount.Add(cut.CashSales).Sub(cut.TotalExpenses)
		difference := actualFinalAmount.Sub(expected)
		now := time.Now()
		cut.ExpectedFinalAmount = &expected
		cut.ActualFinalAmount = &actualFinalAmount
		cut.Difference = &difference
		cut.ClosedBy = userID
		cut.ClosedAt = &now
		if notes != "" {
			cut.Notes = notes
		}
		result = cut
		return cutRepo.Update(ctx, cut)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CurrentOpen devuelve el corte abierto de la bodega; ErrNoOpenCashCut si no
// hay. Es la consulta previa a cualquier registro de movimiento.
func (uc *CashCutUseCase) CurrentOpen(ctx context.Context, warehouseID string) (*entity.CashCut, error) {
	if warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	cut, err := uc.cutRepo.GetOpenByWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if cut == nil {
		return nil, domain.ErrNoOpenCashCut
	}
	return cut, nil
}

// GetByID devuelve el corte.
func (uc *CashCutUseCase) GetByID(ctx context.Context, cashCutID string) (*entity.CashCut, error) {
	cut, err := uc.cutRepo.GetByID(ctx, cashCutID)
	if err != nil {
		return nil, err
	}
	if cut == nil {
		return nil, domain.ErrNotFound
	}
	return cut, nil
}

// ListByWarehouse devuelve el historial de cortes de la bodega.
func (uc *CashCutUseCase) ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.CashCut, error) {
	if warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.cutRepo.ListByWarehouse(ctx, warehouseID, limit, offset)
}

// ListMovements devuelve los movimientos adjuntos a un corte.
func (uc *CashCutUseCase) ListMovements(ctx context.Context, cashCutID string) ([]*entity.CashMovement, error) {
	if cashCutID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.movementRepo.ListByCashCut(ctx, cashCutID)
}

// applyToAccumulators suma el movimiento al acumulador de su tipo. Las
// ventas incrementan además el contador de transacciones.
func applyToAccumulators(cut *entity.CashCut, movType string, amount decimal.Decimal) {
	switch movType {
	case entity.CashMovementSaleCash:
		cut.CashSales = cut.CashSales.Add(amount)
		cut.TransactionCount++
	case entity.CashMovementSaleCard:
		cut.CardSales = cut.CardSales.Add(amount)
		cut.TransactionCount++
	case entity.CashMovementSaleTransfer:
		cut.TransferSales = cut.TransferSales.Add(amount)
		cut.TransactionCount++
	case entity.CashMovementExpense:
		cut.TotalExpenses = cut.TotalExpenses.Add(amount)
	}
}
