package sale

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-pro/internal/application/finance"
	"github.com/tu-usuario/almacen-pro/internal/application/inventory"
	"github.com/tu-usuario/almacen-pro/internal/domain"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
	"github.com/tu-usuario/almacen-pro/internal/domain/repository"
)

// UseCase orquesta la venta de mostrador: descuenta existencias línea por
// línea, persiste la venta y registra su cobro contra el corte de caja
// abierto de la bodega, todo en una sola transacción. La cancelación
// reingresa las existencias; el efectivo no se revierte y la devolución se
// concilia en el cierre del corte.
type UseCase struct {
	txRunner      TxRunner
	stock         StockEngine
	cash          CashEngine
	saleRepo      repository.SaleRepository // lecturas fuera de tx
	warehouseRepo repository.WarehouseRepository
	productRepo   repository.ProductRepository
	seq           repository.SequenceGenerator
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	stock StockEngine,
	cash CashEngine,
	saleRepo repository.SaleRepository,
	warehouseRepo repository.WarehouseRepository,
	productRepo repository.ProductRepository,
	seq repository.SequenceGenerator,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		stock:         stock,
		cash:          cash,
		saleRepo:      saleRepo,
		warehouseRepo: warehouseRepo,
		productRepo:   productRepo,
		seq:           seq,
	}
}

// CreateLineInput línea de una venta nueva.
type CreateLineInput struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice *decimal.Decimal // nil: precio de lista del producto
	Discount  decimal.Decimal
}

// CreateInput datos de una venta nueva.
type CreateInput struct {
	WarehouseID      string
	CustomerName     string
	PaymentMethod    string
	Discount         decimal.Decimal  // descuento global
	AmountReceived   *decimal.Decimal // solo efectivo
	PaymentReference string
	Notes            string
	Details          []CreateLineInput
	UserID           string
}

// Create registra la venta. Por cada línea reserva y consuma la salida en la
// bodega, y cobra el total contra el corte abierto; sin corte abierto la
// venta falla completa con ErrNoOpenCashCut. Si cualquier línea no alcanza
// existencias, nada se aplica.
func (uc *UseCase) Create(ctx context.Context, in CreateInput) (*entity.Sale, error) {
	if in.WarehouseID == "" || in.UserID == "" || len(in.Details) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidPaymentMethod(in.PaymentMethod) {
		return nil, domain.ErrInvalidInput
	}
	if in.Discount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.AmountReceived != nil && in.PaymentMethod != entity.PaymentMethodCash {
		// El monto recibido solo aplica en efectivo; recibirlo con tarjeta o
		// transferencia delata un cliente mal armado.
		return nil, domain.ErrInvalidInput
	}
	wh, err := uc.warehouseRepo.GetByID(ctx, in.WarehouseID)
	if err != nil || wh == nil || wh.Status != "active" {
		return nil, domain.ErrNotFound
	}

	details := make([]entity.SaleDetail, 0, len(in.Details))
	subtotal := decimal.Zero
	linesTotal := decimal.Zero
	for i, d := range in.Details {
		if !d.Quantity.GreaterThan(decimal.Zero) || d.Discount.IsNegative() {
			return nil, fmt.Errorf("línea %d: %w", i+1, domain.ErrInvalidInput)
		}
		product, err := uc.productRepo.GetByID(ctx, d.ProductID)
		if err != nil || product == nil || product.Status != "active" {
			return nil, fmt.Errorf("línea %d: producto %s: %w", i+1, d.ProductID, domain.ErrNotFound)
		}
		unitPrice := product.Price
		if d.UnitPrice != nil {
			if d.UnitPrice.IsNegative() {
				return nil, fmt.Errorf("línea %d: producto %s: %w", i+1, product.Code, domain.ErrInvalidInput)
			}
			unitPrice = *d.UnitPrice
		}
		lineSubtotal := d.Quantity.Mul(unitPrice)
		if d.Discount.GreaterThan(lineSubtotal) {
			return nil, fmt.Errorf("línea %d: producto %s: descuento mayor al subtotal: %w", i+1, product.Code, domain.ErrInvalidInput)
		}
		details = append(details, entity.SaleDetail{
			ProductID:   d.ProductID,
			ProductCode: product.Code,
			ProductName: product.Name,
			Quantity:    d.Quantity,
			UnitPrice:   unitPrice,
			Subtotal:    lineSubtotal,
			Discount:    d.Discount,
			Total:       lineSubtotal.Sub(d.Discount),
		})
		subtotal = subtotal.Add(lineSubtotal)
		linesTotal = linesTotal.Add(lineSubtotal.Sub(d.Discount))
	}
	total := linesTotal.Sub(in.Discount)
	if !total.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	var change *decimal.Decimal
	if in.AmountReceived != nil {
		if in.AmountReceived.LessThan(total) {
			return nil, domain.ErrInvalidInput
		}
		c := in.AmountReceived.Sub(total)
		change = &c
	}

	number, err := uc.seq.NextSaleNumber(ctx)
	if err != nil {
		return nil, err
	}
	sale := &entity.Sale{
		ID:               uuid.New().String(),
		SaleNumber:       number,
		WarehouseID:      in.WarehouseID,
		CustomerName:     in.CustomerName,
		UserID:           in.UserID,
		PaymentMethod:    in.PaymentMethod,
		Details:          details,
		Subtotal:         subtotal,
		Discount:         in.Discount,
		Total:            total,
		AmountReceived:   in.AmountReceived,
		Change:           change,
		Status:           entity.SaleStatusCompleted,
		SaleDate:         time.Now(),
		PaymentReference: in.PaymentReference,
		Notes:            in.Notes,
	}

	err = uc.txRunner.RunSale(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		movRepo repository.StockMovementRepository,
		saleRepo repository.SaleRepository,
		cutRepo repository.CashCutRepository,
		cashMovRepo repository.CashMovementRepository,
	) error {
		for i, detail := range sale.Details {
			if err := ctx.Err(); err != nil {
				return err
			}
			stockIn := inventory.StockInput{
				WarehouseID:   sale.WarehouseID,
				ProductID:     detail.ProductID,
				Quantity:      detail.Quantity,
				UserID:        sale.UserID,
				ReferenceID:   sale.ID,
				ReferenceType: entity.ReferenceTypeSale,
				Reason:        "venta " + sale.SaleNumber,
			}
			if _, err := uc.stock.ReserveInTx(ctx, recordRepo, movRepo, stockIn); err != nil {
				return fmt.Errorf("línea %d: producto %s: %w", i+1, detail.ProductCode, err)
			}
			if err := uc.stock.CommitOutInTx(ctx, recordRepo, movRepo, stockIn); err != nil {
				return fmt.Errorf("línea %d: producto %s: %w", i+1, detail.ProductCode, err)
			}
		}
		if err := saleRepo.Create(ctx, sale); err != nil {
			return err
		}
		_, err := uc.cash.RegisterMovementInTx(ctx, cutRepo, cashMovRepo, sale.WarehouseID, finance.RegisterMovementInput{
			Type:          entity.CashMovementTypeForPayment(sale.PaymentMethod),
			Amount:        sale.Total,
			ReferenceID:   sale.ID,
			ReferenceType: entity.ReferenceTypeSale,
			Notes:         "venta " + sale.SaleNumber,
			UserID:        sale.UserID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// Cancel pasa completed -> cancelled y reingresa las existencias de cada
// línea a la bodega. El cobro ya registrado no se revierte: la devolución de
// efectivo aparece como diferencia en el cierre del corte.
func (uc *UseCase) Cancel(ctx context.Context, saleID, userID, reason string) (*entity.Sale, error) {
	if saleID == "" || userID == "" {
		return nil, domain.ErrInvalidInput
	}
	var result *entity.Sale
	err := uc.txRunner.RunSale(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		movRepo repository.StockMovementRepository,
		saleRepo repository.SaleRepository,
		_ repository.CashCutRepository,
		_ repository.CashMovementRepository,
	) error {
		sale, err := saleRepo.GetByIDForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.Status == entity.SaleStatusCancelled {
			return fmt.Errorf("venta %s ya cancelada: %w", sale.SaleNumber, domain.ErrInvalidTransition)
		}
		for i, detail := range sale.Details {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := uc.stock.ReceiveInTx(ctx, recordRepo, movRepo, inventory.StockInput{
				WarehouseID:   sale.WarehouseID,
				ProductID:     detail.ProductID,
				Quantity:      detail.Quantity,
				UserID:        userID,
				ReferenceID:   sale.ID,
				ReferenceType: entity.ReferenceTypeCancelledSale,
				Reason:        "cancelación de venta " + sale.SaleNumber,
			}); err != nil {
				return fmt.Errorf("línea %d: producto %s: %w", i+1, detail.ProductCode, err)
			}
		}
		now := time.Now()
		sale.Status = entity.SaleStatusCancelled
		sale.CancelledBy = userID
		sale.CancelledAt = &now
		if reason != "" {
			sale.Notes = reason
		}
		result = sale
		return saleRepo.Update(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID devuelve la venta.
func (uc *UseCase) GetByID(ctx context.Context, saleID string) (*entity.Sale, error) {
	if saleID == "" {
		return nil, domain.ErrInvalidInput
	}
	sale, err := uc.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return sale, nil
}

// ListByWarehouse devuelve las ventas de la bodega, filtrando opcionalmente
// por estado y rango de fechas.
func (uc *UseCase) ListByWarehouse(ctx context.Context, warehouseID, status string, from, to *time.Time, limit, offset int) ([]*entity.Sale, error) {
	if warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	if status != "" && status != entity.SaleStatusCompleted && status != entity.SaleStatusCancelled {
		return nil, domain.ErrInvalidInput
	}
	return uc.saleRepo.ListByWarehouse(ctx, warehouseID, status, from, to, limit, offset)
}
