package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-pro/internal/application/inventory"
	"github.com/tu-usuario/almacen-pro/internal/domain"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
	"github.com/tu-usuario/almacen-pro/internal/domain/repository"
)

// UseCase orquesta la máquina de estados del traspaso:
// requested -> approved -> dispatched -> received -> completed, con
// rejected y cancelled como salidas terminales. Despacho y recepción son los
// dos pasos con efecto real sobre existencias y se aplican como unidad.
type UseCase struct {
	txRunner      TxRunner
	stock         StockEngine
	transferRepo  repository.TransferRepository // lecturas fuera de tx
	transitRepo   repository.GoodsInTransitRepository
	recordRepo    repository.InventoryRecordRepository
	warehouseRepo repository.WarehouseRepository
	productRepo   repository.ProductRepository
	seq           repository.SequenceGenerator

	// allowPartialDispatch permite despachar sent < requested; el faltante
	// simplemente no viaja y queda visible en el detalle. Con false, la
	// cantidad enviada debe igualar la solicitada.
	allowPartialDispatch bool
}

// Config opciones del flujo de traspasos.
type Config struct {
	AllowPartialDispatch bool
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	stock StockEngine,
	transferRepo repository.TransferRepository,
	transitRepo repository.GoodsInTransitRepository,
	recordRepo repository.InventoryRecordRepository,
	warehouseRepo repository.WarehouseRepository,
	productRepo repository.ProductRepository,
	seq repository.SequenceGenerator,
	cfg Config,
) *UseCase {
	return &UseCase{
		txRunner:             txRunner,
		stock:                stock,
		transferRepo:         transferRepo,
		transitRepo:          transitRepo,
		recordRepo:           recordRepo,
		warehouseRepo:        warehouseRepo,
		productRepo:          productRepo,
		seq:                  seq,
		allowPartialDispatch: cfg.AllowPartialDispatch,
	}
}

// CreateDetailInput línea solicitada de un traspaso nuevo.
type CreateDetailInput struct {
	ProductID         string
	RequestedQuantity decimal.Decimal
}

// CreateInput solicitud de traspaso entre dos bodegas distintas.
type CreateInput struct {
	SourceWarehouseID      string
	DestinationWarehouseID string
	Priority               string
	Reason                 string
	Notes                  string
	Carrier                string
	EstimatedArrivalDate   *time.Time
	Details                []CreateDetailInput
	UserID                 string
}

// Create registra el traspaso en estado requested. Valida bodegas distintas
// y activas, productos activos y disponibilidad en origen al momento de la
// solicitud.
func (uc *UseCase) Create(ctx context.Context, in CreateInput) (*entity.Transfer, error) {
	if in.SourceWarehouseID == "" || in.DestinationWarehouseID == "" || in.UserID == "" || len(in.Details) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.SourceWarehouseID == in.DestinationWarehouseID {
		return nil, domain.ErrInvalidInput
	}
	if in.Priority == "" {
		in.Priority = entity.TransferPriorityNormal
	}
	if !entity.ValidTransferPriority(in.Priority) {
		return nil, domain.ErrInvalidInput
	}
	for _, id := range []string{in.SourceWarehouseID, in.DestinationWarehouseID} {
		wh, err := uc.warehouseRepo.GetByID(ctx, id)
		if err != nil || wh == nil || wh.Status != "active" {
			return nil, domain.ErrNotFound
		}
	}

	details := make([]entity.TransferDetail, 0, len(in.Details))
	for i, d := range in.Details {
		if !d.RequestedQuantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(ctx, d.ProductID)
		if err != nil || product == nil || product.Status != "active" {
			return nil, fmt.Errorf("línea %d: producto %s: %w", i+1, d.ProductID, domain.ErrNotFound)
		}
		record, err := uc.recordRepo.Get(ctx, in.SourceWarehouseID, d.ProductID)
		if err != nil {
			return nil, err
		}
		if record.Available().LessThan(d.RequestedQuantity) {
			return nil, fmt.Errorf("línea %d: producto %s: %w", i+1, product.Code, domain.ErrInsufficientStock)
		}
		details = append(details, entity.TransferDetail{
			ProductID:         d.ProductID,
			ProductCode:       product.Code,
			ProductName:       product.Name,
			RequestedQuantity: d.RequestedQuantity,
		})
	}

	number, err := uc.seq.NextTransferNumber(ctx)
	if err != nil {
		return nil, err
	}
	transfer := &entity.Transfer{
		ID:                     uuid.New().String(),
		TransferNumber:         number,
		SourceWarehouseID:      in.SourceWarehouseID,
		DestinationWarehouseID: in.DestinationWarehouseID,
		Status:                 entity.TransferStatusRequested,
		Priority:               in.Priority,
		Details:                details,
		RequestedByUserID:      in.UserID,
		RequestDate:            time.Now(),
		EstimatedArrivalDate:   in.EstimatedArrivalDate,
		Carrier:                in.Carrier,
		Reason:                 in.Reason,
		Notes:                  in.Notes,
	}
	if err := uc.transferRepo.Create(ctx, transfer); err != nil {
		return nil, err
	}
	return transfer, nil
}

// Approve pasa requested -> approved y vuelve a verificar disponibilidad en
// origen; la reserva real ocurre hasta el despacho.
func (uc *UseCase) Approve(ctx context.Context, transferID, userID, observations string) (*entity.Transfer, error) {
	var result *entity.Transfer
	err := uc.txRunner.RunTransfer(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		_ repository.StockMovementRepository,
		transferRepo repository.TransferRepository,
		_ repository.GoodsInTransitRepository,
	) error {
		transfer, err := uc.lockTransition(ctx, transferRepo, transferID, entity.TransferStatusApproved)
		if err != nil {
			return err
		}
		for i, d := range transfer.Details {
			record, err := recordRepo.Get(ctx, transfer.SourceWarehouseID, d.ProductID)
			if err != nil {
				return err
			}
			if record.Available().LessThan(d.RequestedQuantity) {
				return fmt.Errorf("línea %d: producto %s: %w", i+1, d.ProductCode, domain.ErrInsufficientStock)
			}
		}
		now := time.Now()
		transfer.Status = entity.TransferStatusApproved
		transfer.ApprovedByUserID = userID
		transfer.ApprovalDate = &now
		if observations != "" {
			transfer.Notes = observations
		}
		result = transfer
		return transferRepo.Update(ctx, transfer)
	})
	return result, err
}

// Reject pasa requested -> rejected (terminal, sin efecto en existencias).
func (uc *UseCase) Reject(ctx context.Context, transferID, userID, reason string) (*entity.Transfer, error) {
	var result *entity.Transfer
	err := uc.txRunner.RunTransfer(ctx, func(
		_ repository.InventoryRecordRepository,
		_ repository.StockMovementRepository,
		transferRepo repository.TransferRepository,
		_ repository.GoodsInTransitRepository,
	) error {
		transfer, err := uc.lockTransition(ctx, transferRepo, transferID, entity.TransferStatusRejected)
		if err != nil {
			return err
		}
		now := time.Now()
		transfer.Status = entity.TransferStatusRejected
		transfer.ApprovedByUserID = userID
		transfer.ApprovalDate = &now
		transfer.Notes = reason
		result = transfer
		return transferRepo.Update(ctx, transfer)
	})
	return result, err
}

// DispatchLineInput sobrescribe la cantidad enviada de una línea.
type DispatchLineInput struct {
	ProductID    string
	SentQuantity decimal.Decimal
}

// DispatchInput datos del despacho.
type DispatchInput struct {
	TrackingNumber string
	TransportCost  *decimal.Decimal
	Observations   string
	Lines          []DispatchLineInput
}

// Dispatch pasa approved -> dispatched: por cada línea reserva y consuma la
// salida en la bodega origen por la cantidad enviada (por defecto la
// solicitada), en una sola transacción. Si cualquier línea falla, nada se
// aplica y el traspaso permanece en approved. Crea el registro de tránsito
// en in_preparation.
func (uc *UseCase) Dispatch(ctx context.Context, transferID, userID string, in DispatchInput) (*entity.Transfer, error) {
	overrides := make(map[string]decimal.Decimal, len(in.Lines))
	for _, l := range in.Lines {
		if !l.SentQuantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		overrides[l.ProductID] = l.SentQuantity
	}

	var result *entity.Transfer
	err := uc.txRunner.RunTransfer(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		movRepo repository.StockMovementRepository,
		transferRepo repository.TransferRepository,
		transitRepo repository.GoodsInTransitRepository,
	) error {
		transfer, err := uc.lockTransition(ctx, transferRepo, transferID, entity.TransferStatusDispatched)
		if err != nil {
			return err
		}
		for i := range transfer.Details {
			// Una cancelación externa detiene antes de la siguiente línea;
			// el rollback de la tx deshace las ya aplicadas.
			if err := ctx.Err(); err != nil {
				return err
			}
			detail := &transfer.Details[i]
			sent := detail.RequestedQuantity
			if override, ok := overrides[detail.ProductID]; ok {
				sent = override
				delete(overrides, detail.ProductID)
			}
			if sent.GreaterThan(detail.RequestedQuantity) {
				return fmt.Errorf("línea %d: producto %s: enviado mayor al solicitado: %w", i+1, detail.ProductCode, domain.ErrInvalidInput)
			}
			if !uc.allowPartialDispatch && !sent.Equal(detail.RequestedQuantity) {
				return fmt.Errorf("línea %d: producto %s: despacho parcial deshabilitado: %w", i+1, detail.ProductCode, domain.ErrInvalidInput)
			}
			stockIn := inventory.StockInput{
				WarehouseID:   transfer.SourceWarehouseID,
				ProductID:     detail.ProductID,
				Quantity:      sent,
				UserID:        userID,
				ReferenceID:   transfer.ID,
				ReferenceType: entity.ReferenceTypeTransfer,
				Reason:        "traspaso a " + transfer.DestinationWarehouseID,
			}
			if _, err := uc.stock.ReserveInTx(ctx, recordRepo, movRepo, stockIn); err != nil {
				return fmt.Errorf("línea %d: producto %s: %w", i+1, detail.ProductCode, err)
			}
			if err := uc.stock.CommitOutInTx(ctx, recordRepo, movRepo, stockIn); err != nil {
				return fmt.Errorf("línea %d: producto %s: %w", i+1, detail.ProductCode, err)
			}
			sentQty := sent
			detail.SentQuantity = &sentQty
		}
		// Una línea que no corresponde a ningún producto del traspaso es un
		// error del cliente, no algo que ignorar en silencio.
		for productID := range overrides {
			return fmt.Errorf("producto %s no pertenece al traspaso: %w", productID, domain.ErrInvalidInput)
		}
		now := time.Now()
		transfer.Status = entity.TransferStatusDispatched
		transfer.DispatchedByUserID = userID
		transfer.DepartureDate = &now
		transfer.TrackingNumber = in.TrackingNumber
		transfer.TransportCost = in.TransportCost
		if in.Observations != "" {
			transfer.Notes = in.Observations
		}
		if err := transferRepo.Update(ctx, transfer); err != nil {
			return err
		}
		if err := transitRepo.Create(ctx, &entity.GoodsInTransit{
			TransferID:      transfer.ID,
			CurrentLocation: transfer.SourceWarehouseID,
			TransitStatus:   entity.TransitStatusInPreparation,
			Notes:           "traspaso despachado desde bodega origen",
			UpdatedBy:       userID,
			UpdatedAt:       now,
		}); err != nil {
			return err
		}
		result = transfer
		return nil
	})
	return result, err
}

// ReceiveLineInput cantidad recibida de una línea, con observación
// obligatoria cuando difiere de la enviada.
type ReceiveLineInput struct {
	ProductID        string
	ReceivedQuantity decimal.Decimal
	Observation      string
}

// ReceiveInput datos de la recepción.
type ReceiveInput struct {
	Observations string
	Lines        []ReceiveLineInput
}

// Receive pasa dispatched -> received: por cada línea entra al destino la
// cantidad recibida (por defecto la enviada) y calcula la discrepancia
// enviado - recibido. Una discrepancia distinta de cero exige observación
// pero no bloquea: se registra y el flujo continúa. Todas las líneas en una
// sola transacción.
func (uc *UseCase) Receive(ctx context.Context, transferID, userID string, in ReceiveInput) (*entity.Transfer, error) {
	lines := make(map[string]ReceiveLineInput, len(in.Lines))
	for _, l := range in.Lines {
		if l.ReceivedQuantity.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		lines[l.ProductID] = l
	}

	var result *entity.Transfer
	err := uc.txRunner.RunTransfer(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		movRepo repository.StockMovementRepository,
		transferRepo repository.TransferRepository,
		transitRepo repository.GoodsInTransitRepository,
	) error {
		transfer, err := uc.lockTransition(ctx, transferRepo, transferID, entity.TransferStatusReceived)
		if err != nil {
			return err
		}
		now := time.Now()
		for i := range transfer.Details {
			if err := ctx.Err(); err != nil {
				return err
			}
			detail := &transfer.Details[i]
			if detail.SentQuantity == nil {
				return fmt.Errorf("línea %d: producto %s: sin cantidad enviada: %w", i+1, detail.ProductCode, domain.ErrInvalidInput)
			}
			received := *detail.SentQuantity
			observation := ""
			if line, ok := lines[detail.ProductID]; ok {
				received = line.ReceivedQuantity
				observation = line.Observation
				delete(lines, detail.ProductID)
			}
			discrepancy := detail.SentQuantity.Sub(received)
			if !discrepancy.IsZero() && observation == "" {
				return fmt.Errorf("línea %d: producto %s: discrepancia sin observación: %w", i+1, detail.ProductCode, domain.ErrInvalidInput)
			}
			if received.GreaterThan(decimal.Zero) {
				if err := uc.stock.ReceiveInTx(ctx, recordRepo, movRepo, inventory.StockInput{
					WarehouseID:   transfer.DestinationWarehouseID,
					ProductID:     detail.ProductID,
					Quantity:      received,
					UserID:        userID,
					ReferenceID:   transfer.ID,
					ReferenceType: entity.ReferenceTypeTransfer,
					Reason:        "traspaso desde " + transfer.SourceWarehouseID,
				}); err != nil {
					return fmt.Errorf("línea %d: producto %s: %w", i+1, detail.ProductCode, err)
				}
			}
			receivedQty := received
			detail.ReceivedQuantity = &receivedQty
			disc := discrepancy
			detail.Discrepancy = &disc
			detail.DiscrepancyObservation = observation
		}
		for productID := range lines {
			return fmt.Errorf("producto %s no pertenece al traspaso: %w", productID, domain.ErrInvalidInput)
		}
		transfer.Status = entity.TransferStatusReceived
		transfer.ReceivedByUserID = userID
		transfer.ActualArrivalDate = &now
		if in.Observations != "" {
			transfer.Notes = in.Observations
		}
		if err := transferRepo.Update(ctx, transfer); err != nil {
			return err
		}
		// El registro de tránsito es metadato: se marca entregado sin
		// condicionar el estado del traspaso.
		if transit, err := transitRepo.GetByTransferID(ctx, transfer.ID); err == nil && transit != nil {
			transit.TransitStatus = entity.TransitStatusDelivered
			transit.CurrentLocation = transfer.DestinationWarehouseID
			transit.Notes = "traspaso recibido en bodega destino"
			transit.UpdatedBy = userID
			transit.UpdatedAt = now
			if err := transitRepo.Update(ctx, transit); err != nil {
				return err
			}
		}
		result = transfer
		return nil
	})
	return result, err
}

// Complete pasa received -> completed. Solo cierre contable: fija la fecha
// de terminación, sin efecto en existencias.
func (uc *UseCase) Complete(ctx context.Context, transferID, userID string) (*entity.Transfer, error) {
	var result *entity.Transfer
	err := uc.txRunner.RunTransfer(ctx, func(
		_ repository.InventoryRecordRepository,
		_ repository.StockMovementRepository,
		transferRepo repository.TransferRepository,
		_ repository.GoodsInTransitRepository,
	) error {
		transfer, err := uc.lockTransition(ctx, transferRepo, transferID, entity.TransferStatusCompleted)
		if err != nil {
			return err
		}
		now := time.Now()
		transfer.Status = entity.TransferStatusCompleted
		transfer.CompletedDate = &now
		result = transfer
		return transferRepo.Update(ctx, transfer)
	})
	return result, err
}

// Cancel pasa requested/approved -> cancelled. Las reservas del despacho
// viven solo dentro de su transacción, así que un traspaso cancelado antes
// de despachar no retiene existencias.
func (uc *UseCase) Cancel(ctx context.Context, transferID, userID, reason string) (*entity.Transfer, error) {
	var result *entity.Transfer
	err := uc.txRunner.RunTransfer(ctx, func(
		_ repository.InventoryRecordRepository,
		_ repository.StockMovementRepository,
		transferRepo repository.TransferRepository,
		_ repository.GoodsInTransitRepository,
	) error {
		transfer, err := uc.lockTransition(ctx, transferRepo, transferID, entity.TransferStatusCancelled)
		if err != nil {
			return err
		}
		transfer.Status = entity.TransferStatusCancelled
		transfer.Notes = reason
		result = transfer
		return transferRepo.Update(ctx, transfer)
	})
	return result, err
}

// TransitUpdateInput actualización de metadatos de tránsito.
type TransitUpdateInput struct {
	TransitStatus   string
	CurrentLocation string
	Latitude        *float64
	Longitude       *float64
	Temperature     *float64
	Notes           string
}

// UpdateTransit actualiza el seguimiento de la mercancía despachada. No
// altera el estado del Transfer.
func (uc *UseCase) UpdateTransit(ctx context.Context, transferID, userID string, in TransitUpdateInput) (*entity.GoodsInTransit, error) {
	if !entity.ValidTransitStatus(in.TransitStatus) {
		return nil, domain.ErrInvalidInput
	}
	transit, err := uc.transitRepo.GetByTransferID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if transit == nil {
		return nil, domain.ErrNotFound
	}
	transit.TransitStatus = in.TransitStatus
	if in.CurrentLocation != "" {
		transit.CurrentLocation = in.CurrentLocation
	}
	transit.Latitude = in.Latitude
	transit.Longitude = in.Longitude
	transit.Temperature = in.Temperature
	if in.Notes != "" {
		transit.Notes = in.Notes
	}
	transit.UpdatedBy = userID
	transit.UpdatedAt = time.Now()
	if err := uc.transitRepo.Update(ctx, transit); err != nil {
		return nil, err
	}
	return transit, nil
}

// GetTransit devuelve el registro de tránsito de un traspaso despachado.
func (uc *UseCase) GetTransit(ctx context.Context, transferID string) (*entity.GoodsInTransit, error) {
	transit, err := uc.transitRepo.GetByTransferID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if transit == nil {
		return nil, domain.ErrNotFound
	}
	return transit, nil
}

// GetByID devuelve el traspaso.
func (uc *UseCase) GetByID(ctx context.Context, transferID string) (*entity.Transfer, error) {
	transfer, err := uc.transferRepo.GetByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if transfer == nil {
		return nil, domain.ErrNotFound
	}
	return transfer, nil
}

// List devuelve traspasos filtrados por estado y/o bodega.
func (uc *UseCase) List(ctx context.Context, status, warehouseID string, limit, offset int) ([]*entity.Transfer, error) {
	return uc.transferRepo.List(ctx, status, warehouseID, limit, offset)
}

// lockTransition carga el traspaso con candado y valida que el paso al
// estado destino esté en la tabla de transiciones.
func (uc *UseCase) lockTransition(ctx context.Context, transferRepo repository.TransferRepository, transferID, target string) (*entity.Transfer, error) {
	transfer, err := transferRepo.GetByIDForUpdate(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if transfer == nil {
		return nil, domain.ErrNotFound
	}
	if !entity.CanTransition(transfer.Status, target) {
		return nil, fmt.Errorf("%s -> %s: %w", transfer.Status, target, domain.ErrInvalidTransition)
	}
	return transfer, nil
}
