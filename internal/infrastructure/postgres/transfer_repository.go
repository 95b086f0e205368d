package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/almacen-pro/internal/domain"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
	"github.com/tu-usuario/almacen-pro/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación sobre PostgreSQL. Las líneas del traspaso se
// guardan embebidas como JSONB en la misma fila: se leen y escriben siempre
// junto con su cabecera.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferCols = `id, transfer_number, source_warehouse_id, destination_warehouse_id, status, priority, details,
		requested_by, approved_by, dispatched_by, received_by,
		request_date, approval_date, departure_date, estimated_arrival_date, actual_arrival_date, completed_date,
		carrier, tracking_number, transport_cost, reason, notes`

// Create persiste un traspaso nuevo.
func (r *TransferRepo) Create(ctx context.Context, transfer *entity.Transfer) error {
	details, err := json.Marshal(transfer.Details)
	if err != nil {
		return fmt.Errorf("marshal transfer details: %w", err)
	}
	query := `
		INSERT INTO transfers (` + transferCols + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`
	_, err = r.q.Exec(ctx, query,
		transfer.ID, transfer.TransferNumber, transfer.SourceWarehouseID, transfer.DestinationWarehouseID,
		transfer.Status, transfer.Priority, details,
		transfer.RequestedByUserID, transfer.ApprovedByUserID, transfer.DispatchedByUserID, transfer.ReceivedByUserID,
		transfer.RequestDate, transfer.ApprovalDate, transfer.DepartureDate,
		transfer.EstimatedArrivalDate, transfer.ActualArrivalDate, transfer.CompletedDate,
		transfer.Carrier, transfer.TrackingNumber, transfer.TransportCost, transfer.Reason, transfer.Notes,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("transfer number %s: %w", transfer.TransferNumber, domain.ErrDuplicate)
		}
		return fmt.Errorf("create transfer: %w", err)
	}
	return nil
}

// GetByID obtiene un traspaso por ID; nil si no existe.
func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.Transfer, error) {
	query := `SELECT ` + transferCols + ` FROM transfers WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

// GetByIDForUpdate obtiene y bloquea el traspaso (SELECT FOR UPDATE) para
// validar y aplicar la transición sin carreras.
func (r *TransferRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Transfer, error) {
	query := `SELECT ` + transferCols + ` FROM transfers WHERE id = $1 FOR UPDATE`
	return r.scanOne(ctx, query, id)
}

func (r *TransferRepo) scanOne(ctx context.Context, query, id string) (*entity.Transfer, error) {
	var t entity.Transfer
	var details []byte
	err := r.q.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.TransferNumber, &t.SourceWarehouseID, &t.DestinationWarehouseID,
		&t.Status, &t.Priority, &details,
		&t.RequestedByUserID, &t.ApprovedByUserID, &t.DispatchedByUserID, &t.ReceivedByUserID,
		&t.RequestDate, &t.ApprovalDate, &t.DepartureDate,
		&t.EstimatedArrivalDate, &t.ActualArrivalDate, &t.CompletedDate,
		&t.Carrier, &t.TrackingNumber, &t.TransportCost, &t.Reason, &t.Notes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	if err := json.Unmarshal(details, &t.Details); err != nil {
		return nil, fmt.Errorf("unmarshal transfer details: %w", err)
	}
	return &t, nil
}

// Update reescribe el traspaso completo, detalles incluidos.
func (r *TransferRepo) Update(ctx context.Context, transfer *entity.Transfer) error {
	details, err := json.Marshal(transfer.Details)
	if err != nil {
		return fmt.Errorf("marshal transfer details: %w", err)
	}
	query := `
		UPDATE transfers SET
			status = $2, priority = $3, details = $4,
			approved_by = $5, dispatched_by = $6, received_by = $7,
			approval_date = $8, departure_date = $9, estimated_arrival_date = $10,
			actual_arrival_date = $11, completed_date = $12,
			carrier = $13, tracking_number = $14, transport_cost = $15, reason = $16, notes = $17
		WHERE id = $1`
	_, err = r.q.Exec(ctx, query,
		transfer.ID, transfer.Status, transfer.Priority, details,
		transfer.ApprovedByUserID, transfer.DispatchedByUserID, transfer.ReceivedByUserID,
		transfer.ApprovalDate, transfer.DepartureDate, transfer.EstimatedArrivalDate,
		transfer.ActualArrivalDate, transfer.CompletedDate,
		transfer.Carrier, transfer.TrackingNumber, transfer.TransportCost, transfer.Reason, transfer.Notes,
	)
	if err != nil {
		return fmt.Errorf("update transfer: %w", err)
	}
	return nil
}

// List lista traspasos filtrando opcionalmente por estado y por bodega
// (origen o destino).
func (r *TransferRepo) List(ctx context.Context, status, warehouseID string, limit, offset int) ([]*entity.Transfer, error) {
	query := `SELECT ` + transferCols + ` FROM transfers WHERE 1=1`
	args := []any{}
	pos := 1
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, status)
		pos++
	}
	if warehouseID != "" {
		query += fmt.Sprintf(" AND (source_warehouse_id = $%d OR destination_warehouse_id = $%d)", pos, pos)
		args = append(args, warehouseID)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY request_date DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()

	var list []*entity.Transfer
	for rows.Next() {
		var t entity.Transfer
		var details []byte
		if err := rows.Scan(
			&t.ID, &t.TransferNumber, &t.SourceWarehouseID, &t.DestinationWarehouseID,
			&t.Status, &t.Priority, &details,
			&t.RequestedByUserID, &t.ApprovedByUserID, &t.DispatchedByUserID, &t.ReceivedByUserID,
			&t.RequestDate, &t.ApprovalDate, &t.DepartureDate,
			&t.EstimatedArrivalDate, &t.ActualArrivalDate, &t.CompletedDate,
			&t.Carrier, &t.TrackingNumber, &t.TransportCost, &t.Reason, &t.Notes,
		); err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		if err := json.Unmarshal(details, &t.Details); err != nil {
			return nil, fmt.Errorf("unmarshal transfer details: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
