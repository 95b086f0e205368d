package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTransferDetailRequest línea solicitada.
type CreateTransferDetailRequest struct {
	ProductID         string          `json:"product_id"`
	RequestedQuantity decimal.Decimal `json:"requested_quantity"`
}

// CreateTransferRequest body para POST /api/transfers.
type CreateTransferRequest struct {
	SourceWarehouseID      string                        `json:"source_warehouse_id"`
	DestinationWarehouseID string                        `json:"destination_warehouse_id"`
	Priority               string                        `json:"priority,omitempty"`
	Reason                 string                        `json:"reason,omitempty"`
	Notes                  string                        `json:"notes,omitempty"`
	Carrier                string                        `json:"carrier,omitempty"`
	EstimatedArrivalDate   *time.Time                    `json:"estimated_arrival_date,omitempty"`
	Details                []CreateTransferDetailRequest `json:"details"`
}

// ObservationsRequest body para aprobar/rechazar/cancelar con observaciones.
type ObservationsRequest struct {
	Observations string `json:"observations,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

// DispatchLineRequest sobrescritura de cantidad enviada por línea.
type DispatchLineRequest struct {
	ProductID    string          `json:"product_id"`
	SentQuantity decimal.Decimal `json:"sent_quantity"`
}

// DispatchTransferRequest body para el despacho.
type DispatchTransferRequest struct {
	TrackingNumber string                `json:"tracking_number,omitempty"`
	TransportCost  *decimal.Decimal      `json:"transport_cost,omitempty"`
	Observations   string                `json:"observations,omitempty"`
	Lines          []DispatchLineRequest `json:"lines,omitempty"`
}

// ReceiveLineRequest cantidad recibida por línea.
type ReceiveLineRequest struct {
	ProductID        string          `json:"product_id"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	Observation      string          `json:"observation,omitempty"`
}

// ReceiveTransferRequest body para la recepción.
type ReceiveTransferRequest struct {
	Observations string               `json:"observations,omitempty"`
	Lines        []ReceiveLineRequest `json:"lines,omitempty"`
}

// TransitUpdateRequest body para actualizar seguimiento de tránsito.
type TransitUpdateRequest struct {
	TransitStatus   string   `json:"transit_status"`
	CurrentLocation string   `json:"current_location,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty"`
	Notes           string   `json:"notes,omitempty"`
}

// TransferDetailResponse línea del traspaso.
type TransferDetailResponse struct {
	ProductID              string           `json:"product_id"`
	ProductCode            string           `json:"product_code"`
	ProductName            string           `json:"product_name"`
	RequestedQuantity      decimal.Decimal  `json:"requested_quantity"`
	SentQuantity           *decimal.Decimal `json:"sent_quantity,omitempty"`
	ReceivedQuantity       *decimal.Decimal `json:"received_quantity,omitempty"`
	Discrepancy            *decimal.Decimal `json:"discrepancy,omitempty"`
	DiscrepancyObservation string           `json:"discrepancy_observation,omitempty"`
}

// TransferResponse traspaso completo.
type TransferResponse struct {
	ID                     string                   `json:"id"`
	TransferNumber         string                   `json:"transfer_number"`
	SourceWarehouseID      string                   `json:"source_warehouse_id"`
	DestinationWarehouseID string                   `json:"destination_warehouse_id"`
	Status                 string                   `json:"status"`
	Priority               string                   `json:"priority"`
	Details                []TransferDetailResponse `json:"details"`
	RequestedByUserID      string                   `json:"requested_by_user_id"`
	ApprovedByUserID       string                   `json:"approved_by_user_id,omitempty"`
	DispatchedByUserID     string                   `json:"dispatched_by_user_id,omitempty"`
	ReceivedByUserID       string                   `json:"received_by_user_id,omitempty"`
	RequestDate            time.Time                `json:"request_date"`
	ApprovalDate           *time.Time               `json:"approval_date,omitempty"`
	DepartureDate          *time.Time               `json:"departure_date,omitempty"`
	EstimatedArrivalDate   *time.Time               `json:"estimated_arrival_date,omitempty"`
	ActualArrivalDate      *time.Time               `json:"actual_arrival_date,omitempty"`
	CompletedDate          *time.Time               `json:"completed_date,omitempty"`
	Carrier                string                   `json:"carrier,omitempty"`
	TrackingNumber         string                   `json:"tracking_number,omitempty"`
	TransportCost          *decimal.Decimal         `json:"transport_cost,omitempty"`
	Reason                 string                   `json:"reason,omitempty"`
	Notes                  string                   `json:"notes,omitempty"`
}

// GoodsInTransitResponse seguimiento de mercancía despachada.
type GoodsInTransitResponse struct {
	TransferID      string    `json:"transfer_id"`
	CurrentLocation string    `json:"current_location,omitempty"`
	TransitStatus   string    `json:"transit_status"`
	Latitude        *float64  `json:"latitude,omitempty"`
	Longitude       *float64  `json:"longitude,omitempty"`
	Temperature     *float64  `json:"temperature,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	UpdatedBy       string    `json:"updated_by"`
	UpdatedAt       time.Time `json:"updated_at"`
}
