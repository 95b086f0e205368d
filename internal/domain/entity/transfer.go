package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del traspaso. Transiciones permitidas únicamente según
// transferTransitions; cualquier otra se rechaza.
const (
	TransferStatusRequested  = "requested"
	TransferStatusApproved   = "approved"
	TransferStatusDispatched = "dispatched"
	TransferStatusReceived   = "received"
	TransferStatusCompleted  = "completed"
	TransferStatusRejected   = "rejected"
	TransferStatusCancelled  = "cancelled"
)

// Prioridades del traspaso.
const (
	TransferPriorityLow    = "low"
	TransferPriorityNormal = "normal"
	TransferPriorityHigh   = "high"
	TransferPriorityUrgent = "urgent"
)

// transferTransitions es la tabla de transiciones permitidas del estado del
// traspaso. La validez se decide aquí, no por presencia de campos.
var transferTransitions = map[string][]string{
	TransferStatusRequested:  {TransferStatusApproved, TransferStatusRejected, TransferStatusCancelled},
	TransferStatusApproved:   {TransferStatusDispatched, TransferStatusCancelled},
	TransferStatusDispatched: {TransferStatusReceived},
	TransferStatusReceived:   {TransferStatusCompleted},
}

// CanTransition indica si el paso from -> to está en la tabla de transiciones.
func CanTransition(from, to string) bool {
	for _, next := range transferTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidTransferPriority valida la prioridad recibida.
func ValidTransferPriority(p string) bool {
	switch p {
	case TransferPriorityLow, TransferPriorityNormal, TransferPriorityHigh, TransferPriorityUrgent:
		return true
	}
	return false
}

// TransferDetail es una línea del traspaso (embebida en Transfer).
// Discrepancy = SentQuantity - ReceivedQuantity; nula hasta la recepción.
type TransferDetail struct {
	ProductID              string           `json:"product_id"`
	ProductCode            string           `json:"product_code"` // desnormalizado
	ProductName            string           `json:"product_name"` // desnormalizado
	RequestedQuantity      decimal.Decimal  `json:"requested_quantity"`
	SentQuantity           *decimal.Decimal `json:"sent_quantity,omitempty"`
	ReceivedQuantity       *decimal.Decimal `json:"received_quantity,omitempty"`
	Discrepancy            *decimal.Decimal `json:"discrepancy,omitempty"`
	DiscrepancyObservation string           `json:"discrepancy_observation,omitempty"` // obligatoria si Discrepancy != 0
}

// Transfer representa un traspaso de mercancía entre dos bodegas con flujo
// de aprobación, despacho y recepción.
type Transfer struct {
	ID                     string
	TransferNumber         string // único, generado (TRF-XXXXXXXX)
	SourceWarehouseID      string
	DestinationWarehouseID string
	Status                 string
	Priority               string
	Details                []TransferDetail
	RequestedByUserID      string
	ApprovedByUserID       string
	DispatchedByUserID     string
	ReceivedByUserID       string
	RequestDate            time.Time
	ApprovalDate           *time.Time
	DepartureDate          *time.Time
	EstimatedArrivalDate   *time.Time
	ActualArrivalDate      *time.Time
	CompletedDate          *time.Time
	Carrier                string
	TrackingNumber         string
	TransportCost          *decimal.Decimal
	Reason                 string
	Notes                  string
}
