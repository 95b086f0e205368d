package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la incidencia. Una incidencia resuelta puede cerrarse pero ya
// no reabrirse; closed es terminal.
const (
	IncidentStatusOpen          = "open"
	IncidentStatusInvestigating = "investigating"
	IncidentStatusResolved      = "resolved"
	IncidentStatusClosed        = "closed"
)

// incidentTransitions es la tabla de transiciones permitidas del estado de
// la incidencia.
var incidentTransitions = map[string][]string{
	IncidentStatusOpen:          {IncidentStatusInvestigating, IncidentStatusResolved},
	IncidentStatusInvestigating: {IncidentStatusOpen, IncidentStatusResolved},
	IncidentStatusResolved:      {IncidentStatusClosed},
}

// CanTransitionIncident indica si el paso from -> to está en la tabla.
func CanTransitionIncident(from, to string) bool {
	for _, next := range incidentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Prioridades de la incidencia.
const (
	IncidentPriorityLow      = "low"
	IncidentPriorityMedium   = "medium"
	IncidentPriorityHigh     = "high"
	IncidentPriorityCritical = "critical"
)

// ValidIncidentPriority valida la prioridad recibida.
func ValidIncidentPriority(p string) bool {
	switch p {
	case IncidentPriorityLow, IncidentPriorityMedium, IncidentPriorityHigh, IncidentPriorityCritical:
		return true
	}
	return false
}

// Momentos de detección: en qué parte de la operación se observó el problema.
// También clasifican los tipos de incidencia.
const (
	DetectionMomentReception = "reception"
	DetectionMomentOperation = "operation"
	DetectionMomentInventory = "inventory"
	DetectionMomentSale      = "sale"
)

// ValidDetectionMoment valida el momento de detección recibido.
func ValidDetectionMoment(m string) bool {
	switch m {
	case DetectionMomentReception, DetectionMomentOperation, DetectionMomentInventory, DetectionMomentSale:
		return true
	}
	return false
}

// IncidentType es el catálogo de tipos de incidencia (merma, daño en
// tránsito, diferencia de conteo).
type IncidentType struct {
	ID          string
	Code        string // único, en mayúsculas
	Name        string
	Category    string // reception, operation, inventory, sale
	Description string
	Status      string // active, inactive
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IncidentDetail es un producto afectado por la incidencia (embebido en
// Incident). TotalCost = AffectedQuantity * UnitCost.
type IncidentDetail struct {
	ProductID        string          `json:"product_id"`
	ProductCode      string          `json:"product_code"`
	ProductName      string          `json:"product_name"`
	AffectedQuantity decimal.Decimal `json:"affected_quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	TotalCost        decimal.Decimal `json:"total_cost"`
}

// Incident es el reporte de un problema operativo en una bodega, con los
// productos afectados y su impacto económico.
type Incident struct {
	ID               string
	IncidentNumber   string // único, generado (INC-XXXXXXXX)
	TypeID           string
	WarehouseID      string
	DetectionMoment  string
	Status           string
	Priority         string
	Description      string
	ActionsTaken     string
	EconomicImpact   decimal.Decimal // suma de costos totales de los detalles
	Details          []IncidentDetail
	ReferenceID      string // venta o traspaso que originó el reporte
	ReferenceType    string
	ReportedByUserID string
	ResolvedByUserID string
	IncidentDate     time.Time
	ResolutionDate   *time.Time
}
