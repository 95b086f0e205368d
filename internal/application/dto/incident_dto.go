package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateIncidentDetailRequest producto afectado.
type CreateIncidentDetailRequest struct {
	ProductID        string           `json:"product_id"`
	AffectedQuantity decimal.Decimal  `json:"affected_quantity"`
	UnitCost         *decimal.Decimal `json:"unit_cost,omitempty"`
}

// CreateIncidentRequest body para POST /api/incidents.
type CreateIncidentRequest struct {
	TypeID          string                        `json:"type_id"`
	WarehouseID     string                        `json:"warehouse_id"`
	DetectionMoment string                        `json:"detection_moment"`
	Priority        string                        `json:"priority,omitempty"`
	Description     string                        `json:"description"`
	ReferenceID     string                        `json:"reference_id,omitempty"`
	ReferenceType   string                        `json:"reference_type,omitempty"`
	Details         []CreateIncidentDetailRequest `json:"details,omitempty"`
}

// ResolveIncidentRequest body para resolver una incidencia.
type ResolveIncidentRequest struct {
	ActionsTaken   string           `json:"actions_taken"`
	EconomicImpact *decimal.Decimal `json:"economic_impact,omitempty"`
}

// ChangeIncidentStatusRequest body para mover el estado de una incidencia.
type ChangeIncidentStatusRequest struct {
	Status string `json:"status"`
}

// CreateIncidentTypeRequest body para dar de alta un tipo de incidencia.
type CreateIncidentTypeRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
}

// IncidentDetailResponse producto afectado.
type IncidentDetailResponse struct {
	ProductID        string          `json:"product_id"`
	ProductCode      string          `json:"product_code"`
	ProductName      string          `json:"product_name"`
	AffectedQuantity decimal.Decimal `json:"affected_quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	TotalCost        decimal.Decimal `json:"total_cost"`
}

// IncidentResponse incidencia completa.
type IncidentResponse struct {
	ID               string                   `json:"id"`
	IncidentNumber   string                   `json:"incident_number"`
	TypeID           string                   `json:"type_id"`
	WarehouseID      string                   `json:"warehouse_id"`
	DetectionMoment  string                   `json:"detection_moment"`
	Status           string                   `json:"status"`
	Priority         string                   `json:"priority"`
	Description      string                   `json:"description"`
	ActionsTaken     string                   `json:"actions_taken,omitempty"`
	EconomicImpact   decimal.Decimal          `json:"economic_impact"`
	Details          []IncidentDetailResponse `json:"details"`
	ReferenceID      string                   `json:"reference_id,omitempty"`
	ReferenceType    string                   `json:"reference_type,omitempty"`
	ReportedByUserID string                   `json:"reported_by_user_id"`
	ResolvedByUserID string                   `json:"resolved_by_user_id,omitempty"`
	IncidentDate     time.Time                `json:"incident_date"`
	ResolutionDate   *time.Time               `json:"resolution_date,omitempty"`
}

// IncidentTypeResponse tipo de incidencia del catálogo.
type IncidentTypeResponse struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
