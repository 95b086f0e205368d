package entity

import "time"

// Estados de tránsito de la mercancía despachada. Son metadatos: no
// condicionan el estado del Transfer.
const (
	TransitStatusInPreparation = "in_preparation"
	TransitStatusInRoute       = "in_route"
	TransitStatusAtDestination = "at_destination"
	TransitStatusDelivered     = "delivered"
)

// ValidTransitStatus valida el estado de tránsito recibido.
func ValidTransitStatus(s string) bool {
	switch s {
	case TransitStatusInPreparation, TransitStatusInRoute, TransitStatusAtDestination, TransitStatusDelivered:
		return true
	}
	return false
}

// GoodsInTransit es el registro de seguimiento de un traspaso despachado
// (1:1 con el Transfer). Telemetría opcional para transporte monitoreado.
type GoodsInTransit struct {
	TransferID      string
	CurrentLocation string
	TransitStatus   string
	Latitude        *float64
	Longitude       *float64
	Temperature     *float64
	Notes           string
	UpdatedBy       string
	UpdatedAt       time.Time
}
