package repository

import "context"

// SequenceGenerator produce números únicos de negocio (folios). El núcleo
// solo requiere unicidad, no un formato particular.
type SequenceGenerator interface {
	// NextTransferNumber devuelve el siguiente folio de traspaso (TRF-XXXXXXXX).
	NextTransferNumber(ctx context.Context) (string, error)
	// NextSaleNumber devuelve el siguiente folio de venta (VTA-XXXXXXXX).
	NextSaleNumber(ctx context.Context) (string, error)
	// NextIncidentNumber devuelve el siguiente folio de incidencia (INC-XXXXXXXX).
	NextIncidentNumber(ctx context.Context) (string, error)
}
