package repository

import (
	"context"

	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
)

// IncidentRepository define el puerto de persistencia para incidencias.
type IncidentRepository interface {
	Create(ctx context.Context, incident *entity.Incident) error
	GetByID(ctx context.Context, id string) (*entity.Incident, error)
	Update(ctx context.Context, incident *entity.Incident) error
	List(ctx context.Context, warehouseID, status, priority string, limit, offset int) ([]*entity.Incident, error)
}

// IncidentTypeRepository define el puerto del catálogo de tipos de incidencia.
type IncidentTypeRepository interface {
	Create(ctx context.Context, incidentType *entity.IncidentType) error
	GetByID(ctx context.Context, id string) (*entity.IncidentType, error)
	// GetByCode devuelve el tipo por código o nil.
	GetByCode(ctx context.Context, code string) (*entity.IncidentType, error)
	List(ctx context.Context, category string) ([]*entity.IncidentType, error)
}
