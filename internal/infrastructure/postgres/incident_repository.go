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

var _ repository.IncidentRepository = (*IncidentRepo)(nil)
var _ repository.IncidentTypeRepository = (*IncidentTypeRepo)(nil)

// IncidentRepo implementación sobre PostgreSQL. Los productos afectados se
// guardan embebidos como JSONB en la misma fila.
type IncidentRepo struct {
	q Querier
}

// NewIncidentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewIncidentRepository(q Querier) *IncidentRepo {
	return &IncidentRepo{q: q}
}

const incidentCols = `id, incident_number, type_id, warehouse_id, detection_moment, status, priority,
		description, actions_taken, economic_impact, details, reference_id, reference_type,
		reported_by, resolved_by, incident_date, resolution_date`

// Create persiste una incidencia nueva.
func (r *IncidentRepo) Create(ctx context.Context, incident *entity.Incident) error {
	details, err := json.Marshal(incident.Details)
	if err != nil {
		return fmt.Errorf("marshal incident details: %w", err)
	}
	query := `
		INSERT INTO incidents (` + incidentCols + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err = r.q.Exec(ctx, query,
		incident.ID, incident.IncidentNumber, incident.TypeID, incident.WarehouseID,
		incident.DetectionMoment, incident.Status, incident.Priority,
		incident.Description, incident.ActionsTaken, incident.EconomicImpact, details,
		incident.ReferenceID, incident.ReferenceType,
		incident.ReportedByUserID, incident.ResolvedByUserID,
		incident.IncidentDate, incident.ResolutionDate,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("incident number %s: %w", incident.IncidentNumber, domain.ErrDuplicate)
		}
		return fmt.Errorf("create incident: %w", err)
	}
	return nil
}

// GetByID obtiene una incidencia por ID; nil si no existe.
func (r *IncidentRepo) GetByID(ctx context.Context, id string) (*entity.Incident, error) {
	query := `SELECT ` + incidentCols + ` FROM incidents WHERE id = $1`
	var i entity.Incident
	var details []byte
	err := r.q.QueryRow(ctx, query, id).Scan(
		&i.ID, &i.IncidentNumber, &i.TypeID, &i.WarehouseID,
		&i.DetectionMoment, &i.Status, &i.Priority,
		&i.Description, &i.ActionsTaken, &i.EconomicImpact, &details,
		&i.ReferenceID, &i.ReferenceType,
		&i.ReportedByUserID, &i.ResolvedByUserID,
		&i.IncidentDate, &i.ResolutionDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get incident: %w", err)
	}
	if err := json.Unmarshal(details, &i.Details); err != nil {
		return nil, fmt.Errorf("unmarshal incident details: %w", err)
	}
	return &i, nil
}

// Update reescribe estado, resolución e impacto de la incidencia.
func (r *IncidentRepo) Update(ctx context.Context, incident *entity.Incident) error {
	query := `
		UPDATE incidents SET
			status = $2, actions_taken = $3, economic_impact = $4,
			resolved_by = $5, resolution_date = $6
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		incident.ID, incident.Status, incident.ActionsTaken, incident.EconomicImpact,
		incident.ResolvedByUserID, incident.ResolutionDate,
	)
	if err != nil {
		return fmt.Errorf("update incident: %w", err)
	}
	return nil
}

// List lista incidencias filtrando opcionalmente por bodega, estado y
// prioridad.
func (r *IncidentRepo) List(ctx context.Context, warehouseID, status, priority string, limit, offset int) ([]*entity.Incident, error) {
	query := `SELECT ` + incidentCols + ` FROM incidents WHERE 1=1`
	args := []any{}
	pos := 1
	if warehouseID != "" {
		query += fmt.Sprintf(" AND warehouse_id = $%d", pos)
		args = append(args, warehouseID)
		pos++
	}
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, status)
		pos++
	}
	if priority != "" {
		query += fmt.Sprintf(" AND priority = $%d", pos)
		args = append(args, priority)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY incident_date DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	defer rows.Close()

	var list []*entity.Incident
	for rows.Next() {
		var i entity.Incident
		var details []byte
		if err := rows.Scan(
			&i.ID, &i.IncidentNumber, &i.TypeID, &i.WarehouseID,
			&i.DetectionMoment, &i.Status, &i.Priority,
			&i.Description, &i.ActionsTaken, &i.EconomicImpact, &details,
			&i.ReferenceID, &i.ReferenceType,
			&i.ReportedByUserID, &i.ResolvedByUserID,
			&i.IncidentDate, &i.ResolutionDate,
		); err != nil {
			return nil, fmt.Errorf("scan incident: %w", err)
		}
		if err := json.Unmarshal(details, &i.Details); err != nil {
			return nil, fmt.Errorf("unmarshal incident details: %w", err)
		}
		list = append(list, &i)
	}
	return list, rows.Err()
}

// IncidentTypeRepo catálogo de tipos de incidencia sobre PostgreSQL.
type IncidentTypeRepo struct {
	q Querier
}

// NewIncidentTypeRepository construye el adaptador.
func NewIncidentTypeRepository(q Querier) *IncidentTypeRepo {
	return &IncidentTypeRepo{q: q}
}

const incidentTypeCols = `id, code, name, category, description, status, created_at, updated_at`

// Create persiste un tipo de incidencia nuevo.
func (r *IncidentTypeRepo) Create(ctx context.Context, t *entity.IncidentType) error {
	query := `
		INSERT INTO incident_types (` + incidentTypeCols + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.Code, t.Name, t.Category, t.Description, t.Status, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("incident type %s: %w", t.Code, domain.ErrDuplicate)
		}
		return fmt.Errorf("create incident type: %w", err)
	}
	return nil
}

// GetByID obtiene un tipo por ID; nil si no existe.
func (r *IncidentTypeRepo) GetByID(ctx context.Context, id string) (*entity.IncidentType, error) {
	return r.scanOne(ctx, `SELECT `+incidentTypeCols+` FROM incident_types WHERE id = $1`, id)
}

// GetByCode obtiene un tipo por código; nil si no existe.
func (r *IncidentTypeRepo) GetByCode(ctx context.Context, code string) (*entity.IncidentType, error) {
	return r.scanOne(ctx, `SELECT `+incidentTypeCols+` FROM incident_types WHERE code = $1`, code)
}

func (r *IncidentTypeRepo) scanOne(ctx context.Context, query, arg string) (*entity.IncidentType, error) {
	var t entity.IncidentType
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&t.ID, &t.Code, &t.Name, &t.Category, &t.Description, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get incident type: %w", err)
	}
	return &t, nil
}

// List lista tipos, opcionalmente por categoría.
func (r *IncidentTypeRepo) List(ctx context.Context, category string) ([]*entity.IncidentType, error) {
	query := `SELECT ` + incidentTypeCols + ` FROM incident_types`
	args := []any{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY code`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list incident types: %w", err)
	}
	defer rows.Close()

	var list []*entity.IncidentType
	for rows.Next() {
		var t entity.IncidentType
		if err := rows.Scan(
			&t.ID, &t.Code, &t.Name, &t.Category, &t.Description, &t.Status, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan incident type: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
