// Package incident implementa el reporte y seguimiento de incidencias
// operativas (mermas, daños, diferencias) por bodega.
package incident

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-pro/internal/domain"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
	"github.com/tu-usuario/almacen-pro/internal/domain/repository"
)

// UseCase casos de uso de incidencias. Las incidencias son un registro
// administrativo: documentan el problema y su impacto económico, pero no
// tocan existencias; la corrección de inventario va por la ruta de ajuste.
type UseCase struct {
	incidentRepo  repository.IncidentRepository
	typeRepo      repository.IncidentTypeRepository
	warehouseRepo repository.WarehouseRepository
	productRepo   repository.ProductRepository
	seq           repository.SequenceGenerator
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	incidentRepo repository.IncidentRepository,
	typeRepo repository.IncidentTypeRepository,
	warehouseRepo repository.WarehouseRepository,
	productRepo repository.ProductRepository,
	seq repository.SequenceGenerator,
) *UseCase {
	return &UseCase{
		incidentRepo:  incidentRepo,
		typeRepo:      typeRepo,
		warehouseRepo: warehouseRepo,
		productRepo:   productRepo,
		seq:           seq,
	}
}

// CreateDetailInput producto afectado por la incidencia.
type CreateDetailInput struct {
	ProductID        string
	AffectedQuantity decimal.Decimal
	UnitCost         *decimal.Decimal // nil: costo de lista del producto
}

// CreateInput datos de una incidencia nueva.
type CreateInput struct {
	TypeID          string
	WarehouseID     string
	DetectionMoment string
	Priority        string // por defecto medium
	Description     string
	ReferenceID     string
	ReferenceType   string
	Details         []CreateDetailInput
	UserID          string
}

// Create registra la incidencia en estado open. El impacto económico es la
// suma de cantidad afectada por costo unitario de cada detalle.
func (uc *UseCase) Create(ctx context.Context, in CreateInput) (*entity.Incident, error) {
	if in.TypeID == "" || in.WarehouseID == "" || in.UserID == "" || in.Description == "" {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidDetectionMoment(in.DetectionMoment) {
		return nil, domain.ErrInvalidInput
	}
	if in.Priority == "" {
		in.Priority = entity.IncidentPriorityMedium
	}
	if !entity.ValidIncidentPriority(in.Priority) {
		return nil, domain.ErrInvalidInput
	}
	incidentType, err := uc.typeRepo.GetByID(ctx, in.TypeID)
	if err != nil || incidentType == nil || incidentType.Status != "active" {
		return nil, domain.ErrNotFound
	}
	wh, err := uc.warehouseRepo.GetByID(ctx, in.WarehouseID)
	if err != nil || wh == nil || wh.Status != "active" {
		return nil, domain.ErrNotFound
	}

	details := make([]entity.IncidentDetail, 0, len(in.Details))
	impact := decimal.Zero
	for i, d := range in.Details {
		if !d.AffectedQuantity.GreaterThan(decimal.Zero) {
			return nil, fmt.Errorf("detalle %d: %w", i+1, domain.ErrInvalidInput)
		}
		product, err := uc.productRepo.GetByID(ctx, d.ProductID)
		if err != nil || product == nil {
			return nil, fmt.Errorf("detalle %d: producto %s: %w", i+1, d.ProductID, domain.ErrNotFound)
		}
		unitCost := product.Cost
		if d.UnitCost != nil {
			if d.UnitCost.IsNegative() {
				return nil, fmt.Errorf("detalle %d: producto %s: %w", i+1, product.Code, domain.ErrInvalidInput)
			}
			unitCost = *d.UnitCost
		}
		totalCost := d.AffectedQuantity.Mul(unitCost)
		details = append(details, entity.IncidentDetail{
			ProductID:        d.ProductID,
			ProductCode:      product.Code,
			ProductName:      product.Name,
			AffectedQuantity: d.AffectedQuantity,
			UnitCost:         unitCost,
			TotalCost:        totalCost,
		})
		impact = impact.Add(totalCost)
	}

	number, err := uc.seq.NextIncidentNumber(ctx)
	if err != nil {
		return nil, err
	}
	incident := &entity.Incident{
		ID:               uuid.New().String(),
		IncidentNumber:   number,
		TypeID:           in.TypeID,
		WarehouseID:      in.WarehouseID,
		DetectionMoment:  in.DetectionMoment,
		Status:           entity.IncidentStatusOpen,
		Priority:         in.Priority,
		Description:      in.Description,
		EconomicImpact:   impact,
		Details:          details,
		ReferenceID:      in.ReferenceID,
		ReferenceType:    in.ReferenceType,
		ReportedByUserID: in.UserID,
		IncidentDate:     time.Now(),
	}
	if err := uc.incidentRepo.Create(ctx, incident); err != nil {
		return nil, err
	}
	return incident, nil
}

// ChangeStatus mueve la incidencia por la tabla de transiciones
// (open <-> investigating -> resolved -> closed). Pasar a resolved fija
// fecha y responsable de resolución.
func (uc *UseCase) ChangeStatus(ctx context.Context, incidentID, userID, newStatus string) (*entity.Incident, error) {
	if incidentID == "" || userID == "" {
		return nil, domain.ErrInvalidInput
	}
	incident, err := uc.incidentRepo.GetByID(ctx, incidentID)
	if err != nil {
		return nil, err
	}
	if incident == nil {
		return nil, domain.ErrNotFound
	}
	if !entity.CanTransitionIncident(incident.Status, newStatus) {
		return nil, fmt.Errorf("%s -> %s: %w", incident.Status, newStatus, domain.ErrInvalidTransition)
	}
	incident.Status = newStatus
	if newStatus == entity.IncidentStatusResolved {
		now := time.Now()
		incident.ResolutionDate = &now
		incident.ResolvedByUserID = userID
	}
	if err := uc.incidentRepo.Update(ctx, incident); err != nil {
		return nil, err
	}
	return incident, nil
}

// ResolveInput datos de la resolución.
type ResolveInput struct {
	ActionsTaken   string
	EconomicImpact *decimal.Decimal // sobrescribe el impacto calculado al crear
	UserID         string
}

// Resolve pasa la incidencia a resolved registrando las acciones tomadas y,
// si se indica, el impacto económico final.
func (uc *UseCase) Resolve(ctx context.Context, incidentID string, in ResolveInput) (*entity.Incident, error) {
	if incidentID == "" || in.UserID == "" || in.ActionsTaken == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.EconomicImpact != nil && in.EconomicImpact.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	incident, err := uc.incidentRepo.GetByID(ctx, incidentID)
	if err != nil {
		return nil, err
	}
	if incident == nil {
		return nil, domain.ErrNotFound
	}
	if !entity.CanTransitionIncident(incident.Status, entity.IncidentStatusResolved) {
		return nil, fmt.Errorf("%s -> %s: %w", incident.Status, entity.IncidentStatusResolved, domain.ErrInvalidTransition)
	}
	now := time.Now()
	incident.Status = entity.IncidentStatusResolved
	incident.ActionsTaken = in.ActionsTaken
	if in.EconomicImpact != nil {
		incident.EconomicImpact = *in.EconomicImpact
	}
	incident.ResolutionDate = &now
	incident.ResolvedByUserID = in.UserID
	if err := uc.incidentRepo.Update(ctx, incident); err != nil {
		return nil, err
	}
	return incident, nil
}

// GetByID devuelve la incidencia.
func (uc *UseCase) GetByID(ctx context.Context, incidentID string) (*entity.Incident, error) {
	if incidentID == "" {
		return nil, domain.ErrInvalidInput
	}
	incident, err := uc.incidentRepo.GetByID(ctx, incidentID)
	if err != nil {
		return nil, err
	}
	if incident == nil {
		return nil, domain.ErrNotFound
	}
	return incident, nil
}

// List devuelve incidencias filtradas por bodega, estado y/o prioridad.
func (uc *UseCase) List(ctx context.Context, warehouseID, status, priority string, limit, offset int) ([]*entity.Incident, error) {
	return uc.incidentRepo.List(ctx, warehouseID, status, priority, limit, offset)
}

// CreateTypeInput datos de un tipo de incidencia nuevo.
type CreateTypeInput struct {
	Code        string
	Name        string
	Category    string // reception, operation, inventory, sale
	Description string
}

// CreateType da de alta un tipo de incidencia. El código se normaliza a
// mayúsculas y debe ser único.
func (uc *UseCase) CreateType(ctx context.Context, in CreateTypeInput) (*entity.IncidentType, error) {
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if code == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidDetectionMoment(in.Category) {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.typeRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("tipo de incidencia %s: %w", code, domain.ErrDuplicate)
	}
	now := time.Now()
	incidentType := &entity.IncidentType{
		ID:          uuid.New().String(),
		Code:        code,
		Name:        in.Name,
		Category:    in.Category,
		Description: in.Description,
		Status:      "active",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.typeRepo.Create(ctx, incidentType); err != nil {
		return nil, err
	}
	return incidentType, nil
}

// ListTypes devuelve el catálogo de tipos, opcionalmente por categoría.
func (uc *UseCase) ListTypes(ctx context.Context, category string) ([]*entity.IncidentType, error) {
	if category != "" && !entity.ValidDetectionMoment(category) {
		return nil, domain.ErrInvalidInput
	}
	return uc.typeRepo.List(ctx, category)
}
