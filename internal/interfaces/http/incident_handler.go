package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-pro/internal/application/dto"
	"github.com/tu-usuario/almacen-pro/internal/application/incident"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
)

// IncidentHandler maneja las peticiones HTTP de incidencias (protegido).
type IncidentHandler struct {
	uc *incident.UseCase
}

// NewIncidentHandler construye el handler.
func NewIncidentHandler(uc *incident.UseCase) *IncidentHandler {
	return &IncidentHandler{uc: uc}
}

// Create godoc
// @Summary      Reportar incidencia
// @Tags         incidents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateIncidentRequest  true  "Tipo, bodega, descripción y productos afectados"
// @Success      201   {object}  dto.IncidentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/incidents [post]
func (h *IncidentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateIncidentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	details := make([]incident.CreateDetailInput, 0, len(in.Details))
	for _, d := range in.Details {
		details = append(details, incident.CreateDetailInput{
			ProductID:        d.ProductID,
			AffectedQuantity: d.AffectedQuantity,
			UnitCost:         d.UnitCost,
		})
	}
	out, err := h.uc.Create(c.Context(), incident.CreateInput{
		TypeID:          in.TypeID,
		WarehouseID:     in.WarehouseID,
		DetectionMoment: in.DetectionMoment,
		Priority:        in.Priority,
		Description:     in.Description,
		ReferenceID:     in.ReferenceID,
		ReferenceType:   in.ReferenceType,
		Details:         details,
		UserID:          GetUserID(c),
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toIncidentResponse(out))
}

// GetByID godoc
// @Summary      Obtener incidencia por ID
// @Tags         incidents
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la incidencia"
// @Success      200  {object}  dto.IncidentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/incidents/{id} [get]
func (h *IncidentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(toIncidentResponse(out))
}

// List godoc
// @Summary      Listar incidencias
// @Tags         incidents
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtrar por bodega"
// @Param        status        query  string  false  "Filtrar por estado"
// @Param        priority      query  string  false  "Filtrar por prioridad"
// @Param        limit         query  int     false  "Límite"   default(20)
// @Param        offset        query  int     false  "Offset"   default(0)
// @Success      200  {array}  dto.IncidentResponse
// @Router       /api/incidents [get]
func (h *IncidentHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválido"})
	}
	page.DefaultPage()
	list, err := h.uc.List(c.Context(), c.Query("warehouse_id"), c.Query("status"), c.Query("priority"), page.Limit, page.Offset)
	if err != nil {
		return errorResponse(c, err)
	}
	out := make([]dto.IncidentResponse, 0, len(list))
	for _, i := range list {
		out = append(out, toIncidentResponse(i))
	}
	return c.JSON(out)
}

// Resolve godoc
// @Summary      Resolver incidencia
// @Tags         incidents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID de la incidencia"
// @Param        body  body  dto.ResolveIncidentRequest  true  "Acciones tomadas e impacto final"
// @Success      200   {object}  dto.IncidentResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/incidents/{id}/resolve [post]
func (h *IncidentHandler) Resolve(c *fiber.Ctx) error {
	var in dto.ResolveIncidentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Resolve(c.Context(), c.Params("id"), incident.ResolveInput{
		ActionsTaken:   in.ActionsTaken,
		EconomicImpact: in.EconomicImpact,
		UserID:         GetUserID(c),
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(toIncidentResponse(out))
}

// ChangeStatus godoc
// @Summary      Cambiar estado de la incidencia
// @Tags         incidents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                           true  "ID de la incidencia"
// @Param        body  body  dto.ChangeIncidentStatusRequest  true  "Estado destino"
// @Success      200   {object}  dto.IncidentResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/incidents/{id}/status [post]
func (h *IncidentHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.ChangeIncidentStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.ChangeStatus(c.Context(), c.Params("id"), GetUserID(c), in.Status)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(toIncidentResponse(out))
}

// CreateType godoc
// @Summary      Dar de alta un tipo de incidencia
// @Tags         incidents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateIncidentTypeRequest  true  "Código, nombre y categoría"
// @Success      201   {object}  dto.IncidentTypeResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/incidents/types [post]
func (h *IncidentHandler) CreateType(c *fiber.Ctx) error {
	var in dto.CreateIncidentTypeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CreateType(c.Context(), incident.CreateTypeInput{
		Code:        in.Code,
		Name:        in.Name,
		Category:    in.Category,
		Description: in.Description,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toIncidentTypeResponse(out))
}

// ListTypes godoc
// @Summary      Listar tipos de incidencia
// @Tags         incidents
// @Security     Bearer
// @Produce      json
// @Param        category  query  string  false  "Filtrar por categoría"
// @Success      200  {array}  dto.IncidentTypeResponse
// @Router       /api/incidents/types [get]
func (h *IncidentHandler) ListTypes(c *fiber.Ctx) error {
	list, err := h.uc.ListTypes(c.Context(), c.Query("category"))
	if err != nil {
		return errorResponse(c, err)
	}
	out := make([]dto.IncidentTypeResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toIncidentTypeResponse(t))
	}
	return c.JSON(out)
}

func toIncidentResponse(i *entity.Incident) dto.IncidentResponse {
	details := make([]dto.IncidentDetailResponse, 0, len(i.Details))
	for _, d := range i.Details {
		details = append(details, dto.IncidentDetailResponse{
			ProductID:        d.ProductID,
			ProductCode:      d.ProductCode,
			ProductName:      d.ProductName,
			AffectedQuantity: d.AffectedQuantity,
			UnitCost:         d.UnitCost,
			TotalCost:        d.TotalCost,
		})
	}
	return dto.IncidentResponse{
		ID:               i.ID,
		IncidentNumber:   i.IncidentNumber,
		TypeID:           i.TypeID,
		WarehouseID:      i.WarehouseID,
		DetectionMoment:  i.DetectionMoment,
		Status:           i.Status,
		Priority:         i.Priority,
		Description:      i.Description,
		ActionsTaken:     i.ActionsTaken,
		EconomicImpact:   i.EconomicImpact,
		Details:          details,
		ReferenceID:      i.ReferenceID,
		ReferenceType:    i.ReferenceType,
		ReportedByUserID: i.ReportedByUserID,
		ResolvedByUserID: i.ResolvedByUserID,
		IncidentDate:     i.IncidentDate,
		ResolutionDate:   i.ResolutionDate,
	}
}

func toIncidentTypeResponse(t *entity.IncidentType) dto.IncidentTypeResponse {
	return dto.IncidentTypeResponse{
		ID:          t.ID,
		Code:        t.Code,
		Name:        t.Name,
		Category:    t.Category,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
