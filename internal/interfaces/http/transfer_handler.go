package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-pro/internal/application/dto"
	"github.com/tu-usuario/almacen-pro/internal/application/transfer"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
)

// TransferHandler maneja las peticiones HTTP del flujo de traspasos (protegido).
type TransferHandler struct {
	uc *transfer.UseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *transfer.UseCase) *TransferHandler {
	return &TransferHandler{uc: uc}
}

// Create godoc
// @Summary      Solicitar traspaso entre bodegas
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "Bodegas, prioridad y líneas solicitadas"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	details := make([]transfer.CreateDetailInput, 0, len(in.Details))
	for _, d := range in.Details {
		details = append(details, transfer.CreateDetailInput{
			ProductID:         d.ProductID,
			RequestedQuantity: d.RequestedQuantity,
		})
	}
	out, err := h.uc.Create(c.Context(), transfer.CreateInput{
		SourceWarehouseID:      in.SourceWarehouseID,
		DestinationWarehouseID: in.DestinationWarehouseID,
		Priority:               in.Priority,
		Reason:                 in.Reason,
		Notes:                  in.Notes,
		Carrier:                in.Carrier,
		EstimatedArrivalDate:   in.EstimatedArrivalDate,
		Details:                details,
		UserID:                 GetUserID(c),
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransferResponse(out))
}

// GetByID godoc
// @Summary      Obtener traspaso por ID
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traspaso"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id} [get]
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(toTransferResponse(out))
}

// List godoc
// @Summary      Listar traspasos
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        status        query  string  false  "Filtrar por estado"
// @Param        warehouse_id  query  string  false  "Filtrar por bodega origen o destino"
// @Param        limit         query  int     false  "Límite"   default(20)
// @Param        offset        query  int     false  "Offset"   default(0)
// @Success      200  {array}  dto.TransferResponse
// @Router       /api/transfers [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválido"})
	}
	page.DefaultPage()
	list, err := h.uc.List(c.Context(), c.Query("status"), c.Query("warehouse_id"), page.Limit, page.Offset)
	if err != nil {
		return errorResponse(c, err)
	}
	out := make([]dto.TransferResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toTransferResponse(t))
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar traspaso (requested -> approved)
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true   "ID del traspaso"
// @Param        body  body  dto.ObservationsRequest  false  "Observaciones"
// @Success      200   {object}  dto.TransferResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/approve [post]
func (h *TransferHandler) Approve(c *fiber.Ctx) error {
	var in dto.ObservationsRequest
	_ = c.BodyParser(&in) // cuerpo opcional
	out, err := h.uc.Approve(c.Context(), c.Params("id"), GetUserID(c), in.Observations)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(toTransferResponse(out))
}

// Reject godoc
// @Summary      Rechazar traspaso (requested -> rejected)
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true   "ID del traspaso"
// @Param        body  body  dto.ObservationsRequest  false  "Motivo"
// @Success      200   {object}  dto.TransferResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/reject [post]
func (h *TransferHandler) Reject(c *fiber.Ctx) error {
	var in dto.ObservationsRequest
	_ = c.BodyParser(&in)
	out, err := h.uc.Reject(c.Context(), c.Params("id"), GetUserID(c), in.Reason)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(toTransferResponse(out))
}

// Dispatch godoc
// @Summary      Despachar traspaso (approved -> dispatched)
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true   "ID del traspaso"
// @Param        body  body  dto.DispatchTransferRequest  false  "Tracking y cantidades enviadas por línea"
// @Success      200   {object}  dto.TransferResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/dispatch [post]
func (h *TransferHandler) Dispatch(c *fiber.Ctx) error {
	var in dto.DispatchTransferRequest
	_ = c.BodyParser(&in)
	lines := make([]transfer.DispatchLineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, transfer.DispatchLineInput{ProductID: l.ProductID, SentQuantity: l.SentQuantity})
	}
	out, err := h.uc.Dispatch(c.Context(), c.Params("id"), GetUserID(c), transfer.DispatchInput{
		TrackingNumber: in.TrackingNumber,
		TransportCost:  in.TransportCost,
		Observations:   in.Observations,
		Lines:          lines,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(toTransferResponse(out))
}

// Receive godoc
// @Summary      Recibir traspaso (dispatched -> received)
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true   "ID del traspaso"
// @Param        body  body  dto.ReceiveTransferRequest  false  "Cantidades recibidas por línea"
// @Success      200   {object}  dto.TransferResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/receive [post]
func (h *TransferHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveTransferRequest
	_ = c.BodyParser(&in)
	lines := make([]transfer.ReceiveLineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, transfer.ReceiveLineInput{
			ProductID:        l.ProductID,
			ReceivedQuantity: l.ReceivedQuantity,
			Observation:      l.Observation,
		})
	}
	out, err := h.uc.Receive(c.Context(), c.Params("id"), GetUserID(c), transfer.ReceiveInput{
		Observations: in.Observations,
		Lines:        lines,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(toTransferResponse(out))
}

// Complete godoc
// @Summary      Completar traspaso (received -> completed)
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traspaso"
// @Success      200  {object}  dto.TransferResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/complete [post]
func (h *TransferHandler) Complete(c *fiber.Ctx) error {
	out, err := h.uc.Complete(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(toTransferResponse(out))
}

// Cancel godoc
// @Summary      Cancelar traspaso (requested|approved -> cancelled)
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true   "ID del traspaso"
// @Param        body  body  dto.ObservationsRequest  false  "Motivo"
// @Success      200   {object}  dto.TransferResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/cancel [post]
func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	var in dto.ObservationsRequest
	_ = c.BodyParser(&in)
	out, err := h.uc.Cancel(c.Context(), c.Params("id"), GetUserID(c), in.Reason)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(toTransferResponse(out))
}

// GetTransit godoc
// @Summary      Seguimiento de tránsito del traspaso
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traspaso"
// @Success      200  {object}  dto.GoodsInTransitResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/transit [get]
func (h *TransferHandler) GetTransit(c *fiber.Ctx) error {
	out, err := h.uc.GetTransit(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(toTransitResponse(out))
}

// UpdateTransit godoc
// @Summary      Actualizar seguimiento de tránsito
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del traspaso"
// @Param        body  body  dto.TransitUpdateRequest  true  "Estado de tránsito, ubicación y telemetría"
// @Success      200   {object}  dto.GoodsInTransitResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/transit [put]
func (h *TransferHandler) UpdateTransit(c *fiber.Ctx) error {
	var in dto.TransitUpdateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdateTransit(c.Context(), c.Params("id"), GetUserID(c), transfer.TransitUpdateInput{
		TransitStatus:   in.TransitStatus,
		CurrentLocation: in.CurrentLocation,
		Latitude:        in.Latitude,
		Longitude:       in.Longitude,
		Temperature:     in.Temperature,
		Notes:           in.Notes,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(toTransitResponse(out))
}

func toTransferResponse(t *entity.Transfer) dto.TransferResponse {
	details := make([]dto.TransferDetailResponse, 0, len(t.Details))
	for _, d := range t.Details {
		details = append(details, dto.TransferDetailResponse{
			ProductID:              d.ProductID,
			ProductCode:            d.ProductCode,
			ProductName:            d.ProductName,
			RequestedQuantity:      d.RequestedQuantity,
			SentQuantity:           d.SentQuantity,
			ReceivedQuantity:       d.ReceivedQuantity,
			Discrepancy:            d.Discrepancy,
			DiscrepancyObservation: d.DiscrepancyObservation,
		})
	}
	return dto.TransferResponse{
		ID:                     t.ID,
		TransferNumber:         t.TransferNumber,
		SourceWarehouseID:      t.SourceWarehouseID,
		DestinationWarehouseID: t.DestinationWarehouseID,
		Status:                 t.Status,
		Priority:               t.Priority,
		Details:                details,
		RequestedByUserID:      t.RequestedByUserID,
		ApprovedByUserID:       t.ApprovedByUserID,
		DispatchedByUserID:     t.DispatchedByUserID,
		ReceivedByUserID:       t.ReceivedByUserID,
		RequestDate:            t.RequestDate,
		ApprovalDate:           t.ApprovalDate,
		DepartureDate:          t.DepartureDate,
		EstimatedArrivalDate:   t.EstimatedArrivalDate,
		ActualArrivalDate:      t.ActualArrivalDate,
		CompletedDate:          t.CompletedDate,
		Carrier:                t.Carrier,
		TrackingNumber:         t.TrackingNumber,
		TransportCost:          t.TransportCost,
		Reason:                 t.Reason,
		Notes:                  t.Notes,
	}
}

func toTransitResponse(g *entity.GoodsInTransit) dto.GoodsInTransitResponse {
	return dto.GoodsInTransitResponse{
		TransferID:      g.TransferID,
		CurrentLocation: g.CurrentLocation,
		TransitStatus:   g.TransitStatus,
		Latitude:        g.Latitude,
		Longitude:       g.Longitude,
		Temperature:     g.Temperature,
		Notes:           g.Notes,
		UpdatedBy:       g.UpdatedBy,
		UpdatedAt:       g.UpdatedAt,
	}
}
