package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-pro/internal/application/dto"
	"github.com/tu-usuario/almacen-pro/internal/application/sale"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
)

// SaleHandler maneja las peticiones HTTP de ventas de mostrador (protegido).
type SaleHandler struct {
	uc *sale.UseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sale.UseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar venta
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Bodega, método de pago y líneas"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	details := make([]sale.CreateLineInput, 0, len(in.Details))
	for _, d := range in.Details {
		details = append(details, sale.CreateLineInput{
			ProductID: d.ProductID,
			Quantity:  d.Quantity,
			UnitPrice: d.UnitPrice,
			Discount:  d.Discount,
		})
	}
	out, err := h.uc.Create(c.Context(), sale.CreateInput{
		WarehouseID:      in.WarehouseID,
		CustomerName:     in.CustomerName,
		PaymentMethod:    in.PaymentMethod,
		Discount:         in.Discount,
		AmountReceived:   in.AmountReceived,
		PaymentReference: in.PaymentReference,
		Notes:            in.Notes,
		Details:          details,
		UserID:           GetUserID(c),
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSaleResponse(out))
}

// Cancel godoc
// @Summary      Cancelar venta y reingresar existencias
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true   "ID de la venta"
// @Param        body  body  dto.ObservationsRequest  false  "Motivo"
// @Success      200   {object}  dto.SaleResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/cancel [post]
func (h *SaleHandler) Cancel(c *fiber.Ctx) error {
	var in dto.ObservationsRequest
	_ = c.BodyParser(&in) // cuerpo opcional
	out, err := h.uc.Cancel(c.Context(), c.Params("id"), GetUserID(c), in.Reason)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(toSaleResponse(out))
}

// GetByID godoc
// @Summary      Obtener venta por ID
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(toSaleResponse(out))
}

// ListByWarehouse godoc
// @Summary      Listar ventas de una bodega
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  path   string  true   "ID de la bodega"
// @Param        status        query  string  false  "Filtrar por estado"
// @Param        from          query  string  false  "Desde (RFC3339)"
// @Param        to            query  string  false  "Hasta (RFC3339)"
// @Param        limit         query  int     false  "Límite"   default(20)
// @Param        offset        query  int     false  "Offset"   default(0)
// @Success      200  {array}  dto.SaleResponse
// @Router       /api/sales/warehouse/{warehouse_id} [get]
func (h *SaleHandler) ListByWarehouse(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválido"})
	}
	page.DefaultPage()
	from, err := parseTimeQuery(c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from inválido (RFC3339)"})
	}
	to, err := parseTimeQuery(c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "to inválido (RFC3339)"})
	}
	list, err := h.uc.ListByWarehouse(c.Context(), c.Params("warehouse_id"), c.Query("status"), from, to, page.Limit, page.Offset)
	if err != nil {
		return errorResponse(c, err)
	}
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSaleResponse(s))
	}
	return c.JSON(out)
}

func toSaleResponse(s *entity.Sale) dto.SaleResponse {
	details := make([]dto.SaleDetailResponse, 0, len(s.Details))
	for _, d := range s.Details {
		details = append(details, dto.SaleDetailResponse{
			ProductID:   d.ProductID,
			ProductCode: d.ProductCode,
			ProductName: d.ProductName,
			Quantity:    d.Quantity,
			UnitPrice:   d.UnitPrice,
			Subtotal:    d.Subtotal,
			Discount:    d.Discount,
			Total:       d.Total,
		})
	}
	return dto.SaleResponse{
		ID:               s.ID,
		SaleNumber:       s.SaleNumber,
		WarehouseID:      s.WarehouseID,
		CustomerName:     s.CustomerName,
		UserID:           s.UserID,
		PaymentMethod:    s.PaymentMethod,
		Details:          details,
		Subtotal:         s.Subtotal,
		Discount:         s.Discount,
		Total:            s.Total,
		AmountReceived:   s.AmountReceived,
		Change:           s.Change,
		Status:           s.Status,
		SaleDate:         s.SaleDate,
		PaymentReference: s.PaymentReference,
		Notes:            s.Notes,
		CancelledBy:      s.CancelledBy,
		CancelledAt:      s.CancelledAt,
	}
}
