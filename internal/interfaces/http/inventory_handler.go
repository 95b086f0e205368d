package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-pro/internal/application/dto"
	"github.com/tu-usuario/almacen-pro/internal/application/inventory"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
)

// InventoryHandler maneja las peticiones HTTP del motor de existencias (protegido).
type InventoryHandler struct {
	uc *inventory.StockUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.StockUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

func (h *InventoryHandler) stockInput(c *fiber.Ctx) (inventory.StockInput, error) {
	var in dto.StockOperationRequest
	if err := c.BodyParser(&in); err != nil {
		return inventory.StockInput{}, err
	}
	return inventory.StockInput{
		WarehouseID:   in.WarehouseID,
		ProductID:     in.ProductID,
		Quantity:      in.Quantity,
		UserID:        GetUserID(c),
		ReferenceID:   in.ReferenceID,
		ReferenceType: in.ReferenceType,
		Reason:        in.Reason,
	}, nil
}

// Reserve godoc
// @Summary      Reservar existencias contra el disponible
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockOperationRequest  true  "warehouse_id, product_id, quantity"
// @Success      200   {object}  map[string]string
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/reserve [post]
func (h *InventoryHandler) Reserve(c *fiber.Ctx) error {
	in, err := h.stockInput(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	available, err := h.uc.Reserve(c.Context(), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"available_quantity": available})
}

// Release godoc
// @Summary      Liberar una reserva
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockOperationRequest  true  "warehouse_id, product_id, quantity"
// @Success      200   {object}  map[string]string
// @Router       /api/inventory/release [post]
func (h *InventoryHandler) Release(c *fiber.Ctx) error {
	in, err := h.stockInput(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.Release(c.Context(), in); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"message": "reserva liberada"})
}

// CommitOut godoc
// @Summary      Consumar salida de existencias reservadas
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockOperationRequest  true  "warehouse_id, product_id, quantity"
// @Success      200   {object}  map[string]string
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/commit-out [post]
func (h *InventoryHandler) CommitOut(c *fiber.Ctx) error {
	in, err := h.stockInput(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.CommitOut(c.Context(), in); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"message": "salida consumada"})
}

// ReceiveIn godoc
// @Summary      Recibir entrada de existencias
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockOperationRequest  true  "warehouse_id, product_id, quantity"
// @Success      200   {object}  map[string]string
// @Router       /api/inventory/receive-in [post]
func (h *InventoryHandler) ReceiveIn(c *fiber.Ctx) error {
	in, err := h.stockInput(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.ReceiveIn(c.Context(), in); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"message": "entrada registrada"})
}

// Adjust godoc
// @Summary      Ajustar físico con motivo obligatorio
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "warehouse_id, product_id, delta con signo, reason"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjust [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.uc.Adjust(c.Context(), inventory.AdjustInput{
		WarehouseID: in.WarehouseID,
		ProductID:   in.ProductID,
		Delta:       in.Delta,
		Reason:      in.Reason,
		UserID:      GetUserID(c),
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"message": "ajuste aplicado"})
}

// SetLimits godoc
// @Summary      Fijar stock mínimo y máximo de una clave
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockLimitsRequest  true  "warehouse_id, product_id, min_stock, max_stock"
// @Success      200   {object}  map[string]string
// @Router       /api/inventory/limits [put]
func (h *InventoryHandler) SetLimits(c *fiber.Ctx) error {
	var in dto.StockLimitsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.SetStockLimits(c.Context(), in.WarehouseID, in.ProductID, in.MinStock, in.MaxStock); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"message": "límites actualizados"})
}

// GetRecord godoc
// @Summary      Existencias de un producto en una bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  path  string  true  "ID de la bodega"
// @Param        product_id    path  string  true  "ID del producto"
// @Success      200  {object}  dto.InventoryRecordResponse
// @Router       /api/inventory/{warehouse_id}/{product_id} [get]
func (h *InventoryHandler) GetRecord(c *fiber.Ctx) error {
	rec, err := h.uc.Get(c.Context(), c.Params("warehouse_id"), c.Params("product_id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(toInventoryRecordResponse(rec))
}

// ListByWarehouse godoc
// @Summary      Existencias de una bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  path   string  true   "ID de la bodega"
// @Param        limit         query  int     false  "Límite"   default(20)
// @Param        offset        query  int     false  "Offset"   default(0)
// @Success      200  {array}  dto.InventoryRecordResponse
// @Router       /api/inventory/{warehouse_id} [get]
func (h *InventoryHandler) ListByWarehouse(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválido"})
	}
	page.DefaultPage()
	list, err := h.uc.ListByWarehouse(c.Context(), c.Params("warehouse_id"), page.Limit, page.Offset)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(toInventoryRecordResponses(list))
}

// ListBelowMinimum godoc
// @Summary      Claves con disponible por debajo del stock mínimo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  path  string  true  "ID de la bodega"
// @Success      200  {array}  dto.InventoryRecordResponse
// @Router       /api/inventory/{warehouse_id}/below-minimum [get]
func (h *InventoryHandler) ListBelowMinimum(c *fiber.Ctx) error {
	list, err := h.uc.ListBelowMinimum(c.Context(), c.Params("warehouse_id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(toInventoryRecordResponses(list))
}

// ListMovements godoc
// @Summary      Bitácora de movimientos de una bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  path   string  true   "ID de la bodega"
// @Param        product_id    query  string  false  "Filtrar por producto en lugar de bodega"
// @Param        from          query  string  false  "Desde (RFC3339)"
// @Param        to            query  string  false  "Hasta (RFC3339)"
// @Param        limit         query  int     false  "Límite"   default(20)
// @Param        offset        query  int     false  "Offset"   default(0)
// @Success      200  {array}  dto.StockMovementResponse
// @Router       /api/inventory/{warehouse_id}/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
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

	var list []*entity.StockMovement
	if productID := c.Query("product_id"); productID != "" {
		list, err = h.uc.ListMovementsByProduct(c.Context(), productID, from, to, page.Limit, page.Offset)
	} else {
		list, err = h.uc.ListMovementsByWarehouse(c.Context(), c.Params("warehouse_id"), from, to, page.Limit, page.Offset)
	}
	if err != nil {
		return errorResponse(c, err)
	}

	out := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toStockMovementResponse(m))
	}
	return c.JSON(out)
}

func parseTimeQuery(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func toInventoryRecordResponse(r *entity.InventoryRecord) dto.InventoryRecordResponse {
	return dto.InventoryRecordResponse{
		WarehouseID:       r.WarehouseID,
		ProductID:         r.ProductID,
		PhysicalQuantity:  r.PhysicalQuantity,
		ReservedQuantity:  r.ReservedQuantity,
		AvailableQuantity: r.Available(),
		MinStock:          r.MinStock,
		MaxStock:          r.MaxStock,
		UpdatedAt:         r.UpdatedAt,
	}
}

func toInventoryRecordResponses(list []*entity.InventoryRecord) []dto.InventoryRecordResponse {
	out := make([]dto.InventoryRecordResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toInventoryRecordResponse(r))
	}
	return out
}

func toStockMovementResponse(m *entity.StockMovement) dto.StockMovementResponse {
	return dto.StockMovementResponse{
		ID:                m.ID,
		WarehouseID:       m.WarehouseID,
		ProductID:         m.ProductID,
		Type:              m.Type,
		Quantity:          m.Quantity,
		ResultingPhysical: m.ResultingPhysical,
		ResultingReserved: m.ResultingReserved,
		ReferenceID:       m.ReferenceID,
		ReferenceType:     m.ReferenceType,
		Reason:            m.Reason,
		CreatedAt:         m.CreatedAt,
		CreatedBy:         m.CreatedBy,
	}
}
