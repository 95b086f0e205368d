package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-pro/internal/application/dto"
	"github.com/tu-usuario/almacen-pro/internal/application/finance"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
)

// FinanceHandler maneja las peticiones HTTP de cortes de caja y gastos (protegido).
type FinanceHandler struct {
	cashUC    *finance.CashCutUseCase
	expenseUC *finance.ExpenseUseCase
}

// NewFinanceHandler construye el handler.
func NewFinanceHandler(cashUC *finance.CashCutUseCase, expenseUC *finance.ExpenseUseCase) *FinanceHandler {
	return &FinanceHandler{cashUC: cashUC, expenseUC: expenseUC}
}

// OpenCashCut godoc
// @Summary      Abrir corte de caja
// @Tags         finance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenCashCutRequest  true  "warehouse_id y monto de apertura"
// @Success      201   {object}  dto.CashCutResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cash-cuts [post]
func (h *FinanceHandler) OpenCashCut(c *fiber.Ctx) error {
	var in dto.OpenCashCutRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.cashUC.Open(c.Context(), in.WarehouseID, GetUserID(c), in.OpeningAmount)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toCashCutResponse(out))
}

// RegisterCashMovement godoc
// @Summary      Registrar movimiento de caja en un corte
// @Tags         finance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                           true  "ID del corte"
// @Param        body  body  dto.RegisterCashMovementRequest  true  "Tipo y monto"
// @Success      201   {object}  dto.CashMovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cash-cuts/{id}/movements [post]
func (h *FinanceHandler) RegisterCashMovement(c *fiber.Ctx) error {
	var in dto.RegisterCashMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.cashUC.RegisterMovement(c.Context(), finance.RegisterMovementInput{
		CashCutID:     c.Params("id"),
		Type:          in.Type,
		Amount:        in.Amount,
		ReferenceID:   in.ReferenceID,
		ReferenceType: in.ReferenceType,
		Notes:         in.Notes,
		UserID:        GetUserID(c),
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toCashMovementResponse(out))
}

// CloseCashCut godoc
// @Summary      Cerrar corte de caja con el conteo real
// @Tags         finance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del corte"
// @Param        body  body  dto.CloseCashCutRequest  true  "Monto final contado"
// @Success      200   {object}  dto.CashCutResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cash-cuts/{id}/close [post]
func (h *FinanceHandler) CloseCashCut(c *fiber.Ctx) error {
	var in dto.CloseCashCutRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.cashUC.Close(c.Context(), c.Params("id"), GetUserID(c), in.ActualFinalAmount, in.Notes)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(toCashCutResponse(out))
}

// CurrentCashCut godoc
// @Summary      Corte abierto de una bodega
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  path  string  true  "ID de la bodega"
// @Success      200  {object}  dto.CashCutResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/cash-cuts/current/{warehouse_id} [get]
func (h *FinanceHandler) CurrentCashCut(c *fiber.Ctx) error {
	out, err := h.cashUC.CurrentOpen(c.Context(), c.Params("warehouse_id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(toCashCutResponse(out))
}

// GetCashCut godoc
// @Summary      Obtener corte por ID
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del corte"
// @Success      200  {object}  dto.CashCutResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cash-cuts/{id} [get]
func (h *FinanceHandler) GetCashCut(c *fiber.Ctx) error {
	out, err := h.cashUC.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(toCashCutResponse(out))
}

// ListCashCuts godoc
// @Summary      Historial de cortes de una bodega
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  path   string  true   "ID de la bodega"
// @Param        limit         query  int     false  "Límite"   default(20)
// @Param        offset        query  int     false  "Offset"   default(0)
// @Success      200  {array}  dto.CashCutResponse
// @Router       /api/cash-cuts/warehouse/{warehouse_id} [get]
func (h *FinanceHandler) ListCashCuts(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválido"})
	}
	page.DefaultPage()
	list, err := h.cashUC.ListByWarehouse(c.Context(), c.Params("warehouse_id"), page.Limit, page.Offset)
	if err != nil {
		return errorResponse(c, err)
	}
	out := make([]dto.CashCutResponse, 0, len(list))
	for _, cut := range list {
		out = append(out, toCashCutResponse(cut))
	}
	return c.JSON(out)
}

// ListCashMovements godoc
// @Summary      Movimientos de un corte
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del corte"
// @Success      200  {array}  dto.CashMovementResponse
// @Router       /api/cash-cuts/{id}/movements [get]
func (h *FinanceHandler) ListCashMovements(c *fiber.Ctx) error {
	list, err := h.cashUC.ListMovements(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	out := make([]dto.CashMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toCashMovementResponse(m))
	}
	return c.JSON(out)
}

// CreateExpense godoc
// @Summary      Registrar gasto operativo (pending)
// @Tags         finance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateExpenseRequest  true  "Datos del gasto"
// @Success      201   {object}  dto.ExpenseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/expenses [post]
func (h *FinanceHandler) CreateExpense(c *fiber.Ctx) error {
	var in dto.CreateExpenseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.expenseUC.Create(c.Context(), finance.CreateExpenseInput{
		WarehouseID:   in.WarehouseID,
		CategoryID:    in.CategoryID,
		Description:   in.Description,
		Amount:        in.Amount,
		ExpenseDate:   in.ExpenseDate,
		ReceiptNumber: in.ReceiptNumber,
		Supplier:      in.Supplier,
		Notes:         in.Notes,
		UserID:        GetUserID(c),
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toExpenseResponse(out))
}

// ApproveExpense godoc
// @Summary      Aprobar gasto pendiente (carga el movimiento al corte abierto)
// @Tags         finance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true   "ID del gasto"
// @Param        body  body  dto.ObservationsRequest  false  "Observaciones"
// @Success      200   {object}  dto.ExpenseResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/expenses/{id}/approve [post]
func (h *FinanceHandler) ApproveExpense(c *fiber.Ctx) error {
	var in dto.ObservationsRequest
	_ = c.BodyParser(&in) // cuerpo opcional
	out, err := h.expenseUC.Approve(c.Context(), c.Params("id"), GetUserID(c), in.Observations)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(toExpenseResponse(out))
}

// RejectExpense godoc
// @Summary      Rechazar gasto pendiente (sin efecto en caja)
// @Tags         finance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true   "ID del gasto"
// @Param        body  body  dto.ObservationsRequest  false  "Motivo"
// @Success      200   {object}  dto.ExpenseResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/expenses/{id}/reject [post]
func (h *FinanceHandler) RejectExpense(c *fiber.Ctx) error {
	var in dto.ObservationsRequest
	_ = c.BodyParser(&in)
	out, err := h.expenseUC.Reject(c.Context(), c.Params("id"), GetUserID(c), in.Reason)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(toExpenseResponse(out))
}

// GetExpense godoc
// @Summary      Obtener gasto por ID
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del gasto"
// @Success      200  {object}  dto.ExpenseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/expenses/{id} [get]
func (h *FinanceHandler) GetExpense(c *fiber.Ctx) error {
	out, err := h.expenseUC.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(toExpenseResponse(out))
}

// ListExpenses godoc
// @Summary      Gastos de una bodega
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  path   string  true   "ID de la bodega"
// @Param        status        query  string  false  "pending | approved | rejected"
// @Param        limit         query  int     false  "Límite"   default(20)
// @Param        offset        query  int     false  "Offset"   default(0)
// @Success      200  {array}  dto.ExpenseResponse
// @Router       /api/expenses/warehouse/{warehouse_id} [get]
func (h *FinanceHandler) ListExpenses(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválido"})
	}
	page.DefaultPage()
	list, err := h.expenseUC.ListByWarehouse(c.Context(), c.Params("warehouse_id"), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return errorResponse(c, err)
	}
	out := make([]dto.ExpenseResponse, 0, len(list))
	for _, e := range list {
		out = append(out, toExpenseResponse(e))
	}
	return c.JSON(out)
}

// CreateExpenseCategory godoc
// @Summary      Crear categoría de gasto
// @Tags         finance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateExpenseCategoryRequest  true  "Nombre único"
// @Success      201   {object}  dto.ExpenseCategoryResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/expense-categories [post]
func (h *FinanceHandler) CreateExpenseCategory(c *fiber.Ctx) error {
	var in dto.CreateExpenseCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.expenseUC.CreateCategory(c.Context(), in.Name, in.Code, in.Description)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toExpenseCategoryResponse(out))
}

// ListExpenseCategories godoc
// @Summary      Listar categorías de gasto
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.ExpenseCategoryResponse
// @Router       /api/expense-categories [get]
func (h *FinanceHandler) ListExpenseCategories(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválido"})
	}
	page.DefaultPage()
	list, err := h.expenseUC.ListCategories(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return errorResponse(c, err)
	}
	out := make([]dto.ExpenseCategoryResponse, 0, len(list))
	for _, cat := range list {
		out = append(out, toExpenseCategoryResponse(cat))
	}
	return c.JSON(out)
}

func toCashCutResponse(c *entity.CashCut) dto.CashCutResponse {
	return dto.CashCutResponse{
		ID:                  c.ID,
		WarehouseID:         c.WarehouseID,
		OpenedBy:            c.OpenedBy,
		OpenedAt:            c.OpenedAt,
		ClosedBy:            c.ClosedBy,
		ClosedAt:            c.ClosedAt,
		OpeningAmount:       c.OpeningAmount,
		CashSales:           c.CashSales,
		CardSales:           c.CardSales,
		TransferSales:       c.TransferSales,
		TotalExpenses:       c.TotalExpenses,
		ExpectedFinalAmount: c.ExpectedFinalAmount,
		ActualFinalAmount:   c.ActualFinalAmount,
		Difference:          c.Difference,
		TransactionCount:    c.TransactionCount,
		Notes:               c.Notes,
	}
}

func toCashMovementResponse(m *entity.CashMovement) dto.CashMovementResponse {
	return dto.CashMovementResponse{
		ID:            m.ID,
		CashCutID:     m.CashCutID,
		WarehouseID:   m.WarehouseID,
		Type:          m.Type,
		Amount:        m.Amount,
		ReferenceID:   m.ReferenceID,
		ReferenceType: m.ReferenceType,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
	}
}

func toExpenseResponse(e *entity.OperationalExpense) dto.ExpenseResponse {
	return dto.ExpenseResponse{
		ID:            e.ID,
		WarehouseID:   e.WarehouseID,
		CategoryID:    e.CategoryID,
		Description:   e.Description,
		Amount:        e.Amount,
		ExpenseDate:   e.ExpenseDate,
		Status:        e.Status,
		ApprovedBy:    e.ApprovedBy,
		ApprovalDate:  e.ApprovalDate,
		ReceiptNumber: e.ReceiptNumber,
		Supplier:      e.Supplier,
		Notes:         e.Notes,
		CreatedAt:     e.CreatedAt,
		CreatedBy:     e.CreatedBy,
	}
}

func toExpenseCategoryResponse(c *entity.ExpenseCategory) dto.ExpenseCategoryResponse {
	return dto.ExpenseCategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Code:        c.Code,
		Description: c.Description,
		Status:      c.Status,
	}
}
