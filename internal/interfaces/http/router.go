package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-pro/internal/application/auth"
	"github.com/tu-usuario/almacen-pro/internal/application/finance"
	"github.com/tu-usuario/almacen-pro/internal/application/incident"
	"github.com/tu-usuario/almacen-pro/internal/application/inventory"
	"github.com/tu-usuario/almacen-pro/internal/application/sale"
	"github.com/tu-usuario/almacen-pro/internal/application/transfer"
	"github.com/tu-usuario/almacen-pro/internal/application/usecase"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.UseCase
	WarehouseUC *usecase.WarehouseUseCase
	ProductUC   *usecase.ProductUseCase
	StockUC     *inventory.StockUseCase
	TransferUC  *transfer.UseCase
	SaleUC      *sale.UseCase
	IncidentUC  *incident.UseCase
	CashCutUC   *finance.CashCutUseCase
	ExpenseUC   *finance.ExpenseUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	// Aprobaciones y ajustes: solo admin o bodeguero.
	approvers := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)

	// Warehouses (protegido)
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", warehouseHandler.Update)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)

	// Inventory (protegido). Las rutas fijas van antes que las de parámetros.
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.StockUC)
	invGroup.Post("/reserve", inventoryHandler.Reserve)
	invGroup.Post("/release", inventoryHandler.Release)
	invGroup.Post("/commit-out", inventoryHandler.CommitOut)
	invGroup.Post("/receive-in", inventoryHandler.ReceiveIn)
	invGroup.Post("/adjust", approvers, inventoryHandler.Adjust)
	invGroup.Put("/limits", approvers, inventoryHandler.SetLimits)
	invGroup.Get("/:warehouse_id/below-minimum", inventoryHandler.ListBelowMinimum)
	invGroup.Get("/:warehouse_id/movements", inventoryHandler.ListMovements)
	invGroup.Get("/:warehouse_id/:product_id", inventoryHandler.GetRecord)
	invGroup.Get("/:warehouse_id", inventoryHandler.ListByWarehouse)

	// Transfers (protegido)
	transfers := protected.Group("/transfers")
	transferHandler := NewTransferHandler(deps.TransferUC)
	transfers.Post("/", transferHandler.Create)
	transfers.Get("/", transferHandler.List)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Post("/:id/approve", approvers, transferHandler.Approve)
	transfers.Post("/:id/reject", approvers, transferHandler.Reject)
	transfers.Post("/:id/dispatch", transferHandler.Dispatch)
	transfers.Post("/:id/receive", transferHandler.Receive)
	transfers.Post("/:id/complete", transferHandler.Complete)
	transfers.Post("/:id/cancel", transferHandler.Cancel)
	transfers.Get("/:id/transit", transferHandler.GetTransit)
	transfers.Put("/:id/transit", transferHandler.UpdateTransit)

	// Sales (protegido). La ruta fija /warehouse va antes que /:id.
	sales := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC)
	sales.Post("/", saleHandler.Create)
	sales.Get("/warehouse/:warehouse_id", saleHandler.ListByWarehouse)
	sales.Post("/:id/cancel", saleHandler.Cancel)
	sales.Get("/:id", saleHandler.GetByID)

	// Incidents (protegido). /types va antes que /:id.
	incidents := protected.Group("/incidents")
	incidentHandler := NewIncidentHandler(deps.IncidentUC)
	incidents.Post("/types", approvers, incidentHandler.CreateType)
	incidents.Get("/types", incidentHandler.ListTypes)
	incidents.Post("/", incidentHandler.Create)
	incidents.Get("/", incidentHandler.List)
	incidents.Post("/:id/resolve", approvers, incidentHandler.Resolve)
	incidents.Post("/:id/status", approvers, incidentHandler.ChangeStatus)
	incidents.Get("/:id", incidentHandler.GetByID)

	// Cortes de caja y gastos (protegido)
	financeHandler := NewFinanceHandler(deps.CashCutUC, deps.ExpenseUC)
	cashCuts := protected.Group("/cash-cuts")
	cashCuts.Post("/", financeHandler.OpenCashCut)
	cashCuts.Get("/current/:warehouse_id", financeHandler.CurrentCashCut)
	cashCuts.Get("/warehouse/:warehouse_id", financeHandler.ListCashCuts)
	cashCuts.Post("/:id/movements", financeHandler.RegisterCashMovement)
	cashCuts.Get("/:id/movements", financeHandler.ListCashMovements)
	cashCuts.Post("/:id/close", financeHandler.CloseCashCut)
	cashCuts.Get("/:id", financeHandler.GetCashCut)

	expenses := protected.Group("/expenses")
	expenses.Post("/", financeHandler.CreateExpense)
	expenses.Get("/warehouse/:warehouse_id", financeHandler.ListExpenses)
	expenses.Post("/:id/approve", approvers, financeHandler.ApproveExpense)
	expenses.Post("/:id/reject", approvers, financeHandler.RejectExpense)
	expenses.Get("/:id", financeHandler.GetExpense)

	categories := protected.Group("/expense-categories")
	categories.Post("/", approvers, financeHandler.CreateExpenseCategory)
	categories.Get("/", financeHandler.ListExpenseCategories)
}
