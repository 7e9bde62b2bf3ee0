package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Bodegas-api/internal/application/auth"
	"github.com/jhoicas/Bodegas-api/internal/application/sales"
	"github.com/jhoicas/Bodegas-api/internal/application/stock"
	"github.com/jhoicas/Bodegas-api/internal/application/transfer"
	"github.com/jhoicas/Bodegas-api/internal/application/usecase"
	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	WarehouseUC *usecase.WarehouseUseCase
	CategoryUC  *usecase.CategoryUseCase
	ItemUC      *usecase.ItemUseCase
	StockUC     *stock.UseCase
	TransferUC  *transfer.UseCase
	SaleUC      *sales.UseCase
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

	// Users (protegido; las reglas finas van en el caso de uso)
	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id/role", RequireRole(entity.RoleAdmin), userHandler.AssignRole)

	// Warehouses (protegido; escritura sólo admin)
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", RequireRole(entity.RoleAdmin), warehouseHandler.Create)
	warehouses.Put("/:id", RequireRole(entity.RoleAdmin), warehouseHandler.Update)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)

	// Categories (protegido; escritura sólo admin)
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Post("/", RequireRole(entity.RoleAdmin), categoryHandler.Create)
	categories.Put("/:id", RequireRole(entity.RoleAdmin), categoryHandler.Update)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)

	// Items (protegido; escritura sólo admin)
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", RequireRole(entity.RoleAdmin), itemHandler.Create)
	items.Put("/:id", RequireRole(entity.RoleAdmin), itemHandler.Update)
	items.Post("/:id/deactivate", RequireRole(entity.RoleAdmin), itemHandler.Deactivate)
	items.Post("/:id/activate", RequireRole(entity.RoleAdmin), itemHandler.Activate)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)

	// Stock (protegido; mutaciones admin/manager, el caso de uso valida alcance)
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stockGroup.Post("/assign", RequireRole(entity.RoleAdmin, entity.RoleManager), stockHandler.Assign)
	stockGroup.Post("/remove", RequireRole(entity.RoleAdmin, entity.RoleManager), stockHandler.Remove)
	stockGroup.Post("/adjust", RequireRole(entity.RoleAdmin, entity.RoleManager), stockHandler.Adjust)
	stockGroup.Get("/:warehouse_id", stockHandler.ListBalances)
	stockGroup.Get("/:warehouse_id/:item_id", stockHandler.GetBalance)

	// Movimientos del libro (protegido)
	protected.Get("/movements", stockHandler.ListMovements)

	// Transfers (protegido)
	transfers := protected.Group("/transfers")
	transferHandler := NewTransferHandler(deps.TransferUC)
	transfers.Post("/", RequireRole(entity.RoleAdmin, entity.RoleManager), transferHandler.Create)
	transfers.Post("/:id/approve", RequireRole(entity.RoleAdmin), transferHandler.Approve)
	transfers.Post("/:id/reject", RequireRole(entity.RoleAdmin), transferHandler.Reject)
	transfers.Post("/:id/cancel", transferHandler.Cancel)
	transfers.Get("/", transferHandler.List)
	transfers.Get("/:id", transferHandler.GetByID)

	// Sales (protegido; cualquier rol autenticado, el caso de uso valida alcance)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Post("/:id/cancel", saleHandler.Cancel)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)
}
