package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/costeo-importaciones/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Auth      *AuthHandler
	Container *ContainerHandler
	Sales     *SalesHandler
	Product   *ProductHandler
	JWTSecret string
}

// Router registra las rutas de la API.
// Lectura: cualquier rol autenticado. Escritura de costeo: costeo. Ventas: ventas. admin pasa siempre.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (login público; registro solo admin)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", deps.Auth.Login)
	authGroup.Post("/register", AuthMiddleware(deps.JWTSecret), RequireRole(entity.RoleAdmin), deps.Auth.Register)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	anyRole := RequireRole(entity.RoleCosteo, entity.RoleVentas, entity.RoleLectura)
	costeo := RequireRole(entity.RoleCosteo)
	ventas := RequireRole(entity.RoleVentas)

	// Pricing / contenedores
	protected.Post("/pricing/calculate", anyRole, deps.Container.CalculatePricing)
	containers := protected.Group("/containers")
	containers.Post("/", costeo, deps.Container.Create)
	containers.Get("/:id", anyRole, deps.Container.GetByID)
	containers.Post("/:id/lots", costeo, deps.Container.AddLot)
	containers.Put("/:id/lots/:lotId", costeo, deps.Container.UpdateLot)
	containers.Post("/:id/expenses", costeo, deps.Container.AddExpense)
	containers.Delete("/:id/expenses/:expenseId", costeo, deps.Container.RemoveExpense)
	containers.Put("/:id/rates", costeo, deps.Container.SetExchangeRate)
	containers.Put("/:id/exchange-rate", costeo, deps.Container.UpdateContainerRate)
	containers.Put("/:id/percentages", costeo, deps.Container.UpdatePercentages)
	containers.Post("/:id/recalculate", costeo, deps.Container.Recalculate)

	// Productos
	products := protected.Group("/products")
	products.Get("/", anyRole, deps.Product.List)
	products.Get("/:id/stock", anyRole, deps.Product.GetStock)

	// Ventas
	sales := protected.Group("/sales")
	sales.Post("/preview", ventas, deps.Sales.Preview)
	sales.Post("/validate-stock", ventas, deps.Sales.ValidateStock)
	sales.Post("/validate-allocation", ventas, deps.Sales.ValidateAllocation)
	sales.Post("/validate-dates", ventas, deps.Sales.ValidateDates)
	sales.Post("/", ventas, deps.Sales.Confirm)
	sales.Get("/:id", anyRole, deps.Sales.GetByID)
	sales.Delete("/:id", ventas, deps.Sales.Delete)
	sales.Get("/:id/report", anyRole, deps.Sales.Report)
}
