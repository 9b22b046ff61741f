package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/idempotency"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RecordMovement *ledger.RecordMovementUseCase
	MovementQuery  *usecase.MovementQueryUseCase
	StockQuery     *usecase.StockQueryUseCase
	ProductUC      *usecase.ProductUseCase
	CategoryUC     *usecase.CategoryUseCase
	KeyStrategy    idempotency.KeyStrategy
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Movimientos del ledger (POST es el punto de entrada idempotente)
	movements := api.Group("/movements")
	movementHandler := NewMovementHandler(deps.RecordMovement, deps.MovementQuery, deps.KeyStrategy)
	movements.Post("/", movementHandler.Register)
	movements.Get("/", movementHandler.List)
	movements.Get("/:id", movementHandler.GetByID)

	// Saldos (solo lectura; la mutación va por /movements)
	stock := api.Group("/stock")
	stockHandler := NewStockHandler(deps.StockQuery)
	stock.Get("/", stockHandler.List)
	stock.Get("/:product_id", stockHandler.GetByProduct)

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Categories
	categories := api.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Delete)
}
