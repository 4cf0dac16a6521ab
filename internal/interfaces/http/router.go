package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medtrack/inventory-api/internal/application/ledger"
	"github.com/medtrack/inventory-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC   *usecase.ProductUseCase
	LocationUC  *usecase.LocationUseCase
	ItemTypeUC  *usecase.ItemTypeUseCase
	StockQuery  *usecase.StockQueryUseCase
	History     *usecase.HistoryUseCase
	AuditQuery  *usecase.AuditQueryUseCase
	Dashboard   *usecase.DashboardUseCase
	Importer    *usecase.ImportUseCase
	Recorder    *ledger.Recorder
	Undoer      *ledger.Undoer
	Reconciler  *ledger.Reconciler
	JWTSecret   string
}

// Router registra las rutas de la API. Todas pasan por el middleware de actor:
// el token es opcional y solo atribuye movimientos, no hay flujo de login.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", ActorMiddleware(deps.JWTSecret))

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/search", productHandler.Search)
	products.Get("/exists", productHandler.Exists)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Locations (bolsas/gabinetes)
	locations := api.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Post("/", locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Put("/:id", locationHandler.Update)
	locations.Delete("/:id", locationHandler.Delete)

	// Item types (categorías)
	itemTypes := api.Group("/item-types")
	itemTypeHandler := NewItemTypeHandler(deps.ItemTypeUC)
	itemTypes.Post("/", itemTypeHandler.Create)
	itemTypes.Get("/", itemTypeHandler.List)

	// Inventory: ledger de movimientos, auditorías, stock, importación
	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(
		deps.Recorder, deps.Undoer, deps.Reconciler,
		deps.StockQuery, deps.History, deps.AuditQuery, deps.Importer,
	)
	inv.Post("/movements", inventoryHandler.RegisterMovement)
	inv.Get("/movements", inventoryHandler.History)
	inv.Post("/movements/:id/undo", inventoryHandler.Undo)
	inv.Post("/audits", inventoryHandler.RecordAudit)
	inv.Get("/audits", inventoryHandler.ListAudits)
	inv.Get("/stock", inventoryHandler.ListStock)
	inv.Get("/expiry", inventoryHandler.ExpiryReport)
	inv.Post("/import", inventoryHandler.ImportCSV)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.Dashboard)
	api.Get("/dashboard", dashboardHandler.GetSummary)
}
