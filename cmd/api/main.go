package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/medtrack/inventory-api/internal/application/ledger"
	"github.com/medtrack/inventory-api/internal/application/usecase"
	"github.com/medtrack/inventory-api/internal/infrastructure/postgres"
	"github.com/medtrack/inventory-api/internal/infrastructure/rediscache"
	httpRouter "github.com/medtrack/inventory-api/internal/interfaces/http"
	"github.com/medtrack/inventory-api/pkg/config"
	"github.com/medtrack/inventory-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	itemTypeRepo := postgres.NewItemTypeRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Caché de búsquedas opcional: sin REDIS_ADDR el caso de uso trabaja sin caché.
	var searchCache usecase.SearchCache
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("Redis no disponible, búsquedas sin caché")
		} else {
			searchCache = rediscache.NewSearchCache(client)
			defer client.Close()
		}
	}

	recorder := ledger.NewRecorder(txRunner, productRepo, locationRepo)
	undoer := ledger.NewUndoer(txRunner, movementRepo)
	reconciler := ledger.NewReconciler(txRunner, productRepo, locationRepo)

	productUC := usecase.NewProductUseCase(productRepo, searchCache)
	locationUC := usecase.NewLocationUseCase(locationRepo, stockRepo)
	itemTypeUC := usecase.NewItemTypeUseCase(itemTypeRepo)
	stockQueryUC := usecase.NewStockQueryUseCase(stockRepo)
	historyUC := usecase.NewHistoryUseCase(movementRepo)
	auditQueryUC := usecase.NewAuditQueryUseCase(auditRepo)
	dashboardUC := usecase.NewDashboardUseCase(reportRepo, stockRepo, movementRepo)
	importUC := usecase.NewImportUseCase(recorder, productRepo, locationRepo)

	// Siembra: ubicación por defecto y catálogo de categorías.
	if err := locationUC.EnsureDefault(); err != nil {
		log.Fatal().Err(err).Msg("sembrar ubicación por defecto")
	}
	if err := itemTypeUC.EnsureDefaults(); err != nil {
		log.Fatal().Err(err).Msg("sembrar categorías por defecto")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventory API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:  productUC,
		LocationUC: locationUC,
		ItemTypeUC: itemTypeUC,
		StockQuery: stockQueryUC,
		History:    historyUC,
		AuditQuery: auditQueryUC,
		Dashboard:  dashboardUC,
		Importer:   importUC,
		Recorder:   recorder,
		Undoer:     undoer,
		Reconciler: reconciler,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
