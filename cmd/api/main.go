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

	"github.com/jhoicas/stock-ledger/internal/application/idempotency"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memstore"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/redisstore"
	httpRouter "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
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
	categoryRepo := postgres.NewCategoryRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Store de idempotencia: mapa en memoria (una instancia) o Redis (compartido)
	var store idempotency.Store
	switch cfg.Idempotency.Backend {
	case config.IdempotencyBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		store = redisstore.NewIdempotencyStore(client, cfg.App.Name)
	default:
		memStore := memstore.NewIdempotencyStore(cfg.Idempotency.SweepInterval)
		defer memStore.Close()
		store = memStore
	}
	coordinator := idempotency.NewCoordinator(store, idempotency.Config{
		ProcessingTTL: cfg.Idempotency.ProcessingTTL,
		ResultTTL:     cfg.Idempotency.ResultTTL,
	})

	// Estrategia de derivación de clave: explícita por header o hash de contenido
	var keyStrategy idempotency.KeyStrategy
	if cfg.Idempotency.Strategy == config.IdempotencyStrategyContent {
		keyStrategy = idempotency.ContentHashStrategy{}
	} else {
		keyStrategy = idempotency.HeaderKeyStrategy{}
	}
	log.Info().
		Str("backend", cfg.Idempotency.Backend).
		Str("strategy", cfg.Idempotency.Strategy).
		Msg("coordinador de idempotencia configurado")

	applyUC := ledger.NewApplyMovementUseCase(txRunner)
	recordUC := ledger.NewRecordMovementUseCase(applyUC, coordinator, log)
	movementQueryUC := usecase.NewMovementQueryUseCase(movementRepo)
	stockQueryUC := usecase.NewStockQueryUseCase(stockRepo)
	productUC := usecase.NewProductUseCase(txRunner, productRepo, categoryRepo)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)

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
		Title:    "Stock Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		RecordMovement: recordUC,
		MovementQuery:  movementQueryUC,
		StockQuery:     stockQueryUC,
		ProductUC:      productUC,
		CategoryUC:     categoryUC,
		KeyStrategy:    keyStrategy,
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
