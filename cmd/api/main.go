package main

import (
	"context"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/costeo-importaciones/internal/application/auth"
	"github.com/jhoicas/costeo-importaciones/internal/application/costing"
	"github.com/jhoicas/costeo-importaciones/internal/application/sales"
	infrapdf "github.com/jhoicas/costeo-importaciones/internal/infrastructure/pdf"
	"github.com/jhoicas/costeo-importaciones/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/costeo-importaciones/internal/interfaces/http"
	"github.com/jhoicas/costeo-importaciones/pkg/config"
	"github.com/jhoicas/costeo-importaciones/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("local_currency", cfg.Costing.LocalCurrency).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	containerRepo := postgres.NewContainerRepository(pool)
	lotRepo := postgres.NewLotRepository(pool)
	expenseRepo := postgres.NewExpenseRepository(pool)
	rateRepo := postgres.NewExchangeRateRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	inventoryRepo := postgres.NewInventoryRepository(pool)
	movementRepo := postgres.NewInventoryMovementRepository(pool)
	transferRepo := postgres.NewTransferRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Costeo: contenedores, lotes, gastos y recálculo transaccional
	costingLog := log.Component("costing")
	containerUC := costing.NewContainerUseCase(txRunner, costing.ContainerReader{
		Containers: containerRepo,
		Lots:       lotRepo,
		Expenses:   expenseRepo,
		Rates:      rateRepo,
	}, cfg.Costing.LocalCurrency, costingLog)
	recalculateUC := costing.NewRecalculateUseCase(txRunner, cfg.Costing.LocalCurrency, costingLog)

	// Ventas: distribución, validaciones, confirmación y reporte
	seed := cfg.Distribution.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	} else {
		log.Warn().Uint64("seed", seed).Msg("distribución con semilla fija (reproducible)")
	}
	rng := sales.NewLockedSource(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))

	salesLog := log.Component("sales")
	readers := sales.Readers{
		Transfers: transferRepo,
		Products:  productRepo,
		Lots:      lotRepo,
		Movements: movementRepo,
		Inventory: inventoryRepo,
		Sales:     saleRepo,
	}
	previewUC := sales.NewPreviewUseCase(readers, rng, salesLog)
	stockValidator := sales.NewStockValidator(readers, salesLog)
	dateValidator := sales.NewDateValidator(readers, salesLog)
	confirmUC := sales.NewConfirmSaleUseCase(txRunner, saleRepo, salesLog)
	reportUC := sales.NewSaleReportUseCase(saleRepo, infrapdf.NewMarotoPDFGenerator(cfg.App.Name))
	stockUC := sales.NewStockQueryUseCase(productRepo, inventoryRepo, movementRepo)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs (generar antes con swag init -g cmd/api/main.go)
	const swaggerFile = "./docs/swagger.json"
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Costeo de Importaciones API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger deshabilitado: spec no generada")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Auth:      httpRouter.NewAuthHandler(authUC),
		Container: httpRouter.NewContainerHandler(containerUC, recalculateUC, costing.CalculatePricing),
		Sales:     httpRouter.NewSalesHandler(previewUC, stockValidator, dateValidator, confirmUC, reportUC),
		Product:   httpRouter.NewProductHandler(stockUC),
		JWTSecret: cfg.JWT.Secret,
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
