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
	"github.com/jhoicas/Bodegas-api/internal/application/auth"
	"github.com/jhoicas/Bodegas-api/internal/application/ledger"
	"github.com/jhoicas/Bodegas-api/internal/application/sales"
	"github.com/jhoicas/Bodegas-api/internal/application/stock"
	"github.com/jhoicas/Bodegas-api/internal/application/transfer"
	"github.com/jhoicas/Bodegas-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/Bodegas-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Bodegas-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Bodegas-api/internal/interfaces/http"
	"github.com/jhoicas/Bodegas-api/pkg/config"
	"github.com/jhoicas/Bodegas-api/pkg/logger"
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

	userRepo := postgres.NewUserRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	balanceRepo := postgres.NewStockBalanceRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	transferRepo := postgres.NewTransferRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	ledgerSvc := ledger.NewLedger(txRunner, balanceRepo)
	stockUC := stock.NewUseCase(ledgerSvc, itemRepo, warehouseRepo, balanceRepo, movementRepo)
	transferUC := transfer.NewUseCase(txRunner, transferRepo, warehouseRepo, itemRepo, balanceRepo)

	receiptGenerator := infrapdf.NewMarotoReceiptGenerator()
	saleUC := sales.NewUseCase(txRunner, saleRepo, itemRepo, warehouseRepo, balanceRepo, receiptGenerator)

	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	itemUC := usecase.NewItemUseCase(itemRepo, balanceRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	authUC := auth.NewAuthUseCase(userRepo, warehouseRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

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
		Title:    "Bodegas API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		UserUC:      userUC,
		WarehouseUC: warehouseUC,
		CategoryUC:  categoryUC,
		ItemUC:      itemUC,
		StockUC:     stockUC,
		TransferUC:  transferUC,
		SaleUC:      saleUC,
		JWTSecret:   cfg.JWT.Secret,
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
