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

	"github.com/jhoicas/Inventario-insumos/internal/application/inventory"
	"github.com/jhoicas/Inventario-insumos/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/Inventario-insumos/internal/infrastructure/pdf"
	"github.com/jhoicas/Inventario-insumos/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Inventario-insumos/internal/interfaces/http"
	"github.com/jhoicas/Inventario-insumos/pkg/config"
	"github.com/jhoicas/Inventario-insumos/pkg/logger"
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
	loc := cfg.Inventory.Location()
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("timezone", loc.String()).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET requerido")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	txRunner := postgres.NewTxRunner(pool)
	repos := postgres.NewRepositories(pool)
	ledger := inventory.NewLedger(log.Named("ledger"))
	notifier := notify.NewLogNotifier(log)

	materialUC := inventory.NewMaterialUseCase(txRunner, repos, ledger)
	registerMovementUC := inventory.NewRegisterMovementUseCase(txRunner, repos, ledger, notifier, log.Named("movements"))
	ruleUC := inventory.NewConsumptionRuleUseCase(repos)
	orderUC := inventory.NewOrderConsumptionUseCase(txRunner, ledger, notifier, log.Named("order_consumption"))
	adjustmentUC := inventory.NewAdjustmentUseCase(txRunner, repos, ledger, notifier, log.Named("adjustments"))
	stockCountUC := inventory.NewStockCountUseCase(txRunner, repos, ledger, notifier, log.Named("stock_counts"))

	// PDF: exportación del reporte diario
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	reportUC := inventory.NewDailyReportUseCase(txRunner, repos, pdfGenerator, inventory.ReportConfig{
		Location:          loc,
		ExpiryWarningDays: cfg.Inventory.ExpiryWarningDays,
		Currency:          cfg.Inventory.Currency,
	}, log.Named("reports"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario de insumos API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Materials:        materialUC,
		RegisterMovement: registerMovementUC,
		Rules:            ruleUC,
		OrderConsumption: orderUC,
		Reports:          reportUC,
		Adjustments:      adjustmentUC,
		StockCounts:      stockCountUC,
		Location:         loc,
		JWTSecret:        cfg.JWT.Secret,
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
