package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/tablepos-api/internal/application/service"
	"github.com/sangkips/tablepos-api/internal/config"
	"github.com/sangkips/tablepos-api/internal/infrastructure/database"
	"github.com/sangkips/tablepos-api/internal/infrastructure/repository"
	"github.com/sangkips/tablepos-api/internal/presentation/http/handler"
	"github.com/sangkips/tablepos-api/internal/presentation/http/routes"
	"github.com/sangkips/tablepos-api/pkg/logger"
	"github.com/sangkips/tablepos-api/pkg/printer"
	"github.com/sangkips/tablepos-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewDB(&cfg.Database, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	if err := database.AutoMigrate(db, log); err != nil {
		log.WithError(err).Fatal("Failed to run migrations")
	}

	if err := database.SeedDefaultData(db, &cfg.Store, log); err != nil {
		log.WithError(err).Warn("Failed to seed default data")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Initialize repositories
	store := repository.NewStore(db)
	settingsRepo := repository.NewSettingsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	printJobRepo := repository.NewPrintJobRepository(db)
	printerConfigs := repository.NewPrinterConfigRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)

	// Counters may lag rows imported or restored behind the app's back
	sequencer := service.NewSequencer(log)
	if err := sequencer.Sync(ctx, store); err != nil {
		log.WithError(err).Fatal("Failed to sync order and bill sequences")
	}

	// Initialize services
	settingsService := service.NewSettingsService(settingsRepo, log)
	formatter := service.NewFormatter(cfg.Printer.PaperWidth)
	printerService := service.NewPrinterService(
		printJobRepo,
		printerConfigs,
		printer.NewFactory(cfg.Printer.DialTimeout),
		formatter,
		cfg.Printer.DispatchTimeout,
		log,
	)
	orderService := service.NewOrderService(store, settingsService, sequencer, formatter, printerService, log)
	catalogService := service.NewCatalogService(catalogRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Order:    handler.NewOrderHandler(orderService),
		Settings: handler.NewSettingsHandler(settingsService),
		Printer:  handler.NewPrinterHandler(printerService),
		Catalog:  handler.NewCatalogHandler(catalogService),
	}

	rateLimiter := routes.NewRateLimiter(&cfg.RateLimit)
	defer rateLimiter.Stop()

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
		Log:             log,
	})

	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := idempotencyRepo.DeleteExpired(ctx); err != nil {
					log.WithError(err).Warn("Failed to purge expired idempotency keys")
				}
			}
		}
	}()

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("env", cfg.App.Env).Infof("Starting %s server on port %s", cfg.App.Name, port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
		os.Exit(1)
	}
}
