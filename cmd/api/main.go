package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/carvoy/importcost-api/internal/db"
	"github.com/carvoy/importcost-api/internal/handlers"
	"github.com/carvoy/importcost-api/internal/migrations"
	"github.com/carvoy/importcost-api/internal/platform/auth"
	"github.com/carvoy/importcost-api/internal/platform/config"
	"github.com/carvoy/importcost-api/internal/platform/idempotency"
	"github.com/carvoy/importcost-api/internal/platform/observability"
	"github.com/carvoy/importcost-api/internal/repositories/sqlite"
	"github.com/carvoy/importcost-api/internal/seed"
	"github.com/carvoy/importcost-api/internal/services"
)

func main() {
	ctx := context.Background()

	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("api")
	ctx = observability.WithLogger(ctx, logger)

	cfg, err := config.Load(ctx)
	if err != nil {
		var validation *config.ValidationError
		if errors.As(err, &validation) {
			logger.Fatal("missing required configuration", zap.Strings("fields", validation.Fields()))
		}
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Warn("database close error", zap.Error(err))
		}
	}()

	if err := migrations.Up(database); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	if cfg.Database.Seed {
		stats, err := seed.Run(database)
		if err != nil {
			logger.Fatal("failed to seed rate tables", zap.Error(err))
		}
		logger.Info("rate tables seeded", zap.Int("inserts", stats.Inserts))
	}

	rateRepo := sqlite.NewRateRepository(database)
	calculationRepo := sqlite.NewCalculationRepository(database)

	catalogProvider, err := services.NewRateCatalogProvider(services.RateCatalogProviderDeps{
		Rates:  rateRepo,
		TTL:    cfg.Rates.SnapshotTTL,
		Logger: logger.Named("rates"),
	})
	if err != nil {
		logger.Fatal("failed to initialise rate catalog provider", zap.Error(err))
	}
	if err := catalogProvider.Reload(ctx); err != nil {
		logger.Fatal("failed to load initial rate snapshot", zap.Error(err))
	}

	engine, err := services.NewCalculatorEngine(services.CalculatorEngineDeps{
		Catalog: catalogProvider,
		Logger:  logger.Named("engine"),
	})
	if err != nil {
		logger.Fatal("failed to initialise calculator engine", zap.Error(err))
	}

	calculationService, err := services.NewCalculationService(services.CalculationServiceDeps{
		Engine:       engine,
		Calculations: calculationRepo,
		HistoryLimit: cfg.Rates.HistoryLimit,
		Logger:       logger.Named("calculations"),
	})
	if err != nil {
		logger.Fatal("failed to initialise calculation service", zap.Error(err))
	}

	authenticator, err := auth.NewAuthenticator(cfg.Security.JWTSecret)
	if err != nil {
		logger.Fatal("failed to initialise authenticator", zap.Error(err))
	}

	calculatorHandlers, err := handlers.NewCalculatorHandlers(calculationService)
	if err != nil {
		logger.Fatal("failed to initialise calculator handlers", zap.Error(err))
	}

	healthHandlers := handlers.NewHealthHandlers(
		handlers.WithHealthEnvironment(cfg.Security.Environment),
		handlers.WithReadinessProbe(database.PingContext),
	)

	idempotencyMiddleware := idempotency.Middleware(
		idempotency.NewMemoryStore(),
		idempotency.WithMethods(http.MethodPost),
		idempotency.WithLogger(observability.NewPrintfAdapter(logger.Named("idempotency"))),
	)

	middlewares := []func(http.Handler) http.Handler{
		observability.InjectLoggerMiddleware(logger.Named("http")),
		observability.TraceMiddleware(),
		observability.RecoveryMiddleware(logger.Named("http")),
		observability.RequestLoggerMiddleware(),
		idempotencyMiddleware,
	}

	router := handlers.NewRouter(
		handlers.WithMiddlewares(middlewares...),
		handlers.WithHealthHandlers(healthHandlers),
		handlers.WithCalculatorRoutes(calculatorHandlers.Routes(authenticator.Optional, authenticator.Require)),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("importcost api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	shutdownTimeout := cfg.Server.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
