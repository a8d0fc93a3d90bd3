package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	auditapp "github.com/gestor/backend/internal/application/audit"
	salesapp "github.com/gestor/backend/internal/application/sales"
	"github.com/gestor/backend/internal/infrastructure/cache"
	"github.com/gestor/backend/internal/infrastructure/config"
	"github.com/gestor/backend/internal/infrastructure/event"
	"github.com/gestor/backend/internal/infrastructure/export"
	"github.com/gestor/backend/internal/infrastructure/logger"
	"github.com/gestor/backend/internal/infrastructure/persistence"
	"github.com/gestor/backend/internal/infrastructure/telemetry"
	"github.com/gestor/backend/internal/interfaces/http/handler"
	"github.com/gestor/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

const (
	version         = "1.0.0"
	shutdownTimeout = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output}
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize logger provider", zap.Error(err))
	}

	// Rebuild the logger so entries also reach the OTLP logs pipeline
	log := bootLog
	if loggerProvider.IsEnabled() {
		if log, err = logger.New(logCfg, loggerProvider.ZapCore(logger.ParseLevel(cfg.Log.Level))); err != nil {
			bootLog.Fatal("Failed to initialize bridged logger", zap.Error(err))
		}
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting gestor backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, cfg.Database.DBName, log); err != nil {
		log.Fatal("Failed to enable database tracing", zap.Error(err))
	}
	if cfg.App.Env != "production" {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}
	log.Info("Database connected successfully")

	// Repositories
	quoteRepo := persistence.NewGormQuoteRepository(db.DB)
	orderRepo := persistence.NewGormProductionOrderRepository(db.DB)
	receivableRepo := persistence.NewGormReceivableRepository(db.DB)
	commissionRepo := persistence.NewGormCommissionRepository(db.DB)
	contactRepo := persistence.NewGormContactRepository(db.DB)

	// Events: status changes are deduplicated per quote version before
	// they reach the bus
	eventBus := event.NewInMemoryEventBus(log)
	idempotencyStore, err := cache.NewIdempotencyStore(ctx, cfg.Idempotency, cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to initialize idempotency store", zap.Error(err))
	}
	publisher := event.NewDeduplicatingPublisher(eventBus, idempotencyStore, cfg.Idempotency.TTL, log)

	eventBus.Subscribe(salesapp.NewQuoteStatusChangedHandler(log))
	eventBus.Subscribe(auditapp.NewMarginAlertHandler(log))

	// Application services
	auditMetrics, err := telemetry.NewAuditMetrics(meterProvider.Meter(telemetry.AuditMeterName))
	if err != nil {
		log.Fatal("Failed to create audit metrics", zap.Error(err))
	}
	transitionService := salesapp.NewQuoteTransitionService(quoteRepo, quoteRepo, publisher, log)
	auditService, err := auditapp.NewAuditService(auditapp.Readers{
		Quotes:      quoteRepo,
		Orders:      orderRepo,
		Receivables: receivableRepo,
		Commissions: commissionRepo,
		Contacts:    contactRepo,
	}, log,
		auditapp.WithThresholds(cfg.Audit.Thresholds()),
		auditapp.WithMarginThreshold(cfg.Audit.MarginThresholdDecimal()),
		auditapp.WithEventPublisher(publisher),
		auditapp.WithMetrics(auditMetrics),
		auditapp.WithReportWriter(export.NewAuditWorkbookWriter()),
		auditapp.WithTracer(tracerProvider.Tracer("github.com/gestor/backend/audit")),
	)
	if err != nil {
		log.Fatal("Failed to create audit service", zap.Error(err))
	}

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	engine, err := router.NewEngine(cfg, log)
	if err != nil {
		log.Fatal("Failed to create HTTP engine", zap.Error(err))
	}
	router.NewRouter(engine).
		RegisterPublic(handler.NewHealthHandler(db, version)).
		Register(handler.NewQuoteTransitionHandler(transitionService)).
		Register(handler.NewAuditHandler(auditService)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	stats := publisher.Stats()
	log.Info("Event publisher stats",
		zap.Int64("published", stats.Published),
		zap.Int64("duplicates", stats.Duplicates),
		zap.Int64("store_failures", stats.StoreFails),
	)
	if err := idempotencyStore.Close(); err != nil {
		log.Error("Error closing idempotency store", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	for _, shutdown := range []func(context.Context) error{
		tracerProvider.Shutdown,
		meterProvider.Shutdown,
		loggerProvider.Shutdown,
	} {
		if err := shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}

	log.Info("Server exited gracefully")
}
