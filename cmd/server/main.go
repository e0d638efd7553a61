package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/supplychain/backend/internal/application/catalog"
	importapp "github.com/supplychain/backend/internal/application/import"
	inventoryapp "github.com/supplychain/backend/internal/application/inventory"
	"github.com/supplychain/backend/internal/application/monitoring"
	productionapp "github.com/supplychain/backend/internal/application/production"
	salesapp "github.com/supplychain/backend/internal/application/sales"
	transferapp "github.com/supplychain/backend/internal/application/transfer"
	"github.com/supplychain/backend/internal/infrastructure/cache"
	"github.com/supplychain/backend/internal/infrastructure/config"
	"github.com/supplychain/backend/internal/infrastructure/event"
	"github.com/supplychain/backend/internal/infrastructure/logger"
	"github.com/supplychain/backend/internal/infrastructure/persistence"
	"github.com/supplychain/backend/internal/infrastructure/telemetry"
	"github.com/supplychain/backend/internal/interfaces/http/handler"
	"github.com/supplychain/backend/internal/interfaces/http/middleware"
	"github.com/supplychain/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Supply Chain Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel,
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize OpenTelemetry tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Initialize OpenTelemetry metrics
	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Register database query tracing
	if cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:          true,
			SlowQueryThresh:  cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:         "postgresql",
			WithoutVariables: cfg.App.Env == "production",
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Initialize repositories
	stockRepo := persistence.NewGormStockRepository(db.DB)
	holdingRepo := persistence.NewGormHoldingRepository(db.DB)
	movementRepo := persistence.NewGormMovementRepository(db.DB)
	rawMaterialRepo := persistence.NewGormRawMaterialRepository(db.DB)
	producedGoodRepo := persistence.NewGormProducedGoodRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	transferRepo := persistence.NewGormTransferRequestRepository(db.DB)
	stockMetricsRepo := persistence.NewGormStockMetricsRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Initialize event serializer and register all event types
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)

	// Create outbox publisher for transactional event saving
	outboxPublisher := event.NewOutboxPublisher(eventSerializer)

	// Transaction scope shared by every stock-touching service. The outbox
	// saver rides along so events commit with the rows that caused them.
	txScope := persistence.NewGormTransactionScope(db.DB)
	txScope.SetOutboxEventSaver(outboxPublisher)

	// Initialize application services
	storeService := inventoryapp.NewStoreService(txScope, stockRepo, holdingRepo, movementRepo)
	catalogService := catalogapp.NewCatalogService(txScope, rawMaterialRepo, producedGoodRepo)
	productionService := productionapp.NewProductionService(txScope, storeService)
	salesService := salesapp.NewSalesService(txScope, storeService, saleRepo)
	transferService := transferapp.NewTransferService(txScope, storeService, transferRepo)
	importService := importapp.NewRawMaterialImportService(txScope, storeService)
	importService.SetMaxRowErrors(cfg.Import.MaxRowErrors)

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)

	// Idempotency store for event handlers: Redis when reachable, in-memory
	// fallback otherwise
	storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log))
	idempotencyStore, err := storeFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Depleted stock alerts
	stockDepletedHandler := inventoryapp.NewStockDepletedHandler(log)
	eventBus.Subscribe(event.NewIdempotentHandler(stockDepletedHandler, idempotencyStore, log))

	// Business metrics fed from domain events
	if meterProvider.IsEnabled() {
		meter := meterProvider.Meter(cfg.Telemetry.ServiceName)
		businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:         meter,
			Logger:        log,
			StockProvider: stockMetricsRepo,
		})
		if err != nil {
			log.Fatal("Failed to initialize business metrics", zap.Error(err))
		}
		businessMetrics.StartPeriodicCollection(context.Background(), 5*time.Minute)
		defer businessMetrics.Stop()

		eventBus.Subscribe(monitoring.NewEventMetricsHandler(businessMetrics, log))
	}

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Start outbox processor for guaranteed event delivery
	if cfg.Event.ProcessorEnabled {
		outboxProcessorConfig := event.OutboxProcessorConfig{
			BatchSize:        cfg.Event.BatchSize,
			PollInterval:     cfg.Event.PollInterval,
			CleanupEnabled:   cfg.Event.CleanupEnabled,
			CleanupRetention: cfg.Event.CleanupRetention,
			CleanupInterval:  1 * time.Hour,
		}
		outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, outboxProcessorConfig, log)
		if err := outboxProcessor.Start(context.Background()); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			if err := outboxProcessor.Stop(context.Background()); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
		log.Info("Outbox processor started",
			zap.Int("batch_size", outboxProcessorConfig.BatchSize),
			zap.Duration("poll_interval", outboxProcessorConfig.PollInterval),
		)
	}

	// Inject event bus into services that publish events
	storeService.SetEventPublisher(eventBus)
	catalogService.SetEventPublisher(eventBus)
	productionService.SetEventPublisher(eventBus)
	salesService.SetEventPublisher(eventBus)
	transferService.SetEventPublisher(eventBus)
	importService.SetEventPublisher(eventBus)

	// Initialize HTTP handlers
	storeHandler := handler.NewStoreHandler(storeService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	productionHandler := handler.NewProductionHandler(productionService)
	salesHandler := handler.NewSalesHandler(salesService)
	transferHandler := handler.NewTransferHandler(transferService)
	importHandler := handler.NewImportHandler(importService, cfg.Import.MaxPayloadBytes)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Request tracing
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName))
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(storeHandler).
		Register(catalogHandler).
		Register(productionHandler).
		Register(salesHandler).
		Register(transferHandler).
		Register(importHandler).
		Register(systemHandler)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
