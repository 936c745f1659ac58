// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/mcanales/floreria-be/internal/adapters/db"
	"github.com/mcanales/floreria-be/internal/adapters/excel"
	"github.com/mcanales/floreria-be/internal/adapters/redisstore"
	"github.com/mcanales/floreria-be/internal/core/ports"
	"github.com/mcanales/floreria-be/internal/core/services"
	"github.com/mcanales/floreria-be/internal/handlers"
	"github.com/mcanales/floreria-be/internal/handlers/middleware"
	"github.com/mcanales/floreria-be/internal/pkg/config"
	"github.com/mcanales/floreria-be/internal/pkg/logger"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	slogger := logger.SetupLogger("debug", "json")

	slogger.Info("starting floreria inventory system",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
	)

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("store_backend", cfg.StoreBackend),
	)

	ctx := context.Background()

	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	server := setupHTTPServer(cfg, deps, slogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
		)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received",
			slog.String("signal", sig.String()),
		)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	store          ports.Store
	database       *db.Database
	redisClient    *redis.Client
	cache          ports.CacheRepository
	asynqClient    *asynq.Client
	asynqInspector *asynq.Inspector

	productHandler   *handlers.ProductHandler
	movementHandler  *handlers.MovementHandler
	salesHandler     *handlers.SalesHandler
	shiftHandler     *handlers.ShiftHandler
	dashboardHandler *handlers.DashboardHandler
	exportHandler    *handlers.ExportHandler
	importHandler    *handlers.ImportHandler
	healthHandler    *handlers.HealthHandler
}

func (d *dependencies) cleanup() {
	if d.store != nil {
		d.store.Close()
	}
	if d.redisClient != nil {
		d.redisClient.Close()
	}
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, slogger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	// Store backend: redis for the single-store default, postgres for
	// installs that want durable history
	switch cfg.StoreBackend {
	case config.StoreBackendPostgres:
		slogger.Info("connecting to database",
			slog.String("host", cfg.Database.Host),
			slog.String("database", cfg.Database.Name),
		)

		database, err := db.NewDatabase(ctx, &db.Config{
			Host:               cfg.Database.Host,
			Port:               cfg.Database.Port,
			User:               cfg.Database.User,
			Password:           cfg.Database.Password,
			Database:           cfg.Database.Name,
			SSLMode:            cfg.Database.SSLMode,
			MaxConnections:     cfg.Database.MaxConnections,
			MinConnections:     cfg.Database.MinConnections,
			MaxConnLifetime:    cfg.Database.MaxConnLifetime,
			MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
			HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
			ConnectTimeout:     cfg.Database.ConnectTimeout,
			EnableQueryLogging: cfg.Database.EnableQueryLogging,
		}, slogger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		deps.database = database
		deps.store = db.NewStore(database, slogger)

		if !cfg.IsProduction() {
			if err := runMigrations(cfg, slogger); err != nil {
				slogger.Warn("failed to run migrations", slog.String("error", err.Error()))
			}
		}

	default:
		slogger.Info("connecting to Redis",
			slog.String("addr", cfg.GetRedisAddr()),
		)

		redisClient := redis.NewClient(&redis.Options{
			Addr:            cfg.GetRedisAddr(),
			Password:        cfg.Redis.Password,
			DB:              cfg.Redis.DB,
			MaxRetries:      cfg.Redis.MaxRetries,
			MinRetryBackoff: cfg.Redis.MinRetryBackoff,
			MaxRetryBackoff: cfg.Redis.MaxRetryBackoff,
			DialTimeout:     cfg.Redis.DialTimeout,
			ReadTimeout:     cfg.Redis.ReadTimeout,
			WriteTimeout:    cfg.Redis.WriteTimeout,
			PoolSize:        cfg.Redis.PoolSize,
			MinIdleConns:    cfg.Redis.MinIdleConns,
			PoolTimeout:     cfg.Redis.PoolTimeout,
		})

		if err := redisClient.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		deps.redisClient = redisClient
		deps.store = redisstore.NewStore(redisClient, slogger)
		deps.cache = redisstore.NewCache(redisClient, slogger)
	}

	slogger.Info("initializing Asynq client")
	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}
	deps.asynqClient = asynq.NewClient(asynqRedisOpt)
	deps.asynqInspector = asynq.NewInspector(asynqRedisOpt)

	// Core services
	codec := excel.NewCodec(slogger)
	inventoryService := services.NewInventoryService(deps.store.Products(), deps.store.Movements(), slogger)
	salesService := services.NewSalesService(deps.store.Products(), deps.store.Sales(), slogger)
	reportService := services.NewReportService(deps.store, codec, slogger)
	shiftService := services.NewShiftService(deps.store, reportService, slogger)
	importService := services.NewImportService(deps.store, codec, slogger)

	// Handlers
	deps.productHandler = handlers.NewProductHandler(inventoryService, slogger)
	deps.movementHandler = handlers.NewMovementHandler(inventoryService, slogger)
	deps.salesHandler = handlers.NewSalesHandler(salesService, slogger)
	deps.shiftHandler = handlers.NewShiftHandler(shiftService, slogger)
	deps.dashboardHandler = handlers.NewDashboardHandler(inventoryService, salesService, shiftService, deps.cache, slogger)
	deps.exportHandler = handlers.NewExportHandler(reportService, deps.asynqClient, slogger)
	deps.importHandler = handlers.NewImportHandler(importService, slogger, cfg.Files.ExcelMaxSizeMB)
	deps.healthHandler = handlers.NewHealthHandler(deps.store, deps.asynqInspector, cfg, slogger)

	slogger.Info("all dependencies initialized successfully")
	return deps, nil
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, slogger *slog.Logger) *http.Server {
	mux := http.NewServeMux()

	var handler http.Handler = mux

	// Apply middleware in reverse order (innermost first)
	if cfg.App.Environment != "test" {
		handler = middleware.RequestID(handler)
		handler = middleware.Logger(slogger)(handler)
		handler = middleware.Recovery(slogger)(handler)
	}

	if cfg.Security.RateLimitRequests > 0 {
		handler = middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration)(handler)
	}

	if len(cfg.Security.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.Security.AllowedOrigins)(handler)
	}

	if cfg.Security.SecureHeaders {
		handler = middleware.SecureHeaders(handler)
	}

	registerRoutes(mux, deps)

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(slogger.Handler(), slog.LevelError),
	}
}

func registerRoutes(mux *http.ServeMux, deps *dependencies) {
	apiV1 := "/api/v1"

	// Health and readiness
	mux.HandleFunc("GET /health", deps.healthHandler.Health)
	mux.HandleFunc("GET /ready", deps.healthHandler.Readiness)

	// Product catalog
	mux.HandleFunc("GET "+apiV1+"/products", deps.productHandler.List)
	mux.HandleFunc("POST "+apiV1+"/products", deps.productHandler.Create)
	mux.HandleFunc("PUT "+apiV1+"/products/{id}", deps.productHandler.Update)
	mux.HandleFunc("DELETE "+apiV1+"/products/{id}", deps.productHandler.Delete)
	mux.HandleFunc("GET "+apiV1+"/products/low-stock", deps.productHandler.LowStock)
	mux.HandleFunc("POST "+apiV1+"/products/reset", deps.productHandler.Reset)

	// Stock movements
	mux.HandleFunc("GET "+apiV1+"/movements", deps.movementHandler.List)
	mux.HandleFunc("POST "+apiV1+"/movements", deps.movementHandler.Register)

	// Sales
	mux.HandleFunc("GET "+apiV1+"/sales", deps.salesHandler.List)
	mux.HandleFunc("POST "+apiV1+"/sales", deps.salesHandler.Register)

	// Dashboard
	mux.HandleFunc("GET "+apiV1+"/dashboard", deps.dashboardHandler.GetDashboard)

	// Shift lifecycle
	mux.HandleFunc("GET "+apiV1+"/shift", deps.shiftHandler.State)
	mux.HandleFunc("POST "+apiV1+"/shift/open", deps.shiftHandler.Open)
	mux.HandleFunc("POST "+apiV1+"/shift/close", deps.shiftHandler.Close)

	// Export and import
	mux.HandleFunc("GET "+apiV1+"/export/excel", deps.exportHandler.ExportExcel)
	mux.HandleFunc("POST "+apiV1+"/export/async", deps.exportHandler.ExportAsync)
	mux.HandleFunc("POST "+apiV1+"/import/excel", deps.importHandler.ImportExcel)
}

func runMigrations(cfg *config.Config, slogger *slog.Logger) error {
	slogger.Info("running database migrations")

	migrator, err := db.NewMigrator(&db.MigrationConfig{
		DatabaseURL: cfg.GetDatabaseURL(),
		UseEmbedded: true,
		TableName:   "schema_migrations",
	}, slogger)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer migrator.Close()

	return migrator.Up(context.Background())
}
