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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"salesdash/api/cache"
	"salesdash/api/config"
	"salesdash/api/database"
	"salesdash/api/dataset"
	"salesdash/api/handlers"
	"salesdash/api/logger"
	"salesdash/api/store"
	"salesdash/api/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	utils.SetJWTSecret(cfg.JWTSecret)

	ctx := context.Background()

	// --- PostgreSQL (users, and orders when ORDERS_SOURCE=postgres) ---
	pgClient, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to initialize PostgreSQL database", zap.Error(err))
	}
	defer pgClient.Close()

	userStore := store.NewUserStore(pgClient.DB)
	if err := userStore.InitSchema(ctx); err != nil {
		logger.Fatal("Failed to initialize users schema", zap.Error(err))
	}

	// --- Order source ---
	var (
		source store.OrderSource
		sink   store.OrderSink
	)
	switch cfg.OrdersSource {
	case config.SourceCSV:
		ds, err := dataset.LoadCSV(cfg.DatasetPath)
		if err != nil {
			logger.Fatal("Failed to load dataset", zap.Error(err))
		}
		source = ds
	case config.SourcePostgres:
		source, err = store.NewSQLOrderStore(pgClient.DB, store.DialectPostgres)
		if err != nil {
			logger.Fatal("Failed to create order store", zap.Error(err))
		}
	case config.SourceMySQL:
		mysqlClient, err := database.NewMySQLDB(cfg.MySQLDSN)
		if err != nil {
			logger.Fatal("Failed to initialize MySQL database", zap.Error(err))
		}
		defer mysqlClient.Close()
		source, err = store.NewSQLOrderStore(mysqlClient.DB, store.DialectMySQL)
		if err != nil {
			logger.Fatal("Failed to create order store", zap.Error(err))
		}
	}

	// ClickHouse serves as the order source when selected, and otherwise
	// still accepts ingested lines if configured.
	if cfg.ClickHouse.Enabled() {
		chClient, err := database.NewClickHouseDB(cfg.ClickHouse)
		if err != nil {
			logger.Fatal("Failed to initialize ClickHouse database", zap.Error(err))
		}
		defer chClient.Close()

		chStore := store.NewClickHouseOrderStore(chClient)
		if err := chStore.EnsureSchema(ctx); err != nil {
			logger.Fatal("Failed to initialize ClickHouse schema", zap.Error(err))
		}
		sink = chStore
		if cfg.OrdersSource == config.SourceClickHouse {
			source = chStore
		}
	}

	// --- Optional dashboard cache ---
	var dashboardCache handlers.DashboardCache
	if cfg.Redis.Addr != "" {
		redisClient, err := cache.NewClient(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to initialize Redis cache", zap.Error(err))
		}
		defer redisClient.Close()
		dashboardCache = redisClient
	}

	routerCfg := handlers.RouterConfig{
		Auth:        handlers.NewAuthHandlers(userStore),
		Dashboard:   handlers.NewDashboardHandlers(source, cfg.OrdersSource, dashboardCache),
		FEOrigin:    cfg.FEOrigin,
		AuthDefault: cfg.AuthDefault,
	}
	if sink != nil {
		routerCfg.Ingest = handlers.NewIngestHandlers(sink)
	}
	r := handlers.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("API server starting", zap.String("port", cfg.Port), zap.String("orders_source", cfg.OrdersSource))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("API server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
