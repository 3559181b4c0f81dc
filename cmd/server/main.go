package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/soorozco/controldoc/internal/api"
	"github.com/soorozco/controldoc/internal/cache"
	"github.com/soorozco/controldoc/internal/config"
	"github.com/soorozco/controldoc/internal/db"
	"github.com/soorozco/controldoc/internal/services"
	"github.com/soorozco/controldoc/pkg/logger"
	"github.com/soorozco/controldoc/pkg/metrics"
	"go.uber.org/zap"
)

func main() {
	var cfg *config.Configuration
	var err error
	if configFile := os.Getenv("CONFIG_FILE"); configFile != "" {
		cfg, err = config.LoadConfig(configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	} else {
		cfg = config.InitializeDefaultConfig()
	}

	zapLogger, err := logger.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()
	zap.ReplaceGlobals(zapLogger)

	config.LogConfig(zapLogger)

	database, err := db.Initialize(cfg)
	if err != nil {
		zapLogger.Fatal("Failed to initialize database", zap.Error(err))
	}

	metricsCollector := metrics.NewMetricsCollector()
	snapshots := cache.New()

	documentService := services.NewDocumentService(database, snapshots, zapLogger, metricsCollector)
	recordService := services.NewRecordService(database, snapshots, zapLogger, metricsCollector)
	personnelService := services.NewPersonnelService(database, snapshots, zapLogger, metricsCollector)

	router := api.NewRouter(zapLogger, metricsCollector, documentService, recordService, personnelService)
	router.SetupRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Server.Port
	}
	go func() {
		if err := router.Run(":" + port); err != nil {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()
	zapLogger.Info("Server started", zap.String("port", port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	sqlDB, err := db.DB.DB()
	if err == nil {
		sqlDB.Close()
	}
	zapLogger.Info("Server gracefully stopped")
}
