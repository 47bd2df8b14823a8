package main

import (
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/proteinfinder/backend/config"
	"github.com/proteinfinder/backend/internal/app"
	httpDelivery "github.com/proteinfinder/backend/internal/delivery/http"
	"github.com/proteinfinder/backend/internal/infrastructure/logging"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	zap.ReplaceGlobals(logger)
	defer func() { _ = logger.Sync() }()

	logger.Info("starting ProteinFinder backend",
		zap.String("version", "1.0.0"),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("cache", cfg.Cache.Type),
		zap.Duration("cache_max_age", cfg.Cache.MaxAge),
	)

	// Initialize usecase layer
	searchService, closeCache, err := app.NewSearchService(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize search service", zap.Error(err))
	}
	defer closeCache()

	handler := httpDelivery.NewHandler(searchService, logger)
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info("server listening", zap.String("addr", addr))

	if err := router.Run(addr); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
