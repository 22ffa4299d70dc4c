package main

import (
	"log"
	"os"

	"go-dgpa-watcher/internal/api"
	"go-dgpa-watcher/internal/config"
	"go-dgpa-watcher/internal/extract"
	"go-dgpa-watcher/internal/logging"

	"go.uber.org/zap"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	cfg, err := config.Load(os.Getenv("DGPA_CONFIG"))
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		log.Fatalf("❌ Failed to init logger: %v", err)
	}
	defer logger.Sync()

	vocab := extract.DefaultVocabulary()
	if len(cfg.TitleKeywords) > 0 {
		vocab.TitleKeywords = cfg.TitleKeywords
	}
	ex := extract.New(
		extract.WithVocabulary(vocab),
		extract.WithFallback(cfg.FallbackEnabled()),
		extract.WithLogger(logger),
	)

	r := api.NewRouter(ex, logger)

	logger.Info("Server listening", zap.String("port", port))
	if err := r.Run(":" + port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
