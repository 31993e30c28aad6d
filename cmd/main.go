package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"inquiry-intake-service/internal/client"
	"inquiry-intake-service/internal/config"
	"inquiry-intake-service/internal/handler"
	"inquiry-intake-service/internal/httpserver"
	"inquiry-intake-service/internal/repository"
	"inquiry-intake-service/internal/service/extract"
	"inquiry-intake-service/internal/service/inquiry"
	"inquiry-intake-service/internal/service/persist"
	"inquiry-intake-service/pkg/dedup"
	"inquiry-intake-service/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting inquiry-intake-service...",
		zap.String("port", cfg.Server.Port),
		zap.String("gemini_model", cfg.Gemini.Model),
		zap.String("sheet_name", cfg.Sheets.SheetName),
	)

	ctx := context.Background()

	log.Info("Initializing Gemini client...")
	geminiClient, err := client.NewGeminiClient(ctx, cfg.Gemini)
	if err != nil {
		log.Fatal("Failed to init Gemini client", zap.Error(err))
	}

	slackClient := client.NewSlackClient(cfg.Slack, log)

	log.Info("Initializing sheet repository...")
	sheetRepo, err := repository.NewSheetRepository(ctx, cfg.Sheets, log)
	if err != nil {
		log.Fatal("Failed to init sheet repository", zap.Error(err))
	}

	// Dedup is optional: without redis, retry deliveries are caught by the
	// X-Slack-Retry-Num header alone.
	var rdb *redis.Client
	var deduper *dedup.Deduper
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		deduper = dedup.NewDeduper(rdb, 24*time.Hour)
		log.Info("Event dedup enabled", zap.String("redis_addr", cfg.Redis.Addr))
	}

	extractSvc := extract.NewService(geminiClient, log)
	persistSvc := persist.NewService(sheetRepo, log)
	inquirySvc := inquiry.NewService(extractSvc, persistSvc, slackClient, cfg.Sheets.SpreadsheetID, cfg.Sheets.GID, log)

	eventHandler := handler.NewEventHandler(inquirySvc, slackClient, deduper, cfg.Slack.SigningSecret, log)
	router := httpserver.NewRouter(eventHandler, sheetRepo, rdb)

	srv := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	log.Info("inquiry-intake-service is fully initialized and running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down inquiry-intake-service gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error("Redis close error", zap.Error(err))
		}
	}

	log.Info("inquiry-intake-service shutdown complete")
}
