package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/reflaxess123/cardflow/internal/api"
	"github.com/reflaxess123/cardflow/internal/config"
	"github.com/reflaxess123/cardflow/internal/db"
	"github.com/reflaxess123/cardflow/internal/logger"
	"github.com/reflaxess123/cardflow/internal/repository/sqlite"
	"github.com/reflaxess123/cardflow/internal/scheduler"
	"github.com/reflaxess123/cardflow/internal/services"
	"github.com/reflaxess123/cardflow/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Cardflow Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("learning_steps=%v", cfg.LearningSteps)
	log.Debug("history_worker_count=%d", cfg.HistoryWorkerCount)
	log.Debug("history_queue_size=%d", cfg.HistoryQueueSize)
	log.Debug("history_retention_days=%d", cfg.HistoryRetentionDays)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	cardRepo := sqlite.NewCardRepository(database)
	progressRepo := sqlite.NewProgressRepository(database)

	historyPool := worker.NewPool(cfg.HistoryWorkerCount, cfg.HistoryQueueSize)

	srsCfg := cfg.SRS()
	srv := &api.Server{
		CardService:   services.NewCardService(cardRepo),
		ReviewService: services.NewReviewService(srsCfg, cardRepo, progressRepo, historyPool),
		QueueService:  services.NewQueueService(srsCfg, progressRepo),
		StatsService:  services.NewStatsService(cardRepo, progressRepo),
	}

	ctx, cancel := context.WithCancel(context.Background())
	historyPool.Start(ctx)

	maintenance := scheduler.New(progressRepo, cfg.HistoryRetentionDays)
	maintenance.Start()

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping maintenance scheduler")
	maintenance.Stop()

	log.Debug("stopping history pool")
	historyPool.Stop()
	cancel()

	log.Info("===========================================")
	log.Info("Cardflow Server Stopped")
	log.Info("===========================================")
}
