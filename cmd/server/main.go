package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/macro-trader/internal/config"
	"github.com/aristath/macro-trader/internal/database"
	"github.com/aristath/macro-trader/internal/modules/allocation"
	"github.com/aristath/macro-trader/internal/modules/indicators"
	"github.com/aristath/macro-trader/internal/modules/pipeline"
	"github.com/aristath/macro-trader/internal/modules/rebalancing"
	"github.com/aristath/macro-trader/internal/modules/scenarios"
	"github.com/aristath/macro-trader/internal/modules/themes"
	"github.com/aristath/macro-trader/internal/scheduler"
	"github.com/aristath/macro-trader/internal/server"
	"github.com/aristath/macro-trader/pkg/logger"
)

func main() {
	// Load configuration first so the logger picks up the configured level
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info", Pretty: true})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting Macro Trader")

	// Database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Repositories
	indicatorRepo := indicators.NewRepository(db.Conn(), log)
	themeHistory := themes.NewHistoryRepository(db.Conn(), log)
	snapshotRepo := pipeline.NewSnapshotRepository(db.Conn(), log)
	positionRepo := rebalancing.NewPositionRepository(db.Conn(), log)

	if cfg.SeedDefaultIndicators {
		if err := indicators.Seed(indicatorRepo, log); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed indicator universe")
		}
	}

	// Services
	themeCalc := themes.NewCalculator(log)
	synthesizer := scenarios.NewSynthesizer(log)
	allocator := allocation.NewService(allocation.Options{
		EnforceConcentration: cfg.EnforceConcentration,
	}, log)
	pipelineSvc := pipeline.NewService(
		indicatorRepo, themeCalc, themeHistory, synthesizer, allocator, snapshotRepo, log)
	rebalancingSvc := rebalancing.NewService(positionRepo, cfg.DriftAlertThresholdPct, log)

	// Scheduler: recompute the pipeline on a schedule, and once at boot so
	// the dashboard has a snapshot immediately
	sched := scheduler.New(log)
	recompute := scheduler.NewRecomputeJob(pipelineSvc, snapshotRepo, log)
	if err := sched.AddJob(cfg.RecomputeSchedule, recompute); err != nil {
		log.Fatal().Err(err).Msg("Failed to register recompute job")
	}
	sched.Start()
	defer sched.Stop()

	if err := sched.RunNow(recompute); err != nil {
		log.Error().Err(err).Msg("Initial pipeline run failed")
	}

	// HTTP server
	srv := server.New(server.Config{
		Port:        cfg.Port,
		Log:         log,
		Config:      cfg,
		DevMode:     cfg.DevMode,
		Indicators:  indicators.NewHandler(indicatorRepo, log),
		Allocation:  allocation.NewHandler(log),
		Pipeline:    pipeline.NewHandler(pipelineSvc, snapshotRepo, log),
		Rebalancing: rebalancing.NewHandler(rebalancingSvc, pipelineSvc, snapshotRepo, log),
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
