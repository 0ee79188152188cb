package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/venuepoint/loyalty-backend/internal/data/db"
	"github.com/venuepoint/loyalty-backend/internal/data/repos"
	"github.com/venuepoint/loyalty-backend/internal/observability"
	"github.com/venuepoint/loyalty-backend/internal/platform/envutil"
	"github.com/venuepoint/loyalty-backend/internal/platform/logger"
	"github.com/venuepoint/loyalty-backend/internal/realtime/bus"
	"github.com/venuepoint/loyalty-backend/internal/services"
	"github.com/venuepoint/loyalty-backend/internal/temporalx"
	"github.com/venuepoint/loyalty-backend/internal/temporalx/segmentrun"
	"github.com/venuepoint/loyalty-backend/internal/temporalx/temporalworker"
)

func main() {
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		fmt.Printf("failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pgService, err := db.New(log)
	if err != nil {
		log.Fatal("postgres init failed", "error", err)
	}
	pg := pgService.DB()

	venueRepo := repos.NewVenueRepo(pg, log)
	attemptRepo := repos.NewAttemptRepo(pg, log)
	dailyCodeRepo := repos.NewDailyCodeRepo(pg, log)
	segmentRepo := repos.NewSegmentRepo(pg, log)
	settingsRepo := repos.NewSegmentSettingsRepo(pg, log)
	scoreRepo := repos.NewGuestSegmentScoreRepo(pg, log)
	migrationRepo := repos.NewSegmentMigrationRepo(pg, log)
	snapshotRepo := repos.NewSegmentSnapshotRepo(pg, log)
	outcomeRepo := repos.NewOutcomeEventRepo(pg, log)

	eventBus, err := bus.NewRedisBus(log)
	if err != nil {
		log.Fatal("redis bus init failed", "error", err)
	}
	defer eventBus.Close()

	notifier := services.NewOutcomeNotifier(log, outcomeRepo, eventBus)
	segmentationService := services.NewSegmentationService(pg, log, venueRepo, attemptRepo, segmentRepo, settingsRepo, scoreRepo, migrationRepo, snapshotRepo, notifier)
	dailyCodeService := services.NewDailyCodeService(pg, log, venueRepo, dailyCodeRepo, services.DefaultCodeGenerator)

	if metrics := observability.Init(log); metrics != nil {
		metrics.StartServer(ctx, log, envutil.String("METRICS_ADDR", ":9101"))
		metrics.StartPostgresCollector(ctx, log, pg)
	}

	tc, err := temporalx.NewClient(log)
	if err != nil {
		log.Fatal("temporal client init failed", "error", err)
	}
	defer tc.Close()

	cfg := temporalx.LoadConfig()
	if err := segmentrun.EnsureSchedule(ctx, tc, cfg.TaskQueue, log); err != nil {
		log.Warn("nightly maintenance schedule failed", "error", err)
	}

	runner, err := temporalworker.NewRunner(log, tc, segmentationService, dailyCodeService)
	if err != nil {
		log.Fatal("worker init failed", "error", err)
	}
	if err := runner.Start(ctx); err != nil {
		log.Fatal("worker stopped", "error", err)
	}
}
