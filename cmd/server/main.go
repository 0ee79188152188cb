package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/venuepoint/loyalty-backend/internal/data/db"
	"github.com/venuepoint/loyalty-backend/internal/data/repos"
	httpserver "github.com/venuepoint/loyalty-backend/internal/http"
	"github.com/venuepoint/loyalty-backend/internal/http/handlers"
	"github.com/venuepoint/loyalty-backend/internal/http/middleware"
	"github.com/venuepoint/loyalty-backend/internal/observability"
	"github.com/venuepoint/loyalty-backend/internal/platform/envutil"
	"github.com/venuepoint/loyalty-backend/internal/platform/logger"
	"github.com/venuepoint/loyalty-backend/internal/platform/pos"
	"github.com/venuepoint/loyalty-backend/internal/realtime"
	"github.com/venuepoint/loyalty-backend/internal/realtime/bus"
	"github.com/venuepoint/loyalty-backend/internal/services"
	"github.com/venuepoint/loyalty-backend/internal/temporalx"
	"github.com/venuepoint/loyalty-backend/internal/temporalx/segmentrun"
)

func main() {
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		fmt.Printf("failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	shutdownOTel := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "loyalty-backend",
		Environment: envutil.String("APP_ENV", "development"),
		Version:     envutil.String("APP_VERSION", "dev"),
	})
	defer func() {
		if err := shutdownOTel(context.Background()); err != nil {
			log.Warn("otel shutdown failed", "error", err)
		}
	}()

	jwtSecret := envutil.String("JWT_SECRET_KEY", "defaultsecret")
	accessTTL := envutil.Duration("ACCESS_TOKEN_TTL", time.Hour)

	// Postgres
	pgService, err := db.New(log)
	if err != nil {
		log.Fatal("postgres init failed", "error", err)
	}
	if err := db.AutoMigrateAll(pgService.DB()); err != nil {
		log.Fatal("postgres auto migration failed", "error", err)
	}
	pg := pgService.DB()

	// Repos
	venueRepo := repos.NewVenueRepo(pg, log)
	guestRepo := repos.NewGuestProfileRepo(pg, log)
	adminRepo := repos.NewAdminUserRepo(pg, log)
	ledgerRepo := repos.NewLedgerRepo(pg, log)
	cooldownRepo := repos.NewCooldownRepo(pg, log)
	attemptRepo := repos.NewAttemptRepo(pg, log)
	ticketRepo := repos.NewRewardTicketRepo(pg, log)
	dailyCodeRepo := repos.NewDailyCodeRepo(pg, log)
	productRepo := repos.NewProductRepo(pg, log)
	questRepo := repos.NewQuestRepo(pg, log)
	questSubRepo := repos.NewQuestSubmissionRepo(pg, log)
	inventoryRepo := repos.NewInventoryRepo(pg, log)
	deliveryRepo := repos.NewDeliveryCodeRepo(pg, log)
	segmentRepo := repos.NewSegmentRepo(pg, log)
	settingsRepo := repos.NewSegmentSettingsRepo(pg, log)
	scoreRepo := repos.NewGuestSegmentScoreRepo(pg, log)
	migrationRepo := repos.NewSegmentMigrationRepo(pg, log)
	snapshotRepo := repos.NewSegmentSnapshotRepo(pg, log)
	outcomeRepo := repos.NewOutcomeEventRepo(pg, log)

	// Realtime
	hub := realtime.NewHub(log)
	eventBus, err := bus.NewRedisBus(log)
	if err != nil {
		log.Fatal("redis bus init failed", "error", err)
	}
	defer eventBus.Close()
	if err := eventBus.StartForwarder(ctx, hub.Broadcast); err != nil {
		log.Fatal("bus forwarder failed", "error", err)
	}

	// Services
	notifier := services.NewOutcomeNotifier(log, outcomeRepo, eventBus)
	authService := services.NewAuthService(pg, log, adminRepo, jwtSecret, accessTTL)
	ledgerService := services.NewLedgerService(pg, log, guestRepo, ledgerRepo)
	cooldownService := services.NewCooldownService(pg, log, cooldownRepo)
	guestService := services.NewGuestService(pg, log, guestRepo, ledgerRepo, attemptRepo, ticketRepo, cooldownRepo, scoreRepo, segmentRepo)
	dailyCodeService := services.NewDailyCodeService(pg, log, venueRepo, dailyCodeRepo, services.DefaultCodeGenerator)
	deliveryService := services.NewDeliveryService(pg, log, guestRepo, deliveryRepo, services.DefaultCodeGenerator)
	gameService := services.NewGameService(pg, log, guestRepo, attemptRepo, ticketRepo, dailyCodeRepo, deliveryRepo, cooldownService, ledgerService, notifier, services.DefaultCodeGenerator)
	shopService := services.NewShopService(pg, log, guestRepo, productRepo, inventoryRepo, cooldownService, ledgerService)
	questService := services.NewQuestService(pg, log, guestRepo, questRepo, questSubRepo, cooldownService, ledgerService, notifier)
	ticketService := services.NewTicketService(pg, log, guestRepo, ticketRepo, productRepo, inventoryRepo, notifier)
	inventoryService := services.NewInventoryService(pg, log, guestRepo, inventoryRepo, productRepo, cooldownService)
	segmentationService := services.NewSegmentationService(pg, log, venueRepo, attemptRepo, segmentRepo, settingsRepo, scoreRepo, migrationRepo, snapshotRepo, notifier)

	var posClient *pos.Client
	if base := envutil.String("POS_BASE_URL", ""); base != "" {
		posClient = pos.NewClient(base, envutil.String("POS_API_KEY", ""), log)
	}
	dashboardService := services.NewDashboardService(pg, log, venueRepo, attemptRepo, dailyCodeRepo, snapshotRepo, posClient)

	if path := envutil.String("SEGMENT_GRID_SEED_PATH", ""); path != "" {
		if _, err := segmentationService.SeedGridFromFile(ctx, path); err != nil {
			log.Warn("segment grid seed failed", "path", path, "error", err)
		}
	}

	// Metrics
	metrics := observability.Init(log)
	if metrics != nil {
		metrics.StartServer(ctx, log, envutil.String("METRICS_ADDR", ":9100"))
		metrics.StartPostgresCollector(ctx, log, pg)
		if addr := envutil.String("REDIS_ADDR", ""); addr != "" {
			metrics.StartRedisCollector(ctx, log, addr)
		}
		metrics.StartSLOEvaluator(ctx, log)
	}

	// Nightly maintenance schedule. The worker binary executes it; the
	// server only makes sure the cron workflow exists.
	if envutil.Bool("TEMPORAL_ENABLED", false) {
		tc, err := temporalx.NewClient(log)
		if err != nil {
			log.Warn("temporal client init failed", "error", err)
		} else {
			defer tc.Close()
			cfg := temporalx.LoadConfig()
			if err := temporalx.EnsureNamespace(ctx, tc, cfg.Namespace, log); err != nil {
				log.Warn("temporal namespace bootstrap failed", "error", err)
			}
			if err := segmentrun.EnsureSchedule(ctx, tc, cfg.TaskQueue, log); err != nil {
				log.Warn("nightly maintenance schedule failed", "error", err)
			}
		}
	}

	// HTTP
	authMW := middleware.NewAuthMiddleware(log, authService)
	server := httpserver.NewServer(httpserver.RouterConfig{
		Log:     log,
		Metrics: metrics,

		AuthHandler:    handlers.NewAuthHandler(authService),
		AuthMiddleware: authMW,

		GuestHandler:     handlers.NewGuestHandler(guestService),
		GameHandler:      handlers.NewGameHandler(gameService),
		LedgerHandler:    handlers.NewLedgerHandler(ledgerService),
		ShopHandler:      handlers.NewShopHandler(shopService),
		QuestHandler:     handlers.NewQuestHandler(questService),
		TicketHandler:    handlers.NewTicketHandler(ticketService),
		InventoryHandler: handlers.NewInventoryHandler(inventoryService),
		DeliveryHandler:  handlers.NewDeliveryHandler(deliveryService),
		CooldownHandler:  handlers.NewCooldownHandler(cooldownService),

		DailyCodeHandler: handlers.NewDailyCodeHandler(dailyCodeService),
		SegmentHandler:   handlers.NewSegmentHandler(segmentationService),
		DashboardHandler: handlers.NewDashboardHandler(dashboardService),
		RealtimeHandler:  handlers.NewRealtimeHandler(hub),

		HealthHandler: handlers.NewHealthHandler(),
	})

	port := envutil.String("PORT", "8080")
	log.Info("server listening", "port", port)
	if err := server.Run(":" + port); err != nil {
		log.Fatal("server failed", "error", err)
	}
}
