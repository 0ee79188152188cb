package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/venuepoint/loyalty-backend/internal/http/handlers"
	httpMW "github.com/venuepoint/loyalty-backend/internal/http/middleware"
	"github.com/venuepoint/loyalty-backend/internal/observability"
	"github.com/venuepoint/loyalty-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware

	GuestHandler     *httpH.GuestHandler
	GameHandler      *httpH.GameHandler
	LedgerHandler    *httpH.LedgerHandler
	ShopHandler      *httpH.ShopHandler
	QuestHandler     *httpH.QuestHandler
	TicketHandler    *httpH.TicketHandler
	InventoryHandler *httpH.InventoryHandler
	DeliveryHandler  *httpH.DeliveryHandler
	CooldownHandler  *httpH.CooldownHandler

	DailyCodeHandler *httpH.DailyCodeHandler
	SegmentHandler   *httpH.SegmentHandler
	DashboardHandler *httpH.DashboardHandler
	RealtimeHandler  *httpH.RealtimeHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.AttachTraceContext())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}
	r.Use(httpMW.CORS())
	r.Use(otelgin.Middleware("loyalty-backend"))
	if cfg.Metrics != nil {
		r.Use(httpMW.Metrics(cfg.Metrics))
	}

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api/v1")
	{
		// Guest surface. No auth: guests are identified by opaque IDs
		// handed out by Resolve, never by credentials.
		if cfg.GuestHandler != nil {
			api.POST("/guests/resolve", cfg.GuestHandler.Resolve)
			api.GET("/guests/:id", cfg.GuestHandler.Overview)
		}

		if cfg.GameHandler != nil {
			api.POST("/guests/:id/play", cfg.GameHandler.Play)
		}

		if cfg.LedgerHandler != nil {
			api.GET("/guests/:id/balance", cfg.LedgerHandler.Balance)
			api.GET("/guests/:id/ledger", cfg.LedgerHandler.History)
		}

		if cfg.ShopHandler != nil {
			api.GET("/venues/:id/products", cfg.ShopHandler.ListProducts)
			api.POST("/guests/:id/purchases", cfg.ShopHandler.Buy)
		}

		if cfg.QuestHandler != nil {
			api.GET("/venues/:id/quests", cfg.QuestHandler.List)
			api.POST("/guests/:id/quests/:questId/activate", cfg.QuestHandler.Activate)
			api.POST("/guests/:id/quests/:questId/complete", cfg.QuestHandler.Complete)
		}

		if cfg.TicketHandler != nil {
			api.GET("/guests/:id/tickets", cfg.TicketHandler.ListUnclaimed)
			api.GET("/venues/:id/prizes", cfg.TicketHandler.ListPrizes)
			api.POST("/guests/:id/tickets/claim", cfg.TicketHandler.Claim)
		}

		if cfg.InventoryHandler != nil {
			api.GET("/guests/:id/inventory", cfg.InventoryHandler.List)
			api.POST("/guests/:id/inventory/:itemId/activate", cfg.InventoryHandler.Activate)
		}

		if cfg.DeliveryHandler != nil {
			api.POST("/guests/:id/redeem", cfg.DeliveryHandler.Redeem)
		}

		if cfg.CooldownHandler != nil {
			api.GET("/guests/:id/cooldowns/:domain", cfg.CooldownHandler.Status)
		}

		// Admin auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/admin/register", cfg.AuthHandler.Register)
			api.POST("/admin/login", cfg.AuthHandler.Login)
		}
	}

	admin := api.Group("/admin")
	{
		if cfg.AuthMiddleware != nil {
			admin.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.LedgerHandler != nil {
			admin.POST("/guests/:id/earn", cfg.LedgerHandler.Earn)
			admin.POST("/guests/:id/spend", cfg.LedgerHandler.Spend)
		}

		if cfg.TicketHandler != nil {
			admin.POST("/guests/:id/tickets/grant", cfg.TicketHandler.Grant)
		}

		if cfg.CooldownHandler != nil {
			admin.DELETE("/guests/:id/cooldowns/:domain", cfg.CooldownHandler.Clear)
		}

		if cfg.DailyCodeHandler != nil {
			admin.GET("/venues/:id/daily-code", cfg.DailyCodeHandler.Today)
			admin.PUT("/venues/:id/daily-code", cfg.DailyCodeHandler.Override)
		}

		if cfg.DeliveryHandler != nil {
			admin.POST("/venues/:id/delivery-codes", cfg.DeliveryHandler.GenerateCodes)
		}

		if cfg.SegmentHandler != nil {
			admin.GET("/segments", cfg.SegmentHandler.ListGrid)
			admin.PUT("/segments", cfg.SegmentHandler.SaveGrid)
			admin.POST("/segments/recompute", cfg.SegmentHandler.RecomputeAll)
			admin.POST("/venues/:id/segments/recompute", cfg.SegmentHandler.RecomputeVenue)
			admin.POST("/venues/:id/segments/reset", cfg.SegmentHandler.ResetStats)
			admin.GET("/venues/:id/segments/migrations", cfg.SegmentHandler.MigrationStats)
		}

		if cfg.DashboardHandler != nil {
			admin.GET("/venues/:id/dashboard", cfg.DashboardHandler.Venue)
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			admin.GET("/stream", cfg.RealtimeHandler.Stream)
		}
	}

	return r
}
