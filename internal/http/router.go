package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/cannon-backend/internal/http/handlers"
	httpMW "github.com/yungbote/cannon-backend/internal/http/middleware"
	"github.com/yungbote/cannon-backend/internal/observability"
	"github.com/yungbote/cannon-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	CORSOrigins    []string
	ServiceName    string
	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler      *httpH.HealthHandler
	ScanHandler        *httpH.ScanHandler
	LeaderboardHandler *httpH.LeaderboardHandler
	ChatHandler        *httpH.ChatHandler
	PaymentHandler     *httpH.PaymentHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	protected := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	}
	{
		// Scans
		if cfg.ScanHandler != nil {
			protected.POST("/scans/upload", cfg.ScanHandler.UploadImages)
			protected.POST("/scans/upload-video", cfg.ScanHandler.UploadVideo)
			protected.GET("/scans/latest", cfg.ScanHandler.Latest)
			protected.GET("/scans/history", cfg.ScanHandler.History)
			protected.GET("/scans/:id", cfg.ScanHandler.Get)
			protected.POST("/scans/:id/analyze", cfg.ScanHandler.Analyze)
		}

		// Leaderboard
		if cfg.LeaderboardHandler != nil {
			protected.GET("/leaderboard", cfg.LeaderboardHandler.List)
			protected.GET("/leaderboard/me", cfg.LeaderboardHandler.Me)
		}

		// Chat
		if cfg.ChatHandler != nil {
			protected.POST("/chat", cfg.ChatHandler.Send)
			protected.GET("/chat/history", cfg.ChatHandler.History)
		}

		// Payments
		if cfg.PaymentHandler != nil {
			protected.POST("/payments/test-activate", cfg.PaymentHandler.TestActivate)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "route not found", "code": "not_found"}})
	})
	return r
}
