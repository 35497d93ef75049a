package app

import (
	"github.com/gin-gonic/gin"

	httpserver "github.com/yungbote/cannon-backend/internal/http"
	"github.com/yungbote/cannon-backend/internal/observability"
	"github.com/yungbote/cannon-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *gin.Engine {
	return httpserver.NewRouter(httpserver.RouterConfig{
		Log:                log,
		Metrics:            metrics,
		CORSOrigins:        cfg.CORSOrigins,
		ServiceName:        cfg.Service,
		AuthMiddleware:     middleware.Auth,
		HealthHandler:      handlers.Health,
		ScanHandler:        handlers.Scans,
		LeaderboardHandler: handlers.Leaderboard,
		ChatHandler:        handlers.Chat,
		PaymentHandler:     handlers.Payments,
	})
}
