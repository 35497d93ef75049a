package app

import (
	httpMW "github.com/yungbote/cannon-backend/internal/http/middleware"
	"github.com/yungbote/cannon-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

func wireMiddleware(log *logger.Logger, serviceSet Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, serviceSet.Auth),
	}
}
