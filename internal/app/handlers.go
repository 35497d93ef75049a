package app

import (
	"context"
	"errors"

	"gorm.io/gorm"

	httpH "github.com/yungbote/cannon-backend/internal/http/handlers"
	"github.com/yungbote/cannon-backend/internal/platform/logger"
)

type Handlers struct {
	Health      *httpH.HealthHandler
	Scans       *httpH.ScanHandler
	Leaderboard *httpH.LeaderboardHandler
	Chat        *httpH.ChatHandler
	Payments    *httpH.PaymentHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, serviceSet Services, clients Clients) Handlers {
	log.Info("Wiring handlers...")
	checks := map[string]httpH.Pinger{
		"db": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if clients.Measurement != nil {
		checks["measurement"] = func(ctx context.Context) error {
			if !clients.Measurement.Health(ctx) {
				return errors.New("measurement service unhealthy")
			}
			return nil
		}
	}
	return Handlers{
		Health:      httpH.NewHealthHandler(checks),
		Scans:       httpH.NewScanHandler(serviceSet.Scans),
		Leaderboard: httpH.NewLeaderboardHandler(serviceSet.Leaderboard),
		Chat:        httpH.NewChatHandler(serviceSet.Chat),
		Payments:    httpH.NewPaymentHandler(serviceSet.Payments),
	}
}
