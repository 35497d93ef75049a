package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/cannon-backend/internal/modules/analysis"
	"github.com/yungbote/cannon-backend/internal/modules/chat"
	"github.com/yungbote/cannon-backend/internal/modules/leaderboard"
	"github.com/yungbote/cannon-backend/internal/modules/payments"
	"github.com/yungbote/cannon-backend/internal/modules/scans"
	"github.com/yungbote/cannon-backend/internal/observability"
	"github.com/yungbote/cannon-backend/internal/platform/logger"
	"github.com/yungbote/cannon-backend/internal/platform/openai"
	"github.com/yungbote/cannon-backend/internal/services"
)

type Services struct {
	Auth        services.AuthService
	Pipeline    *analysis.Pipeline
	Scans       scans.Usecases
	Leaderboard leaderboard.Usecases
	Chat        chat.Usecases
	Payments    payments.Usecases
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repoSet Repos, clients Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	pipeline := wirePipeline(log, cfg, clients, metrics)

	board := leaderboard.New(leaderboard.UsecasesDeps{
		DB:      db,
		Log:     log.With("module", "leaderboard"),
		Users:   repoSet.User,
		Scans:   repoSet.Scan,
		Entries: repoSet.Leaderboard,
	})

	scanUC := scans.New(scans.UsecasesDeps{
		DB:          db,
		Log:         log.With("module", "scans"),
		Users:       repoSet.User,
		Scans:       repoSet.Scan,
		Blobs:       clients.Blobs,
		Analyzer:    pipeline,
		Leaderboard: board,
		Events:      clients.Events,
	})

	return Services{
		Auth:        services.NewAuthService(log, cfg.JWTSecretKey),
		Pipeline:    pipeline,
		Scans:       scanUC,
		Leaderboard: board,
		Chat: chat.New(chat.UsecasesDeps{
			DB:       db,
			Log:      log.With("module", "chat"),
			AI:       clients.OpenAI,
			Users:    repoSet.User,
			Scans:    repoSet.Scan,
			Messages: repoSet.ChatMessage,
		}),
		Payments: payments.New(payments.UsecasesDeps{
			DB:                  db,
			Log:                 log.With("module", "payments"),
			Users:               repoSet.User,
			Scans:               scanUC,
			AllowTestActivation: cfg.AppEnv == "development",
		}),
	}
}

// wirePipeline assembles the configured analysis strategy. Pipeline LLM calls run with
// transport retries off; the metrics stage owns the attempt budget.
func wirePipeline(log *logger.Logger, cfg Config, clients Clients, metrics *observability.Metrics) *analysis.Pipeline {
	ai := openai.WithMaxRetries(clients.OpenAI, 0)

	var validator analysis.ImageValidator
	switch cfg.AnalysisValidator {
	case analysis.ValidatorLLM:
		validator = analysis.NewLLMValidator(log, ai)
	case analysis.ValidatorVision:
		validator = analysis.NewVisionValidator(log, clients.Vision)
	default:
		validator = analysis.NewNoopValidator()
	}

	var normalizer analysis.MetricsNormalizer
	if cfg.AnalysisStrategy == StrategyMeasurement {
		normalizer = analysis.NewMeasurementNormalizer(log, clients.Measurement)
	} else {
		normalizer = analysis.NewLLMNormalizer(log, ai)
	}

	p := analysis.New(analysis.Deps{
		Log:             log,
		Validator:       validator,
		Normalizer:      normalizer,
		Suggester:       analysis.NewLLMSuggester(log, ai),
		Frames:          analysis.NewFrameExtractor(log, clients.Media),
		Metrics:         metrics,
		MetricsAttempts: cfg.MetricsAttempts,
	})
	log.Info("Analysis pipeline ready", "strategy", p.Strategy(), "validator", validator.Name())
	return p
}
