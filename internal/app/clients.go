package app

import (
	"context"
	"fmt"

	"github.com/yungbote/cannon-backend/internal/modules/analysis"
	"github.com/yungbote/cannon-backend/internal/platform/blob"
	"github.com/yungbote/cannon-backend/internal/platform/gcp"
	"github.com/yungbote/cannon-backend/internal/platform/localmedia"
	"github.com/yungbote/cannon-backend/internal/platform/logger"
	"github.com/yungbote/cannon-backend/internal/platform/measurement"
	"github.com/yungbote/cannon-backend/internal/platform/openai"
	"github.com/yungbote/cannon-backend/internal/platform/redis"
)

type Clients struct {
	OpenAI      openai.Client
	Measurement measurement.Client
	Vision      gcp.FaceDetector
	Media       localmedia.Tools
	Events      redis.Publisher
	Blobs       blob.Store
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var c Clients

	ai, err := openai.NewClient(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init openai client: %w", err)
	}
	c.OpenAI = ai

	if cfg.AnalysisStrategy == StrategyMeasurement {
		c.Measurement = measurement.New(log, cfg.MeasurementURL, cfg.MeasurementTimeout)
	}

	if cfg.AnalysisValidator == analysis.ValidatorVision {
		vision, err := gcp.NewFaceDetector(ctx, log)
		if err != nil {
			return Clients{}, fmt.Errorf("init vision client: %w", err)
		}
		c.Vision = vision
	}

	c.Media = localmedia.New(log, cfg.MediaWorkDir)
	if err := c.Media.AssertReady(ctx); err != nil {
		// Image scans still work; video scans degrade to fallback analyses.
		log.Warn("Media tools unavailable", "error", err)
	}

	events, err := redis.NewPublisherFromEnv(ctx, log)
	if err != nil {
		c.Close()
		return Clients{}, fmt.Errorf("init redis publisher: %w", err)
	}
	c.Events = events

	blobs, err := resolveBlobStore(ctx, log, cfg)
	if err != nil {
		c.Close()
		return Clients{}, err
	}
	c.Blobs = blobs
	return c, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Vision != nil {
		_ = c.Vision.Close()
	}
	if c.Events != nil {
		_ = c.Events.Close()
	}
}
