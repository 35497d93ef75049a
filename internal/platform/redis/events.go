package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/cannon-backend/internal/platform/envutil"
	"github.com/yungbote/cannon-backend/internal/platform/logger"
)

// Event is a small JSON envelope published on the events channel.
type Event struct {
	Type   string         `json:"type"`
	UserID string         `json:"user_id"`
	Data   map[string]any `json:"data,omitempty"`
	At     time.Time      `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

type publisher struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

// NewPublisherFromEnv connects to REDIS_ADDR. With no address configured it returns a
// publisher that drops events.
func NewPublisherFromEnv(ctx context.Context, log *logger.Logger) (Publisher, error) {
	addr := strings.TrimSpace(envutil.String("REDIS_ADDR", ""))
	if addr == "" {
		log.Info("REDIS_ADDR not set; scan events disabled")
		return NopPublisher{}, nil
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    envutil.String("REDIS_PASSWORD", ""),
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewPublisher(log, rdb, envutil.String("REDIS_CHANNEL", "scan-events")), nil
}

func NewPublisher(log *logger.Logger, rdb *goredis.Client, channel string) Publisher {
	return &publisher{log: log.With("service", "RedisPublisher"), rdb: rdb, channel: channel}
}

func (p *publisher) Publish(ctx context.Context, ev Event) error {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, p.channel, raw).Err()
}

func (p *publisher) Close() error { return p.rdb.Close() }

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                       { return nil }
