// Package notify publishes sync iteration events onto a Redis stream so
// external consumers (dashboards, alerting) can follow the loop without
// polling the analytical database.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/opstream/ordersync/pkg/syncer"
	"github.com/opstream/ordersync/pkg/utils"
)

const (
	// Stream carries one entry per sync iteration, completed or failed.
	Stream = "ordersync:iterations"

	// DefaultStreamMaxLen caps the stream so an unattended consumer cannot
	// grow Redis without bound.
	DefaultStreamMaxLen = 10000
)

// Client emits iteration events. Every publish is best-effort: a Redis outage
// degrades to warnings, never to a failed sync cycle.
type Client struct {
	client       *redis.Client
	logger       *zap.Logger
	streamMaxLen int64
}

// Enabled reports whether iteration events are switched on via REDIS_ENABLED.
func Enabled() bool {
	return utils.Env("REDIS_ENABLED", "false") == "true"
}

// NewClient creates a Redis client using environment variables for configuration.
// Environment variables:
//   - REDIS_HOST: Redis host (default: "localhost")
//   - REDIS_PORT: Redis port (default: "6379")
//   - REDIS_PASSWORD: Redis password (default: "")
//   - REDIS_DB: Redis database number (default: "0")
//   - REDIS_STREAM_MAXLEN: Max entries per stream (default: 10000, 0 = unlimited)
func NewClient(ctx context.Context, logger *zap.Logger) (*Client, error) {
	host := utils.Env("REDIS_HOST", "localhost")
	port := utils.Env("REDIS_PORT", "6379")
	password := utils.Env("REDIS_PASSWORD", "")
	db := utils.EnvInt("REDIS_DB", 0)
	streamMaxLen := utils.EnvInt64("REDIS_STREAM_MAXLEN", DefaultStreamMaxLen)

	addr := fmt.Sprintf("%s:%s", host, port)

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,

		PoolSize:     10,
		MinIdleConns: 2,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	logger.Info("Connected to Redis",
		zap.String("addr", addr),
		zap.Int("db", db),
		zap.Int64("streamMaxLen", streamMaxLen))

	return &Client{
		client:       rdb,
		logger:       logger,
		streamMaxLen: streamMaxLen,
	}, nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// Health checks if Redis is reachable.
func (c *Client) Health(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// IterationCompleted publishes a processed iteration.
func (c *Client) IterationCompleted(ctx context.Context, result syncer.Result) {
	values := map[string]interface{}{
		"event":       "completed",
		"orders":      result.Orders,
		"items":       result.Items,
		"duration_ms": result.Duration.Milliseconds(),
	}
	if !result.Watermark.IsZero() {
		values["watermark"] = result.Watermark.UTC().Format(time.RFC3339Nano)
	}

	c.xadd(ctx, values)
}

// IterationFailed publishes a failed iteration.
func (c *Client) IterationFailed(ctx context.Context, err error) {
	c.xadd(ctx, map[string]interface{}{
		"event": "failed",
		"error": err.Error(),
	})
}

// xadd appends an entry to the iteration stream. Uses MAXLEN to cap stream
// size if configured (approximate for performance). Errors are logged but not
// returned.
func (c *Client) xadd(ctx context.Context, values map[string]interface{}) {
	args := &redis.XAddArgs{
		Stream: Stream,
		Values: values,
	}

	if c.streamMaxLen > 0 {
		args.MaxLen = c.streamMaxLen
		args.Approx = true
	}

	if err := c.client.XAdd(ctx, args).Err(); err != nil {
		c.logger.Warn("Failed to add to Redis stream",
			zap.String("stream", Stream),
			zap.Error(err))
	}
}
