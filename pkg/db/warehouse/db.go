package warehouse

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/opstream/ordersync/pkg/db/postgres"
	"github.com/opstream/ordersync/pkg/utils"
)

// DefaultBatchSize is the upsert page size when BATCH_SIZE is unset.
const DefaultBatchSize = 1000

// DB is the client for the analytical database the sync engine loads into.
// It owns the analytics schema: table creation, batched upserts, the durable
// sync watermark and the reporting queries.
type DB struct {
	postgres.Client
	BatchSize int
}

// New connects to the analytical database using the ANALYTICS_DB_* environment
// block. The upsert page size comes from BATCH_SIZE.
func New(ctx context.Context, logger *zap.Logger) (*DB, error) {
	cfg := postgres.ConfigFromEnv("ANALYTICS_DB")

	client, err := postgres.New(ctx, logger.With(
		zap.String("db", cfg.Database),
		zap.String("component", "warehouse"),
	), cfg, postgres.GetPoolConfigForComponent("warehouse"))
	if err != nil {
		return nil, err
	}

	return &DB{
		Client:    client,
		BatchSize: utils.EnvInt("BATCH_SIZE", DefaultBatchSize),
	}, nil
}

// NewReadOnly connects with the smaller pool sized for the report tooling.
// It never writes, so it skips schema initialization and batch sizing.
func NewReadOnly(ctx context.Context, logger *zap.Logger) (*DB, error) {
	cfg := postgres.ConfigFromEnv("ANALYTICS_DB")

	client, err := postgres.New(ctx, logger.With(
		zap.String("db", cfg.Database),
		zap.String("component", "reports"),
	), cfg, postgres.GetPoolConfigForComponent("reports"))
	if err != nil {
		return nil, err
	}

	return &DB{
		Client:    client,
		BatchSize: DefaultBatchSize,
	}, nil
}

// Close terminates the underlying PostgreSQL connection
func (db *DB) Close() error {
	db.Pool.Close()
	return nil
}

// InitializeDB ensures the analytics schema, tables and indexes exist.
// Idempotent, safe to call on every startup. The schema must exist before
// the table creates run; tables are then created in parallel.
func (db *DB) InitializeDB(ctx context.Context) error {
	initStart := time.Now()

	db.Logger.Info("Initializing analytics schema", zap.String("database", db.Database))

	if err := db.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS analytics"); err != nil {
		return fmt.Errorf("failed to create analytics schema: %w", err)
	}

	initOps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"analytical_orders", db.initOrders},
		{"analytical_order_items", db.initOrderItems},
		{"sync_watermark", db.initWatermark},
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(initOps))

	for _, op := range initOps {
		wg.Add(1)
		go func(name string, fn func(context.Context) error) {
			defer wg.Done()
			db.Logger.Debug("Initializing table", zap.String("table", name))
			if err := fn(ctx); err != nil {
				errChan <- fmt.Errorf("init %s: %w", name, err)
			}
		}(op.name, op.fn)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		return err
	}

	db.Logger.Info("Analytics schema and tables created or confirmed",
		zap.String("database", db.Database),
		zap.Duration("duration", time.Since(initStart)))

	return nil
}
