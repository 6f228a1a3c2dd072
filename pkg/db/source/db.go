package source

import (
	"context"

	"go.uber.org/zap"

	"github.com/opstream/ordersync/pkg/db/postgres"
)

// DB is the read-only client for the operational database the sync engine
// extracts from.
type DB struct {
	postgres.Client
}

// New connects to the operational database using the SOURCE_DB_* environment
// block. Connectivity is verified with the fixed retry policy before
// returning.
func New(ctx context.Context, logger *zap.Logger) (*DB, error) {
	cfg := postgres.ConfigFromEnv("SOURCE_DB")

	client, err := postgres.New(ctx, logger.With(
		zap.String("db", cfg.Database),
		zap.String("component", "source"),
	), cfg, postgres.GetPoolConfigForComponent("source"))
	if err != nil {
		return nil, err
	}

	return &DB{Client: client}, nil
}

// Close terminates the underlying PostgreSQL connection
func (db *DB) Close() error {
	db.Pool.Close()
	return nil
}
