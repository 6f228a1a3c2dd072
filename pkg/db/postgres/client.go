package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/opstream/ordersync/pkg/retry"
	"github.com/opstream/ordersync/pkg/utils"
)

// Executor is an interface that both *pgxpool.Pool and pgx.Tx implement.
// This allows methods to work with either a connection pool or a transaction.
type Executor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Config holds the connection parameters for one database. Each database is
// configured through its own environment prefix (SOURCE_DB, ANALYTICS_DB).
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
}

// ConfigFromEnv reads a prefixed environment block, e.g. prefix "SOURCE_DB"
// reads SOURCE_DB_HOST, SOURCE_DB_PORT, SOURCE_DB_USER, SOURCE_DB_PASSWORD,
// SOURCE_DB_NAME and SOURCE_DB_SSLMODE.
func ConfigFromEnv(prefix string) Config {
	return Config{
		Host:     utils.Env(prefix+"_HOST", "localhost"),
		Port:     utils.Env(prefix+"_PORT", "5432"),
		User:     utils.Env(prefix+"_USER", "postgres"),
		Password: utils.Env(prefix+"_PASSWORD", ""),
		Database: utils.Env(prefix+"_NAME", "postgres"),
		SSLMode:  utils.Env(prefix+"_SSLMODE", "disable"),
	}
}

// DSN renders the config in key=value form. The keyword form is used instead
// of a URL so passwords never need escaping.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// Client wraps a PostgreSQL connection pool and provides helper methods
type Client struct {
	Logger   *zap.Logger
	Pool     *pgxpool.Pool
	Database string
}

// PoolConfig defines connection pool settings for a specific component
type PoolConfig struct {
	MinConns        int32
	MaxConns        int32
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	Component       string // For logging/debugging
}

// GetPoolConfigForComponent returns deterministic pool settings for each component
func GetPoolConfigForComponent(component string) *PoolConfig {
	var minConns, maxConns int32
	connMaxLifetime := 1 * time.Hour
	connMaxIdleTime := 30 * time.Minute

	switch component {
	case "source":
		// Read-only extraction, one iteration in flight at a time.
		minConns = 1
		maxConns = 5
	case "warehouse":
		minConns = 1
		maxConns = 10
	case "reports":
		minConns = 1
		maxConns = 4
	default:
		minConns = 2
		maxConns = 10
	}

	return &PoolConfig{
		MinConns:        minConns,
		MaxConns:        maxConns,
		ConnMaxLifetime: connMaxLifetime,
		ConnMaxIdleTime: connMaxIdleTime,
		Component:       component,
	}
}

// New initializes and returns a new PostgreSQL client for the given config.
// Establishing connectivity is retried with the fixed connection policy; the
// pool re-establishes dropped connections on its own afterwards.
func New(ctx context.Context, logger *zap.Logger, cfg Config, poolConfig ...*PoolConfig) (client Client, err error) {
	connCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	client.Logger = logger
	client.Database = cfg.Database
	retryConfig := retry.DefaultConfig()

	config, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return Client{}, fmt.Errorf("failed to parse connection config for %s: %w", cfg.Database, err)
	}

	var poolConf PoolConfig
	if len(poolConfig) > 0 && poolConfig[0] != nil {
		poolConf = *poolConfig[0]
	} else {
		poolConf = *GetPoolConfigForComponent("unknown")
	}

	config.MinConns = poolConf.MinConns
	config.MaxConns = poolConf.MaxConns
	config.MaxConnLifetime = poolConf.ConnMaxLifetime
	config.MaxConnIdleTime = poolConf.ConnMaxIdleTime

	retryErr := retry.Do(connCtx, retryConfig, logger, "postgres_connection", func() error {
		pool, openErr := pgxpool.NewWithConfig(connCtx, config)
		if openErr != nil {
			return fmt.Errorf("failed to create postgres connection pool: %w", openErr)
		}

		client.Pool = pool

		logger.Debug("Pinging PostgreSQL connection",
			zap.String("db", cfg.Database),
			zap.String("component", poolConf.Component),
		)

		pingErr := pool.Ping(connCtx)
		if pingErr != nil {
			pool.Close()
			return fmt.Errorf("failed to ping postgres: %w", pingErr)
		}

		logger.Info("PostgreSQL connection pool configured",
			zap.String("database", cfg.Database),
			zap.String("component", poolConf.Component),
			zap.Int32("min_conns", poolConf.MinConns),
			zap.Int32("max_conns", poolConf.MaxConns),
		)

		return nil
	})

	if retryErr != nil {
		return Client{}, retryErr
	}

	return client, nil
}

// Exec executes a query without returning any rows
func (c *Client) Exec(ctx context.Context, query string, args ...interface{}) error {
	_, err := c.Pool.Exec(ctx, query, args...)
	return err
}

// Query executes a query that returns rows
// IMPORTANT: Caller MUST call rows.Close() when done to release the connection
func (c *Client) Query(ctx context.Context, query string, args ...interface{}) (pgx.Rows, error) {
	return c.Pool.Query(ctx, query, args...)
}

// QueryRow executes a query that is expected to return at most one row
func (c *Client) QueryRow(ctx context.Context, query string, args ...interface{}) pgx.Row {
	return c.Pool.QueryRow(ctx, query, args...)
}

// BeginFunc executes a function within a transaction
// If the function returns an error, the transaction is rolled back
// Otherwise, the transaction is committed
func (c *Client) BeginFunc(ctx context.Context, fn func(pgx.Tx) error) error {
	return pgx.BeginFunc(ctx, c.Pool, fn)
}

// Ping verifies the pool can reach the server
func (c *Client) Ping(ctx context.Context) error {
	return c.Pool.Ping(ctx)
}

// EnsureReady verifies connectivity with the fixed retry policy. Iterations
// call this before their first read and before loading, so an unreachable
// server surfaces as a connection error for the whole iteration instead of a
// mid-batch query error.
func (c *Client) EnsureReady(ctx context.Context) error {
	return retry.Do(ctx, retry.DefaultConfig(), c.Logger, fmt.Sprintf("%s_connection_check", c.Database), func() error {
		return c.Pool.Ping(ctx)
	})
}

// Close closes the connection pool
func (c *Client) Close() {
	c.Pool.Close()
}

// IsNoRows checks if the error is a "no rows" error
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
