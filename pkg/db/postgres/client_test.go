package postgres_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"

	"github.com/opstream/ordersync/pkg/db/postgres"
)

func TestConfigFromEnv_ReadsPrefixedBlock(t *testing.T) {
	t.Setenv("SOURCE_DB_HOST", "operational.internal")
	t.Setenv("SOURCE_DB_PORT", "5433")
	t.Setenv("SOURCE_DB_USER", "etl_reader")
	t.Setenv("SOURCE_DB_PASSWORD", "s3cret")
	t.Setenv("SOURCE_DB_NAME", "operational_db")
	t.Setenv("SOURCE_DB_SSLMODE", "require")

	cfg := postgres.ConfigFromEnv("SOURCE_DB")

	assert.Equal(t, "operational.internal", cfg.Host)
	assert.Equal(t, "5433", cfg.Port)
	assert.Equal(t, "etl_reader", cfg.User)
	assert.Equal(t, "s3cret", cfg.Password)
	assert.Equal(t, "operational_db", cfg.Database)
	assert.Equal(t, "require", cfg.SSLMode)
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	cfg := postgres.ConfigFromEnv("NOT_CONFIGURED_DB")

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, "5432", cfg.Port)
	assert.Equal(t, "postgres", cfg.User)
	assert.Empty(t, cfg.Password)
	assert.Equal(t, "postgres", cfg.Database)
	assert.Equal(t, "disable", cfg.SSLMode)
}

func TestConfigDSN(t *testing.T) {
	cfg := postgres.Config{
		Host:     "analytics.internal",
		Port:     "5432",
		User:     "loader",
		Password: "p@ss word",
		Database: "analytics_db",
		SSLMode:  "disable",
	}

	// Keyword form keeps special characters in passwords intact.
	assert.Equal(t,
		"host=analytics.internal port=5432 user=loader password=p@ss word dbname=analytics_db sslmode=disable",
		cfg.DSN())
}

func TestGetPoolConfigForComponent(t *testing.T) {
	tests := []struct {
		component string
		minConns  int32
		maxConns  int32
	}{
		{"source", 1, 5},
		{"warehouse", 1, 10},
		{"reports", 1, 4},
		{"something-else", 2, 10},
	}

	for _, tt := range tests {
		t.Run(tt.component, func(t *testing.T) {
			cfg := postgres.GetPoolConfigForComponent(tt.component)
			assert.Equal(t, tt.minConns, cfg.MinConns)
			assert.Equal(t, tt.maxConns, cfg.MaxConns)
			assert.Equal(t, tt.component, cfg.Component)
		})
	}
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, postgres.IsNoRows(pgx.ErrNoRows))
	assert.True(t, postgres.IsNoRows(fmt.Errorf("failed to read sync watermark: %w", pgx.ErrNoRows)))
	assert.False(t, postgres.IsNoRows(errors.New("connection refused")))
	assert.False(t, postgres.IsNoRows(nil))
}
