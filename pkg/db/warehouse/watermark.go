package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/opstream/ordersync/pkg/db/postgres"
)

// watermarkSource keys the checkpoint row for the orders pipeline. A single
// table holds one row per synced source, so adding a second pipeline later
// does not need new DDL.
const watermarkSource = "orders"

// initWatermark creates the checkpoint table.
func (db *DB) initWatermark(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS analytics.sync_watermark (
			source VARCHAR(50) PRIMARY KEY,
			last_updated_at TIMESTAMP NOT NULL
		)
	`
	return db.Exec(ctx, query)
}

// setWatermark writes the checkpoint on exec. It runs inside the same
// transaction as the load, so the watermark never advances past rows that
// failed to commit.
func (db *DB) setWatermark(ctx context.Context, exec postgres.Executor, mark time.Time) error {
	query := `
		INSERT INTO analytics.sync_watermark (source, last_updated_at)
		VALUES ($1, $2)
		ON CONFLICT (source) DO UPDATE SET
			last_updated_at = EXCLUDED.last_updated_at
	`
	if _, err := exec.Exec(ctx, query, watermarkSource, mark); err != nil {
		return fmt.Errorf("failed to persist sync watermark: %w", err)
	}
	return nil
}

// ReadWatermark returns the durable checkpoint for the orders pipeline, or
// the zero time when no load has ever committed. Reading it at startup lets
// a restarted process resume where the previous one stopped instead of
// re-syncing from the beginning.
func (db *DB) ReadWatermark(ctx context.Context) (time.Time, error) {
	query := `SELECT last_updated_at FROM analytics.sync_watermark WHERE source = $1`

	var mark time.Time
	if err := db.QueryRow(ctx, query, watermarkSource).Scan(&mark); err != nil {
		if postgres.IsNoRows(err) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("failed to read sync watermark: %w", err)
	}

	return mark, nil
}
