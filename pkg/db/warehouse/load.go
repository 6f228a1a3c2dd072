package warehouse

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/opstream/ordersync/pkg/db/models/analytics"
	"github.com/opstream/ordersync/pkg/db/postgres"
)

// BatchError reports the first statement that failed inside a batched load.
// Index is the record's position within the overall load call and Record is
// the row whose statement failed, so the log shows exactly what broke.
type BatchError struct {
	Table  string
	Index  int
	Record any
	Err    error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%s batch statement %d failed: %v", e.Table, e.Index, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

// ActorID normalizes an audit actor for the orders table. Source systems
// write numeric user IDs as free-form strings; anything that is not a plain
// unsigned number (including NULL) becomes "-1".
func ActorID(actor *string) string {
	if actor == nil {
		return "-1"
	}
	n, err := strconv.ParseUint(*actor, 10, 64)
	if err != nil {
		return "-1"
	}
	return strconv.FormatUint(n, 10)
}

// pageSize returns the configured upsert page size.
func (db *DB) pageSize() int {
	if db.BatchSize > 0 {
		return db.BatchSize
	}
	return DefaultBatchSize
}

// executeBatch sends the batch on exec and drains every result. On the first
// failed statement it stops and wraps the failure in a BatchError, resolving
// the offending record through the record callback.
func (db *DB) executeBatch(ctx context.Context, exec postgres.Executor, batch *pgx.Batch, table string, offset int, record func(int) any) error {
	br := exec.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return &BatchError{Table: table, Index: offset + i, Record: record(i), Err: err}
		}
	}

	return nil
}

// loadOrdersPaged upserts orders on exec in pages of at most BatchSize rows.
func (db *DB) loadOrdersPaged(ctx context.Context, exec postgres.Executor, orders []*analytics.Order) error {
	size := db.pageSize()
	for start := 0; start < len(orders); start += size {
		end := start + size
		if end > len(orders) {
			end = len(orders)
		}
		if err := db.loadOrders(ctx, exec, orders[start:end], start); err != nil {
			return err
		}
	}
	return nil
}

// loadOrderItemsPaged upserts items on exec in pages of at most BatchSize rows.
func (db *DB) loadOrderItemsPaged(ctx context.Context, exec postgres.Executor, items []*analytics.OrderItem) error {
	size := db.pageSize()
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		if err := db.loadOrderItems(ctx, exec, items[start:end], start); err != nil {
			return err
		}
	}
	return nil
}

// LoadOrders upserts denormalized orders inside a single transaction.
// A failure anywhere rolls back the whole call, so re-running it after a fix
// cannot duplicate rows.
func (db *DB) LoadOrders(ctx context.Context, orders []*analytics.Order) error {
	if len(orders) == 0 {
		return nil
	}

	err := db.BeginFunc(ctx, func(tx pgx.Tx) error {
		return db.loadOrdersPaged(ctx, tx, orders)
	})
	if err != nil {
		return fmt.Errorf("failed to load orders: %w", err)
	}

	db.Logger.Info("Loaded orders into the analytical database", zap.Int("count", len(orders)))
	return nil
}

// LoadOrderItems upserts denormalized order items inside a single transaction.
func (db *DB) LoadOrderItems(ctx context.Context, items []*analytics.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	err := db.BeginFunc(ctx, func(tx pgx.Tx) error {
		return db.loadOrderItemsPaged(ctx, tx, items)
	})
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}

	db.Logger.Info("Loaded order items into the analytical database", zap.Int("count", len(items)))
	return nil
}

// LoadBatch writes one sync iteration atomically: the orders, their items and
// the advanced watermark commit together or not at all. After a crash the
// next run re-extracts from the last committed watermark and the upserts
// absorb the repeats.
func (db *DB) LoadBatch(ctx context.Context, orders []*analytics.Order, items []*analytics.OrderItem, mark time.Time) error {
	if len(orders) == 0 && len(items) == 0 {
		return nil
	}

	loadStart := time.Now()

	err := db.BeginFunc(ctx, func(tx pgx.Tx) error {
		if err := db.loadOrdersPaged(ctx, tx, orders); err != nil {
			return err
		}
		if err := db.loadOrderItemsPaged(ctx, tx, items); err != nil {
			return err
		}
		return db.setWatermark(ctx, tx, mark)
	})
	if err != nil {
		return fmt.Errorf("failed to load sync batch: %w", err)
	}

	db.Logger.Info("Loaded sync batch into the analytical database",
		zap.Int("orders", len(orders)),
		zap.Int("items", len(items)),
		zap.Time("watermark", mark),
		zap.Duration("duration", time.Since(loadStart)))

	return nil
}
