package warehouse

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/opstream/ordersync/pkg/db/models/analytics"
	"github.com/opstream/ordersync/pkg/db/postgres"
)

// initOrders creates the denormalized orders table and its query indexes.
func (db *DB) initOrders(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS analytics.analytical_orders (
			order_id INTEGER PRIMARY KEY,
			customer_id INTEGER NOT NULL,
			customer_name VARCHAR(100) NOT NULL,
			order_date TIMESTAMP NOT NULL,
			delivery_date TIMESTAMP,
			status VARCHAR(20) NOT NULL,
			total_items INTEGER NOT NULL,
			total_amount DECIMAL(10, 2) NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			created_by VARCHAR(20),
			updated_by VARCHAR(20)
		);
		CREATE INDEX IF NOT EXISTS idx_orders_status
			ON analytics.analytical_orders (status);
		CREATE INDEX IF NOT EXISTS idx_orders_delivery_date
			ON analytics.analytical_orders (delivery_date);
	`
	return db.Exec(ctx, query)
}

// loadOrders queues one upsert per order and runs them as a single batch on
// exec. Re-syncing an order overwrites every non-key column, so the row always
// reflects the latest source state.
func (db *DB) loadOrders(ctx context.Context, exec postgres.Executor, orders []*analytics.Order, offset int) error {
	query := `
		INSERT INTO analytics.analytical_orders (
			order_id, customer_id, customer_name, order_date, delivery_date,
			status, total_items, total_amount, created_at, updated_at,
			created_by, updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (order_id) DO UPDATE SET
			customer_id = EXCLUDED.customer_id,
			customer_name = EXCLUDED.customer_name,
			order_date = EXCLUDED.order_date,
			delivery_date = EXCLUDED.delivery_date,
			status = EXCLUDED.status,
			total_items = EXCLUDED.total_items,
			total_amount = EXCLUDED.total_amount,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at,
			created_by = EXCLUDED.created_by,
			updated_by = EXCLUDED.updated_by
	`

	batch := &pgx.Batch{}
	for _, order := range orders {
		batch.Queue(query,
			order.OrderID,
			order.CustomerID,
			order.CustomerName,
			order.OrderDate,
			order.DeliveryDate,
			order.Status,
			order.TotalItems,
			order.TotalAmount,
			order.CreatedAt,
			order.UpdatedAt,
			ActorID(order.CreatedBy),
			ActorID(order.UpdatedBy),
		)
	}

	return db.executeBatch(ctx, exec, batch, analytics.OrdersTableName, offset, func(i int) any {
		return orders[i]
	})
}
