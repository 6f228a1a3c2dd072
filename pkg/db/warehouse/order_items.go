package warehouse

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/opstream/ordersync/pkg/db/models/analytics"
	"github.com/opstream/ordersync/pkg/db/postgres"
)

// initOrderItems creates the denormalized order items table and its indexes.
func (db *DB) initOrderItems(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS analytics.analytical_order_items (
			id INTEGER PRIMARY KEY,
			order_id INTEGER NOT NULL,
			product_id INTEGER NOT NULL,
			product_name VARCHAR(100) NOT NULL,
			quantity INTEGER NOT NULL,
			price DECIMAL(10, 2) NOT NULL,
			order_status VARCHAR(20) NOT NULL,
			delivery_date TIMESTAMP,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			created_by VARCHAR(20),
			updated_by VARCHAR(20)
		);
		CREATE INDEX IF NOT EXISTS idx_items_product_id
			ON analytics.analytical_order_items (product_id);
		CREATE INDEX IF NOT EXISTS idx_items_order_status
			ON analytics.analytical_order_items (order_status);
	`
	return db.Exec(ctx, query)
}

// loadOrderItems queues one upsert per item and runs them as a single batch
// on exec. Conflicting rows keep their original created_at and created_by;
// everything else tracks the latest source state.
func (db *DB) loadOrderItems(ctx context.Context, exec postgres.Executor, items []*analytics.OrderItem, offset int) error {
	query := `
		INSERT INTO analytics.analytical_order_items (
			id, order_id, product_id, product_name, quantity,
			price, order_status, delivery_date, created_at, updated_at,
			created_by, updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			order_id = EXCLUDED.order_id,
			product_id = EXCLUDED.product_id,
			product_name = EXCLUDED.product_name,
			quantity = EXCLUDED.quantity,
			price = EXCLUDED.price,
			order_status = EXCLUDED.order_status,
			delivery_date = EXCLUDED.delivery_date,
			updated_at = EXCLUDED.updated_at,
			updated_by = EXCLUDED.updated_by
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query,
			item.OrderItemID,
			item.OrderID,
			item.ProductID,
			item.ProductName,
			item.Quantity,
			item.Price,
			item.OrderStatus,
			item.DeliveryDate,
			item.CreatedAt,
			item.UpdatedAt,
			item.CreatedBy,
			item.UpdatedBy,
		)
	}

	return db.executeBatch(ctx, exec, batch, analytics.OrderItemsTableName, offset, func(i int) any {
		return items[i]
	})
}
