package source

import (
	"context"
	"fmt"
	"time"

	"github.com/opstream/ordersync/pkg/db/models/raw"
)

// OrdersSince returns all orders with updated_at strictly greater than since,
// ordered ascending by updated_at. The ordering lets the caller take the
// maximum of the returned batch as the next watermark.
func (db *DB) OrdersSince(ctx context.Context, since time.Time) ([]*raw.Order, error) {
	query := `
		SELECT o.order_id, o.customer_id, o.order_date, o.delivery_date, o.status,
		       o.created_at, o.updated_at, o.created_by, o.updated_by
		FROM operations.orders o
		WHERE o.updated_at > $1
		ORDER BY o.updated_at
	`

	rows, err := db.Client.Pool.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*raw.Order
	for rows.Next() {
		var order raw.Order
		err := rows.Scan(
			&order.OrderID, &order.CustomerID, &order.OrderDate, &order.DeliveryDate, &order.Status,
			&order.CreatedAt, &order.UpdatedAt, &order.CreatedBy, &order.UpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, &order)
	}

	return orders, rows.Err()
}
