package source

import (
	"context"
	"fmt"

	"github.com/opstream/ordersync/pkg/db/models/raw"
)

// ItemsByOrderIDs returns the items belonging to the given orders. An empty
// id set returns immediately without issuing a query.
func (db *DB) ItemsByOrderIDs(ctx context.Context, orderIDs []int64) ([]*raw.OrderItem, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT oi.order_item_id, oi.order_id, oi.product_id, oi.quantity,
		       oi.created_at, oi.updated_at, oi.created_by, oi.updated_by
		FROM operations.order_items oi
		WHERE oi.order_id = ANY($1)
	`

	rows, err := db.Client.Pool.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []*raw.OrderItem
	for rows.Next() {
		var item raw.OrderItem
		err := rows.Scan(
			&item.OrderItemID, &item.OrderID, &item.ProductID, &item.Quantity,
			&item.CreatedAt, &item.UpdatedAt, &item.CreatedBy, &item.UpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, &item)
	}

	return items, rows.Err()
}
