package warehouse

import (
	"context"
	"fmt"

	"github.com/opstream/ordersync/pkg/db/models/analytics"
)

// defaultReportLimit applies when a caller passes a non-positive limit.
const defaultReportLimit = 3

// OpenOrdersByDateStatus returns order counts per delivery day and status for
// every order that is not yet completed. Orders without a scheduled delivery
// date are excluded.
func (db *DB) OpenOrdersByDateStatus(ctx context.Context) ([]analytics.OpenOrdersByDateRow, error) {
	query := `
		SELECT delivery_date::date AS delivery_date, status, COUNT(*) AS order_count
		FROM analytics.analytical_orders
		WHERE status <> 'COMPLETED' AND delivery_date IS NOT NULL
		GROUP BY delivery_date::date, status
		ORDER BY delivery_date::date, status
	`

	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query open orders by date: %w", err)
	}
	defer rows.Close()

	var report []analytics.OpenOrdersByDateRow
	for rows.Next() {
		var row analytics.OpenOrdersByDateRow
		if err := rows.Scan(&row.DeliveryDate, &row.Status, &row.OrderCount); err != nil {
			return nil, fmt.Errorf("failed to scan open orders row: %w", err)
		}
		report = append(report, row)
	}

	return report, rows.Err()
}

// TopDeliveryDates returns the delivery days with the most open orders,
// together with how many distinct customers each day serves.
func (db *DB) TopDeliveryDates(ctx context.Context, limit int) ([]analytics.TopDeliveryDateRow, error) {
	if limit <= 0 {
		limit = defaultReportLimit
	}

	query := `
		SELECT delivery_date::date AS delivery_date,
			COUNT(*) AS order_count,
			COUNT(DISTINCT customer_id) AS unique_customers
		FROM analytics.analytical_orders
		WHERE status <> 'COMPLETED' AND delivery_date IS NOT NULL
		GROUP BY delivery_date::date
		ORDER BY order_count DESC
		LIMIT $1
	`

	rows, err := db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top delivery dates: %w", err)
	}
	defer rows.Close()

	var report []analytics.TopDeliveryDateRow
	for rows.Next() {
		var row analytics.TopDeliveryDateRow
		if err := rows.Scan(&row.DeliveryDate, &row.OrderCount, &row.UniqueCustomers); err != nil {
			return nil, fmt.Errorf("failed to scan top delivery date row: %w", err)
		}
		report = append(report, row)
	}

	return report, rows.Err()
}

// PendingItemsByProduct returns the total quantity still awaiting fulfillment
// per product, largest backlog first.
func (db *DB) PendingItemsByProduct(ctx context.Context) ([]analytics.PendingItemsByProductRow, error) {
	query := `
		SELECT product_id, product_name, SUM(quantity) AS pending_items
		FROM analytics.analytical_order_items
		WHERE order_status = 'PENDING'
		GROUP BY product_id, product_name
		ORDER BY pending_items DESC
	`

	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending items by product: %w", err)
	}
	defer rows.Close()

	var report []analytics.PendingItemsByProductRow
	for rows.Next() {
		var row analytics.PendingItemsByProductRow
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.PendingItems); err != nil {
			return nil, fmt.Errorf("failed to scan pending items row: %w", err)
		}
		report = append(report, row)
	}

	return report, rows.Err()
}

// TopCustomersWithPendingOrders returns the customers with the most pending
// orders and the money tied up in them.
func (db *DB) TopCustomersWithPendingOrders(ctx context.Context, limit int) ([]analytics.TopCustomerRow, error) {
	if limit <= 0 {
		limit = defaultReportLimit
	}

	query := `
		SELECT customer_id, customer_name,
			COUNT(*) AS pending_order_count,
			SUM(total_amount) AS total_pending_amount
		FROM analytics.analytical_orders
		WHERE status = 'PENDING'
		GROUP BY customer_id, customer_name
		ORDER BY pending_order_count DESC
		LIMIT $1
	`

	rows, err := db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top customers with pending orders: %w", err)
	}
	defer rows.Close()

	var report []analytics.TopCustomerRow
	for rows.Next() {
		var row analytics.TopCustomerRow
		if err := rows.Scan(&row.CustomerID, &row.CustomerName, &row.PendingOrderCount, &row.TotalPendingAmount); err != nil {
			return nil, fmt.Errorf("failed to scan top customer row: %w", err)
		}
		report = append(report, row)
	}

	return report, rows.Err()
}
