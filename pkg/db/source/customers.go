package source

import (
	"context"
	"fmt"

	"github.com/opstream/ordersync/pkg/db/models/raw"
)

// CustomersByIDs returns the customers with the given ids, sparsely: only the
// ids referenced by the current batch, never a full table scan. An empty id
// set returns immediately without issuing a query.
func (db *DB) CustomersByIDs(ctx context.Context, customerIDs []int64) ([]*raw.Customer, error) {
	if len(customerIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT c.customer_id, c.customer_name, c.is_active, c.customer_address,
		       c.created_at, c.updated_at, c.created_by, c.updated_by
		FROM operations.customers c
		WHERE c.customer_id = ANY($1)
	`

	rows, err := db.Client.Pool.Query(ctx, query, customerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var customers []*raw.Customer
	for rows.Next() {
		var customer raw.Customer
		err := rows.Scan(
			&customer.CustomerID, &customer.CustomerName, &customer.IsActive, &customer.CustomerAddress,
			&customer.CreatedAt, &customer.UpdatedAt, &customer.CreatedBy, &customer.UpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, &customer)
	}

	return customers, rows.Err()
}
