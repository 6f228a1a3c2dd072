package source

import (
	"context"
	"fmt"

	"github.com/opstream/ordersync/pkg/db/models/raw"
)

// ProductsByIDs returns the products with the given ids, same sparse-fetch
// contract as CustomersByIDs.
func (db *DB) ProductsByIDs(ctx context.Context, productIDs []int64) ([]*raw.Product, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT p.product_id, p.product_name, p.barcode, p.unit_price, p.is_active,
		       p.created_at, p.updated_at, p.created_by, p.updated_by
		FROM operations.products p
		WHERE p.product_id = ANY($1)
	`

	rows, err := db.Client.Pool.Query(ctx, query, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*raw.Product
	for rows.Next() {
		var product raw.Product
		err := rows.Scan(
			&product.ProductID, &product.ProductName, &product.Barcode, &product.UnitPrice, &product.IsActive,
			&product.CreatedAt, &product.UpdatedAt, &product.CreatedBy, &product.UpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, &product)
	}

	return products, rows.Err()
}
