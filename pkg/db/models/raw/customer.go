package raw

import (
	"time"
)

const CustomersTableName = "operations.customers"

// Customer is one operational customer row, fetched sparsely for the
// customer ids referenced by an extraction batch.
type Customer struct {
	CustomerID      int64   `db:"customer_id" json:"customer_id"`
	CustomerName    string  `db:"customer_name" json:"customer_name"`
	IsActive        bool    `db:"is_active" json:"is_active"`
	CustomerAddress *string `db:"customer_address" json:"customer_address"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	CreatedBy *string   `db:"created_by" json:"created_by"`
	UpdatedBy *string   `db:"updated_by" json:"updated_by"`
}
