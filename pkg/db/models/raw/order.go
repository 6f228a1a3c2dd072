package raw

import (
	"time"
)

const OrdersTableName = "operations.orders"

// Order is one operational order row. Rows are immutable once extracted; a
// source-side update surfaces as the same order_id with a newer updated_at,
// which is what the watermark scan picks up.
type Order struct {
	OrderID      int64      `db:"order_id" json:"order_id"`
	CustomerID   int64      `db:"customer_id" json:"customer_id"`
	OrderDate    time.Time  `db:"order_date" json:"order_date"`
	DeliveryDate *time.Time `db:"delivery_date" json:"delivery_date"` // null until scheduled
	Status       string     `db:"status" json:"status"`               // free-form: PENDING, PROCESSING, COMPLETED, ...

	// Audit trail, carried through to the analytical copy.
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	CreatedBy *string   `db:"created_by" json:"created_by"` // free-form actor identifier, not always numeric
	UpdatedBy *string   `db:"updated_by" json:"updated_by"`
}
