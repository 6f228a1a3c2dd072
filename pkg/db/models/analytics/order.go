package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

const OrdersTableName = "analytics.analytical_orders"

// Order is the denormalized analytical form of an order: customer name
// resolved in, totals recomputed from the full item set on every transform.
type Order struct {
	OrderID      int64           `db:"order_id" json:"order_id"`
	CustomerID   int64           `db:"customer_id" json:"customer_id"`
	CustomerName string          `db:"customer_name" json:"customer_name"` // "Unknown" when the customer row is missing
	OrderDate    time.Time       `db:"order_date" json:"order_date"`
	DeliveryDate *time.Time      `db:"delivery_date" json:"delivery_date"`
	Status       string          `db:"status" json:"status"`
	TotalItems   int32           `db:"total_items" json:"total_items"`
	TotalAmount  decimal.Decimal `db:"total_amount" json:"total_amount"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	CreatedBy *string   `db:"created_by" json:"created_by"` // normalized to a numeric id or -1 at load
	UpdatedBy *string   `db:"updated_by" json:"updated_by"`

	// Items owned by this order, in source iteration order. Not a column;
	// the loader writes them to their own table.
	Items []*OrderItem `db:"-" json:"items"`
}
