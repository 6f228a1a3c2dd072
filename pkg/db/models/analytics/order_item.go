package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

const OrderItemsTableName = "analytics.analytical_order_items"

// OrderItem is the denormalized analytical form of an order line. The parent
// order's status and delivery date are copied down so item-level queries
// never need a join.
type OrderItem struct {
	OrderItemID int64           `db:"id" json:"id"`
	OrderID     int64           `db:"order_id" json:"order_id"`
	ProductID   int64           `db:"product_id" json:"product_id"`
	ProductName string          `db:"product_name" json:"product_name"` // "Unknown" when the product row is missing
	Quantity    int32           `db:"quantity" json:"quantity"`
	Price       decimal.Decimal `db:"price" json:"price"` // product's current unit price, 0 when missing

	OrderStatus  string     `db:"order_status" json:"order_status"`
	DeliveryDate *time.Time `db:"delivery_date" json:"delivery_date"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	CreatedBy *string   `db:"created_by" json:"created_by"`
	UpdatedBy *string   `db:"updated_by" json:"updated_by"`
}
