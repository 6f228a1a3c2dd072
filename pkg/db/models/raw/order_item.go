package raw

import (
	"time"
)

const OrderItemsTableName = "operations.order_items"

// OrderItem is one operational order line. Items carry no price of their own;
// the analytical price is resolved from the product at transform time.
type OrderItem struct {
	OrderItemID int64 `db:"order_item_id" json:"order_item_id"`
	OrderID     int64 `db:"order_id" json:"order_id"`
	ProductID   int64 `db:"product_id" json:"product_id"`
	Quantity    int32 `db:"quantity" json:"quantity"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	CreatedBy *string   `db:"created_by" json:"created_by"`
	UpdatedBy *string   `db:"updated_by" json:"updated_by"`
}
