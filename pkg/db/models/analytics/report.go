package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// Report rows returned by the warehouse aggregation queries. Field order
// matches the CSV column order the exporter writes.

type OpenOrdersByDateRow struct {
	DeliveryDate time.Time `db:"delivery_date" json:"delivery_date"`
	Status       string    `db:"status" json:"status"`
	OrderCount   int64     `db:"order_count" json:"order_count"`
}

type TopDeliveryDateRow struct {
	DeliveryDate    time.Time `db:"delivery_date" json:"delivery_date"`
	OrderCount      int64     `db:"order_count" json:"order_count"`
	UniqueCustomers int64     `db:"unique_customers" json:"unique_customers"`
}

type PendingItemsByProductRow struct {
	ProductID    int64  `db:"product_id" json:"product_id"`
	ProductName  string `db:"product_name" json:"product_name"`
	PendingItems int64  `db:"pending_items" json:"pending_items"`
}

type TopCustomerRow struct {
	CustomerID         int64           `db:"customer_id" json:"customer_id"`
	CustomerName       string          `db:"customer_name" json:"customer_name"`
	PendingOrderCount  int64           `db:"pending_order_count" json:"pending_order_count"`
	TotalPendingAmount decimal.Decimal `db:"total_pending_amount" json:"total_pending_amount"`
}
