package raw

import (
	"time"

	"github.com/shopspring/decimal"
)

const ProductsTableName = "operations.products"

// Product is one operational product row. UnitPrice is the current catalog
// price; aggregation uses it instead of any historical line price.
type Product struct {
	ProductID   int64           `db:"product_id" json:"product_id"`
	ProductName string          `db:"product_name" json:"product_name"`
	Barcode     string          `db:"barcode" json:"barcode"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"unit_price"`
	IsActive    *bool           `db:"is_active" json:"is_active"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	CreatedBy *string   `db:"created_by" json:"created_by"`
	UpdatedBy *string   `db:"updated_by" json:"updated_by"`
}
