// Package transform joins raw operational rows into the denormalized shapes
// the analytical store holds. It is pure: no I/O, no clock, no configuration.
package transform

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/opstream/ordersync/pkg/db/models/analytics"
	"github.com/opstream/ordersync/pkg/db/models/raw"
)

// UnknownName replaces customer and product names that the extraction batch
// could not resolve.
const UnknownName = "Unknown"

// RowError is a transform failure pinned to the raw order being converted.
// Customer is the resolved customer row, nil when the order referenced a
// customer absent from the batch.
type RowError struct {
	Order    *raw.Order
	Customer *raw.Customer
	Err      error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("failed to transform order %d: %v", e.Order.OrderID, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Denormalize converts one extraction batch into analytical orders and items.
// Orders keep their input order; the flat item list follows per-order,
// per-item order. Missing customers and products fall back to "Unknown"
// (price 0 for products); the rows are still produced. Totals are recomputed
// from the current item set on every call. A negative quantity or unit price
// aborts the whole batch with a RowError; no partial output is returned.
func Denormalize(orders []*raw.Order, items []*raw.OrderItem, customers []*raw.Customer, products []*raw.Product) ([]*analytics.Order, []*analytics.OrderItem, error) {
	customerByID := make(map[int64]*raw.Customer, len(customers))
	for _, customer := range customers {
		customerByID[customer.CustomerID] = customer
	}

	productByID := make(map[int64]*raw.Product, len(products))
	for _, product := range products {
		productByID[product.ProductID] = product
	}

	itemsByOrder := make(map[int64][]*raw.OrderItem, len(orders))
	for _, item := range items {
		itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], item)
	}

	outOrders := make([]*analytics.Order, 0, len(orders))
	outItems := make([]*analytics.OrderItem, 0, len(items))

	for _, order := range orders {
		customer := customerByID[order.CustomerID]
		customerName := UnknownName
		if customer != nil {
			customerName = customer.CustomerName
		}

		rawItems := itemsByOrder[order.OrderID]

		var totalItems int32
		totalAmount := decimal.Zero
		converted := make([]*analytics.OrderItem, 0, len(rawItems))

		for _, item := range rawItems {
			if item.Quantity < 0 {
				return nil, nil, &RowError{Order: order, Customer: customer,
					Err: fmt.Errorf("item %d has negative quantity %d", item.OrderItemID, item.Quantity)}
			}

			productName := UnknownName
			price := decimal.Zero
			if product := productByID[item.ProductID]; product != nil {
				if product.UnitPrice.IsNegative() {
					return nil, nil, &RowError{Order: order, Customer: customer,
						Err: fmt.Errorf("product %d has negative unit price %s", product.ProductID, product.UnitPrice)}
				}
				productName = product.ProductName
				price = product.UnitPrice
			}

			totalItems += item.Quantity
			totalAmount = totalAmount.Add(price.Mul(decimal.NewFromInt32(item.Quantity)))

			converted = append(converted, &analytics.OrderItem{
				OrderItemID:  item.OrderItemID,
				OrderID:      item.OrderID,
				ProductID:    item.ProductID,
				ProductName:  productName,
				Quantity:     item.Quantity,
				Price:        price,
				OrderStatus:  order.Status,
				DeliveryDate: order.DeliveryDate,
				CreatedAt:    item.CreatedAt,
				UpdatedAt:    item.UpdatedAt,
				CreatedBy:    item.CreatedBy,
				UpdatedBy:    item.UpdatedBy,
			})
		}

		outOrders = append(outOrders, &analytics.Order{
			OrderID:      order.OrderID,
			CustomerID:   order.CustomerID,
			CustomerName: customerName,
			OrderDate:    order.OrderDate,
			DeliveryDate: order.DeliveryDate,
			Status:       order.Status,
			TotalItems:   totalItems,
			TotalAmount:  totalAmount,
			CreatedAt:    order.CreatedAt,
			UpdatedAt:    order.UpdatedAt,
			CreatedBy:    order.CreatedBy,
			UpdatedBy:    order.UpdatedBy,
			Items:        converted,
		})
		outItems = append(outItems, converted...)
	}

	return outOrders, outItems, nil
}
