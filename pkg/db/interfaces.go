package db

import (
	"context"
	"time"

	"github.com/opstream/ordersync/pkg/db/models/analytics"
	"github.com/opstream/ordersync/pkg/db/models/raw"
)

// SourceStore exposes the operational-database reads the extractor depends on.
type SourceStore interface {
	OrdersSince(ctx context.Context, since time.Time) ([]*raw.Order, error)
	ItemsByOrderIDs(ctx context.Context, orderIDs []int64) ([]*raw.OrderItem, error)
	CustomersByIDs(ctx context.Context, customerIDs []int64) ([]*raw.Customer, error)
	ProductsByIDs(ctx context.Context, productIDs []int64) ([]*raw.Product, error)
	EnsureReady(ctx context.Context) error
	Close() error
}

// WarehouseStore describes the destination operations the orchestrator uses.
type WarehouseStore interface {
	InitializeDB(ctx context.Context) error
	LoadOrders(ctx context.Context, orders []*analytics.Order) error
	LoadOrderItems(ctx context.Context, items []*analytics.OrderItem) error
	LoadBatch(ctx context.Context, orders []*analytics.Order, items []*analytics.OrderItem, watermark time.Time) error
	ReadWatermark(ctx context.Context) (time.Time, error)
	EnsureReady(ctx context.Context) error
	Close() error
}

// ReportStore exposes the read-only aggregation queries behind the CSV exporter.
type ReportStore interface {
	OpenOrdersByDateStatus(ctx context.Context) ([]analytics.OpenOrdersByDateRow, error)
	TopDeliveryDates(ctx context.Context, limit int) ([]analytics.TopDeliveryDateRow, error)
	PendingItemsByProduct(ctx context.Context) ([]analytics.PendingItemsByProductRow, error)
	TopCustomersWithPendingOrders(ctx context.Context, limit int) ([]analytics.TopCustomerRow, error)
}
