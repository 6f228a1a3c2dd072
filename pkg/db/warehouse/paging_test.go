package warehouse

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opstream/ordersync/pkg/db/models/analytics"
)

var loadTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func pagedOrder(id int64) *analytics.Order {
	return &analytics.Order{
		OrderID:      id,
		CustomerID:   100 + id%40,
		CustomerName: "Acme Corp",
		OrderDate:    loadTime,
		Status:       "PENDING",
		TotalItems:   1,
		TotalAmount:  decimal.New(1999, -2),
		CreatedAt:    loadTime,
		UpdatedAt:    loadTime,
	}
}

func pagedItem(id int64) *analytics.OrderItem {
	return &analytics.OrderItem{
		OrderItemID: id,
		OrderID:     id / 2,
		ProductID:   500 + id%10,
		ProductName: "Widget",
		Quantity:    2,
		Price:       decimal.New(350, -2),
		OrderStatus: "PENDING",
		CreatedAt:   loadTime,
		UpdatedAt:   loadTime,
	}
}

// scriptedResults drains like live batch results but fails the statement at
// failAt (index within this batch, -1 for none).
type scriptedResults struct {
	size    int
	failAt  int
	failErr error
	drained int
	closed  bool
}

func (r *scriptedResults) Exec() (pgconn.CommandTag, error) {
	i := r.drained
	r.drained++
	if i == r.failAt {
		return pgconn.CommandTag{}, r.failErr
	}
	return pgconn.CommandTag{}, nil
}

func (r *scriptedResults) Query() (pgx.Rows, error) { return nil, nil }
func (r *scriptedResults) QueryRow() pgx.Row        { return nil }
func (r *scriptedResults) Close() error             { r.closed = true; return nil }

// pagingExecutor records the size of every batch it is sent and can script
// one failing statement by its position across the whole load.
type pagingExecutor struct {
	pages   []int
	results []*scriptedResults
	failAt  int
	failErr error
}

func newPagingExecutor() *pagingExecutor {
	return &pagingExecutor{failAt: -1}
}

func (e *pagingExecutor) SendBatch(_ context.Context, b *pgx.Batch) pgx.BatchResults {
	sent := 0
	for _, size := range e.pages {
		sent += size
	}

	failAt := -1
	if e.failAt >= sent && e.failAt < sent+b.Len() {
		failAt = e.failAt - sent
	}

	r := &scriptedResults{size: b.Len(), failAt: failAt, failErr: e.failErr}
	e.pages = append(e.pages, b.Len())
	e.results = append(e.results, r)
	return r
}

func (e *pagingExecutor) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (e *pagingExecutor) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, nil
}

func (e *pagingExecutor) QueryRow(context.Context, string, ...any) pgx.Row {
	return nil
}

func TestLoadOrdersPaged_WritesInBatchSizePages(t *testing.T) {
	db := &DB{BatchSize: 1000}
	exec := newPagingExecutor()

	orders := make([]*analytics.Order, 2500)
	for i := range orders {
		orders[i] = pagedOrder(int64(i + 1))
	}

	require.NoError(t, db.loadOrdersPaged(context.Background(), exec, orders))

	assert.Equal(t, []int{1000, 1000, 500}, exec.pages)
	for _, r := range exec.results {
		assert.Equal(t, r.size, r.drained)
		assert.True(t, r.closed)
	}
}

func TestLoadOrdersPaged_DefaultsPageSize(t *testing.T) {
	db := &DB{}
	exec := newPagingExecutor()

	orders := make([]*analytics.Order, DefaultBatchSize+1)
	for i := range orders {
		orders[i] = pagedOrder(int64(i + 1))
	}

	require.NoError(t, db.loadOrdersPaged(context.Background(), exec, orders))

	assert.Equal(t, []int{DefaultBatchSize, 1}, exec.pages)
}

func TestLoadOrdersPaged_FailureCarriesAbsoluteIndex(t *testing.T) {
	db := &DB{BatchSize: 1000}
	exec := newPagingExecutor()
	exec.failAt = 1247
	exec.failErr = errors.New("value too long for type character varying(20)")

	orders := make([]*analytics.Order, 2500)
	for i := range orders {
		orders[i] = pagedOrder(int64(i + 1))
	}

	err := db.loadOrdersPaged(context.Background(), exec, orders)
	require.Error(t, err)

	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, analytics.OrdersTableName, batchErr.Table)
	assert.Equal(t, 1247, batchErr.Index)
	assert.Same(t, orders[1247], batchErr.Record)
	require.ErrorIs(t, err, exec.failErr)

	// The failing page stops draining at the bad statement and the last
	// page is never sent.
	assert.Equal(t, []int{1000, 1000}, exec.pages)
	assert.Equal(t, 248, exec.results[1].drained)
	assert.True(t, exec.results[1].closed)
}

func TestLoadOrderItemsPaged_FailureCarriesAbsoluteIndex(t *testing.T) {
	db := &DB{BatchSize: 2}
	exec := newPagingExecutor()
	exec.failAt = 3
	exec.failErr = errors.New(`null value in column "product_name"`)

	items := make([]*analytics.OrderItem, 5)
	for i := range items {
		items[i] = pagedItem(int64(i + 1))
	}

	err := db.loadOrderItemsPaged(context.Background(), exec, items)
	require.Error(t, err)

	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, analytics.OrderItemsTableName, batchErr.Table)
	assert.Equal(t, 3, batchErr.Index)
	assert.Same(t, items[3], batchErr.Record)
	assert.Equal(t, []int{2, 2}, exec.pages)
}

func TestLoadBatch_NoRowsSkipsTransaction(t *testing.T) {
	// A zero value client has no pool; reaching the transaction would panic.
	var db DB

	require.NoError(t, db.LoadBatch(context.Background(), nil, nil, loadTime))
}
