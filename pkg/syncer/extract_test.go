package syncer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/opstream/ordersync/pkg/db/models/raw"
	"github.com/opstream/ordersync/pkg/syncer"
)

func TestExtractBatch_ShortCircuitsWhenNoChanges(t *testing.T) {
	source := &fakeSourceStore{}
	tracker := syncer.NewTracker(baseTime)

	extractor := syncer.NewExtractor(zaptest.NewLogger(t), source, tracker)

	batch, err := extractor.ExtractBatch(context.Background())
	require.NoError(t, err)

	assert.True(t, batch.Empty())
	assert.True(t, source.lastSince.Equal(baseTime))
	assert.Equal(t, 0, source.itemsCalls)
	assert.Equal(t, 0, source.customersCalls)
	assert.Equal(t, 0, source.productsCalls)
	assert.True(t, tracker.Current().Equal(baseTime), "empty window must not move the cursor")
}

func TestExtractBatch_CollectsReferencedRows(t *testing.T) {
	newest := baseTime.Add(3 * time.Minute)
	source := &fakeSourceStore{
		// Orders 1 and 3 share a customer.
		orders: []*raw.Order{
			sourceOrder(1, 100, baseTime.Add(time.Minute)),
			sourceOrder(2, 200, baseTime.Add(2*time.Minute)),
			sourceOrder(3, 100, newest),
		},
		// Items 10 and 12 share a product.
		items: []*raw.OrderItem{
			sourceItem(10, 1, 500, 2),
			sourceItem(11, 2, 501, 1),
			sourceItem(12, 3, 500, 4),
		},
		customers: []*raw.Customer{
			sourceCustomer(100, "Acme Corp"),
			sourceCustomer(200, "Globex"),
		},
		products: []*raw.Product{
			sourceProduct(500, "Widget", "3.50"),
			sourceProduct(501, "Gadget", "12.00"),
		},
	}
	tracker := syncer.NewTracker(time.Time{})

	extractor := syncer.NewExtractor(zaptest.NewLogger(t), source, tracker)

	batch, err := extractor.ExtractBatch(context.Background())
	require.NoError(t, err)

	assert.Len(t, batch.Orders, 3)
	assert.Len(t, batch.Items, 3)
	assert.Len(t, batch.Customers, 2)
	assert.Len(t, batch.Products, 2)

	assert.Equal(t, []int64{1, 2, 3}, source.lastOrderIDs)
	assert.Equal(t, []int64{100, 200}, source.lastCustomerIDs, "customer ids must be deduplicated")
	assert.Equal(t, []int64{500, 501}, source.lastProductIDs, "product ids must be deduplicated")

	assert.True(t, tracker.Current().Equal(newest))
}

func TestExtractBatch_OrdersErrorLeavesCursor(t *testing.T) {
	source := &fakeSourceStore{ordersErr: errors.New("relation does not exist")}
	tracker := syncer.NewTracker(baseTime)

	extractor := syncer.NewExtractor(zaptest.NewLogger(t), source, tracker)

	_, err := extractor.ExtractBatch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to extract orders")
	assert.True(t, tracker.Current().Equal(baseTime))
}

func TestExtractBatch_DimensionErrorAfterCursorAdvance(t *testing.T) {
	updated := baseTime.Add(time.Minute)
	source := &fakeSourceStore{
		orders:   []*raw.Order{sourceOrder(1, 100, updated)},
		itemsErr: errors.New("canceling statement due to statement timeout"),
	}
	tracker := syncer.NewTracker(time.Time{})

	extractor := syncer.NewExtractor(zaptest.NewLogger(t), source, tracker)

	_, err := extractor.ExtractBatch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to extract order items")

	// The cursor moves with the orders read. The durable watermark still
	// points at the last loaded batch, which is what a restart resumes from.
	assert.True(t, tracker.Current().Equal(updated))
}
