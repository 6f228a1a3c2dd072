package syncer_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opstream/ordersync/pkg/syncer"
)

func TestStats_RecordSuccess(t *testing.T) {
	stats := syncer.NewStats()

	mark := baseTime.Add(time.Minute)
	stats.RecordSuccess(syncer.Result{Orders: 3, Items: 7, Watermark: mark})
	stats.RecordSuccess(syncer.Result{Orders: 2, Items: 1, Watermark: mark.Add(time.Minute)})

	snap := stats.Snapshot()
	assert.Equal(t, int64(2), snap.Iterations)
	assert.Equal(t, int64(0), snap.ConsecutiveFailures)
	assert.Equal(t, int64(5), snap.OrdersLoaded)
	assert.Equal(t, int64(8), snap.ItemsLoaded)
	assert.NotEmpty(t, snap.LastSuccess)
	assert.Equal(t, mark.Add(time.Minute).UTC().Format(time.RFC3339Nano), snap.LastWatermark)
}

func TestStats_EmptyResultKeepsWatermark(t *testing.T) {
	stats := syncer.NewStats()

	mark := baseTime.Add(time.Minute)
	stats.RecordSuccess(syncer.Result{Orders: 1, Items: 1, Watermark: mark})

	// An idle iteration carries no watermark and must not clear the last one.
	stats.RecordSuccess(syncer.Result{})

	snap := stats.Snapshot()
	assert.Equal(t, int64(2), snap.Iterations)
	assert.Equal(t, mark.UTC().Format(time.RFC3339Nano), snap.LastWatermark)
}

func TestStats_FailureStreakResetsOnSuccess(t *testing.T) {
	stats := syncer.NewStats()

	stats.RecordFailure(errors.New("source database not ready"))
	stats.RecordFailure(errors.New("source database not ready"))

	snap := stats.Snapshot()
	require.Equal(t, int64(2), snap.ConsecutiveFailures)
	assert.Equal(t, int64(2), snap.Iterations)
	assert.Equal(t, "source database not ready", snap.LastError)

	stats.RecordSuccess(syncer.Result{Orders: 1, Items: 2, Watermark: baseTime})

	snap = stats.Snapshot()
	assert.Equal(t, int64(0), snap.ConsecutiveFailures)
	assert.Equal(t, int64(3), snap.Iterations)
	// The last error stays visible for the status endpoint.
	assert.Equal(t, "source database not ready", snap.LastError)
}
