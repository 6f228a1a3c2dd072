package syncer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/opstream/ordersync/pkg/syncer"
)

func TestTracker_StartsAtSeed(t *testing.T) {
	seed := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, syncer.NewTracker(time.Time{}).Current().IsZero())
	assert.Equal(t, seed, syncer.NewTracker(seed).Current())
}

func TestTracker_AdvanceIsMonotonic(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	tracker := syncer.NewTracker(base)

	assert.True(t, tracker.Advance(base.Add(time.Minute)))
	assert.Equal(t, base.Add(time.Minute), tracker.Current())

	// Equal and older candidates never move the cursor.
	assert.False(t, tracker.Advance(base.Add(time.Minute)))
	assert.False(t, tracker.Advance(base))
	assert.False(t, tracker.Advance(base.Add(-time.Hour)))
	assert.Equal(t, base.Add(time.Minute), tracker.Current())

	assert.True(t, tracker.Advance(base.Add(2*time.Minute)))
	assert.Equal(t, base.Add(2*time.Minute), tracker.Current())
}
