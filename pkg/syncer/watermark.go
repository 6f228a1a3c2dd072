package syncer

import (
	"sync"
	"time"
)

// Tracker holds the extraction cursor: the greatest order updated_at observed
// so far. The zero time means nothing has been observed and the first
// extraction reads all history.
type Tracker struct {
	mu      sync.Mutex
	current time.Time
}

// NewTracker starts the cursor at the given value, normally the durable
// watermark read from the analytical database.
func NewTracker(start time.Time) *Tracker {
	return &Tracker{current: start}
}

// Current returns the cursor value.
func (t *Tracker) Current() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Advance moves the cursor to candidate only when candidate is strictly
// greater than the current value, so the cursor never regresses. It reports
// whether the cursor moved.
func (t *Tracker) Advance(candidate time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !candidate.After(t.current) {
		return false
	}
	t.current = candidate
	return true
}
