package syncer

import (
	"time"

	"github.com/puzpuzpuz/xsync/v4"
)

// Stats tracks sync loop progress. The loop writes while the status endpoint
// reads, so everything lives in concurrency-safe containers.
type Stats struct {
	iterations *xsync.Counter
	failures   *xsync.Counter
	orders     *xsync.Counter
	items      *xsync.Counter

	// last_success, last_watermark, last_error
	state *xsync.Map[string, string]
}

// Snapshot is a point-in-time view of Stats, shaped for JSON.
type Snapshot struct {
	Iterations          int64  `json:"iterations"`
	ConsecutiveFailures int64  `json:"consecutive_failures"`
	OrdersLoaded        int64  `json:"orders_loaded"`
	ItemsLoaded         int64  `json:"items_loaded"`
	LastSuccess         string `json:"last_success,omitempty"`
	LastWatermark       string `json:"last_watermark,omitempty"`
	LastError           string `json:"last_error,omitempty"`
}

func NewStats() *Stats {
	return &Stats{
		iterations: xsync.NewCounter(),
		failures:   xsync.NewCounter(),
		orders:     xsync.NewCounter(),
		items:      xsync.NewCounter(),
		state:      xsync.NewMap[string, string](),
	}
}

// RecordSuccess counts a completed iteration and resets the failure streak.
func (s *Stats) RecordSuccess(result Result) {
	s.iterations.Inc()
	s.failures.Reset()
	s.orders.Add(int64(result.Orders))
	s.items.Add(int64(result.Items))

	s.state.Store("last_success", time.Now().UTC().Format(time.RFC3339))
	if !result.Watermark.IsZero() {
		s.state.Store("last_watermark", result.Watermark.UTC().Format(time.RFC3339Nano))
	}
}

// RecordFailure counts a failed iteration. The error text stays visible until
// a later failure replaces it.
func (s *Stats) RecordFailure(err error) {
	s.iterations.Inc()
	s.failures.Inc()

	s.state.Store("last_error", err.Error())
}

// Snapshot returns the current counters and markers.
func (s *Stats) Snapshot() Snapshot {
	snap := Snapshot{
		Iterations:          s.iterations.Value(),
		ConsecutiveFailures: s.failures.Value(),
		OrdersLoaded:        s.orders.Value(),
		ItemsLoaded:         s.items.Value(),
	}

	if v, ok := s.state.Load("last_success"); ok {
		snap.LastSuccess = v
	}
	if v, ok := s.state.Load("last_watermark"); ok {
		snap.LastWatermark = v
	}
	if v, ok := s.state.Load("last_error"); ok {
		snap.LastError = v
	}

	return snap
}
