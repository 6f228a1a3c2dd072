package syncer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/opstream/ordersync/pkg/db"
	"github.com/opstream/ordersync/pkg/db/transform"
)

// Result summarizes one sync iteration.
type Result struct {
	Orders    int
	Items     int
	Watermark time.Time
	Duration  time.Duration
}

// Empty reports whether the iteration found no changed orders.
func (r Result) Empty() bool { return r.Orders == 0 }

// Notifier receives iteration outcomes. Implementations must return quickly
// and never fail the loop.
type Notifier interface {
	IterationCompleted(ctx context.Context, result Result)
	IterationFailed(ctx context.Context, err error)
}

// Engine drives the extract, transform, load cycle between the two stores.
// Exactly one cycle is in flight at a time; Run never overlaps iterations.
type Engine struct {
	Logger    *zap.Logger
	Source    db.SourceStore
	Warehouse db.WarehouseStore
	Tracker   *Tracker
	Extractor *Extractor
	Stats     *Stats

	// Notifier, when set, is told about every iteration outcome.
	Notifier Notifier
}

func NewEngine(logger *zap.Logger, source db.SourceStore, warehouse db.WarehouseStore, tracker *Tracker) *Engine {
	return &Engine{
		Logger:    logger,
		Source:    source,
		Warehouse: warehouse,
		Tracker:   tracker,
		Extractor: NewExtractor(logger, source, tracker),
		Stats:     NewStats(),
	}
}

// RunOnce executes a single extract, transform, load cycle and reports what
// it processed. Connectivity is verified with the retry policy before the
// first read and again before loading; a server that stays unreachable fails
// the iteration as a whole.
func (e *Engine) RunOnce(ctx context.Context) (Result, error) {
	start := time.Now()

	if err := e.Source.EnsureReady(ctx); err != nil {
		return Result{}, fmt.Errorf("source database not ready: %w", err)
	}

	batch, err := e.Extractor.ExtractBatch(ctx)
	if err != nil {
		return Result{}, err
	}

	if batch.Empty() {
		e.Logger.Info("No new data to process")
		return Result{Duration: time.Since(start)}, nil
	}

	orders, items, err := transform.Denormalize(batch.Orders, batch.Items, batch.Customers, batch.Products)
	if err != nil {
		return Result{}, err
	}

	if err := e.Warehouse.EnsureReady(ctx); err != nil {
		return Result{}, fmt.Errorf("analytical database not ready: %w", err)
	}

	if err := e.Warehouse.LoadBatch(ctx, orders, items, e.Tracker.Current()); err != nil {
		return Result{}, err
	}

	result := Result{
		Orders:    len(orders),
		Items:     len(items),
		Watermark: e.Tracker.Current(),
		Duration:  time.Since(start),
	}

	e.Logger.Info("Processed orders",
		zap.Int("orders", result.Orders),
		zap.Int("items", result.Items),
		zap.Time("watermark", result.Watermark),
		zap.Duration("duration", result.Duration))

	return result, nil
}

// Run executes one cycle immediately, then repeats on the polling interval
// until ctx is canceled. Iteration errors are contained: they are logged,
// recorded and the loop waits for the next tick. An iteration already in
// progress always runs to completion; cancellation takes effect at the next
// tick boundary.
func (e *Engine) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("polling interval must be positive, got %s", interval)
	}

	e.Logger.Info("Starting sync loop", zap.Duration("interval", interval))

	// The startup cycle runs before the scheduler starts ticking, so the two
	// can never overlap.
	e.iterate(ctx)

	if ctx.Err() != nil {
		return nil
	}

	sched := NewScheduler(e.Logger)
	if err := sched.Schedule(interval, func() { e.iterate(ctx) }); err != nil {
		return err
	}
	sched.Start()

	<-ctx.Done()

	e.Logger.Info("Stopping sync loop")
	sched.Stop()

	return nil
}

// iterate runs one cycle, recording the outcome for the status endpoint and
// the notifier.
func (e *Engine) iterate(ctx context.Context) {
	result, err := e.RunOnce(ctx)
	if err != nil {
		// Cancellation mid-cycle is shutdown, not a failure.
		if ctx.Err() != nil {
			return
		}
		e.Logger.Error("Sync iteration failed", zap.Error(err))
		e.Stats.RecordFailure(err)
		if e.Notifier != nil {
			e.Notifier.IterationFailed(ctx, err)
		}
		return
	}

	e.Stats.RecordSuccess(result)
	if e.Notifier != nil {
		e.Notifier.IterationCompleted(ctx, result)
	}
}
