package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/opstream/ordersync/pkg/retry"
)

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	calls := 0

	err := retry.Do(context.Background(), retry.DefaultConfig(), zaptest.NewLogger(t), "ping", func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RecoversAfterFailures(t *testing.T) {
	cfg := retry.Config{MaxAttempts: 3, Delay: time.Millisecond}
	calls := 0

	err := retry.Do(context.Background(), cfg, zaptest.NewLogger(t), "ping", func() error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	cfg := retry.Config{MaxAttempts: 3, Delay: time.Millisecond}
	cause := errors.New("connection refused")
	calls := 0

	err := retry.Do(context.Background(), cfg, zaptest.NewLogger(t), "postgres_connection", func() error {
		calls++
		return cause
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "postgres_connection failed after 3 attempts")
	assert.ErrorIs(t, err, cause)
}

func TestDo_StopsWhenContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := retry.Do(ctx, retry.DefaultConfig(), zaptest.NewLogger(t), "ping", func() error {
		calls++
		return errors.New("connection refused")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}

func TestDo_CancellationInterruptsDelay(t *testing.T) {
	cfg := retry.Config{MaxAttempts: 3, Delay: time.Minute}

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	start := time.Now()
	err := retry.Do(ctx, cfg, zaptest.NewLogger(t), "ping", func() error {
		calls++
		cancel()
		return errors.New("connection refused")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
	assert.Less(t, time.Since(start), time.Second, "cancellation must not wait out the delay")
}
