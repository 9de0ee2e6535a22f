package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTiered_SuccessFirstTier(t *testing.T) {
	calls := 0
	err := Tiered(context.Background(), []time.Duration{time.Second}, func(ctx context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestTiered_TimeoutEscalatesThenSucceeds(t *testing.T) {
	tiers := []time.Duration{10 * time.Millisecond, 200 * time.Millisecond}
	calls := 0
	err := Tiered(context.Background(), tiers, func(ctx context.Context) error {
		calls++
		select {
		case <-time.After(50 * time.Millisecond): // outlasts tier 1, fits tier 2
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestTiered_TimeoutOnLastTier(t *testing.T) {
	tiers := []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}
	calls := 0
	err := Tiered(context.Background(), tiers, func(ctx context.Context) error {
		calls++
		<-ctx.Done()
		return ctx.Err()
	})
	assert.Equal(t, 2, calls)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTiered_NonTimeoutErrorIsTerminal(t *testing.T) {
	boom := errors.New("connection refused")
	calls := 0
	err := Tiered(context.Background(), []time.Duration{time.Second, time.Second}, func(ctx context.Context) error {
		calls++
		return boom
	})
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, boom)
}

func TestTiered_PermanentUnwrapped(t *testing.T) {
	boom := errors.New("bad request")
	err := Tiered(context.Background(), []time.Duration{time.Second}, func(ctx context.Context) error {
		return Permanent(boom)
	})
	assert.Equal(t, boom, err)
}

func TestTiered_ParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Tiered(ctx, []time.Duration{time.Millisecond, time.Millisecond}, func(ctx context.Context) error {
		calls++
		<-ctx.Done()
		return ctx.Err()
	})
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, context.Canceled)
}
