package providers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackoffDelay(t *testing.T) {
	assert.Equal(t, time.Duration(0), BackoffDelay(1))
	assert.Equal(t, 400*time.Millisecond, BackoffDelay(2))
	assert.Equal(t, 800*time.Millisecond, BackoffDelay(3))
}

func TestRoundDegrees(t *testing.T) {
	cases := map[float64]int{
		72.6: 73,
		72.5: 73,
		72.4: 72,
		-2.5: -2,
		-2.6: -3,
		0:    0,
	}
	for in, want := range cases {
		assert.Equal(t, want, roundDegrees(in), "roundDegrees(%v)", in)
	}
}

func TestWithRetry_StopsOnSuccess(t *testing.T) {
	timer := &recordingTimer{}
	calls := 0

	got, err := withRetry(context.Background(), "test", timer, func() (int, error) {
		calls++
		if calls < 2 {
			return 0, errors.New("transient")
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []time.Duration{400 * time.Millisecond}, timer.Waits())
}

func TestWithRetry_ReturnsLastError(t *testing.T) {
	calls := 0

	_, err := withRetry(context.Background(), "test", &recordingTimer{}, func() (int, error) {
		calls++
		return 0, errors.New("attempt " + string(rune('0'+calls)))
	})

	require.Error(t, err)
	assert.Equal(t, "attempt 3", err.Error())
	assert.Equal(t, MaxAttempts, calls)
}

func TestBreakerSetDisabled(t *testing.T) {
	assert.Nil(t, newBreakerSet(0))
	assert.Nil(t, newBreakerSet(-1))

	got, err := execute[int](nil, "any", func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestBreakerSetReusesBreakerPerKey(t *testing.T) {
	b := newBreakerSet(3)
	assert.Same(t, b.get("Houston"), b.get("Houston"))
	assert.NotSame(t, b.get("Houston"), b.get("Chicago"))
}

func TestIsBreakerRejection(t *testing.T) {
	assert.True(t, isBreakerRejection(gobreaker.ErrOpenState))
	assert.True(t, isBreakerRejection(gobreaker.ErrTooManyRequests))
	assert.False(t, isBreakerRejection(errUnexpected))
	assert.False(t, isBreakerRejection(nil))
}
