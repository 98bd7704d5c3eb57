package providers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/sony/gobreaker"
)

const (
	// MaxAttempts is the total number of attempts per city fetch.
	MaxAttempts = 3
	// BackoffBase is multiplied by 2^attempt to get the wait before a retry.
	BackoffBase = 100 * time.Millisecond
)

// Doer is the subset of *http.Client used by providers.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

var (
	errUnexpected   = errors.New("unexpected status code")
	errPayload      = errors.New("weather api returned an error")
	errMalformed    = errors.New("malformed weather payload")
	errNoHTTPClient = errors.New("http client not configured")
)

// BackoffDelay returns how long to wait before the given 1-based attempt.
// The first attempt never waits.
func BackoffDelay(attempt int) time.Duration {
	if attempt < 2 {
		return 0
	}
	return BackoffBase * time.Duration(1<<attempt)
}

// withRetry runs fn up to MaxAttempts times, sleeping BackoffDelay between
// attempts, and returns the first success or the last error.
func withRetry[T any](ctx context.Context, label string, timer retry.Timer, fn func() (T, error)) (T, error) {
	attempt := 0

	opts := []retry.Option{
		retry.Context(ctx),
		retry.Attempts(MaxAttempts),
		retry.LastErrorOnly(true),
		retry.DelayType(func(_ uint, _ error, _ *retry.Config) time.Duration {
			return BackoffDelay(attempt + 1)
		}),
		retry.OnRetry(func(_ uint, err error) {
			log.Printf("providers: attempt %d/%d for %s failed: %v", attempt, MaxAttempts, label, err)
		}),
	}
	if timer != nil {
		opts = append(opts, retry.WithTimer(timer))
	}

	return retry.DoWithData(func() (T, error) {
		attempt++
		return fn()
	}, opts...)
}

// breakerSet hands out one circuit breaker per key so that a failing city
// cannot open the breaker of another.
type breakerSet struct {
	threshold uint32
	mu        sync.Mutex
	breakers  map[string]*gobreaker.CircuitBreaker
}

func newBreakerSet(threshold int) *breakerSet {
	if threshold <= 0 {
		return nil
	}
	return &breakerSet{
		threshold: uint32(threshold),
		breakers:  make(map[string]*gobreaker.CircuitBreaker),
	}
}

func (b *breakerSet) get(key string) *gobreaker.CircuitBreaker {
	b.mu.Lock()
	defer b.mu.Unlock()

	if cb, ok := b.breakers[key]; ok {
		return cb
	}

	threshold := b.threshold
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        key,
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("providers: breaker %s changed from %s to %s", name, from, to)
		},
	})
	b.breakers[key] = cb
	return cb
}

// isBreakerRejection reports whether err came from a breaker refusing the
// call rather than from the call itself.
func isBreakerRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// execute runs fn through the breaker for key, or directly when breakers
// are disabled.
func execute[T any](b *breakerSet, key string, fn func() (T, error)) (T, error) {
	if b == nil {
		return fn()
	}

	result, err := b.get(key).Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}
