package clients

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// ErrCircuitOpen is returned without calling upstream while the breaker is
// open, or while a half-open trial request is already in flight.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreaker stops calling an upstream that keeps failing. After
// resetTimeout a single trial request is let through; its result closes or reopens
// the circuit.
type CircuitBreaker struct {
	cb           *gobreaker.CircuitBreaker
	maxFailures  int
	resetTimeout time.Duration
}

// NewCircuitBreaker creates a breaker that opens after maxFailures
// consecutive failures and lets a trial request through after resetTimeout.
func NewCircuitBreaker(name string, maxFailures int, resetTimeout time.Duration, logger *logrus.Logger) *CircuitBreaker {
	if maxFailures < 1 {
		maxFailures = 1
	}

	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     resetTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(maxFailures)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			entry := logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
			if to == gobreaker.StateOpen {
				entry.Error("Circuit breaker state changed")
				return
			}
			entry.Info("Circuit breaker state changed")
		},
	}

	return &CircuitBreaker{
		cb:           gobreaker.NewCircuitBreaker(st),
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
	}
}

// Execute runs fn unless the circuit is open.
func (b *CircuitBreaker) Execute(fn func() error) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrCircuitOpen
	}
	return err
}

// GetState returns the current circuit breaker state
func (b *CircuitBreaker) GetState() gobreaker.State {
	return b.cb.State()
}

// GetStats returns current circuit breaker statistics
func (b *CircuitBreaker) GetStats() map[string]interface{} {
	counts := b.cb.Counts()

	return map[string]interface{}{
		"state":                b.cb.State().String(),
		"requests":             counts.Requests,
		"consecutive_failures": counts.ConsecutiveFailures,
		"total_failures":       counts.TotalFailures,
		"max_failures":         b.maxFailures,
		"reset_timeout":        b.resetTimeout.String(),
	}
}
