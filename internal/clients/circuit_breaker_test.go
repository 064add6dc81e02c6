package clients

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func failing() error { return errBoom }
func ok() error      { return nil }

func TestCircuitBreaker_Transitions(t *testing.T) {
	cb := NewCircuitBreaker("test", 3, 20*time.Millisecond, quietLogger())

	// a success resets the consecutive failure count while closed
	assert.Error(t, cb.Execute(failing))
	assert.Error(t, cb.Execute(failing))
	assert.NoError(t, cb.Execute(ok))
	assert.Equal(t, gobreaker.StateClosed, cb.GetState())

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(failing), errBoom)
	}
	assert.Equal(t, gobreaker.StateOpen, cb.GetState())

	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)

	// after the reset timeout one trial request is allowed; failing reopens
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, gobreaker.StateHalfOpen, cb.GetState())
	assert.ErrorIs(t, cb.Execute(failing), errBoom)
	assert.Equal(t, gobreaker.StateOpen, cb.GetState())

	time.Sleep(30 * time.Millisecond)
	assert.NoError(t, cb.Execute(ok))
	assert.Equal(t, gobreaker.StateClosed, cb.GetState())

	stats := cb.GetStats()
	assert.Equal(t, "closed", stats["state"])
	assert.Equal(t, 3, stats["max_failures"])
}

func TestCircuitBreaker_HalfOpenAdmitsSingleRequest(t *testing.T) {
	cb := NewCircuitBreaker("test", 1, 10*time.Millisecond, quietLogger())

	require.Error(t, cb.Execute(failing))
	require.Equal(t, gobreaker.StateOpen, cb.GetState())
	time.Sleep(20 * time.Millisecond)

	var admitted int32
	entered := make(chan struct{})
	release := make(chan struct{})

	// the first caller holds the half-open slot until released
	firstDone := make(chan error, 1)
	go func() {
		firstDone <- cb.Execute(func() error {
			atomic.AddInt32(&admitted, 1)
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	const callers = 20
	var wg sync.WaitGroup
	rejected := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rejected <- cb.Execute(func() error {
				atomic.AddInt32(&admitted, 1)
				return nil
			})
		}()
	}
	wg.Wait()
	close(rejected)

	for err := range rejected {
		assert.ErrorIs(t, err, ErrCircuitOpen)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&admitted), "only one request may reach upstream while half-open")

	close(release)
	require.NoError(t, <-firstDone)
	assert.Equal(t, gobreaker.StateClosed, cb.GetState())
}
