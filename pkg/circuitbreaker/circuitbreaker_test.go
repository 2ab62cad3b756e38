package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBroker = errors.New("broker unavailable")

func newTestBreaker(timeout time.Duration) *CircuitBreaker {
	return NewCircuitBreaker("test", Config{
		MaxRequests: 1,
		Interval:    10 * time.Second,
		Timeout:     timeout,
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
}

func fail() error { return errBroker }
func ok() error   { return nil }

func TestCircuitBreaker_StaysClosedOnSuccess(t *testing.T) {
	cb := newTestBreaker(time.Minute)

	for i := 0; i < 10; i++ {
		require.NoError(t, cb.Execute(ok))
	}

	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, uint32(10), cb.Counts().TotalSuccesses)
}

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	cb := newTestBreaker(time.Minute)

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(fail), errBroker)
	}
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrOpenState)
	assert.False(t, called, "熔断器打开时不应该调用实际函数")
}

func TestCircuitBreaker_SuccessResetsConsecutiveFailures(t *testing.T) {
	cb := newTestBreaker(time.Minute)

	_ = cb.Execute(fail)
	_ = cb.Execute(fail)
	require.NoError(t, cb.Execute(ok))
	_ = cb.Execute(fail)

	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, uint32(1), cb.Counts().ConsecutiveFailures)
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	cb := newTestBreaker(50 * time.Millisecond)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(fail)
	}
	require.Equal(t, StateOpen, cb.State())

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, StateHalfOpen, cb.State())

	require.NoError(t, cb.Execute(ok))
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := newTestBreaker(50 * time.Millisecond)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(fail)
	}
	time.Sleep(80 * time.Millisecond)

	assert.ErrorIs(t, cb.Execute(fail), errBroker)
	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreaker_DefaultsAndIsSuccessful(t *testing.T) {
	cb := NewCircuitBreaker("defaults", Config{
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	// 调用方取消不计入失败
	for i := 0; i < 10; i++ {
		_ = cb.Execute(func() error { return context.Canceled })
	}
	assert.Equal(t, StateClosed, cb.State())

	// 默认策略：连续失败5次熔断
	for i := 0; i < 5; i++ {
		_ = cb.Execute(fail)
	}
	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreaker_ExecuteContext(t *testing.T) {
	cb := newTestBreaker(time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := cb.ExecuteContext(ctx, func(ctx context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
	assert.Equal(t, uint32(0), cb.Counts().Requests)
}

func TestCircuitBreaker_StateChangeCallback(t *testing.T) {
	cb := newTestBreaker(50 * time.Millisecond)

	var mu sync.Mutex
	var transitions []string
	cb.SetStateChangeCallback(func(name string, from, to State) {
		// 回调在锁外执行，这里读取State不会死锁
		_ = cb.Counts()
		mu.Lock()
		transitions = append(transitions, from.String()+"->"+to.String())
		mu.Unlock()
	})

	for i := 0; i < 3; i++ {
		_ = cb.Execute(fail)
	}
	time.Sleep(80 * time.Millisecond)
	require.NoError(t, cb.Execute(ok))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"CLOSED->OPEN", "OPEN->HALF_OPEN", "HALF_OPEN->CLOSED"}, transitions)
}

func TestCircuitBreaker_Concurrent(t *testing.T) {
	cb := NewCircuitBreaker("concurrent", Config{MaxRequests: 1, Timeout: time.Minute})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = cb.Execute(ok)
		}()
	}
	wg.Wait()

	assert.Equal(t, uint32(50), cb.Counts().TotalSuccesses)
}
