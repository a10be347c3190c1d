package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRedisDown = errors.New("dial tcp 127.0.0.1:6379: connection refused")

func tripAfter(n uint32, timeout time.Duration) *CircuitBreaker {
	return NewCircuitBreaker("book-cache", Config{
		MaxRequests: 1,
		Interval:    10 * time.Second,
		Timeout:     timeout,
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= n
		},
	})
}

func fail() error { return errRedisDown }
func ok() error   { return nil }

func TestCircuitBreaker_ClosedState(t *testing.T) {
	cb := tripAfter(3, time.Minute)

	for i := 0; i < 10; i++ {
		require.NoError(t, cb.Execute(ok))
	}

	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, uint32(10), cb.Counts().TotalSuccesses)
	assert.Equal(t, "book-cache", cb.Name())
}

func TestCircuitBreaker_OpenState(t *testing.T) {
	cb := tripAfter(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(fail), errRedisDown)
	}
	require.Equal(t, StateOpen, cb.State())

	// 熔断后不再访问Redis
	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrOpenState)
	assert.False(t, called)
}

func TestCircuitBreaker_SuccessResetsConsecutiveFailures(t *testing.T) {
	cb := tripAfter(3, time.Minute)

	_ = cb.Execute(fail)
	_ = cb.Execute(fail)
	_ = cb.Execute(ok)
	_ = cb.Execute(fail)

	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, uint32(1), cb.Counts().ConsecutiveFailures)
}

func TestCircuitBreaker_HalfOpen(t *testing.T) {
	t.Run("探测成功恢复为CLOSED", func(t *testing.T) {
		cb := tripAfter(2, 50*time.Millisecond)
		_ = cb.Execute(fail)
		_ = cb.Execute(fail)
		require.Equal(t, StateOpen, cb.State())

		time.Sleep(80 * time.Millisecond)
		assert.Equal(t, StateHalfOpen, cb.State())

		require.NoError(t, cb.Execute(ok))
		assert.Equal(t, StateClosed, cb.State())
	})

	t.Run("探测失败回到OPEN", func(t *testing.T) {
		cb := tripAfter(2, 50*time.Millisecond)
		_ = cb.Execute(fail)
		_ = cb.Execute(fail)

		time.Sleep(80 * time.Millisecond)
		assert.ErrorIs(t, cb.Execute(fail), errRedisDown)
		assert.Equal(t, StateOpen, cb.State())
	})
}

func TestCircuitBreaker_StateChangeCallback(t *testing.T) {
	cb := tripAfter(2, 50*time.Millisecond)

	var changes []string
	cb.SetStateChangeCallback(func(name string, from State, to State) {
		changes = append(changes, from.String()+"->"+to.String())
	})

	_ = cb.Execute(fail)
	_ = cb.Execute(fail)
	time.Sleep(80 * time.Millisecond)
	_ = cb.Execute(ok)

	assert.Equal(t, []string{"CLOSED->OPEN", "OPEN->HALF_OPEN", "HALF_OPEN->CLOSED"}, changes)
}

func TestCircuitBreaker_FailureRate(t *testing.T) {
	cb := NewCircuitBreaker("book-cache", Config{
		Interval: time.Hour,
		Timeout:  time.Minute,
		ReadyToTrip: func(counts Counts) bool {
			return counts.Requests >= 10 && counts.FailureRate() > 0.5
		},
	})

	// 4次成功，6次失败（失败率60%）
	for i := 0; i < 10; i++ {
		if i < 4 {
			_ = cb.Execute(ok)
		} else {
			_ = cb.Execute(fail)
		}
	}
	assert.Equal(t, StateOpen, cb.State())
}

func TestNewCircuitBreaker_Defaults(t *testing.T) {
	cb := NewCircuitBreaker("book-cache", DefaultConfig())

	for i := 0; i < 4; i++ {
		_ = cb.Execute(fail)
	}
	assert.Equal(t, StateClosed, cb.State(), "默认策略连续失败5次才熔断")

	_ = cb.Execute(fail)
	assert.Equal(t, StateOpen, cb.State())
}

func BenchmarkCircuitBreaker(b *testing.B) {
	cb := NewCircuitBreaker("bench", DefaultConfig())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = cb.Execute(ok)
	}
}
