package resilience

import (
	"errors"
	"testing"
	"time"

	"health-connect-demo/backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBreaker(failureThreshold uint, retryTimeout time.Duration) *CircuitBreaker {
	return NewCircuitBreaker(Config{
		Name:             "test",
		FailureThreshold: failureThreshold,
		SuccessThreshold: 1,
		RetryTimeout:     retryTimeout,
	}, logger.GetGlobal())
}

func TestOpensAfterThreshold(t *testing.T) {
	cb := newTestBreaker(3, time.Minute)
	boom := errors.New("provider down")

	for i := 0; i < 3; i++ {
		err := cb.Execute(func() error { return boom })
		require.ErrorIs(t, err, boom)
	}

	assert.Equal(t, StateOpen, cb.GetState())

	err := cb.Execute(func() error { return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestSuccessResetsFailureCount(t *testing.T) {
	cb := newTestBreaker(3, time.Minute)
	boom := errors.New("flaky")

	cb.Execute(func() error { return boom })
	cb.Execute(func() error { return boom })
	cb.Execute(func() error { return nil })
	cb.Execute(func() error { return boom })
	cb.Execute(func() error { return boom })

	assert.Equal(t, StateClosed, cb.GetState())
}

func TestHalfOpenRecovery(t *testing.T) {
	cb := newTestBreaker(1, 10*time.Millisecond)

	cb.Execute(func() error { return errors.New("down") })
	require.Equal(t, StateOpen, cb.GetState())

	time.Sleep(20 * time.Millisecond)

	err := cb.Execute(func() error { return nil })
	require.NoError(t, err)
	assert.Equal(t, StateClosed, cb.GetState())
}
