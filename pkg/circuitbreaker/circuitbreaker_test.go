package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errDownstream = errors.New("downstream failed")

func TestBreakerStaysClosedOnSuccess(t *testing.T) {
	breaker := New(2, time.Minute)

	for i := 0; i < 10; i++ {
		err := breaker.Execute(func() error { return nil }, nil)
		assert.NoError(t, err)
	}
	assert.Equal(t, StateClosed, breaker.GetState())
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	breaker := New(2, time.Minute)

	for i := 0; i < 3; i++ {
		_ = breaker.Execute(func() error { return errDownstream }, nil)
	}
	assert.Equal(t, StateOpen, breaker.GetState())

	// open breaker never calls the wrapped function
	called := false
	err := breaker.Execute(func() error {
		called = true
		return nil
	}, nil)
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, called)
}

func TestBreakerServesFallbackWhenOpen(t *testing.T) {
	breaker := New(1, time.Minute)

	for i := 0; i < 3; i++ {
		_ = breaker.Execute(func() error { return errDownstream }, nil)
	}

	fallbackCalled := false
	err := breaker.Execute(func() error { return errDownstream }, func() error {
		fallbackCalled = true
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, fallbackCalled)
}

func TestBreakerRecoversAfterCooldown(t *testing.T) {
	breaker := New(1, 10*time.Millisecond)

	for i := 0; i < 3; i++ {
		_ = breaker.Execute(func() error { return errDownstream }, nil)
	}
	assert.Equal(t, StateOpen, breaker.GetState())

	time.Sleep(20 * time.Millisecond)

	err := breaker.Execute(func() error { return nil }, nil)
	assert.NoError(t, err)
	assert.Equal(t, StateClosed, breaker.GetState())
}

func TestBreakerReopensOnHalfOpenFailure(t *testing.T) {
	breaker := New(1, 10*time.Millisecond)

	for i := 0; i < 3; i++ {
		_ = breaker.Execute(func() error { return errDownstream }, nil)
	}
	time.Sleep(20 * time.Millisecond)

	err := breaker.Execute(func() error { return errDownstream }, nil)
	assert.ErrorIs(t, err, errDownstream)
	assert.Equal(t, StateOpen, breaker.GetState())
}
