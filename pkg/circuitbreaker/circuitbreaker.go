package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

var ErrOpen = errors.New("circuit breaker is open")

// Breaker counts failures inside a sliding window and opens once the count
// exceeds maxFailures. While open it serves the fallback; after the cooldown
// it half-opens and one probe decides whether it closes again.
type Breaker struct {
	maxFailures int
	window      time.Duration
	cooldown    time.Duration
	failures    []time.Time
	lastFailure time.Time
	state       State
	mu          sync.Mutex
}

func New(maxFailures int, cooldown time.Duration) *Breaker {
	return NewWithWindow(maxFailures, cooldown, 60*time.Second)
}

func NewWithWindow(maxFailures int, cooldown, window time.Duration) *Breaker {
	return &Breaker{
		maxFailures: maxFailures,
		window:      window,
		cooldown:    cooldown,
		state:       StateClosed,
		failures:    make([]time.Time, 0),
	}
}

func (b *Breaker) Execute(fn func() error, fallback func() error) error {
	if !b.allow() {
		if fallback != nil {
			return fallback()
		}
		return ErrOpen
	}

	err := fn()
	b.record(err)
	if err != nil && fallback != nil {
		return fallback()
	}
	return err
}

func (b *Breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen {
		if time.Since(b.lastFailure) < b.cooldown {
			return false
		}
		b.state = StateHalfOpen
		b.failures = b.failures[:0]
	}
	return true
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	if err != nil {
		b.lastFailure = now
		b.failures = append(b.failures, now)
		b.dropExpired(now)
		if len(b.failures) > b.maxFailures || b.state == StateHalfOpen {
			b.state = StateOpen
		}
		return
	}

	b.dropExpired(now)
	if b.state == StateHalfOpen {
		b.state = StateClosed
		b.failures = b.failures[:0]
	}
}

func (b *Breaker) dropExpired(now time.Time) {
	cutoff := now.Add(-b.window)
	kept := b.failures[:0]
	for _, failure := range b.failures {
		if failure.After(cutoff) {
			kept = append(kept, failure)
		}
	}
	b.failures = kept
}

func (b *Breaker) GetState() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
