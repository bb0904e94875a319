package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrCircuitOpen     = errors.New("circuit breaker is open")
	ErrTooManyRequests = errors.New("too many requests")
)

// State represents circuit breaker state
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// CircuitBreaker protects the assistant backend from hammering a failing
// upstream. Consecutive failures open the circuit; after resetTimeout a
// single probe call is let through.
type CircuitBreaker struct {
	maxFailures  int
	resetTimeout time.Duration

	mu              sync.RWMutex
	state           State
	failures        int
	probes          int
	lastFailureTime time.Time
}

// NewCircuitBreaker creates a new circuit breaker
func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		state:        StateClosed,
	}
}

// Call executes a function with circuit breaker protection. When the
// circuit is open the call is rejected with ErrCircuitOpen without
// invoking fn.
func (cb *CircuitBreaker) Call(fn func() error) error {
	if err := cb.beforeCall(); err != nil {
		return err
	}

	err := fn()
	cb.afterCall(err)

	return err
}

func (cb *CircuitBreaker) beforeCall() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return nil

	case StateOpen:
		if time.Since(cb.lastFailureTime) > cb.resetTimeout {
			cb.state = StateHalfOpen
			cb.probes = 1
			return nil
		}
		return ErrCircuitOpen

	case StateHalfOpen:
		// One probe in flight at a time while half-open
		if cb.probes >= 1 {
			return ErrTooManyRequests
		}
		cb.probes++
		return nil
	}

	return nil
}

func (cb *CircuitBreaker) afterCall(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.failures++
		cb.lastFailureTime = time.Now()
		if cb.state == StateHalfOpen || cb.failures >= cb.maxFailures {
			cb.state = StateOpen
		}
		cb.probes = 0
		return
	}

	// Any success closes the circuit and clears the failure run
	cb.state = StateClosed
	cb.failures = 0
	cb.probes = 0
}

// State returns current circuit breaker state
func (cb *CircuitBreaker) State() State {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

// Stats returns the current state and consecutive failure count
func (cb *CircuitBreaker) Stats() (state State, failures int) {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state, cb.failures
}

// Reset forces the breaker back to closed
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.state = StateClosed
	cb.failures = 0
	cb.probes = 0
}
