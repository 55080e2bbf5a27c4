package advisor

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var errCircuitOpen = errors.New("advisor: circuit breaker is open")

type breakerState int

const (
	stateClosed breakerState = iota
	stateOpen
	stateHalfOpen
)

// breaker stops calling the model after threshold consecutive failures and
// lets a single trial call through once resetTimeout has passed.
type breaker struct {
	mu           sync.Mutex
	state        breakerState
	failureCount int
	threshold    int
	resetTimeout time.Duration
	lastFailure  time.Time
	now          func() time.Time
}

func newBreaker(threshold int, resetTimeout time.Duration) *breaker {
	if threshold < 1 {
		threshold = 1
	}
	return &breaker{
		threshold:    threshold,
		resetTimeout: resetTimeout,
		state:        stateClosed,
		now:          time.Now,
	}
}

func (b *breaker) execute(action func() (string, error)) (string, error) {
	b.mu.Lock()
	switch b.state {
	case stateOpen:
		if b.now().Sub(b.lastFailure) <= b.resetTimeout {
			b.mu.Unlock()
			return "", errCircuitOpen
		}
		logrus.Info("advisor.breaker.half-open")
		b.state = stateHalfOpen
	case stateHalfOpen:
		// One trial call at a time.
		b.mu.Unlock()
		return "", errCircuitOpen
	}
	b.mu.Unlock()

	result, err := action()

	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.failureCount++
		b.lastFailure = b.now()
		if b.state == stateHalfOpen || b.failureCount >= b.threshold {
			if b.state != stateOpen {
				logrus.WithField("failures", b.failureCount).Warn("advisor.breaker.open")
			}
			b.state = stateOpen
		}
		return "", err
	}

	if b.state == stateHalfOpen {
		logrus.Info("advisor.breaker.closed")
	}
	b.state = stateClosed
	b.failureCount = 0
	return result, nil
}
