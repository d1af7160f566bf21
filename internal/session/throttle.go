package session

import (
	"fmt"
	"sync"
	"time"
)

// throttle delays unlock attempts after consecutive failures: after n
// failures the next attempt is allowed base·2^(n-1) after the last one,
// capped at max. A zero base disables it.
type throttle struct {
	mu       sync.Mutex
	base     time.Duration
	max      time.Duration
	failures int
	last     time.Time
}

func newThrottle(base, max time.Duration) *throttle {
	if max < base {
		max = base
	}
	return &throttle{base: base, max: max}
}

// allow returns ErrUnlockThrottled when now is inside the backoff window.
func (t *throttle) allow(now time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.base <= 0 || t.failures == 0 {
		return nil
	}

	until := t.last.Add(t.delay())
	if now.Before(until) {
		return fmt.Errorf("%w: retry in %s", ErrUnlockThrottled, until.Sub(now).Round(time.Millisecond))
	}
	return nil
}

func (t *throttle) fail(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.failures++
	t.last = now
}

func (t *throttle) reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.failures = 0
	t.last = time.Time{}
}

// delay must be called with mu held.
func (t *throttle) delay() time.Duration {
	shift := t.failures - 1
	if shift >= 32 {
		return t.max
	}
	d := t.base << shift
	if d <= 0 || d > t.max {
		return t.max
	}
	return d
}
