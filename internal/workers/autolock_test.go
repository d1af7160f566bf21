package workers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-pass-vault/internal/logger"
)

// spyLocker считает вызовы LockIfIdle и сообщает, что сессия заблокирована
// начиная с вызова lockAt.
type spyLocker struct {
	calls  atomic.Int64
	lockAt int64
}

func (s *spyLocker) LockIfIdle(time.Duration) bool {
	n := s.calls.Add(1)
	return s.lockAt > 0 && n >= s.lockAt
}

func (s *spyLocker) Identity() string { return "alice" }

// ── NewAutoLocker ────────────────────────────────────────────────────────────

func TestNewAutoLocker_DefaultInterval(t *testing.T) {
	a := NewAutoLocker(&spyLocker{}, 8*time.Minute, 0, logger.Nop())
	assert.Equal(t, 2*time.Minute, a.interval)

	a = NewAutoLocker(&spyLocker{}, 0, 0, logger.Nop())
	assert.Equal(t, defaultCheckInterval, a.interval)

	a = NewAutoLocker(&spyLocker{}, time.Minute, time.Second, logger.Nop())
	assert.Equal(t, time.Second, a.interval)
}

// ── Run / Stop ───────────────────────────────────────────────────────────────

func TestAutoLocker_Run_ChecksPeriodically(t *testing.T) {
	spy := &spyLocker{lockAt: 2}
	a := NewAutoLocker(spy, time.Minute, 10*time.Millisecond, logger.Nop())

	// Интервал 10ms: за 55ms должно быть ~5 тиков
	a.Run(context.Background())
	time.Sleep(55 * time.Millisecond)
	a.Stop()

	got := spy.calls.Load()
	assert.GreaterOrEqual(t, got, int64(3), "LockIfIdle должен быть вызван несколько раз, вызвано: %d", got)
}

func TestAutoLocker_Stop_StopsGoroutine(t *testing.T) {
	spy := &spyLocker{}
	a := NewAutoLocker(spy, time.Minute, 10*time.Millisecond, logger.Nop())

	a.Run(context.Background())
	time.Sleep(30 * time.Millisecond)
	a.Stop()

	callsAfterStop := spy.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, callsAfterStop, spy.calls.Load(), "после Stop новых вызовов быть не должно")
}

func TestAutoLocker_ContextCancel(t *testing.T) {
	spy := &spyLocker{}
	a := NewAutoLocker(spy, time.Minute, 10*time.Millisecond, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	a.Run(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		a.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after context cancellation")
	}
}

func TestAutoLocker_Disabled(t *testing.T) {
	spy := &spyLocker{}
	a := NewAutoLocker(spy, 0, 10*time.Millisecond, logger.Nop())

	a.Run(context.Background())
	time.Sleep(30 * time.Millisecond)
	a.Stop()

	assert.Zero(t, spy.calls.Load())
}

func TestAutoLocker_RunTwice_RestartsLoop(t *testing.T) {
	spy := &spyLocker{}
	a := NewAutoLocker(spy, time.Minute, 10*time.Millisecond, logger.Nop())

	a.Run(context.Background())
	a.Run(context.Background())
	time.Sleep(25 * time.Millisecond)
	a.Stop()

	require.NotPanics(t, a.Stop)
}

func TestAutoLocker_ImplementsWorker(t *testing.T) {
	var _ Worker = NewAutoLocker(&spyLocker{}, time.Minute, 0, logger.Nop())
}
