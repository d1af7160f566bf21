// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-pass-vault/internal/logger"
)

const defaultCheckInterval = time.Minute

// AutoLocker locks a vault session once it has been idle for timeout.
type AutoLocker struct {
	locker   IdleLocker
	timeout  time.Duration
	interval time.Duration
	logger   *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewAutoLocker creates an AutoLocker that checks locker every interval.
// A non-positive interval defaults to a quarter of timeout, or one minute
// when that is zero too. The worker is idle until Run is called.
func NewAutoLocker(locker IdleLocker, timeout, interval time.Duration, log *logger.Logger) *AutoLocker {
	if interval <= 0 {
		interval = timeout / 4
	}
	if interval <= 0 {
		interval = defaultCheckInterval
	}
	return &AutoLocker{
		locker:   locker,
		timeout:  timeout,
		interval: interval,
		logger:   log,
	}
}

// Run implements [Worker]. It stops any previously running loop, then
// launches a goroutine that calls LockIfIdle on every tick. A non-positive
// timeout disables auto-lock and Run returns without starting anything.
func (a *AutoLocker) Run(ctx context.Context) {
	if a.timeout <= 0 {
		a.logger.Debug().Str("func", "*AutoLocker.Run").Msg("auto-lock disabled")
		return
	}

	a.Stop()

	a.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.wg.Add(1)
	a.mu.Unlock()

	go func() {
		defer a.wg.Done()
		t := time.NewTicker(a.interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				if a.locker.LockIfIdle(a.timeout) {
					a.logger.Info().
						Str("func", "*AutoLocker.Run").
						Str("identity", a.locker.Identity()).
						Dur("idle_timeout", a.timeout).
						Msg("vault auto-locked after inactivity")
				}
			}
		}
	}()
}

// Stop implements [Worker]. It cancels the loop and blocks until the
// goroutine has exited. Safe to call when the worker is not running.
func (a *AutoLocker) Stop() {
	a.mu.Lock()
	cancel := a.cancel
	a.cancel = nil
	a.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	a.wg.Wait()
}
