// Package workers provides abstractions for managing and running
// background workers in the engine.
// It defines the Worker interface and a Workers aggregate that allows
// starting and stopping multiple workers in a unified way.
package workers

import (
	"context"
	"time"
)

// Worker is the interface that must be implemented by any background worker.
//
// Run starts the worker and returns immediately; the work continues on a
// goroutine until ctx is cancelled or Stop is called. Stop blocks until that
// goroutine has exited and is a no-op for a worker that is not running.
//
// Example implementation:
//
//	type MyWorker struct{}
//
//	func (w *MyWorker) Run(ctx context.Context) {
//	    // start background processing
//	}
//
//	func (w *MyWorker) Stop() {}
type Worker interface {
	Run(ctx context.Context)
	Stop()
}

// IdleLocker is the part of a vault session the auto-lock worker needs.
type IdleLocker interface {
	LockIfIdle(timeout time.Duration) bool
	Identity() string
}
