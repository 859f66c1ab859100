// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that runs
// several workers side by side until their context is cancelled.
package workers

import (
	"context"
	"time"
)

// Worker is the interface that must be implemented by any background worker.
//
// Run blocks until ctx is cancelled or the worker fails. Returning nil after
// cancellation is the normal way to stop.
//
// Example implementation:
//
//	type MyWorker struct{}
//
//	func (w *MyWorker) Run(ctx context.Context) error {
//	    <-ctx.Done()
//	    return nil
//	}
type Worker interface {
	Run(ctx context.Context) error
}

// GitHubSyncer refreshes stale GitHub snapshots.
type GitHubSyncer interface {
	SyncStale(ctx context.Context, staleBefore time.Time, limit int) (int, error)
}
