package server

import "context"

// Server defines the lifecycle contract for transport servers managed by
// this package.
type Server interface {
	// RunServer starts serving requests and blocks until ctx is cancelled
	// or the listener fails. Cancellation triggers a graceful shutdown.
	RunServer(ctx context.Context) error
}
