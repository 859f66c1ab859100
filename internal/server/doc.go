// Package server wires and runs the application's HTTP transport.
//
// It owns the server lifecycle: startup, waiting on the root context, and
// graceful shutdown with a bounded timeout.
package server
