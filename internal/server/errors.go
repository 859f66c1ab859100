// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

var (
	// ErrNoHTTPHandler is returned by NewServer without an HTTP handler or address.
	ErrNoHTTPHandler = errors.New("no http handler or address configured")
	// ErrListen wraps failures to bind or serve the HTTP listener.
	ErrListen = errors.New("http server stopped")
	// ErrShutdown wraps a graceful shutdown that did not finish in time.
	ErrShutdown = errors.New("http server shutdown")
)
