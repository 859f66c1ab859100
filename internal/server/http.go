package server

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/MKhiriev/dev-profiles/internal/config"
)

type httpServer struct {
	server *http.Server

	mu       sync.Mutex
	listener net.Listener
}

func newHTTPServer(handler http.Handler, cfg config.Server) *httpServer {
	return &httpServer{
		server: &http.Server{
			Addr:              cfg.HTTPAddress,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       2 * time.Minute,
		},
	}
}

// RunServer listens on the configured address and serves until Shutdown.
// It returns [http.ErrServerClosed] after a graceful stop.
func (h *httpServer) RunServer() error {
	ln, err := net.Listen("tcp", h.server.Addr)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.listener = ln
	h.mu.Unlock()

	return h.server.Serve(ln)
}

func (h *httpServer) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// addr reports the bound listener address, or nil before RunServer binds.
func (h *httpServer) addr() net.Addr {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.listener == nil {
		return nil
	}
	return h.listener.Addr()
}
