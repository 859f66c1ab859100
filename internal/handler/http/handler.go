package http

import (
	"fmt"
	"time"

	"github.com/MKhiriev/dev-profiles/internal/config"
	"github.com/MKhiriev/dev-profiles/internal/logger"
	"github.com/MKhiriev/dev-profiles/internal/service"
	"github.com/MKhiriev/dev-profiles/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type Handler struct {
	services *service.Services

	rateLimits store.RateLimitRepository
	registry   *prometheus.Registry
	metrics    *httpMetrics

	cfg config.Server
	now func() time.Time

	logger *logger.Logger
}

// NewHandler builds the HTTP handler. rateLimits may be nil, in which case
// requests are never throttled.
func NewHandler(services *service.Services, rateLimits store.RateLimitRepository, cfg config.Server, logger *logger.Logger) (*Handler, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	metrics, err := newHTTPMetrics(registry, metricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("error creating http metrics: %w", err)
	}

	logger.Info().Msg("http handler created")
	return &Handler{
		services:   services,
		rateLimits: rateLimits,
		registry:   registry,
		metrics:    metrics,
		cfg:        cfg,
		now:        time.Now,
		logger:     logger,
	}, nil
}
