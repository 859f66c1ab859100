package handler

import (
	"fmt"

	"github.com/MKhiriev/dev-profiles/internal/config"
	"github.com/MKhiriev/dev-profiles/internal/handler/http"
	"github.com/MKhiriev/dev-profiles/internal/logger"
	"github.com/MKhiriev/dev-profiles/internal/service"
	"github.com/MKhiriev/dev-profiles/internal/store"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, storages *store.Storages, cfg config.Server, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if cfg.HTTPAddress == "" {
		return nil, errNoHandlersAreCreated
	}

	var rateLimits store.RateLimitRepository
	if storages != nil {
		rateLimits = storages.RateLimitRepository
	}

	httpHandler, err := http.NewHandler(services, rateLimits, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating http handler: %w", err)
	}

	return &Handlers{HTTP: httpHandler}, nil
}
