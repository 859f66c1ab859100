package service

import (
	"fmt"

	"github.com/MKhiriev/dev-profiles/internal/adapter"
	"github.com/MKhiriev/dev-profiles/internal/config"
	"github.com/MKhiriev/dev-profiles/internal/logger"
	"github.com/MKhiriev/dev-profiles/internal/store"
	"github.com/MKhiriev/dev-profiles/internal/validators"
	"github.com/MKhiriev/dev-profiles/models"
)

type Services struct {
	AuthService    AuthService
	ProfileService ProfileService
	GitHubService  GitHubService
	ContactService ContactService
	AppInfoService AppInfoService
}

// Adapters groups the external clients the services call.
type Adapters struct {
	GitHub adapter.GitHubClient
	Mailer adapter.Mailer
}

func NewServices(storages *store.Storages, adapters Adapters, cfg *config.StructuredConfig, buildInfo models.AppBuildInfo, logger *logger.Logger) (*Services, error) {
	validator := validators.NewStructValidator()

	authService, err := NewAuthService(storages.AccountRepository, cfg.App, validator, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating auth service: %w", err)
	}

	appInfoService, err := NewAppInfoService(cfg.App, buildInfo, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating app info service: %w", err)
	}

	return &Services{
		AuthService:    authService,
		ProfileService: NewProfileService(storages.ProfileRepository, validator, logger),
		GitHubService:  NewGitHubService(storages.ProfileRepository, adapters.GitHub, validator, logger),
		ContactService: NewContactService(adapters.Mailer, validator, logger),
		AppInfoService: appInfoService,
	}, nil
}
