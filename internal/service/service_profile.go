package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/dev-profiles/internal/logger"
	"github.com/MKhiriev/dev-profiles/internal/store"
	"github.com/MKhiriev/dev-profiles/internal/validators"
	"github.com/MKhiriev/dev-profiles/models"
)

type profileService struct {
	profiles  store.ProfileRepository
	validator validators.Validator

	logger *logger.Logger
}

func NewProfileService(profiles store.ProfileRepository, validator validators.Validator, logger *logger.Logger) ProfileService {
	return &profileService{
		profiles:  profiles,
		validator: validator,
		logger:    logger,
	}
}

// GetProfile returns the caller's own profile, email included.
func (p *profileService) GetProfile(ctx context.Context, accountID string) (models.ProfileView, error) {
	if accountID == "" {
		return models.ProfileView{}, ErrMissingIdentity
	}

	record, err := p.load(ctx, p.profiles.GetByID, accountID)
	if err != nil {
		return models.ProfileView{}, err
	}
	return record.View(true), nil
}

// GetProfileByUsername returns the public profile of username.
func (p *profileService) GetProfileByUsername(ctx context.Context, username string) (models.ProfileView, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return models.ProfileView{}, ErrProfileNotFound
	}

	record, err := p.load(ctx, p.profiles.GetByUsername, username)
	if err != nil {
		return models.ProfileView{}, err
	}
	return record.View(false), nil
}

// UpdateProfile applies update to the stored profile. Every key the client
// sent replaces the stored value, empty values included; other keys are kept.
// An empty display name falls back to the username.
//
// A changed GitHub URL re-derives the linked handle and drops the previous
// GitHub snapshot, so the sync worker picks the account up next.
func (p *profileService) UpdateProfile(ctx context.Context, accountID string, update models.ProfileUpdate) (models.ProfileView, error) {
	log := logger.FromContext(ctx)

	if accountID == "" {
		return models.ProfileView{}, ErrMissingIdentity
	}

	update.DisplayName = strings.TrimSpace(update.DisplayName)
	update.GitHubURL = strings.TrimSpace(update.GitHubURL)
	if err := p.validator.Validate(ctx, update); err != nil {
		return models.ProfileView{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	record, err := p.load(ctx, p.profiles.GetByID, accountID)
	if err != nil {
		return models.ProfileView{}, err
	}

	if record.Profile, err = update.Apply(record.Profile); err != nil {
		return models.ProfileView{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	if update.Has("displayName") {
		record.Account.DisplayName = update.DisplayName
		if record.Account.DisplayName == "" {
			record.Account.DisplayName = record.Account.Username
		}
	}

	githubChanged := update.Has("githubUrl") && update.GitHubURL != record.Account.GitHubURL
	if githubChanged {
		record.Account.GitHubURL = update.GitHubURL
		record.Account.GitHubUsername, _ = LenientGitHubUsername(update.GitHubURL)
		record.GitHub = nil
		record.GitHubSyncedAt = nil
	}

	if err = p.profiles.UpdateProfile(ctx, record, githubChanged); err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return models.ProfileView{}, ErrProfileNotFound
		}
		log.Err(err).Str("func", "*profileService.UpdateProfile").Msg("error saving profile")
		return models.ProfileView{}, fmt.Errorf("error saving profile: %w", err)
	}
	if githubChanged {
		log.Info().Str("account_id", accountID).Str("handle", record.Account.GitHubUsername).Msg("github link changed, snapshot reset")
	}

	return record.View(true), nil
}

func (p *profileService) load(ctx context.Context, get func(context.Context, string) (models.ProfileRecord, error), key string) (models.ProfileRecord, error) {
	record, err := get(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return models.ProfileRecord{}, ErrProfileNotFound
		}
		return models.ProfileRecord{}, fmt.Errorf("error loading profile: %w", err)
	}
	return record, nil
}
