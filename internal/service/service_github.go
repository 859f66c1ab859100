package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/dev-profiles/internal/adapter"
	"github.com/MKhiriev/dev-profiles/internal/logger"
	"github.com/MKhiriev/dev-profiles/internal/store"
	"github.com/MKhiriev/dev-profiles/internal/validators"
	"github.com/MKhiriev/dev-profiles/models"
)

type gitHubService struct {
	profiles  store.ProfileRepository
	github    adapter.GitHubClient
	validator validators.Validator
	now       func() time.Time

	logger *logger.Logger
}

func NewGitHubService(profiles store.ProfileRepository, github adapter.GitHubClient, validator validators.Validator, logger *logger.Logger) GitHubService {
	return &gitHubService{
		profiles:  profiles,
		github:    github,
		validator: validator,
		now:       time.Now,
		logger:    logger,
	}
}

// SyncGitHubProfile fetches the GitHub account linked to accountID and stores
// the snapshot. The handle comes from the stored GitHub username or, when
// none is stored yet, from the GitHub URL.
func (g *gitHubService) SyncGitHubProfile(ctx context.Context, accountID string) (models.ProfileView, error) {
	if accountID == "" {
		return models.ProfileView{}, ErrMissingIdentity
	}

	record, err := g.profiles.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return models.ProfileView{}, ErrProfileNotFound
		}
		return models.ProfileView{}, fmt.Errorf("error loading profile: %w", err)
	}

	handle, err := linkedHandle(record.Account)
	if err != nil {
		return models.ProfileView{}, err
	}

	snapshot, user, syncedAt, err := g.fetchAndStore(ctx, accountID, handle)
	if err != nil {
		return models.ProfileView{}, err
	}

	record.Account.GitHubUsername = user.Login
	record.GitHub = &snapshot
	record.GitHubSyncedAt = &syncedAt
	if record.Profile.Location == "" {
		record.Profile.Location = user.Location
	}

	return record.View(true), nil
}

func (g *gitHubService) GetGitHubProfile(ctx context.Context, handle string) (models.GitHubProfileView, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return models.GitHubProfileView{}, ErrGitHubUsernameRequired
	}

	record, err := g.profiles.GetByGitHubUsername(ctx, handle)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return models.GitHubProfileView{}, ErrProfileNotFound
		}
		return models.GitHubProfileView{}, fmt.Errorf("error loading github profile: %w", err)
	}

	return gitHubView(record), nil
}

// UpdateGitHubProfile links handle to the account and, when provided,
// replaces the stored stats block.
func (g *gitHubService) UpdateGitHubProfile(ctx context.Context, accountID string, update models.GitHubProfileUpdate) (models.GitHubProfileView, error) {
	if accountID == "" {
		return models.GitHubProfileView{}, ErrMissingIdentity
	}

	update.GitHubUsername = strings.TrimSpace(update.GitHubUsername)
	if err := g.validator.Validate(ctx, update); err != nil {
		return models.GitHubProfileView{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	if update.GitHubUsername == "" {
		return models.GitHubProfileView{}, ErrGitHubUsernameRequired
	}
	if update.GitHubStats != nil && update.GitHubStats.LastUpdated.IsZero() {
		update.GitHubStats.LastUpdated = g.now()
	}

	err := g.profiles.UpdateGitHubStats(ctx, accountID, update.GitHubUsername, update.GitHubStats)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return models.GitHubProfileView{}, ErrProfileNotFound
		}
		return models.GitHubProfileView{}, fmt.Errorf("error updating github profile: %w", err)
	}

	record, err := g.profiles.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return models.GitHubProfileView{}, ErrProfileNotFound
		}
		return models.GitHubProfileView{}, fmt.Errorf("error loading github profile: %w", err)
	}

	return gitHubView(record), nil
}

func (g *gitHubService) ExtractGitHubUsername(_ context.Context, rawURL string) (string, error) {
	return StrictGitHubUsername(rawURL)
}

// SyncStale refreshes the oldest snapshots first. A failure for one account
// is logged and does not stop the batch.
func (g *gitHubService) SyncStale(ctx context.Context, staleBefore time.Time, limit int) (int, error) {
	log := logger.FromContext(ctx)

	accounts, err := g.profiles.ListStaleGitHub(ctx, staleBefore, limit)
	if err != nil {
		return 0, fmt.Errorf("error listing stale github profiles: %w", err)
	}

	synced := 0
	for _, account := range accounts {
		if err = ctx.Err(); err != nil {
			return synced, err
		}

		handle, err := linkedHandle(account)
		if err != nil {
			log.Debug().Str("account_id", account.ID).Str("github_url", account.GitHubURL).Msg("skipping account without a usable github link")
			continue
		}

		if _, _, _, err = g.fetchAndStore(ctx, account.ID, handle); err != nil {
			log.Warn().Err(err).Str("account_id", account.ID).Str("handle", handle).Msg("github sync failed")
			continue
		}
		synced++
	}

	return synced, nil
}

func (g *gitHubService) fetchAndStore(ctx context.Context, accountID, handle string) (models.GitHubProfile, models.GitHubUser, time.Time, error) {
	user, err := g.github.GetUser(ctx, handle)
	if err != nil {
		if errors.Is(err, adapter.ErrGitHubUserNotFound) {
			return models.GitHubProfile{}, models.GitHubUser{}, time.Time{}, ErrGitHubUserNotFound
		}
		return models.GitHubProfile{}, models.GitHubUser{}, time.Time{}, fmt.Errorf("%w: %w", ErrGitHubUnavailable, err)
	}
	if user.Login == "" {
		user.Login = handle
	}

	syncedAt := g.now()
	snapshot := models.NewGitHubProfile(user, syncedAt)

	err = g.profiles.SaveGitHubSnapshot(ctx, accountID, user.Login, snapshot, user.Location, syncedAt)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return models.GitHubProfile{}, models.GitHubUser{}, time.Time{}, ErrProfileNotFound
		}
		return models.GitHubProfile{}, models.GitHubUser{}, time.Time{}, fmt.Errorf("error saving github snapshot: %w", err)
	}

	return snapshot, user, syncedAt, nil
}

func linkedHandle(account models.Account) (string, error) {
	if account.GitHubUsername != "" {
		return account.GitHubUsername, nil
	}
	if account.GitHubURL == "" {
		return "", ErrGitHubUsernameRequired
	}
	return StrictGitHubUsername(account.GitHubURL)
}

func gitHubView(record models.ProfileRecord) models.GitHubProfileView {
	view := models.GitHubProfileView{
		ID:             record.Account.ID,
		GitHubUsername: record.Account.GitHubUsername,
		Location:       record.Profile.Location,
	}
	if record.GitHub != nil {
		view.GitHubProfile = *record.GitHub
	}
	return view
}
