package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/dev-profiles/internal/store"
	"github.com/MKhiriev/dev-profiles/models"
)

// memAccountRepository is an in-memory store.AccountRepository that applies
// the same conditional updates as the SQL implementation.
type memAccountRepository struct {
	mu       sync.Mutex
	accounts map[string]models.Account

	// failNext, when set, is returned by the next call and then cleared.
	failNext error
}

func newMemAccountRepository() *memAccountRepository {
	return &memAccountRepository{accounts: map[string]models.Account{}}
}

func (m *memAccountRepository) takeFailure() error {
	err := m.failNext
	m.failNext = nil
	return err
}

func (m *memAccountRepository) Create(_ context.Context, account models.Account) (models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return models.Account{}, err
	}

	for _, existing := range m.accounts {
		switch {
		case existing.Email == account.Email:
			return models.Account{}, store.ErrEmailAlreadyExists
		case existing.Username == account.Username:
			return models.Account{}, store.ErrUsernameAlreadyExists
		}
	}

	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	m.accounts[account.ID] = account
	return account, nil
}

func (m *memAccountRepository) find(match func(models.Account) bool) (models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return models.Account{}, err
	}

	for _, account := range m.accounts {
		if match(account) {
			return account, nil
		}
	}
	return models.Account{}, store.ErrAccountNotFound
}

func (m *memAccountRepository) FindByID(_ context.Context, id string) (models.Account, error) {
	return m.find(func(a models.Account) bool { return a.ID == id })
}

func (m *memAccountRepository) FindByEmail(_ context.Context, email string) (models.Account, error) {
	return m.find(func(a models.Account) bool { return a.Email == email })
}

func (m *memAccountRepository) FindByEmailOrUsername(_ context.Context, email, username string) (models.Account, error) {
	return m.find(func(a models.Account) bool { return a.Email == email || a.Username == username })
}

func (m *memAccountRepository) FindByRefreshTokenHash(_ context.Context, hash string, now time.Time) (models.Account, error) {
	return m.find(func(a models.Account) bool {
		return a.RefreshTokenHash == hash && a.RefreshTokenExpiry != nil && a.RefreshTokenExpiry.After(now)
	})
}

func (m *memAccountRepository) update(id string, apply func(*models.Account) bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return false, err
	}

	account, ok := m.accounts[id]
	if !ok {
		return false, store.ErrAccountNotFound
	}
	if !apply(&account) {
		return false, nil
	}
	m.accounts[id] = account
	return true, nil
}

func (m *memAccountRepository) ClearExpiredLock(_ context.Context, id string, now time.Time) (bool, error) {
	cleared, err := m.update(id, func(a *models.Account) bool {
		if !a.AccountLocked || (a.LockUntil != nil && a.LockUntil.After(now)) {
			return false
		}
		a.AccountLocked, a.LockUntil, a.FailedLoginAttempts = false, nil, 0
		return true
	})
	if err == store.ErrAccountNotFound {
		return false, nil
	}
	return cleared, err
}

func (m *memAccountRepository) RecordFailedLogin(_ context.Context, id string, threshold int, lockUntil time.Time) (models.LoginFailure, error) {
	var failure models.LoginFailure
	_, err := m.update(id, func(a *models.Account) bool {
		a.FailedLoginAttempts++
		a.AccountLocked = a.FailedLoginAttempts >= threshold
		a.LockUntil = nil
		if a.AccountLocked {
			until := lockUntil
			a.LockUntil = &until
		}
		failure = models.LoginFailure{Attempts: a.FailedLoginAttempts, Locked: a.AccountLocked, LockUntil: a.LockUntil}
		return true
	})
	return failure, err
}

func (m *memAccountRepository) RecordSuccessfulLogin(_ context.Context, id string, session models.Session, now time.Time) error {
	applied, err := m.update(id, func(a *models.Account) bool {
		if a.AccountLocked && a.LockUntil != nil && a.LockUntil.After(now) {
			return false
		}
		a.FailedLoginAttempts, a.AccountLocked, a.LockUntil = 0, false, nil
		lastLogin, expiry := now, session.ExpiresAt
		a.LastLogin = &lastLogin
		a.RefreshTokenHash = session.RefreshTokenHash
		a.RefreshTokenExpiry = &expiry
		return true
	})
	if err == nil && !applied {
		return store.ErrAccountLocked
	}
	return err
}

func (m *memAccountRepository) RotateRefreshToken(_ context.Context, id, oldHash string, session models.Session, now time.Time) error {
	rotated, err := m.update(id, func(a *models.Account) bool {
		if a.RefreshTokenHash != oldHash || a.RefreshTokenExpiry == nil || !a.RefreshTokenExpiry.After(now) {
			return false
		}
		expiry := session.ExpiresAt
		a.RefreshTokenHash = session.RefreshTokenHash
		a.RefreshTokenExpiry = &expiry
		return true
	})
	if err == store.ErrAccountNotFound || (err == nil && !rotated) {
		return store.ErrRefreshTokenNotRotated
	}
	return err
}

func (m *memAccountRepository) ClearRefreshToken(_ context.Context, id string) error {
	_, err := m.update(id, func(a *models.Account) bool {
		a.RefreshTokenHash, a.RefreshTokenExpiry = "", nil
		return true
	})
	return err
}

func (m *memAccountRepository) Unlock(_ context.Context, id string) error {
	_, err := m.update(id, func(a *models.Account) bool {
		a.FailedLoginAttempts, a.AccountLocked, a.LockUntil = 0, false, nil
		return true
	})
	return err
}

func (m *memAccountRepository) get(id string) models.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accounts[id]
}

// profileRepositoryMock is a fn-field store.ProfileRepository.
type profileRepositoryMock struct {
	GetByIDFunc             func(ctx context.Context, id string) (models.ProfileRecord, error)
	GetByUsernameFunc       func(ctx context.Context, username string) (models.ProfileRecord, error)
	GetByGitHubUsernameFunc func(ctx context.Context, handle string) (models.ProfileRecord, error)
	UpdateProfileFunc       func(ctx context.Context, record models.ProfileRecord, resetGitHub bool) error
	SaveGitHubSnapshotFunc  func(ctx context.Context, id, handle string, snapshot models.GitHubProfile, location string, syncedAt time.Time) error
	UpdateGitHubStatsFunc   func(ctx context.Context, id, handle string, stats *models.GitHubStats) error
	ListStaleGitHubFunc     func(ctx context.Context, staleBefore time.Time, limit int) ([]models.Account, error)
}

func (m *profileRepositoryMock) GetByID(ctx context.Context, id string) (models.ProfileRecord, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *profileRepositoryMock) GetByUsername(ctx context.Context, username string) (models.ProfileRecord, error) {
	return m.GetByUsernameFunc(ctx, username)
}

func (m *profileRepositoryMock) GetByGitHubUsername(ctx context.Context, handle string) (models.ProfileRecord, error) {
	return m.GetByGitHubUsernameFunc(ctx, handle)
}

func (m *profileRepositoryMock) UpdateProfile(ctx context.Context, record models.ProfileRecord, resetGitHub bool) error {
	return m.UpdateProfileFunc(ctx, record, resetGitHub)
}

func (m *profileRepositoryMock) SaveGitHubSnapshot(ctx context.Context, id, handle string, snapshot models.GitHubProfile, location string, syncedAt time.Time) error {
	return m.SaveGitHubSnapshotFunc(ctx, id, handle, snapshot, location, syncedAt)
}

func (m *profileRepositoryMock) UpdateGitHubStats(ctx context.Context, id, handle string, stats *models.GitHubStats) error {
	return m.UpdateGitHubStatsFunc(ctx, id, handle, stats)
}

func (m *profileRepositoryMock) ListStaleGitHub(ctx context.Context, staleBefore time.Time, limit int) ([]models.Account, error) {
	return m.ListStaleGitHubFunc(ctx, staleBefore, limit)
}

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
