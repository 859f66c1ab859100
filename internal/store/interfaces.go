package store

import (
	"context"
	"time"

	"github.com/MKhiriev/dev-profiles/models"
)

// AccountRepository persists accounts and their authentication state.
//
// Every state transition of the lockout counters and of the refresh token is
// a single conditional statement, so concurrent requests for the same account
// cannot lose updates.
type AccountRepository interface {
	// Create inserts the account, including its first refresh token digest.
	Create(ctx context.Context, account models.Account) (models.Account, error)

	FindByID(ctx context.Context, id string) (models.Account, error)
	FindByEmail(ctx context.Context, email string) (models.Account, error)
	// FindByEmailOrUsername returns any account holding either value.
	FindByEmailOrUsername(ctx context.Context, email, username string) (models.Account, error)
	// FindByRefreshTokenHash returns the account whose stored digest equals
	// hash and whose refresh token expires after now.
	FindByRefreshTokenHash(ctx context.Context, hash string, now time.Time) (models.Account, error)

	// ClearExpiredLock resets a lock whose lock_until is NULL or not after
	// now. It reports whether a lock was cleared.
	ClearExpiredLock(ctx context.Context, id string, now time.Time) (bool, error)
	// RecordFailedLogin atomically increments the failure counter and locks
	// the account until lockUntil once the new count reaches threshold.
	RecordFailedLogin(ctx context.Context, id string, threshold int, lockUntil time.Time) (models.LoginFailure, error)
	// RecordSuccessfulLogin resets the lockout state, stamps last_login and
	// stores the new session. It returns [ErrAccountLocked] when the account
	// holds an active lock at now, e.g. one set by a concurrent failed login.
	RecordSuccessfulLogin(ctx context.Context, id string, session models.Session, now time.Time) error
	// RotateRefreshToken replaces the session only if the stored digest still
	// equals oldHash and has not expired at now.
	RotateRefreshToken(ctx context.Context, id, oldHash string, session models.Session, now time.Time) error
	ClearRefreshToken(ctx context.Context, id string) error
	// Unlock resets the lockout state regardless of lock_until.
	Unlock(ctx context.Context, id string) error
}

// ProfileRepository reads and writes the profile and GitHub documents stored
// on accounts.
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (models.ProfileRecord, error)
	GetByUsername(ctx context.Context, username string) (models.ProfileRecord, error)
	GetByGitHubUsername(ctx context.Context, handle string) (models.ProfileRecord, error)

	// UpdateProfile writes display name, GitHub URL and handle, and the
	// profile document of record.Account.ID. With resetGitHub set the GitHub
	// snapshot and its sync time are cleared in the same statement.
	UpdateProfile(ctx context.Context, record models.ProfileRecord, resetGitHub bool) error
	// SaveGitHubSnapshot stores a fetched GitHub snapshot and fills the
	// profile location when it is still empty.
	SaveGitHubSnapshot(ctx context.Context, id, handle string, snapshot models.GitHubProfile, location string, syncedAt time.Time) error
	// UpdateGitHubStats sets the handle and, when stats is not nil, replaces
	// the stats block of the stored snapshot.
	UpdateGitHubStats(ctx context.Context, id, handle string, stats *models.GitHubStats) error
	// ListStaleGitHub returns up to limit accounts with a GitHub link whose
	// snapshot is missing or older than staleBefore, oldest first.
	ListStaleGitHub(ctx context.Context, staleBefore time.Time, limit int) ([]models.Account, error)
}

// RateLimitRepository keeps sliding-window request counters.
type RateLimitRepository interface {
	RecordAttempt(ctx context.Context, identifier string, at time.Time) error
	CountAttempts(ctx context.Context, identifier string, window time.Duration, reference time.Time) (int, error)
	TrimWindow(ctx context.Context, identifier string, window time.Duration, reference time.Time) error
	OldestAttempt(ctx context.Context, identifier string, window time.Duration, reference time.Time) (time.Time, bool, error)
}
