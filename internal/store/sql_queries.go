package store

import (
	"database/sql"
	"fmt"

	"github.com/MKhiriev/dev-profiles/models"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
)

const (
	accountsTable = "accounts"

	constraintEmail    = "accounts_email_key"
	constraintUsername = "accounts_username_key"
)

// psql builds PostgreSQL statements with $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var accountColumns = []string{
	"id",
	"email",
	"username",
	"display_name",
	"user_type",
	"role",
	"github_url",
	"github_username",
	"password_hash",
	"failed_login_attempts",
	"account_locked",
	"lock_until",
	"refresh_token",
	"refresh_token_expiry",
	"last_login",
	"created_at",
	"updated_at",
}

var profileColumns = append(append([]string{}, accountColumns...),
	"profile",
	"github_profile",
	"github_synced_at",
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func accountScanTargets(a *models.Account, githubUsername, refreshToken *sql.NullString) []any {
	return []any{
		&a.ID,
		&a.Email,
		&a.Username,
		&a.DisplayName,
		&a.UserType,
		&a.Role,
		&a.GitHubURL,
		githubUsername,
		&a.PasswordHash,
		&a.FailedLoginAttempts,
		&a.AccountLocked,
		&a.LockUntil,
		refreshToken,
		&a.RefreshTokenExpiry,
		&a.LastLogin,
		&a.CreatedAt,
		&a.UpdatedAt,
	}
}

func scanAccount(row rowScanner) (models.Account, error) {
	var (
		account        models.Account
		githubUsername sql.NullString
		refreshToken   sql.NullString
	)

	if err := row.Scan(accountScanTargets(&account, &githubUsername, &refreshToken)...); err != nil {
		return models.Account{}, err
	}

	account.GitHubUsername = githubUsername.String
	account.RefreshTokenHash = refreshToken.String
	return account, nil
}

func scanProfileRecord(row rowScanner) (models.ProfileRecord, error) {
	var (
		record         models.ProfileRecord
		githubUsername sql.NullString
		refreshToken   sql.NullString
	)

	targets := accountScanTargets(&record.Account, &githubUsername, &refreshToken)
	targets = append(targets, &record.Profile, &record.GitHub, &record.GitHubSyncedAt)

	if err := row.Scan(targets...); err != nil {
		return models.ProfileRecord{}, err
	}

	record.Account.GitHubUsername = githubUsername.String
	record.Account.RefreshTokenHash = refreshToken.String
	return record, nil
}

// nullString maps the empty string to SQL NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// uniqueViolation translates a unique constraint violation into the matching
// sentinel error. It returns nil for any other error.
func uniqueViolation(err error) error {
	if postgresError(err) != pgerrcode.UniqueViolation {
		return nil
	}

	switch name := constraintName(err); name {
	case constraintEmail:
		return ErrEmailAlreadyExists
	case constraintUsername:
		return ErrUsernameAlreadyExists
	default:
		return fmt.Errorf("unexpected unique violation on %q: %w", name, err)
	}
}

// isMalformedID reports whether err was caused by an id that is not a valid
// UUID. Such lookups are treated as misses.
func isMalformedID(err error) bool {
	return postgresError(err) == pgerrcode.InvalidTextRepresentation
}
