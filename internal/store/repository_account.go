package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/dev-profiles/internal/logger"
	"github.com/MKhiriev/dev-profiles/models"
	sq "github.com/Masterminds/squirrel"
)

// accountRepository is the PostgreSQL-backed implementation of [AccountRepository].
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type accountRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewAccountRepository constructs an [AccountRepository] backed by the provided
// database connection and logger.
func NewAccountRepository(db *DB, logger *logger.Logger) AccountRepository {
	logger.Debug().Msg("creating account repository")
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new account and returns it with the server-assigned
// timestamps.
//
// Error handling:
//   - unique violation on email    → [ErrEmailAlreadyExists]
//   - unique violation on username → [ErrUsernameAlreadyExists]
func (r *accountRepository) Create(ctx context.Context, account models.Account) (models.Account, error) {
	log := logger.FromContext(ctx)

	query, args, err := psql.Insert(accountsTable).
		Columns(
			"id",
			"email",
			"username",
			"display_name",
			"user_type",
			"role",
			"github_url",
			"github_username",
			"password_hash",
			"refresh_token",
			"refresh_token_expiry",
		).
		Values(
			account.ID,
			account.Email,
			account.Username,
			account.DisplayName,
			account.UserType,
			account.Role,
			account.GitHubURL,
			nullString(account.GitHubUsername),
			account.PasswordHash,
			nullString(account.RefreshTokenHash),
			account.RefreshTokenExpiry,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return models.Account{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if err = r.db.QueryRowContext(ctx, query, args...).Scan(&account.CreatedAt, &account.UpdatedAt); err != nil {
		if dupErr := uniqueViolation(err); dupErr != nil {
			log.Debug().Err(err).Str("func", "*accountRepository.Create").Msg("duplicate account")
			return models.Account{}, dupErr
		}
		log.Err(err).Str("func", "*accountRepository.Create").Msg("error inserting account")
		return models.Account{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return account, nil
}

func (r *accountRepository) FindByID(ctx context.Context, id string) (models.Account, error) {
	return r.findOne(ctx, "*accountRepository.FindByID", sq.Eq{"id": id})
}

func (r *accountRepository) FindByEmail(ctx context.Context, email string) (models.Account, error) {
	return r.findOne(ctx, "*accountRepository.FindByEmail", sq.Eq{"email": email})
}

// FindByEmailOrUsername is used for the duplicate pre-check at registration.
// When two accounts match, the one holding the email is preferred.
func (r *accountRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (models.Account, error) {
	log := logger.FromContext(ctx)

	query, args, err := psql.Select(accountColumns...).
		From(accountsTable).
		Where(sq.Or{sq.Eq{"email": email}, sq.Eq{"username": username}}).
		OrderByClause("(email = ?) DESC", email).
		Limit(1).
		ToSql()
	if err != nil {
		return models.Account{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var account models.Account
	err = r.db.withRetry(ctx, func() error {
		var scanErr error
		account, scanErr = scanAccount(r.db.QueryRowContext(ctx, query, args...))
		return scanErr
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, ErrAccountNotFound
		}
		log.Err(err).Str("func", "*accountRepository.FindByEmailOrUsername").Msg("error querying account")
		return models.Account{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return account, nil
}

func (r *accountRepository) FindByRefreshTokenHash(ctx context.Context, hash string, now time.Time) (models.Account, error) {
	return r.findOne(ctx, "*accountRepository.FindByRefreshTokenHash", sq.And{
		sq.Eq{"refresh_token": hash},
		sq.Gt{"refresh_token_expiry": now},
	})
}

func (r *accountRepository) findOne(ctx context.Context, funcName string, where sq.Sqlizer) (models.Account, error) {
	log := logger.FromContext(ctx)

	query, args, err := psql.Select(accountColumns...).
		From(accountsTable).
		Where(where).
		ToSql()
	if err != nil {
		return models.Account{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var account models.Account
	err = r.db.withRetry(ctx, func() error {
		var scanErr error
		account, scanErr = scanAccount(r.db.QueryRowContext(ctx, query, args...))
		return scanErr
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isMalformedID(err) {
			return models.Account{}, ErrAccountNotFound
		}
		log.Err(err).Str("func", funcName).Msg("error querying account")
		return models.Account{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return account, nil
}

func (r *accountRepository) ClearExpiredLock(ctx context.Context, id string, now time.Time) (bool, error) {
	affected, err := r.exec(ctx, "*accountRepository.ClearExpiredLock", psql.Update(accountsTable).
		Set("failed_login_attempts", 0).
		Set("account_locked", false).
		Set("lock_until", nil).
		Set("updated_at", now).
		Where(sq.Eq{"id": id}).
		Where("account_locked").
		Where(sq.Or{sq.Eq{"lock_until": nil}, sq.LtOrEq{"lock_until": now}}))
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func (r *accountRepository) RecordFailedLogin(ctx context.Context, id string, threshold int, lockUntil time.Time) (models.LoginFailure, error) {
	log := logger.FromContext(ctx)

	query, args, err := psql.Update(accountsTable).
		Set("failed_login_attempts", sq.Expr("failed_login_attempts + 1")).
		Set("account_locked", sq.Expr("failed_login_attempts + 1 >= ?", threshold)).
		Set("lock_until", sq.Expr("CASE WHEN failed_login_attempts + 1 >= ? THEN ?::timestamptz ELSE NULL END", threshold, lockUntil)).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING failed_login_attempts, account_locked, lock_until").
		ToSql()
	if err != nil {
		return models.LoginFailure{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var failure models.LoginFailure
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&failure.Attempts, &failure.Locked, &failure.LockUntil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.LoginFailure{}, ErrAccountNotFound
		}
		log.Err(err).Str("func", "*accountRepository.RecordFailedLogin").Msg("error recording failed login")
		return models.LoginFailure{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return failure, nil
}

func (r *accountRepository) RecordSuccessfulLogin(ctx context.Context, id string, session models.Session, now time.Time) error {
	affected, err := r.exec(ctx, "*accountRepository.RecordSuccessfulLogin", psql.Update(accountsTable).
		Set("failed_login_attempts", 0).
		Set("account_locked", false).
		Set("lock_until", nil).
		Set("last_login", now).
		Set("refresh_token", session.RefreshTokenHash).
		Set("refresh_token_expiry", session.ExpiresAt).
		Set("updated_at", now).
		Where(sq.Eq{"id": id}).
		Where(sq.Or{
			sq.Eq{"account_locked": false},
			sq.Eq{"lock_until": nil},
			sq.LtOrEq{"lock_until": now},
		}))
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAccountLocked
	}

	return nil
}

func (r *accountRepository) RotateRefreshToken(ctx context.Context, id, oldHash string, session models.Session, now time.Time) error {
	affected, err := r.exec(ctx, "*accountRepository.RotateRefreshToken", psql.Update(accountsTable).
		Set("refresh_token", session.RefreshTokenHash).
		Set("refresh_token_expiry", session.ExpiresAt).
		Set("updated_at", now).
		Where(sq.Eq{"id": id, "refresh_token": oldHash}).
		Where(sq.Gt{"refresh_token_expiry": now}))
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrRefreshTokenNotRotated
	}

	return nil
}

func (r *accountRepository) ClearRefreshToken(ctx context.Context, id string) error {
	affected, err := r.exec(ctx, "*accountRepository.ClearRefreshToken", psql.Update(accountsTable).
		Set("refresh_token", nil).
		Set("refresh_token_expiry", nil).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}))
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAccountNotFound
	}

	return nil
}

func (r *accountRepository) Unlock(ctx context.Context, id string) error {
	affected, err := r.exec(ctx, "*accountRepository.Unlock", psql.Update(accountsTable).
		Set("failed_login_attempts", 0).
		Set("account_locked", false).
		Set("lock_until", nil).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}))
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAccountNotFound
	}

	return nil
}

// exec runs a single UPDATE and returns the number of affected rows.
// A malformed id affects no rows.
func (r *accountRepository) exec(ctx context.Context, funcName string, builder sq.UpdateBuilder) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isMalformedID(err) {
			return 0, nil
		}
		log.Err(err).Str("func", funcName).Msg("error executing update")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return affected, nil
}
