package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/dev-profiles/internal/logger"
	"github.com/MKhiriev/dev-profiles/models"
	sq "github.com/Masterminds/squirrel"
)

// profileRepository is the PostgreSQL-backed implementation of
// [ProfileRepository]. Profile and GitHub data live in JSONB columns of the
// accounts table.
type profileRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewProfileRepository constructs a [ProfileRepository].
func NewProfileRepository(db *DB, logger *logger.Logger) ProfileRepository {
	logger.Debug().Msg("creating profile repository")
	return &profileRepository{
		db:     db,
		logger: logger,
	}
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (models.ProfileRecord, error) {
	return r.getOne(ctx, "*profileRepository.GetByID", sq.Eq{"id": id})
}

func (r *profileRepository) GetByUsername(ctx context.Context, username string) (models.ProfileRecord, error) {
	return r.getOne(ctx, "*profileRepository.GetByUsername", sq.Eq{"username": username})
}

// GetByGitHubUsername returns the account linked to handle. Several accounts
// may point at the same handle; the most recently synced one wins, then the
// oldest account.
func (r *profileRepository) GetByGitHubUsername(ctx context.Context, handle string) (models.ProfileRecord, error) {
	return r.getOne(ctx, "*profileRepository.GetByGitHubUsername", sq.Eq{"github_username": handle},
		"github_synced_at DESC NULLS LAST", "created_at ASC")
}

func (r *profileRepository) getOne(ctx context.Context, funcName string, where sq.Sqlizer, orderBy ...string) (models.ProfileRecord, error) {
	log := logger.FromContext(ctx)

	builder := psql.Select(profileColumns...).
		From(accountsTable).
		Where(where)
	if len(orderBy) > 0 {
		builder = builder.OrderBy(orderBy...).Limit(1)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return models.ProfileRecord{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var record models.ProfileRecord
	err = r.db.withRetry(ctx, func() error {
		var scanErr error
		record, scanErr = scanProfileRecord(r.db.QueryRowContext(ctx, query, args...))
		return scanErr
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isMalformedID(err) {
			return models.ProfileRecord{}, ErrAccountNotFound
		}
		log.Err(err).Str("func", funcName).Msg("error querying profile")
		return models.ProfileRecord{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return record, nil
}

func (r *profileRepository) UpdateProfile(ctx context.Context, record models.ProfileRecord, resetGitHub bool) error {
	builder := psql.Update(accountsTable).
		Set("display_name", record.Account.DisplayName).
		Set("github_url", record.Account.GitHubURL).
		Set("github_username", nullString(record.Account.GitHubUsername)).
		Set("profile", record.Profile)
	if resetGitHub {
		builder = builder.
			Set("github_profile", nil).
			Set("github_synced_at", nil)
	}

	return r.update(ctx, "*profileRepository.UpdateProfile", builder.
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": record.Account.ID}))
}

func (r *profileRepository) SaveGitHubSnapshot(ctx context.Context, id, handle string, snapshot models.GitHubProfile, location string, syncedAt time.Time) error {
	return r.update(ctx, "*profileRepository.SaveGitHubSnapshot", psql.Update(accountsTable).
		Set("github_username", handle).
		Set("github_profile", snapshot).
		Set("github_synced_at", syncedAt).
		Set("profile", sq.Expr(
			"CASE WHEN ?::text <> '' AND COALESCE(profile->>'location', '') = '' "+
				"THEN jsonb_set(profile, '{location}', to_jsonb(?::text)) ELSE profile END",
			location, location,
		)).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}))
}

func (r *profileRepository) UpdateGitHubStats(ctx context.Context, id, handle string, stats *models.GitHubStats) error {
	builder := psql.Update(accountsTable).
		Set("github_username", nullString(handle)).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id})

	if stats != nil {
		encoded, err := json.Marshal(stats)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
		builder = builder.Set("github_profile", sq.Expr(
			"jsonb_set(COALESCE(github_profile, '{}'::jsonb), '{githubStats}', ?::jsonb)", string(encoded),
		))
	}

	return r.update(ctx, "*profileRepository.UpdateGitHubStats", builder)
}

func (r *profileRepository) ListStaleGitHub(ctx context.Context, staleBefore time.Time, limit int) ([]models.Account, error) {
	log := logger.FromContext(ctx)

	if limit <= 0 {
		return nil, nil
	}

	query, args, err := psql.Select("id", "github_url", "COALESCE(github_username, '')").
		From(accountsTable).
		Where(sq.Or{sq.NotEq{"github_username": nil}, sq.NotEq{"github_url": ""}}).
		Where(sq.Or{sq.Eq{"github_synced_at": nil}, sq.Lt{"github_synced_at": staleBefore}}).
		OrderBy("github_synced_at ASC NULLS FIRST").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*profileRepository.ListStaleGitHub").Msg("error querying stale accounts")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	accounts := make([]models.Account, 0, limit)
	for rows.Next() {
		var account models.Account
		if err = rows.Scan(&account.ID, &account.GitHubURL, &account.GitHubUsername); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		accounts = append(accounts, account)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return accounts, nil
}

func (r *profileRepository) update(ctx context.Context, funcName string, builder sq.UpdateBuilder) error {
	log := logger.FromContext(ctx)

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isMalformedID(err) {
			return ErrAccountNotFound
		}
		log.Err(err).Str("func", funcName).Msg("error updating profile")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrAccountNotFound
	}

	return nil
}
