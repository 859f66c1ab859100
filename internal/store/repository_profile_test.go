package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/dev-profiles/internal/logger"
	"github.com/MKhiriev/dev-profiles/models"
	"github.com/jackc/pgerrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProfileRepo(t *testing.T) (*profileRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newTestDB(t)
	return &profileRepository{db: db, logger: logger.Nop()}, mock
}

func profileRow(a models.Account, profileJSON, githubJSON string, syncedAt *time.Time) []driver.Value {
	var github driver.Value
	if githubJSON != "" {
		github = []byte(githubJSON)
	}
	return append(accountRow(a), []byte(profileJSON), github, timeValue(syncedAt))
}

func TestProfileRepository_GetByUsername(t *testing.T) {
	repo, mock := newTestProfileRepo(t)
	account := sampleAccount()
	account.GitHubUsername = "ada-gh"
	synced := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .*profile, github_profile, github_synced_at FROM accounts WHERE username = \$1`).
		WithArgs("ada").
		WillReturnRows(sqlmock.NewRows(profileColumns).AddRow(profileRow(account,
			`{"bio":"compilers","languages":["Go","Rust"],"yearsExp":7}`,
			`{"githubId":42,"githubFollowers":10,"githubStats":{"followers":10,"following":1,"repos":3,"gists":0,"lastUpdated":"2026-03-02T00:00:00Z"}}`,
			&synced)...))

	record, err := repo.GetByUsername(context.Background(), "ada")

	require.NoError(t, err)
	assert.Equal(t, "ada-gh", record.Account.GitHubUsername)
	assert.Equal(t, "compilers", record.Profile.Bio)
	assert.Equal(t, []string{"Go", "Rust"}, record.Profile.Languages)
	require.NotNil(t, record.Profile.YearsExp)
	assert.Equal(t, 7, *record.Profile.YearsExp)
	require.NotNil(t, record.GitHub)
	assert.Equal(t, int64(42), record.GitHub.ID)
	require.NotNil(t, record.GitHub.Stats)
	assert.Equal(t, 3, record.GitHub.Stats.Repos)
	require.NotNil(t, record.GitHubSyncedAt)
	assert.True(t, synced.Equal(*record.GitHubSyncedAt))
}

func TestProfileRepository_GetByID_NoGitHubSnapshot(t *testing.T) {
	repo, mock := newTestProfileRepo(t)
	account := sampleAccount()

	mock.ExpectQuery(`SELECT .* FROM accounts WHERE id = \$1`).
		WithArgs(account.ID).
		WillReturnRows(sqlmock.NewRows(profileColumns).AddRow(profileRow(account, `{}`, "", nil)...))

	record, err := repo.GetByID(context.Background(), account.ID)

	require.NoError(t, err)
	assert.Nil(t, record.GitHub)
	assert.Nil(t, record.GitHubSyncedAt)
	assert.Equal(t, models.Profile{}, record.Profile)
}

func TestProfileRepository_GetByGitHubUsername_NotFound(t *testing.T) {
	repo, mock := newTestProfileRepo(t)
	mock.ExpectQuery(`SELECT .* FROM accounts WHERE github_username = \$1`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(profileColumns))

	_, err := repo.GetByGitHubUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestProfileRepository_UpdateProfile(t *testing.T) {
	repo, mock := newTestProfileRepo(t)
	record := models.ProfileRecord{
		Account: models.Account{ID: testAccountID, DisplayName: "Ada L.", GitHubURL: "https://github.com/ada"},
		Profile: models.Profile{Bio: "updated"},
	}

	mock.ExpectExec(`UPDATE accounts SET display_name = \$1, github_url = \$2, github_username = \$3, profile = \$4, updated_at = NOW\(\) WHERE id = \$5`).
		WithArgs("Ada L.", "https://github.com/ada", nil, []byte(`{"bio":"updated"}`), testAccountID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateProfile(context.Background(), record, false))
}

func TestProfileRepository_UpdateProfile_ResetsGitHubSnapshot(t *testing.T) {
	repo, mock := newTestProfileRepo(t)
	record := models.ProfileRecord{
		Account: models.Account{ID: testAccountID, DisplayName: "Ada", GitHubURL: "https://github.com/ada-new", GitHubUsername: "ada-new"},
	}

	mock.ExpectExec(`UPDATE accounts SET display_name = \$1, github_url = \$2, github_username = \$3, profile = \$4, `+
		`github_profile = \$5, github_synced_at = \$6, updated_at = NOW\(\) WHERE id = \$7`).
		WithArgs("Ada", "https://github.com/ada-new", "ada-new", []byte(`{}`), nil, nil, testAccountID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateProfile(context.Background(), record, true))
}

func TestProfileRepository_GetByGitHubUsername_PrefersLatestSync(t *testing.T) {
	repo, mock := newTestProfileRepo(t)
	account := sampleAccount()
	account.GitHubUsername = "ada-gh"

	mock.ExpectQuery(`SELECT .* FROM accounts WHERE github_username = \$1 ` +
		`ORDER BY github_synced_at DESC NULLS LAST, created_at ASC LIMIT 1`).
		WithArgs("ada-gh").
		WillReturnRows(sqlmock.NewRows(profileColumns).AddRow(profileRow(account, `{}`, "", nil)...))

	record, err := repo.GetByGitHubUsername(context.Background(), "ada-gh")

	require.NoError(t, err)
	assert.Equal(t, account.ID, record.Account.ID)
}

func TestProfileRepository_UpdateProfile_NotFound(t *testing.T) {
	repo, mock := newTestProfileRepo(t)
	mock.ExpectExec("UPDATE accounts SET display_name").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateProfile(context.Background(), models.ProfileRecord{Account: models.Account{ID: testAccountID}}, false)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestProfileRepository_SaveGitHubSnapshot(t *testing.T) {
	repo, mock := newTestProfileRepo(t)
	synced := time.Now()
	snapshot := models.NewGitHubProfile(models.GitHubUser{ID: 1, Login: "ada", Followers: 3}, synced)

	mock.ExpectExec(`UPDATE accounts SET github_username = \$1, github_profile = \$2, github_synced_at = \$3, `+
		`profile = CASE WHEN \$4::text <> '' AND COALESCE\(profile->>'location', ''\) = '' `+
		`THEN jsonb_set\(profile, '\{location\}', to_jsonb\(\$5::text\)\) ELSE profile END, updated_at = NOW\(\) WHERE id = \$6`).
		WithArgs("ada", sqlmock.AnyArg(), synced, "London", "London", testAccountID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SaveGitHubSnapshot(context.Background(), testAccountID, "ada", snapshot, "London", synced))
}

func TestProfileRepository_UpdateGitHubStats(t *testing.T) {
	repo, mock := newTestProfileRepo(t)
	stats := &models.GitHubStats{Followers: 1, Repos: 2}

	mock.ExpectExec(`UPDATE accounts SET github_username = \$1, updated_at = NOW\(\), `+
		`github_profile = jsonb_set\(COALESCE\(github_profile, '\{\}'::jsonb\), '\{githubStats\}', \$2::jsonb\) WHERE id = \$3`).
		WithArgs("ada", sqlmock.AnyArg(), testAccountID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateGitHubStats(context.Background(), testAccountID, "ada", stats))
}

func TestProfileRepository_UpdateGitHubStats_HandleOnly(t *testing.T) {
	repo, mock := newTestProfileRepo(t)

	mock.ExpectExec(`UPDATE accounts SET github_username = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs("ada", testAccountID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateGitHubStats(context.Background(), testAccountID, "ada", nil))
}

func TestProfileRepository_UpdateGitHubStats_MalformedID(t *testing.T) {
	repo, mock := newTestProfileRepo(t)
	mock.ExpectExec("UPDATE accounts").WillReturnError(pgError(pgerrcode.InvalidTextRepresentation))

	err := repo.UpdateGitHubStats(context.Background(), "nope", "ada", nil)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestProfileRepository_ListStaleGitHub(t *testing.T) {
	repo, mock := newTestProfileRepo(t)
	staleBefore := time.Now().Add(-24 * time.Hour)

	mock.ExpectQuery(`SELECT id, github_url, COALESCE\(github_username, ''\) FROM accounts `+
		`WHERE \(github_username IS NOT NULL OR github_url <> \$1\) AND \(github_synced_at IS NULL OR github_synced_at < \$2\) `+
		`ORDER BY github_synced_at ASC NULLS FIRST LIMIT 2`).
		WithArgs("", staleBefore).
		WillReturnRows(sqlmock.NewRows([]string{"id", "github_url", "github_username"}).
			AddRow("id-1", "https://github.com/one", "").
			AddRow("id-2", "", "two"))

	accounts, err := repo.ListStaleGitHub(context.Background(), staleBefore, 2)

	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "https://github.com/one", accounts[0].GitHubURL)
	assert.Equal(t, "two", accounts[1].GitHubUsername)
}

func TestProfileRepository_ListStaleGitHub_QueryError(t *testing.T) {
	repo, mock := newTestProfileRepo(t)
	mock.ExpectQuery("SELECT id, github_url").WillReturnError(errors.New("boom"))

	_, err := repo.ListStaleGitHub(context.Background(), time.Now(), 10)
	assert.ErrorIs(t, err, ErrExecutingQuery)
}

func TestProfileRepository_ListStaleGitHub_ZeroLimit(t *testing.T) {
	repo, _ := newTestProfileRepo(t)

	accounts, err := repo.ListStaleGitHub(context.Background(), time.Now(), 0)

	require.NoError(t, err)
	assert.Empty(t, accounts)
}
