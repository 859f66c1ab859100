package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/MKhiriev/dev-profiles/internal/logger"
	"github.com/MKhiriev/dev-profiles/internal/store"
	"github.com/MKhiriev/dev-profiles/internal/validators"
	"github.com/MKhiriev/dev-profiles/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func storedDeveloper() models.ProfileRecord {
	return models.ProfileRecord{
		Account: models.Account{
			ID:          "acc-1",
			Email:       "ada@example.com",
			Username:    "ada",
			DisplayName: "Ada",
			UserType:    models.UserTypeDeveloper,
			Role:        models.RoleUser,
		},
		Profile: models.Profile{
			Bio:         "compilers",
			Location:    "London",
			Languages:   []string{"Go"},
			YearsExp:    intPtr(7),
			CompanyName: "leftover from an old form",
			Experience:  models.JSONSection(`[{"company":"Analytical Engines"}]`),
		},
	}
}

func newTestProfileService(repo *profileRepositoryMock) *profileService {
	return NewProfileService(repo, validators.NewStructValidator(), logger.Nop()).(*profileService)
}

func TestProfileService_GetProfile(t *testing.T) {
	repo := &profileRepositoryMock{
		GetByIDFunc: func(_ context.Context, id string) (models.ProfileRecord, error) {
			assert.Equal(t, "acc-1", id)
			return storedDeveloper(), nil
		},
	}

	view, err := newTestProfileService(repo).GetProfile(context.Background(), "acc-1")

	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", view.Email, "owners see their email")
	assert.Equal(t, "compilers", view.Bio)
	assert.Empty(t, view.CompanyName, "company sections are hidden for developers")
	assert.JSONEq(t, `[{"company":"Analytical Engines"}]`, string(view.Experience))
}

func TestProfileService_GetProfile_Errors(t *testing.T) {
	svc := newTestProfileService(&profileRepositoryMock{
		GetByIDFunc: func(context.Context, string) (models.ProfileRecord, error) {
			return models.ProfileRecord{}, store.ErrAccountNotFound
		},
	})

	_, err := svc.GetProfile(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingIdentity)

	_, err = svc.GetProfile(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestProfileService_GetProfileByUsername_HidesEmail(t *testing.T) {
	svc := newTestProfileService(&profileRepositoryMock{
		GetByUsernameFunc: func(_ context.Context, username string) (models.ProfileRecord, error) {
			assert.Equal(t, "ada", username)
			return storedDeveloper(), nil
		},
	})

	view, err := svc.GetProfileByUsername(context.Background(), " ada ")

	require.NoError(t, err)
	assert.Empty(t, view.Email)
	assert.Equal(t, "ada", view.Username)

	encoded, err := json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(encoded), "email")
	assert.NotContains(t, string(encoded), "companyName")
}

func TestProfileService_GetProfileByUsername_CompanyHidesDeveloperSections(t *testing.T) {
	record := storedDeveloper()
	record.Account.UserType = models.UserTypeCompany
	record.Profile.Hiring = boolPtr(true)

	svc := newTestProfileService(&profileRepositoryMock{
		GetByUsernameFunc: func(context.Context, string) (models.ProfileRecord, error) { return record, nil },
	})

	view, err := svc.GetProfileByUsername(context.Background(), "ada")

	require.NoError(t, err)
	assert.Nil(t, view.YearsExp)
	assert.Nil(t, view.Experience)
	assert.Equal(t, "leftover from an old form", view.CompanyName)
	require.NotNil(t, view.Hiring)
	assert.True(t, *view.Hiring)
}

func TestProfileService_UpdateProfile_MergesSentFields(t *testing.T) {
	var (
		saved       models.ProfileRecord
		resetGitHub bool
	)
	svc := newTestProfileService(&profileRepositoryMock{
		GetByIDFunc: func(context.Context, string) (models.ProfileRecord, error) { return storedDeveloper(), nil },
		UpdateProfileFunc: func(_ context.Context, record models.ProfileRecord, reset bool) error {
			saved, resetGitHub = record, reset
			return nil
		},
	})

	var update models.ProfileUpdate
	require.NoError(t, json.Unmarshal([]byte(`{
		"displayName": "Ada L.",
		"githubUrl": "https://github.com/ada-gh",
		"title": "Engineer",
		"languages": ["Go", "Rust"],
		"education": "[{\"school\":\"Home\"}]"
	}`), &update))

	view, err := svc.UpdateProfile(context.Background(), "acc-1", update)

	require.NoError(t, err)
	assert.Equal(t, "Ada L.", saved.Account.DisplayName)
	assert.Equal(t, "https://github.com/ada-gh", saved.Account.GitHubURL)
	assert.Equal(t, "ada-gh", saved.Account.GitHubUsername)
	assert.True(t, resetGitHub)

	assert.Equal(t, "compilers", saved.Profile.Bio, "omitted fields are kept")
	assert.Equal(t, "London", saved.Profile.Location)
	assert.Equal(t, "Engineer", saved.Profile.Title)
	assert.Equal(t, []string{"Go", "Rust"}, saved.Profile.Languages)
	require.NotNil(t, saved.Profile.YearsExp)
	assert.Equal(t, 7, *saved.Profile.YearsExp)
	assert.JSONEq(t, `[{"school":"Home"}]`, string(saved.Profile.Education))

	assert.Equal(t, "Ada L.", view.DisplayName)
	assert.Equal(t, "ada@example.com", view.Email)
}

func TestProfileService_UpdateProfile_Validation(t *testing.T) {
	svc := newTestProfileService(&profileRepositoryMock{})

	_, err := svc.UpdateProfile(context.Background(), "acc-1", models.ProfileUpdate{
		Profile: models.Profile{Website: "not a url"},
	})

	assert.ErrorIs(t, err, ErrInvalidDataProvided)
	assert.ErrorIs(t, err, validators.ErrValidation)
}

func TestProfileService_UpdateProfile_StoreErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{name: "not found", err: store.ErrAccountNotFound, wantErr: ErrProfileNotFound},
		{name: "unexpected", err: errors.New("boom"), wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestProfileService(&profileRepositoryMock{
				GetByIDFunc:       func(context.Context, string) (models.ProfileRecord, error) { return storedDeveloper(), nil },
				UpdateProfileFunc: func(context.Context, models.ProfileRecord, bool) error { return tt.err },
			})

			_, err := svc.UpdateProfile(context.Background(), "acc-1", models.ProfileUpdate{DisplayName: "x"})
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestProfileService_UpdateProfile_ClearsSentEmptyFields(t *testing.T) {
	var saved models.ProfileRecord
	svc := newTestProfileService(&profileRepositoryMock{
		GetByIDFunc: func(context.Context, string) (models.ProfileRecord, error) { return storedDeveloper(), nil },
		UpdateProfileFunc: func(_ context.Context, record models.ProfileRecord, _ bool) error {
			saved = record
			return nil
		},
	})

	var update models.ProfileUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"bio":"","location":"","languages":[],"yearsExp":null,"displayName":""}`), &update))

	view, err := svc.UpdateProfile(context.Background(), "acc-1", update)

	require.NoError(t, err)
	assert.Empty(t, saved.Profile.Bio)
	assert.Empty(t, saved.Profile.Location)
	assert.Empty(t, saved.Profile.Languages)
	assert.Nil(t, saved.Profile.YearsExp)
	assert.JSONEq(t, `[{"company":"Analytical Engines"}]`, string(saved.Profile.Experience), "keys not sent are kept")
	assert.Equal(t, "ada", saved.Account.DisplayName, "an empty display name falls back to the username")
	assert.Empty(t, view.Bio)
}

func TestProfileService_UpdateProfile_GitHubURLChange(t *testing.T) {
	synced := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	linked := func() models.ProfileRecord {
		record := storedDeveloper()
		record.Account.GitHubURL = "https://github.com/ada-old"
		record.Account.GitHubUsername = "ada-old"
		record.GitHub = &models.GitHubProfile{ID: 7, Followers: 100}
		record.GitHubSyncedAt = &synced
		return record
	}

	tests := []struct {
		name       string
		body       string
		wantURL    string
		wantHandle string
		wantReset  bool
	}{
		{name: "new handle", body: `{"githubUrl":"https://github.com/ada-new"}`, wantURL: "https://github.com/ada-new", wantHandle: "ada-new", wantReset: true},
		{name: "unparseable url unlinks the handle", body: `{"githubUrl":"https://example.com/ada"}`, wantURL: "https://example.com/ada", wantHandle: "", wantReset: true},
		{name: "url removed", body: `{"githubUrl":""}`, wantURL: "", wantHandle: "", wantReset: true},
		{name: "same url keeps the snapshot", body: `{"githubUrl":"https://github.com/ada-old"}`, wantURL: "https://github.com/ada-old", wantHandle: "ada-old", wantReset: false},
		{name: "url not sent", body: `{"bio":"x"}`, wantURL: "https://github.com/ada-old", wantHandle: "ada-old", wantReset: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				saved models.ProfileRecord
				reset bool
			)
			svc := newTestProfileService(&profileRepositoryMock{
				GetByIDFunc: func(context.Context, string) (models.ProfileRecord, error) { return linked(), nil },
				UpdateProfileFunc: func(_ context.Context, record models.ProfileRecord, resetGitHub bool) error {
					saved, reset = record, resetGitHub
					return nil
				},
			})

			var update models.ProfileUpdate
			require.NoError(t, json.Unmarshal([]byte(tt.body), &update))

			view, err := svc.UpdateProfile(context.Background(), "acc-1", update)

			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, saved.Account.GitHubURL)
			assert.Equal(t, tt.wantHandle, saved.Account.GitHubUsername)
			assert.Equal(t, tt.wantReset, reset)
			if tt.wantReset {
				assert.Nil(t, view.GitHub, "the previous handle's snapshot is not served")
				assert.Nil(t, view.GitHubSyncedAt)
			} else {
				assert.NotNil(t, view.GitHub)
			}
		})
	}
}
