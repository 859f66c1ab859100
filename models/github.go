package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// GitHubUser mirrors the subset of the GitHub REST "get a user" response
// that the service keeps.
type GitHubUser struct {
	ID              int64     `json:"id"`
	Login           string    `json:"login"`
	AvatarURL       string    `json:"avatar_url"`
	HTMLURL         string    `json:"html_url"`
	Name            string    `json:"name"`
	Bio             string    `json:"bio"`
	Company         string    `json:"company"`
	Blog            string    `json:"blog"`
	Location        string    `json:"location"`
	TwitterUsername string    `json:"twitter_username"`
	Followers       int       `json:"followers"`
	Following       int       `json:"following"`
	PublicRepos     int       `json:"public_repos"`
	PublicGists     int       `json:"public_gists"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// GitHubStats is the condensed counter set shown on profile cards.
type GitHubStats struct {
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
	Repos       int       `json:"repos"`
	Gists       int       `json:"gists"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// GitHubProfile is the GitHub snapshot stored alongside an account.
type GitHubProfile struct {
	ID              int64     `json:"githubId,omitempty"`
	AvatarURL       string    `json:"githubAvatarUrl,omitempty"`
	HTMLURL         string    `json:"githubHtmlUrl,omitempty"`
	Bio             string    `json:"githubBio,omitempty"`
	Company         string    `json:"githubCompany,omitempty"`
	Blog            string    `json:"githubBlog,omitempty"`
	Twitter         string    `json:"githubTwitter,omitempty"`
	Followers       int       `json:"githubFollowers"`
	Following       int       `json:"githubFollowing"`
	PublicRepos     int       `json:"githubPublicRepos"`
	PublicGists     int       `json:"githubPublicGists"`
	GitHubCreatedAt time.Time `json:"githubCreatedAt,omitzero"`
	GitHubUpdatedAt time.Time `json:"githubUpdatedAt,omitzero"`

	Stats *GitHubStats `json:"githubStats,omitempty"`
}

// NewGitHubProfile converts an API response into the stored snapshot and
// derives the stats block, stamped with syncedAt.
func NewGitHubProfile(user GitHubUser, syncedAt time.Time) GitHubProfile {
	return GitHubProfile{
		ID:              user.ID,
		AvatarURL:       user.AvatarURL,
		HTMLURL:         user.HTMLURL,
		Bio:             user.Bio,
		Company:         user.Company,
		Blog:            user.Blog,
		Twitter:         user.TwitterUsername,
		Followers:       user.Followers,
		Following:       user.Following,
		PublicRepos:     user.PublicRepos,
		PublicGists:     user.PublicGists,
		GitHubCreatedAt: user.CreatedAt,
		GitHubUpdatedAt: user.UpdatedAt,
		Stats: &GitHubStats{
			Followers:   user.Followers,
			Following:   user.Following,
			Repos:       user.PublicRepos,
			Gists:       user.PublicGists,
			LastUpdated: syncedAt,
		},
	}
}

// Value implements [driver.Valuer] for the JSONB column.
func (g GitHubProfile) Value() (driver.Value, error) {
	return json.Marshal(g)
}

// Scan implements [sql.Scanner] for the JSONB column.
func (g *GitHubProfile) Scan(src any) error {
	return scanJSON(src, g)
}

// GitHubProfileView is returned by the public GitHub profile endpoints.
type GitHubProfileView struct {
	ID             string `json:"id"`
	GitHubUsername string `json:"githubUsername"`
	Location       string `json:"location,omitempty"`

	GitHubProfile
}

// GitHubProfileUpdate is the body of PUT /api/github/profile.
type GitHubProfileUpdate struct {
	GitHubUsername string       `json:"githubUsername" validate:"omitempty,max=39"`
	GitHubStats    *GitHubStats `json:"githubStats,omitempty"`
}

// UnmarshalJSON accepts githubStats either as an object or as a JSON string.
func (u *GitHubProfileUpdate) UnmarshalJSON(b []byte) error {
	var raw struct {
		GitHubUsername string      `json:"githubUsername"`
		GitHubStats    JSONSection `json:"githubStats"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	u.GitHubUsername = raw.GitHubUsername
	u.GitHubStats = nil
	if len(raw.GitHubStats) > 0 {
		var stats GitHubStats
		if err := json.Unmarshal(raw.GitHubStats, &stats); err != nil {
			return err
		}
		u.GitHubStats = &stats
	}
	return nil
}

// ExtractUsernameRequest is the body of POST /api/github/extract-username.
type ExtractUsernameRequest struct {
	URL string `json:"url"`
}
