// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package service contains the business logic of the server: the account
// authentication state machine, profiles, GitHub synchronisation and the
// contact form relay.
//
// Services depend on the repositories of package store and on the external
// clients of package adapter; they never touch HTTP types.
package service

import (
	"context"
	"time"

	"github.com/MKhiriev/dev-profiles/models"
)

// AuthService drives registration, login, token refresh, logout and lockout
// administration.
type AuthService interface {
	// Register creates an account and opens its first session.
	Register(ctx context.Context, req models.RegisterRequest) (models.AuthResult, error)
	// Login checks credentials, applies the lockout policy and opens a new
	// session. Any failure matches [ErrInvalidCredentials].
	Login(ctx context.Context, email, password string) (models.AuthResult, error)
	// RefreshToken exchanges a refresh token for a new token pair. The old
	// refresh token cannot be used again.
	RefreshToken(ctx context.Context, refreshToken string) (models.TokenPair, error)
	// Logout ends the session of accountID.
	Logout(ctx context.Context, accountID string) error
	// Unlock clears the lockout state of accountID.
	Unlock(ctx context.Context, accountID string) error
	// ParseAccessToken validates an access token and returns its claims.
	ParseAccessToken(ctx context.Context, tokenString string) (models.Token, error)
}

type ProfileService interface {
	GetProfile(ctx context.Context, accountID string) (models.ProfileView, error)
	GetProfileByUsername(ctx context.Context, username string) (models.ProfileView, error)
	UpdateProfile(ctx context.Context, accountID string, update models.ProfileUpdate) (models.ProfileView, error)
}

type GitHubService interface {
	// SyncGitHubProfile fetches the account's GitHub profile and stores it.
	SyncGitHubProfile(ctx context.Context, accountID string) (models.ProfileView, error)
	GetGitHubProfile(ctx context.Context, handle string) (models.GitHubProfileView, error)
	UpdateGitHubProfile(ctx context.Context, accountID string, update models.GitHubProfileUpdate) (models.GitHubProfileView, error)
	ExtractGitHubUsername(ctx context.Context, rawURL string) (string, error)
	// SyncStale resyncs up to limit accounts whose snapshot is older than
	// staleBefore and returns how many succeeded.
	SyncStale(ctx context.Context, staleBefore time.Time, limit int) (int, error)
}

type ContactService interface {
	SendContactMessage(ctx context.Context, msg models.ContactMessage) error
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	GetBuildInfo(ctx context.Context) models.BuildInfoResponse
}
