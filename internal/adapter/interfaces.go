// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides clients for the external services the server
// talks to: the public GitHub REST API and the Mailgun email relay.
//
// Transport failures are mapped to the sentinel errors in errors.go so that
// callers can use [errors.Is] without knowing the protocol (for example
// [ErrGitHubUserNotFound] for a 404 from GitHub).
package adapter

import (
	"context"

	"github.com/MKhiriev/dev-profiles/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// GitHubClient fetches public user data from GitHub.
type GitHubClient interface {
	// GetUser returns the public profile of the GitHub account named handle.
	// Returns [ErrGitHubUserNotFound] when the account does not exist and
	// [ErrGitHubUnavailable] for any other failure.
	GetUser(ctx context.Context, handle string) (models.GitHubUser, error)
}

// Mailer delivers contact form messages to the site owner.
type Mailer interface {
	// SendContact relays msg. The sender's address is used as Reply-To so the
	// owner can answer directly.
	SendContact(ctx context.Context, msg models.ContactMessage) error
}
