package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrInvalidCredentials covers an unknown email, a wrong password and a
	// locked account alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountLocked matches ErrInvalidCredentials through errors.Is.
	ErrAccountLocked error = &accountLockedError{}

	ErrDuplicateCredential     = errors.New("credential already registered")
	ErrInvalidRefreshToken     = errors.New("invalid refresh token")
	ErrMissingIdentity         = errors.New("missing account identity")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrForbidden               = errors.New("forbidden")

	ErrAccountNotFound = errors.New("account not found")
	ErrProfileNotFound = errors.New("profile not found")

	ErrGitHubUsernameRequired = errors.New("github username is required")
	ErrInvalidGitHubURL       = errors.New("invalid github url")
	ErrGitHubUserNotFound     = errors.New("github user not found")
	ErrGitHubUnavailable      = errors.New("github is unavailable")

	ErrContactDeliveryFailed = errors.New("contact message delivery failed")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)

type accountLockedError struct{}

func (e *accountLockedError) Error() string { return "account locked" }

func (e *accountLockedError) Unwrap() error { return ErrInvalidCredentials }

// DuplicateCredentialError names the field that is already registered.
// It matches ErrDuplicateCredential through errors.Is.
type DuplicateCredentialError struct {
	Field string
}

func (e *DuplicateCredentialError) Error() string {
	return e.Field + " already registered"
}

func (e *DuplicateCredentialError) Unwrap() error {
	return ErrDuplicateCredential
}
