package adapter

import "errors"

var (
	ErrGitHubUserNotFound = errors.New("github user not found")
	ErrGitHubUnavailable  = errors.New("github api unavailable")

	ErrMailDelivery = errors.New("mail delivery failed")
)
