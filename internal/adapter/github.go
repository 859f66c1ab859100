package adapter

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/dev-profiles/internal/config"
	"github.com/MKhiriev/dev-profiles/internal/logger"
	"github.com/MKhiriev/dev-profiles/internal/utils"
	"github.com/MKhiriev/dev-profiles/models"
)

const (
	githubAcceptHeader = "application/vnd.github.v3+json"
	githubUserAgent    = "dev-profiles"
)

type gitHubClient struct {
	client *utils.HTTPClient
	token  string

	logger *logger.Logger
}

// NewGitHubClient constructs a REST implementation of [GitHubClient] bound to
// cfg.APIBaseURL. The token is optional.
func NewGitHubClient(cfg config.GitHub, logger *logger.Logger) GitHubClient {
	client := utils.NewHTTPClient(strings.TrimRight(cfg.APIBaseURL, "/"), cfg.Timeout)
	client.
		SetHeader("Accept", githubAcceptHeader).
		SetHeader("User-Agent", githubUserAgent)

	return &gitHubClient{
		client: client,
		token:  strings.TrimSpace(cfg.Token),
		logger: logger,
	}
}

// GetUser implements [GitHubClient]. It issues GET /users/{handle}.
func (g *gitHubClient) GetUser(ctx context.Context, handle string) (models.GitHubUser, error) {
	var user models.GitHubUser

	req := g.client.R().
		SetContext(ctx).
		SetPathParam("username", handle).
		SetResult(&user)
	if g.token != "" {
		req.SetAuthToken(g.token)
	}

	resp, err := req.Get("/users/{username}")
	if err != nil {
		return models.GitHubUser{}, fmt.Errorf("%w: get user request: %w", ErrGitHubUnavailable, err)
	}
	if err = mapGitHubError(resp); err != nil {
		g.logger.Debug().Str("func", "*gitHubClient.GetUser").Str("handle", handle).Int("status", resp.StatusCode()).Msg("github responded with an error")
		return models.GitHubUser{}, err
	}

	return user, nil
}
