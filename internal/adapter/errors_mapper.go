package adapter

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// mapGitHubError converts a non-2xx GitHub response into a sentinel error.
func mapGitHubError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}

	switch resp.StatusCode() {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrGitHubUserNotFound, body)
	case http.StatusForbidden, http.StatusTooManyRequests:
		// primary and secondary rate limits
		return fmt.Errorf("%w: rate limited (remaining %q): %s",
			ErrGitHubUnavailable, resp.Header().Get("X-RateLimit-Remaining"), body)
	default:
		return fmt.Errorf("%w: http %d: %s", ErrGitHubUnavailable, resp.StatusCode(), body)
	}
}
