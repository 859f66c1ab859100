package service

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	lenientGitHubPattern = regexp.MustCompile(`github\.com/([^/]+)`)
	gitHubHandlePattern  = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]{0,38})$`)
)

// LenientGitHubUsername finds the first path segment after "github.com/"
// anywhere in raw. It is used at registration, where a bad link must not
// block the sign-up.
func LenientGitHubUsername(raw string) (string, bool) {
	match := lenientGitHubPattern.FindStringSubmatch(raw)
	if len(match) < 2 {
		return "", false
	}

	handle := strings.TrimSpace(match[1])
	if i := strings.IndexAny(handle, "?#"); i >= 0 {
		handle = handle[:i]
	}
	if handle == "" {
		return "", false
	}
	return handle, true
}

// StrictGitHubUsername parses raw as a URL whose host is github.com and
// returns its first path segment. A missing scheme is tolerated.
func StrictGitHubUsername(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidGitHubURL
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", ErrInvalidGitHubURL
	}

	host := strings.ToLower(u.Hostname())
	if host != "github.com" && host != "www.github.com" {
		return "", ErrInvalidGitHubURL
	}

	segment, _, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
	if !gitHubHandlePattern.MatchString(segment) {
		return "", ErrInvalidGitHubURL
	}

	return segment, nil
}
