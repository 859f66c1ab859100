package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
	"github.com/unrolled/secure"
)

const (
	corsMaxAge  = 600
	stsMaxAge   = 63072000
	apiCSPolicy = "default-src 'none'; frame-ancestors 'none'"
)

// newSecurityHeaders sets the browser security headers. HSTS is only sent
// over TLS.
func newSecurityHeaders() func(http.Handler) http.Handler {
	return secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: apiCSPolicy,
		STSSeconds:            stsMaxAge,
		STSIncludeSubdomains:  true,
	}).Handler
}

// newCORS allows the configured frontend origin to call the API with
// credentials. Without a frontend origin no CORS headers are sent.
func (h *Handler) newCORS() func(http.Handler) http.Handler {
	origin := strings.TrimRight(strings.TrimSpace(h.cfg.FrontendURL), "/")
	if origin == "" {
		return func(next http.Handler) http.Handler { return next }
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{origin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Trace-ID"},
		ExposedHeaders:   []string{"X-Trace-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           corsMaxAge,
	})
}
