package http

import (
	"github.com/MKhiriev/dev-profiles/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	authRateLimitRule    = "auth"
	contactRateLimitRule = "contact"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.RealIP)
	router.Use(h.withTraceID, h.withLogging, h.withMetrics)
	router.Use(newSecurityHeaders(), h.newCORS())
	if h.cfg.RequestTimeout > 0 {
		router.Use(middleware.Timeout(h.cfg.RequestTimeout))
	}

	router.Handle("/metrics", promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{}))

	router.Group(func(r chi.Router) {
		r.Use(withGZip)

		// routes without authorization
		r.Get("/api/health", h.health)
		r.Get("/api/version", h.getServerVersion)
		r.Get("/api/version/build", h.getBuildInfo)
		r.Get("/api/profile/{username}", h.getProfileByUsername)
		r.Get("/api/github/profile/{username}", h.getGitHubProfile)
		r.Post("/api/github/extract-username", h.extractGitHubUsername)

		r.Group(func(r chi.Router) {
			r.Use(h.withRateLimit(authRateLimitRule))
			r.Post("/api/auth/register", h.register)
			r.Post("/api/auth/login", h.login)
			r.Post("/api/auth/refresh-token", h.refreshToken)
		})

		r.With(h.withRateLimit(contactRateLimitRule)).Post("/api/contact", h.sendContact)

		// routes with authorization
		r.Group(func(r chi.Router) {
			r.Use(h.auth)
			r.Post("/api/auth/logout", h.logout)
			r.Get("/api/profile/me", h.getMyProfile)
			r.Put("/api/profile/me", h.updateMyProfile)
			r.Post("/api/github/sync", h.syncGitHub)
			r.Put("/api/github/profile", h.updateGitHubProfile)

			r.With(requireRole(models.RoleAdmin)).Post("/api/admin/accounts/{id}/unlock", h.unlockAccount)
		})
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
