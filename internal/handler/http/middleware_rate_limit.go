package http

import (
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/MKhiriev/dev-profiles/internal/logger"
	"github.com/MKhiriev/dev-profiles/internal/utils"
	"github.com/MKhiriev/dev-profiles/models"
)

// rateDecision is the outcome of one sliding-window check.
type rateDecision struct {
	allowed    bool
	limit      int
	remaining  int
	reset      time.Time
	retryAfter time.Duration
}

// withRateLimit enforces a per-client sliding window of cfg.RateLimit
// requests per cfg.RateWindow, keyed by rule name and client IP.
//
// The limiter fails open: when the store is not configured or returns an
// error the request is let through and the failure is logged.
func (h *Handler) withRateLimit(rule string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if h.rateLimits == nil || h.cfg.RateLimit <= 0 || h.cfg.RateWindow <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := fmt.Sprintf("%s:%s", rule, clientIP(r))

			decision, err := h.checkRateLimit(r, key)
			if err != nil {
				logger.FromRequest(r).Warn().Err(err).Str("rule", rule).Msg("rate limit check failed")
				next.ServeHTTP(w, r)
				return
			}

			applyRateLimitHeaders(w, decision)
			if !decision.allowed {
				h.metrics.rateLimited.WithLabelValues(rule).Inc()
				logger.FromRequest(r).Warn().Str("rule", rule).Str("key", key).Msg("rate limit exceeded")
				utils.WriteJSON(w, models.ErrorResponse{Error: ErrTooManyRequests.Error()}, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (h *Handler) checkRateLimit(r *http.Request, key string) (rateDecision, error) {
	ctx := r.Context()
	now := h.now()
	window := h.cfg.RateWindow

	if err := h.rateLimits.TrimWindow(ctx, key, window, now); err != nil {
		return rateDecision{}, err
	}

	count, err := h.rateLimits.CountAttempts(ctx, key, window, now)
	if err != nil {
		return rateDecision{}, err
	}

	oldest, hasAttempts, err := h.rateLimits.OldestAttempt(ctx, key, window, now)
	if err != nil {
		return rateDecision{}, err
	}

	decision := rateDecision{
		allowed: true,
		limit:   h.cfg.RateLimit,
		reset:   now.Add(window),
	}
	if hasAttempts {
		decision.reset = oldest.Add(window)
	}
	decision.retryAfter = max(decision.reset.Sub(now), 0)

	if count >= h.cfg.RateLimit {
		decision.allowed = false
		return decision, nil
	}

	if err := h.rateLimits.RecordAttempt(ctx, key, now); err != nil {
		return rateDecision{}, err
	}
	decision.remaining = max(h.cfg.RateLimit-count-1, 0)

	return decision, nil
}

func applyRateLimitHeaders(w http.ResponseWriter, d rateDecision) {
	headers := w.Header()
	headers.Set("X-RateLimit-Limit", strconv.Itoa(d.limit))
	headers.Set("X-RateLimit-Remaining", strconv.Itoa(d.remaining))
	headers.Set("X-RateLimit-Reset", strconv.FormatInt(d.reset.Unix(), 10))

	if !d.allowed {
		headers.Set("Retry-After", strconv.Itoa(int(math.Ceil(d.retryAfter.Seconds()))))
	}
}

// clientIP returns the host part of RemoteAddr, which chi's RealIP
// middleware has already replaced with the forwarded address when present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
