package http

import (
	"net/http"

	"github.com/google/uuid"
)

const (
	traceIDHeader = "X-Trace-ID"

	maxTraceIDLength = 128
)

// withTraceID attaches a child logger carrying trace_id to the request
// context. A client-supplied X-Trace-ID is reused when it is of sane length.
func (h *Handler) withTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(traceIDHeader)
		if traceID == "" || len(traceID) > maxTraceIDLength {
			traceID = uuid.NewString()
		}

		r = r.WithContext(h.logger.WithTraceID(traceID).WithContext(r.Context()))

		w.Header().Set(traceIDHeader, traceID)
		next.ServeHTTP(w, r)
	})
}
