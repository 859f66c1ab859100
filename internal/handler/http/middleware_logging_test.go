package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MKhiriev/dev-profiles/internal/logger"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newBufferedHandler returns a Handler whose logger writes JSON lines to buf.
func newBufferedHandler(buf *bytes.Buffer) *Handler {
	return &Handler{logger: &logger.Logger{Logger: zerolog.New(buf)}}
}

func lastLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func TestWithLogging_AccessLog(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		status     int
		body       string
		wantStatus float64
		wantSize   float64
	}{
		{name: "GET 200", method: http.MethodGet, path: "/api/health", status: http.StatusOK, body: "OK", wantStatus: 200, wantSize: 2},
		{name: "POST 201", method: http.MethodPost, path: "/api/auth/register", status: http.StatusCreated, body: `{"id":"1"}`, wantStatus: 201, wantSize: 10},
		{name: "implicit 200 without body", method: http.MethodGet, path: "/api/version", wantStatus: 200, wantSize: 0},
		{name: "401", method: http.MethodPost, path: "/api/auth/logout", status: http.StatusUnauthorized, wantStatus: 401, wantSize: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := newBufferedHandler(&buf)

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}
				if tt.body != "" {
					_, _ = w.Write([]byte(tt.body))
				}
			})

			rec := httptest.NewRecorder()
			h.withTraceID(h.withLogging(next)).ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			entry := lastLogLine(t, &buf)
			assert.Equal(t, tt.method, entry["method"])
			assert.Equal(t, tt.path, entry["uri"])
			assert.Equal(t, tt.wantStatus, entry["status"])
			assert.Equal(t, tt.wantSize, entry["size"])
			assert.Contains(t, entry, "duration")
			assert.Equal(t, rec.Header().Get(traceIDHeader), entry["trace_id"])
		})
	}
}

func TestWithTraceID(t *testing.T) {
	tests := []struct {
		name       string
		incoming   string
		wantReused bool
	}{
		{name: "generated when absent", incoming: ""},
		{name: "reused when supplied", incoming: "client-trace-42", wantReused: true},
		{name: "replaced when too long", incoming: strings.Repeat("x", maxTraceIDLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := newBufferedHandler(&buf)

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				logger.FromRequest(r).Info().Msg("inside")
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(traceIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()

			h.withTraceID(next).ServeHTTP(rec, req)

			traceID := rec.Header().Get(traceIDHeader)
			if tt.wantReused {
				assert.Equal(t, tt.incoming, traceID)
			} else {
				_, err := uuid.Parse(traceID)
				assert.NoError(t, err)
			}
			assert.Equal(t, traceID, lastLogLine(t, &buf)["trace_id"])
		})
	}
}
