package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func TestCheckHTTPMethod(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	router.Post("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Get("/api/profile/{username}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.MethodNotAllowed(CheckHTTPMethod(router))

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{name: "registered method", method: http.MethodGet, path: "/api/health", wantStatus: http.StatusOK},
		{name: "unregistered method on static route", method: http.MethodDelete, path: "/api/health", wantStatus: http.StatusNotFound},
		{name: "GET on POST-only route", method: http.MethodGet, path: "/api/auth/login", wantStatus: http.StatusNotFound},
		{name: "unregistered method on parameterised route", method: http.MethodPut, path: "/api/profile/alice", wantStatus: http.StatusNotFound},
		{name: "unknown path", method: http.MethodGet, path: "/api/unknown", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.NotEqual(t, http.StatusMethodNotAllowed, rec.Code)
		})
	}
}
