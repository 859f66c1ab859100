package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/dev-profiles/internal/service"
	"github.com/MKhiriev/dev-profiles/internal/utils"
	"github.com/MKhiriev/dev-profiles/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantNext   bool
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "no scheme", header: testAccessToken, wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + testAccessToken, wantStatus: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", wantStatus: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer forged", wantStatus: http.StatusForbidden},
		{name: "valid token", header: "Bearer " + testAccessToken, wantStatus: http.StatusOK, wantNext: true},
		{name: "lowercase scheme", header: "bearer " + testAccessToken, wantStatus: http.StatusOK, wantNext: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, &service.Services{AuthService: authAccepting()})

			var called bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				accountID, ok := utils.GetAccountIDFromContext(r.Context())
				assert.True(t, ok)
				assert.Equal(t, testAccountID, accountID)
				role, ok := utils.GetRoleFromContext(r.Context())
				assert.True(t, ok)
				assert.Equal(t, models.RoleUser, role)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			h.auth(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantNext, called)
		})
	}
}

func TestGetTokenFromAuthHeader(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr error
	}{
		{header: "Bearer abc", want: "abc"},
		{header: "Bearer   abc  ", want: "abc"},
		{header: "Bearer", wantErr: ErrInvalidAuthorizationHeader},
		{header: "Token abc", wantErr: ErrInvalidAuthorizationHeader},
		{header: "Bearer  ", wantErr: ErrEmptyToken},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := getTokenFromAuthHeader(tt.header)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		setRole    bool
		role       models.Role
		wantStatus int
	}{
		{name: "admin passes", setRole: true, role: models.RoleAdmin, wantStatus: http.StatusNoContent},
		{name: "user is forbidden", setRole: true, role: models.RoleUser, wantStatus: http.StatusForbidden},
		{name: "no role in context", wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.setRole {
				req = req.WithContext(utils.WithAccount(req.Context(), "id", tt.role))
			}
			rec := httptest.NewRecorder()

			requireRole(models.RoleAdmin)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
