package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/dev-profiles/internal/service"
	"github.com/MKhiriev/dev-profiles/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetServerVersion_WritesVersion(t *testing.T) {
	h := newTestHandler(t, &service.Services{AppInfoService: &mockAppInfoService{version: "1.2.3"}})

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rec := httptest.NewRecorder()

	h.getServerVersion(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1.2.3", rec.Body.String())
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
}

func TestGetServerVersion_ViaRouter(t *testing.T) {
	h := newTestHandler(t, &service.Services{AppInfoService: &mockAppInfoService{version: "v0.4.0"}})

	rec := serve(t, h, http.MethodGet, "/api/version", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "v0.4.0", rec.Body.String())
}

func TestGetBuildInfo(t *testing.T) {
	info := models.BuildInfoResponse{Version: "v0.4.0", Date: "2026-05-01", Commit: "abc123"}
	h := newTestHandler(t, &service.Services{AppInfoService: &mockAppInfoService{buildInfo: info}})

	rec := serve(t, h, http.MethodGet, "/api/version/build", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"version":"v0.4.0","date":"2026-05-01","commit":"abc123"}`, rec.Body.String())
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t, &service.Services{})

	rec := serve(t, h, http.MethodGet, "/api/health", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
