package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/dev-profiles/internal/config"
	"github.com/MKhiriev/dev-profiles/internal/logger"
	"github.com/MKhiriev/dev-profiles/internal/service"
	"github.com/MKhiriev/dev-profiles/internal/store"
	"github.com/MKhiriev/dev-profiles/models"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// Service mocks
// ─────────────────────────────────────────────

// mockAuthService implements service.AuthService for unit tests.
// Each method field can be overridden per test case.
type mockAuthService struct {
	registerFn     func(ctx context.Context, req models.RegisterRequest) (models.AuthResult, error)
	loginFn        func(ctx context.Context, email, password string) (models.AuthResult, error)
	refreshTokenFn func(ctx context.Context, refreshToken string) (models.TokenPair, error)
	logoutFn       func(ctx context.Context, accountID string) error
	unlockFn       func(ctx context.Context, accountID string) error
	parseFn        func(ctx context.Context, tokenString string) (models.Token, error)
}

func (m *mockAuthService) Register(ctx context.Context, req models.RegisterRequest) (models.AuthResult, error) {
	return m.registerFn(ctx, req)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (models.AuthResult, error) {
	return m.loginFn(ctx, email, password)
}

func (m *mockAuthService) RefreshToken(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	return m.refreshTokenFn(ctx, refreshToken)
}

func (m *mockAuthService) Logout(ctx context.Context, accountID string) error {
	return m.logoutFn(ctx, accountID)
}

func (m *mockAuthService) Unlock(ctx context.Context, accountID string) error {
	return m.unlockFn(ctx, accountID)
}

func (m *mockAuthService) ParseAccessToken(ctx context.Context, tokenString string) (models.Token, error) {
	return m.parseFn(ctx, tokenString)
}

type mockProfileService struct {
	getFn       func(ctx context.Context, accountID string) (models.ProfileView, error)
	getByNameFn func(ctx context.Context, username string) (models.ProfileView, error)
	updateFn    func(ctx context.Context, accountID string, update models.ProfileUpdate) (models.ProfileView, error)
}

func (m *mockProfileService) GetProfile(ctx context.Context, accountID string) (models.ProfileView, error) {
	return m.getFn(ctx, accountID)
}

func (m *mockProfileService) GetProfileByUsername(ctx context.Context, username string) (models.ProfileView, error) {
	return m.getByNameFn(ctx, username)
}

func (m *mockProfileService) UpdateProfile(ctx context.Context, accountID string, update models.ProfileUpdate) (models.ProfileView, error) {
	return m.updateFn(ctx, accountID, update)
}

type mockGitHubService struct {
	syncFn      func(ctx context.Context, accountID string) (models.ProfileView, error)
	getFn       func(ctx context.Context, handle string) (models.GitHubProfileView, error)
	updateFn    func(ctx context.Context, accountID string, update models.GitHubProfileUpdate) (models.GitHubProfileView, error)
	extractFn   func(ctx context.Context, rawURL string) (string, error)
	syncStaleFn func(ctx context.Context, staleBefore time.Time, limit int) (int, error)
}

func (m *mockGitHubService) SyncGitHubProfile(ctx context.Context, accountID string) (models.ProfileView, error) {
	return m.syncFn(ctx, accountID)
}

func (m *mockGitHubService) GetGitHubProfile(ctx context.Context, handle string) (models.GitHubProfileView, error) {
	return m.getFn(ctx, handle)
}

func (m *mockGitHubService) UpdateGitHubProfile(ctx context.Context, accountID string, update models.GitHubProfileUpdate) (models.GitHubProfileView, error) {
	return m.updateFn(ctx, accountID, update)
}

func (m *mockGitHubService) ExtractGitHubUsername(ctx context.Context, rawURL string) (string, error) {
	return m.extractFn(ctx, rawURL)
}

func (m *mockGitHubService) SyncStale(ctx context.Context, staleBefore time.Time, limit int) (int, error) {
	return m.syncStaleFn(ctx, staleBefore, limit)
}

type mockContactService struct {
	sendFn func(ctx context.Context, msg models.ContactMessage) error
}

func (m *mockContactService) SendContactMessage(ctx context.Context, msg models.ContactMessage) error {
	return m.sendFn(ctx, msg)
}

type mockAppInfoService struct {
	version   string
	buildInfo models.BuildInfoResponse
}

func (m *mockAppInfoService) GetAppVersion(_ context.Context) string {
	return m.version
}

func (m *mockAppInfoService) GetBuildInfo(_ context.Context) models.BuildInfoResponse {
	return m.buildInfo
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

const (
	testAccessToken = "valid.access.token"
	testAdminToken  = "valid.admin.token"
	testAccountID   = "0190a5c4-7a1e-7c3e-9d4b-2f1e6a7b8c9d"
)

// authAccepting returns an auth mock whose ParseAccessToken accepts the two
// test tokens and rejects everything else.
func authAccepting() *mockAuthService {
	return &mockAuthService{
		parseFn: func(_ context.Context, tokenString string) (models.Token, error) {
			switch tokenString {
			case testAccessToken:
				return models.Token{AccountID: testAccountID, Role: models.RoleUser}, nil
			case testAdminToken:
				return models.Token{AccountID: "admin-id", Role: models.RoleAdmin}, nil
			default:
				return models.Token{}, service.ErrTokenIsExpiredOrInvalid
			}
		},
	}
}

// newTestHandler builds a Handler over svcs with rate limiting disabled.
func newTestHandler(t *testing.T, svcs *service.Services) *Handler {
	t.Helper()
	return newTestHandlerWithLimits(t, svcs, nil, config.Server{})
}

func newTestHandlerWithLimits(t *testing.T, svcs *service.Services, limits store.RateLimitRepository, cfg config.Server) *Handler {
	t.Helper()
	if svcs.AppInfoService == nil {
		svcs.AppInfoService = &mockAppInfoService{version: "test"}
	}
	h, err := NewHandler(svcs, limits, cfg, logger.Nop())
	require.NoError(t, err)
	return h
}

// serve runs a request with an optional bearer token through the full router.
func serve(t *testing.T, h *Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.Init().ServeHTTP(rec, req)
	return rec
}
