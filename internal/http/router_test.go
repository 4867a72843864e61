package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/auth"
	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/config"
	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/domain/user"
	httpx "github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/http"
	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/observability"
	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/ratelimit"
	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/repo"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	t *testing.T
	h http.Handler
}

func newTestServer(t *testing.T, limiter ratelimit.Limiter) *testServer {
	t.Helper()

	cfg := config.Config{
		Env:         "test",
		AppName:     "auth-api",
		AppVersion:  "9.9.9",
		DBDriver:    "sqlite",
		SQLitePath:  filepath.Join(t.TempDir(), "app.db"),
		CORSOrigins: []string{"*"},
		RateLimit:   config.RateLimitConfig{Max: 2, Window: time.Minute, Namespace: "test:"},
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	st, err := repo.Open(context.Background(), cfg, prom, log)
	require.NoError(t, err)
	t.Cleanup(st.Close)

	tokens, err := auth.NewManager(auth.Config{
		AccessSecret:     "access-secret",
		AccessExpiresIn:  "15m",
		RefreshSecret:    "refresh-secret",
		RefreshExpiresIn: "7d",
	})
	require.NoError(t, err)

	r := httpx.NewRouter(httpx.Deps{
		Config:        cfg,
		Log:           log,
		Users:         st.Users,
		RefreshTokens: st.RefreshTokens,
		Tokens:        tokens,
		Limiter:       limiter,
		Prom:          prom,
		Gatherer:      reg,
		Ping:          st.Ping,
	})

	return &testServer{t: t, h: r}
}

func (s *testServer) do(method, path, bearer string, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		rd = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	s.h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func register(s *testServer, name, email, password string) user.RegisteredUser {
	s.t.Helper()

	w := s.do(http.MethodPost, "/auth/register", "", map[string]string{"name": name, "email": email, "password": password})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[user.RegisteredUser](s.t, w)
}

func login(s *testServer, email, password string) user.TokenPair {
	s.t.Helper()

	w := s.do(http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	return decode[user.TokenPair](s.t, w)
}

func TestAuthLifecycle(t *testing.T) {
	s := newTestServer(t, nil)

	jane := register(s, "Jane Doe", "jane@example.com", "supersecret")
	require.NotEmpty(t, jane.ID)
	require.Equal(t, "jane@example.com", jane.Email)

	// duplicate email
	w := s.do(http.MethodPost, "/auth/register", "", map[string]string{"name": "Other Jane", "email": "jane@example.com", "password": "supersecret"})
	require.Equal(t, http.StatusConflict, w.Code)

	// wrong password and unknown email look the same
	wrong := s.do(http.MethodPost, "/auth/login", "", map[string]string{"email": "jane@example.com", "password": "wrongpass"})
	unknown := s.do(http.MethodPost, "/auth/login", "", map[string]string{"email": "ghost@example.com", "password": "wrongpass"})
	require.Equal(t, http.StatusUnauthorized, wrong.Code)
	require.Equal(t, http.StatusUnauthorized, unknown.Code)
	require.JSONEq(t, stripRequestID(t, wrong), stripRequestID(t, unknown))

	pair := login(s, "jane@example.com", "supersecret")

	// refresh rotates; the old value is single use
	w = s.do(http.MethodPost, "/auth/refresh", "", map[string]string{"refreshToken": pair.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	rotated := decode[user.TokenPair](t, w)
	require.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	w = s.do(http.MethodPost, "/auth/refresh", "", map[string]string{"refreshToken": pair.RefreshToken})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// update own profile
	w = s.do(http.MethodPatch, "/users/"+jane.ID, rotated.AccessToken, map[string]string{"name": "Jane Q. Doe"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[user.UpdatedUser](t, w)
	require.Equal(t, "Jane Q. Doe", updated.Name)
	require.Equal(t, "jane@example.com", updated.Email)

	// no token, bad token
	w = s.do(http.MethodPatch, "/users/"+jane.ID, "", map[string]string{"name": "Nobody"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	w = s.do(http.MethodPatch, "/users/"+jane.ID, rotated.RefreshToken, map[string]string{"name": "Nobody"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// another user's account
	bob := register(s, "Bob Smith", "bob@example.com", "bobsecret")
	bobPair := login(s, "bob@example.com", "bobsecret")

	w = s.do(http.MethodPatch, "/users/"+jane.ID, bobPair.AccessToken, map[string]string{"name": "Hijacked"})
	require.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(http.MethodDelete, "/users/"+jane.ID, bobPair.AccessToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	// email of another account
	w = s.do(http.MethodPatch, "/users/"+bob.ID, bobPair.AccessToken, map[string]string{"email": "jane@example.com"})
	require.Equal(t, http.StatusConflict, w.Code)

	// password change takes effect
	w = s.do(http.MethodPatch, "/users/"+bob.ID, bobPair.AccessToken, map[string]string{"password": "newbobsecret"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	login(s, "bob@example.com", "newbobsecret")

	// soft delete
	w = s.do(http.MethodDelete, "/users/"+jane.ID, rotated.AccessToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = s.do(http.MethodDelete, "/users/"+jane.ID, rotated.AccessToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPatch, "/users/"+jane.ID, rotated.AccessToken, map[string]string{"name": "Ghost"})
	require.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/auth/login", "", map[string]string{"email": "jane@example.com", "password": "supersecret"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// deleting revoked the outstanding refresh token
	w = s.do(http.MethodPost, "/auth/refresh", "", map[string]string{"refreshToken": rotated.RefreshToken})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// the email stays reserved
	w = s.do(http.MethodPost, "/auth/register", "", map[string]string{"name": "New Jane", "email": "jane@example.com", "password": "supersecret"})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	s := newTestServer(t, nil)

	register(s, "Jane Doe", "jane@example.com", "supersecret")
	pair := login(s, "jane@example.com", "supersecret")

	w := s.do(http.MethodPost, "/auth/logout", "", map[string]string{"refreshToken": pair.RefreshToken})
	require.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodPost, "/auth/refresh", "", map[string]string{"refreshToken": pair.RefreshToken})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSystemRoutes(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/docs", w.Header().Get("Location"))

	w = s.do(http.MethodGet, "/openapi.json", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	doc := decode[map[string]any](t, w)
	require.Equal(t, "3.1.0", doc["openapi"])
	require.NotContains(t, doc, "swagger")
	require.Contains(t, doc["paths"], "/auth/register")
	require.Contains(t, doc["paths"], "/users/{id}")

	info, ok := doc["info"].(map[string]any)
	require.True(t, ok, "info object missing")
	require.Equal(t, "auth-api", info["title"])
	require.Equal(t, "9.9.9", info["version"])

	components, ok := doc["components"].(map[string]any)
	require.True(t, ok, "components object missing")
	require.Contains(t, components["securitySchemes"], "bearerAuth")

	w = s.do(http.MethodGet, "/docs/", "", nil)
	require.Equal(t, http.StatusMovedPermanently, w.Code)
	require.Equal(t, "/docs/index.html", w.Header().Get("Location"))

	w = s.do(http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, strings.Contains(w.Body.String(), "authapi_http_requests_total"), "metrics body missing request counter")

	w = s.do(http.MethodGet, "/nope", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestRateLimitedRouter(t *testing.T) {
	s := newTestServer(t, ratelimit.NewMemory(ratelimit.Config{Max: 2, Window: time.Minute}))

	for i := 0; i < 2; i++ {
		w := s.do(http.MethodGet, "/healthz", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := s.do(http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.NotEmpty(t, w.Header().Get("Retry-After"))
}

// stripRequestID returns the error body without the per-request id.
func stripRequestID(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	body := decode[map[string]map[string]any](t, w)
	delete(body["error"], "requestId")

	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return string(raw)
}
