package handlers_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/auth"
	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/domain/user"
	"github.com/gin-gonic/gin"
)

// Make sure Gin does not spam the console during the test
func init() {
	gin.SetMode(gin.TestMode)
}

// Fake implementations of user.Store and user.RefreshTokenStore.

type fakeUsersRepo struct {
	createFn           func(ctx context.Context, u user.User) (user.User, error)
	existsByEmailFn    func(ctx context.Context, email string) (bool, error)
	getActiveByEmailFn func(ctx context.Context, email string) (user.User, error)
	updateFn           func(ctx context.Context, id string, p user.Patch) (user.User, error)
	softDeleteFn       func(ctx context.Context, id string, at time.Time) error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	if f.createFn != nil {
		return f.createFn(ctx, u)
	}
	return u, nil
}

func (f *fakeUsersRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if f.existsByEmailFn != nil {
		return f.existsByEmailFn(ctx, email)
	}
	return false, nil
}

func (f *fakeUsersRepo) GetActiveByEmail(ctx context.Context, email string) (user.User, error) {
	if f.getActiveByEmailFn != nil {
		return f.getActiveByEmailFn(ctx, email)
	}
	return user.User{}, user.ErrNotFound
}

func (f *fakeUsersRepo) Update(ctx context.Context, id string, p user.Patch) (user.User, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, p)
	}
	return user.User{ID: id}, nil
}

func (f *fakeUsersRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	if f.softDeleteFn != nil {
		return f.softDeleteFn(ctx, id, at)
	}
	return nil
}

type fakeTokensRepo struct {
	createFn           func(ctx context.Context, t user.RefreshToken) error
	findActiveFn       func(ctx context.Context, token string, now time.Time) (user.RefreshToken, error)
	rotateFn           func(ctx context.Context, id, oldToken, newToken string, expiresAt time.Time) error
	revokeByTokenFn    func(ctx context.Context, token string, at time.Time) error
	revokeAllForUserFn func(ctx context.Context, userID string, at time.Time) error
}

func (f *fakeTokensRepo) Create(ctx context.Context, t user.RefreshToken) error {
	if f.createFn != nil {
		return f.createFn(ctx, t)
	}
	return nil
}

func (f *fakeTokensRepo) FindActive(ctx context.Context, token string, now time.Time) (user.RefreshToken, error) {
	if f.findActiveFn != nil {
		return f.findActiveFn(ctx, token, now)
	}
	return user.RefreshToken{}, user.ErrRefreshTokenNotFound
}

func (f *fakeTokensRepo) Rotate(ctx context.Context, id, oldToken, newToken string, expiresAt time.Time) error {
	if f.rotateFn != nil {
		return f.rotateFn(ctx, id, oldToken, newToken, expiresAt)
	}
	return nil
}

func (f *fakeTokensRepo) RevokeByToken(ctx context.Context, token string, at time.Time) error {
	if f.revokeByTokenFn != nil {
		return f.revokeByTokenFn(ctx, token, at)
	}
	return nil
}

func (f *fakeTokensRepo) RevokeAllForUser(ctx context.Context, userID string, at time.Time) error {
	if f.revokeAllForUserFn != nil {
		return f.revokeAllForUserFn(ctx, userID, at)
	}
	return nil
}

func (f *fakeTokensRepo) PurgeStale(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

func newTestManager(t *testing.T) *auth.Manager {
	t.Helper()

	m, err := auth.NewManager(auth.Config{
		AccessSecret:     "access-secret-for-tests",
		AccessExpiresIn:  "15m",
		RefreshSecret:    "refresh-secret-for-tests",
		RefreshExpiresIn: "7d",
	})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return m
}

// small helper function which returns the gin engine to mount one handler per test
func setupRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, h)

	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
