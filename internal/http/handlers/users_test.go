package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/auth"
	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/domain/user"
	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/http/handlers"
	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/http/middlewares"
	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/security"
	"github.com/gin-gonic/gin"
)

var caller = auth.Principal{UserID: "u-1", Name: "Jane Doe", Email: "jane@example.com"}

// asCaller mounts an authenticated handler with a fixed principal.
func asCaller(next middlewares.AuthenticatedHandler) gin.HandlerFunc {
	return func(c *gin.Context) { next(c, caller) }
}

func TestUpdateUserHandler(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name           string
		path           string
		body           string
		repoSetUp      func(*testing.T, *fakeUsersRepo)
		wantStatusCode int
		wantCode       string
	}{
		{
			name: "success",
			path: "/users/u-1",
			body: `{"name":"Jane Q","password":"newsecret"}`,
			repoSetUp: func(t *testing.T, f *fakeUsersRepo) {
				f.updateFn = func(ctx context.Context, id string, p user.Patch) (user.User, error) {
					if p.Email != nil {
						t.Errorf("email should be untouched, got %q", *p.Email)
					}
					if p.PasswordHash == nil {
						t.Fatal("password hash missing from patch")
					}
					if ok, _ := security.ComparePassword("newsecret", *p.PasswordHash); !ok {
						t.Error("password was not rehashed")
					}
					return user.User{ID: id, Name: *p.Name, Email: caller.Email, UpdatedAt: now}, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "other_account",
			path: "/users/u-2",
			body: `{"name":"Mallory"}`,
			repoSetUp: func(t *testing.T, f *fakeUsersRepo) {
				f.updateFn = func(ctx context.Context, id string, p user.Patch) (user.User, error) {
					t.Error("update must not run for another account")
					return user.User{}, nil
				}
			},
			wantStatusCode: http.StatusForbidden,
			wantCode:       "forbidden",
		},
		{
			name:           "validation_error",
			path:           "/users/u-1",
			body:           `{"email":"nope"}`,
			wantStatusCode: http.StatusBadRequest,
			wantCode:       "invalid_request",
		},
		{
			name: "not_found",
			path: "/users/u-1",
			body: `{"name":"Jane Q"}`,
			repoSetUp: func(t *testing.T, f *fakeUsersRepo) {
				f.updateFn = func(ctx context.Context, id string, p user.Patch) (user.User, error) {
					return user.User{}, user.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
			wantCode:       "not_found",
		},
		{
			name: "email_taken",
			path: "/users/u-1",
			body: `{"email":"taken@example.com"}`,
			repoSetUp: func(t *testing.T, f *fakeUsersRepo) {
				f.updateFn = func(ctx context.Context, id string, p user.Patch) (user.User, error) {
					return user.User{}, user.ErrEmailTaken
				}
			},
			wantStatusCode: http.StatusConflict,
			wantCode:       "email_taken",
		},
		{
			name: "repo_error",
			path: "/users/u-1",
			body: `{"name":"Jane Q"}`,
			repoSetUp: func(t *testing.T, f *fakeUsersRepo) {
				f.updateFn = func(ctx context.Context, id string, p user.Patch) (user.User, error) {
					return user.User{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
			wantCode:       "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &fakeUsersRepo{}
			if tt.repoSetUp != nil {
				tt.repoSetUp(t, users)
			}

			h := handlers.NewUsersHandler(users, &fakeTokensRepo{})
			r := setupRouter(http.MethodPatch, "/users/:id", asCaller(h.Update))

			w := doJSON(r, http.MethodPatch, tt.path, tt.body)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantCode != "" {
				if got := decodeCode(t, w.Body.Bytes()); got != tt.wantCode {
					t.Fatalf("got code %q, want %q", got, tt.wantCode)
				}
				return
			}

			var got user.UpdatedUser
			if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Name != "Jane Q" || got.UpdatedAt != user.FormatTime(now) {
				t.Fatalf("unexpected body: %+v", got)
			}
		})
	}
}

func TestDeleteUserHandler(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		deleteErr      error
		revokeErr      error
		wantStatusCode int
		wantRevoked    bool
	}{
		{name: "success", path: "/users/u-1", wantStatusCode: http.StatusNoContent, wantRevoked: true},
		{name: "other_account", path: "/users/u-2", wantStatusCode: http.StatusForbidden},
		{name: "not_found", path: "/users/u-1", deleteErr: user.ErrNotFound, wantStatusCode: http.StatusNotFound},
		{name: "repo_error", path: "/users/u-1", deleteErr: errors.New("db error"), wantStatusCode: http.StatusInternalServerError},
		{name: "revoke_error_still_deletes", path: "/users/u-1", revokeErr: errors.New("db error"), wantStatusCode: http.StatusNoContent, wantRevoked: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var deleted, revoked string

			users := &fakeUsersRepo{
				softDeleteFn: func(ctx context.Context, id string, at time.Time) error {
					if at.IsZero() {
						t.Error("soft delete without timestamp")
					}
					deleted = id
					return tt.deleteErr
				},
			}
			tokens := &fakeTokensRepo{
				revokeAllForUserFn: func(ctx context.Context, userID string, at time.Time) error {
					revoked = userID
					return tt.revokeErr
				},
			}

			h := handlers.NewUsersHandler(users, tokens)
			r := setupRouter(http.MethodDelete, "/users/:id", asCaller(h.Delete))

			w := doJSON(r, http.MethodDelete, tt.path, "")

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode == http.StatusForbidden && deleted != "" {
				t.Fatalf("deleted %q for a foreign id", deleted)
			}

			if got := revoked == caller.UserID; got != tt.wantRevoked {
				t.Fatalf("revoked=%q, want revoke %v", revoked, tt.wantRevoked)
			}
		})
	}
}
