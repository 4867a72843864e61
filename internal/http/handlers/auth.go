package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/auth"
	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/domain/user"
	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/observability"
	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/security"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TokenIssuer is the part of auth.Manager the handlers need.
type TokenIssuer interface {
	SignAccessToken(p auth.Payload) (string, error)
	SignRefreshToken(p auth.Payload) (string, error)
	VerifyRefreshToken(token string) (*auth.Claims, error)
	RefreshExpiry(claims *auth.Claims) time.Time
}

type AuthHandler struct {
	users  user.Store
	tokens user.RefreshTokenStore
	jwt    TokenIssuer
	prom   *observability.Prom

	now func() time.Time
}

func NewAuthHandler(users user.Store, tokens user.RefreshTokenStore, jwt TokenIssuer, prom *observability.Prom) *AuthHandler {
	return &AuthHandler{
		users:  users,
		tokens: tokens,
		jwt:    jwt,
		prom:   prom,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Register godoc
//
//	@Summary	Register a new user
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		user.RegisterRequest	true	"New user"
//	@Success	201		{object}	user.RegisteredUser
//	@Failure	400		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse	"Email already registered"
//	@Failure	500		{object}	ErrorResponse
//	@Router		/auth/register [post]
func (h *AuthHandler) Register(ctx *gin.Context) {
	var req user.RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	exists, err := h.users.ExistsByEmail(cctx, req.Email)
	if err != nil {
		h.prom.AuthEvent("register", "error")
		RespondInternal(ctx, err, "Could not create user")
		return
	}

	if exists {
		h.prom.AuthEvent("register", "conflict")
		RespondConflict(ctx, "email_taken", "Email is already in use.")
		return
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		RespondInternal(ctx, err, "Could not create user")
		return
	}

	now := h.now()
	u, err := h.users.Create(cctx, user.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})

	if err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, user.ErrEmailTaken) {
			h.prom.AuthEvent("register", "conflict")
			RespondConflict(ctx, "email_taken", "Email is already in use.")
			return
		}

		h.prom.AuthEvent("register", "error")
		RespondInternal(ctx, err, "Could not create user")
		return
	}

	h.prom.AuthEvent("register", "ok")
	ctx.JSON(http.StatusCreated, u.Registered())
}

// Login godoc
//
//	@Summary	Exchange credentials for a token pair
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		user.LoginRequest	true	"Credentials"
//	@Success	200		{object}	user.TokenPair
//	@Failure	400		{object}	ErrorResponse
//	@Failure	401		{object}	ErrorResponse	"Invalid credentials"
//	@Failure	500		{object}	ErrorResponse
//	@Router		/auth/login [post]
func (h *AuthHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// short timeout for DB lookup
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	found, err := h.users.GetActiveByEmail(cctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			h.prom.AuthEvent("login", "invalid_credentials")
			RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
			return
		}

		h.prom.AuthEvent("login", "error")
		RespondInternal(ctx, err, "Could not sign in")
		return
	}

	ok, err := security.ComparePassword(req.Password, found.PasswordHash)
	if err != nil {
		h.prom.AuthEvent("login", "error")
		RespondInternal(ctx, fmt.Errorf("compare password for user %s: %w", found.ID, err), "Could not sign in")
		return
	}

	if !ok {
		h.prom.AuthEvent("login", "invalid_credentials")
		RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
		return
	}

	pair, expiresAt, err := h.issuePair(auth.Payload{ID: found.ID, Name: found.Name, Email: found.Email})
	if err != nil {
		RespondInternal(ctx, err, "Could not generate tokens")
		return
	}

	err = h.tokens.Create(cctx, user.RefreshToken{
		ID:        uuid.NewString(),
		Token:     pair.RefreshToken,
		UserID:    found.ID,
		ExpiresAt: expiresAt,
		CreatedAt: h.now(),
	})

	if err != nil {
		h.prom.AuthEvent("login", "error")
		RespondInternal(ctx, err, "Could not create session")
		return
	}

	h.prom.AuthEvent("login", "ok")
	ctx.JSON(http.StatusOK, pair)
}

// Refresh godoc
//
//	@Summary		Rotate a refresh token
//	@Description	The presented token is replaced in place; it cannot be used again.
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		user.RefreshRequest	true	"Refresh token"
//	@Success		200		{object}	user.TokenPair
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse	"Invalid, revoked or expired refresh token"
//	@Failure		500		{object}	ErrorResponse
//	@Router			/auth/refresh [post]
func (h *AuthHandler) Refresh(ctx *gin.Context) {
	var req user.RefreshRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	row, err := h.tokens.FindActive(cctx, req.RefreshToken, h.now())
	if err != nil {
		if errors.Is(err, user.ErrRefreshTokenNotFound) {
			h.prom.AuthEvent("refresh", "invalid")
			RespondUnAuthorized(ctx, "invalid_refresh", "Invalid or expired refresh token.")
			return
		}

		h.prom.AuthEvent("refresh", "error")
		RespondInternal(ctx, err, "Could not refresh session")
		return
	}

	claims, err := h.jwt.VerifyRefreshToken(req.RefreshToken)

	// the row and the signed subject must agree
	if err != nil || claims.UserID != row.UserID {
		h.prom.AuthEvent("refresh", "invalid")
		RespondUnAuthorized(ctx, "invalid_refresh", "Invalid or expired refresh token.")
		return
	}

	pair, expiresAt, err := h.issuePair(claims.Payload())
	if err != nil {
		RespondInternal(ctx, err, "Could not generate tokens")
		return
	}

	err = h.tokens.Rotate(cctx, row.ID, req.RefreshToken, pair.RefreshToken, expiresAt)
	if err != nil {
		// a concurrent refresh rotated it first
		if errors.Is(err, user.ErrRefreshTokenNotFound) {
			h.prom.AuthEvent("refresh", "invalid")
			RespondUnAuthorized(ctx, "invalid_refresh", "Invalid or expired refresh token.")
			return
		}

		h.prom.AuthEvent("refresh", "error")
		RespondInternal(ctx, err, "Could not refresh session")
		return
	}

	h.prom.AuthEvent("refresh", "ok")
	ctx.JSON(http.StatusOK, pair)
}

// Logout godoc
//
//	@Summary	Revoke a refresh token
//	@Tags		auth
//	@Accept		json
//	@Param		body	body	user.LogoutRequest	true	"Refresh token"
//	@Success	204		"No Content"
//	@Failure	400		{object}	ErrorResponse
//	@Router		/auth/logout [post]
func (h *AuthHandler) Logout(ctx *gin.Context) {
	var req user.LogoutRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	// revoking is idempotent and unknown tokens are not reported
	if err := h.tokens.RevokeByToken(cctx, req.RefreshToken, h.now()); err != nil {
		_ = ctx.Error(err)
		h.prom.AuthEvent("logout", "error")
	} else {
		h.prom.AuthEvent("logout", "ok")
	}

	ctx.Status(http.StatusNoContent)
}

// issuePair signs both tokens and decodes the refresh expiry for storage.
func (h *AuthHandler) issuePair(p auth.Payload) (user.TokenPair, time.Time, error) {
	access, err := h.jwt.SignAccessToken(p)
	if err != nil {
		return user.TokenPair{}, time.Time{}, fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := h.jwt.SignRefreshToken(p)
	if err != nil {
		return user.TokenPair{}, time.Time{}, fmt.Errorf("sign refresh token: %w", err)
	}

	claims, err := h.jwt.VerifyRefreshToken(refresh)
	if err != nil {
		return user.TokenPair{}, time.Time{}, fmt.Errorf("decode refresh token: %w", err)
	}

	return user.TokenPair{AccessToken: access, RefreshToken: refresh}, h.jwt.RefreshExpiry(claims), nil
}
