package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/auth"
	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/domain/user"
	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/security"
	"github.com/gin-gonic/gin"
)

type UsersHandler struct {
	users  user.Store
	tokens user.RefreshTokenStore

	now func() time.Time
}

func NewUsersHandler(users user.Store, tokens user.RefreshTokenStore) *UsersHandler {
	return &UsersHandler{
		users:  users,
		tokens: tokens,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Update godoc
//
//	@Summary	Update your own profile
//	@Tags		users
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"User ID"
//	@Param		body	body		user.UpdateRequest	true	"Fields to change"
//	@Success	200		{object}	user.UpdatedUser
//	@Failure	400		{object}	ErrorResponse
//	@Failure	401		{object}	ErrorResponse
//	@Failure	403		{object}	ErrorResponse	"Not your account"
//	@Failure	404		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse	"Email already registered"
//	@Security	bearerAuth
//	@Router		/users/{id} [patch]
func (h *UsersHandler) Update(ctx *gin.Context, p auth.Principal) {
	id := ctx.Param("id")

	if !p.Owns(id) {
		RespondForbidden(ctx, "You can only modify your own account.")
		return
	}

	var req user.UpdateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	patch := user.Patch{Name: req.Name, Email: req.Email}

	if req.Password != nil {
		hash, err := security.HashPassword(*req.Password)
		if err != nil {
			RespondInternal(ctx, err, "Could not update user")
			return
		}
		patch.PasswordHash = &hash
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	updated, err := h.users.Update(cctx, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			RespondNotFound(ctx, "User not found")
		case errors.Is(err, user.ErrEmailTaken):
			RespondConflict(ctx, "email_taken", "Email is already in use.")
		default:
			RespondInternal(ctx, err, "Could not update user")
		}
		return
	}

	ctx.JSON(http.StatusOK, updated.Updated())
}

// Delete godoc
//
//	@Summary		Delete your own account
//	@Description	Soft delete. Outstanding refresh tokens are revoked.
//	@Tags			users
//	@Param			id	path	string	true	"User ID"
//	@Success		204	"No Content"
//	@Failure		401	{object}	ErrorResponse
//	@Failure		403	{object}	ErrorResponse	"Not your account"
//	@Failure		404	{object}	ErrorResponse
//	@Security		bearerAuth
//	@Router			/users/{id} [delete]
func (h *UsersHandler) Delete(ctx *gin.Context, p auth.Principal) {
	id := ctx.Param("id")

	if !p.Owns(id) {
		RespondForbidden(ctx, "You can only delete your own account.")
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	now := h.now()

	if err := h.users.SoftDelete(cctx, id, now); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		RespondInternal(ctx, err, "Could not delete user")
		return
	}

	// the account is gone either way; a failed revoke is only logged
	if err := h.tokens.RevokeAllForUser(cctx, id, now); err != nil {
		_ = ctx.Error(err)
	}

	ctx.Status(http.StatusNoContent)
}
