// internal/app/features/users/users.go
package users

import (
	"context"
	"errors"
	"net/http"
	"strings"

	userstore "github.com/dalemusser/learnhub/internal/app/store/users"
	"github.com/dalemusser/learnhub/internal/app/system/authz"
	"github.com/dalemusser/learnhub/internal/app/system/filestore"
	"github.com/dalemusser/learnhub/internal/app/system/inputval"
	"github.com/dalemusser/learnhub/internal/app/system/respond"
	"github.com/dalemusser/learnhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServeMe handles GET /users/me.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, http.StatusNotFound, "User not found")
			return
		}
		h.Log.Error("load current user", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	respond.JSON(w, http.StatusOK, u)
}

// ServeList handles GET /users.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Users.List(ctx)
	if err != nil {
		h.Log.Error("list users", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

// ServeGet handles GET /users/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ObjectID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, http.StatusNotFound, "User not found")
			return
		}
		h.Log.Error("get user", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	respond.JSON(w, http.StatusOK, u)
}

type updateRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=100" label:"Name"`
	Email    *string `json:"email" validate:"omitempty,email" label:"Email"`
	Avatar   *string `json:"avatar" validate:"omitempty,max=500,httpurl" label:"Avatar"`
	IsActive *bool   `json:"is_active"`
}

func (u updateRequest) fields() []string {
	var f []string
	if u.Name != nil {
		f = append(f, "name")
	}
	if u.Email != nil {
		f = append(f, "email")
	}
	if u.Avatar != nil {
		f = append(f, "avatar")
	}
	if u.IsActive != nil {
		f = append(f, "is_active")
	}
	return f
}

// HandleUpdate handles PUT /users/{id}. Users may edit themselves; only
// admins may edit others or change is_active.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ObjectID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	if !authz.IsSelfOrAdmin(r, id) {
		respond.Error(w, http.StatusForbidden, "Not authorized to update this user")
		return
	}

	var req updateRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.InvalidBody(w, err)
		return
	}
	fields := req.fields()
	if len(fields) == 0 {
		respond.Error(w, http.StatusBadRequest, "No fields provided for update")
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		respond.Error(w, http.StatusBadRequest, res.First())
		return
	}
	if req.IsActive != nil && !authz.IsAdmin(r) {
		respond.Error(w, http.StatusForbidden, "Only admins can change account status")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if req.Email != nil {
		taken, err := h.Users.EmailExistsForOther(ctx, *req.Email, id)
		if err != nil {
			h.Log.Error("update user: email lookup", zap.Error(err))
			respond.Error(w, http.StatusInternalServerError, "database error")
			return
		}
		if taken {
			respond.Error(w, http.StatusBadRequest, "Email already taken by another user")
			return
		}
	}

	changed, err := h.Users.Update(ctx, id, userstore.Update{
		Name:     req.Name,
		Email:    req.Email,
		Avatar:   req.Avatar,
		IsActive: req.IsActive,
	})
	switch {
	case errors.Is(err, userstore.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "User not found")
		return
	case errors.Is(err, userstore.ErrDuplicateEmail):
		respond.Error(w, http.StatusBadRequest, "Email already taken by another user")
		return
	case err != nil:
		h.Log.Error("update user", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}

	// Admin edits of other accounts are audited; self edits are not.
	if _, _, actor, _ := authz.UserCtx(r); changed && actor != id {
		h.AuditLog.UserUpdated(r.Context(), r, actor, id, strings.Join(fields, ","))
	}

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		h.Log.Error("reload user", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	respond.JSON(w, http.StatusOK, u)
}

// HandleDelete handles DELETE /users/{id} (admin). It removes the document
// and the avatar file, if any.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ObjectID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, http.StatusNotFound, "User not found")
			return
		}
		h.Log.Error("delete user: load", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}

	n, err := h.Users.Delete(ctx, id)
	if err != nil {
		h.Log.Error("delete user", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	if n == 0 {
		respond.Error(w, http.StatusNotFound, "User not found")
		return
	}

	if u.Avatar != "" && h.Storage != nil {
		if err := filestore.Remove(ctx, h.Storage, u.Avatar, filestore.DirAvatars, id.Hex()); err != nil {
			h.Log.Warn("remove avatar of deleted user", zap.Error(err), zap.String("user_id", id.Hex()))
		}
	}

	_, _, actor, _ := authz.UserCtx(r)
	h.AuditLog.UserDeleted(r.Context(), r, actor, id, true)
	respond.Message(w, "User deleted successfully")
}
