// internal/app/features/users/avatar.go
package users

import (
	"context"
	"errors"
	"net/http"
	"path"

	userstore "github.com/dalemusser/learnhub/internal/app/store/users"
	"github.com/dalemusser/learnhub/internal/app/system/authz"
	"github.com/dalemusser/learnhub/internal/app/system/filestore"
	"github.com/dalemusser/learnhub/internal/app/system/limits"
	"github.com/dalemusser/learnhub/internal/app/system/respond"
	"github.com/dalemusser/learnhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type avatarResponse struct {
	Message   string `json:"message"`
	AvatarURL string `json:"avatar_url"`
	Filename  string `json:"filename"`
}

// HandleUploadAvatar handles POST /users/{id}/avatar (multipart field "avatar").
func (h *Handler) HandleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ObjectID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	if !authz.IsSelfOrAdmin(r, id) {
		respond.Error(w, http.StatusForbidden, "Not authorized to update this user")
		return
	}

	up, err := filestore.FromRequest(w, r, "avatar", limits.MaxAvatarBytes)
	switch {
	case errors.Is(err, filestore.ErrTooLarge):
		respond.Error(w, http.StatusRequestEntityTooLarge, "File is too large")
		return
	case err != nil:
		respond.Error(w, http.StatusBadRequest, "A file is required")
		return
	}
	defer up.Close()

	if !up.Is("image/") {
		respond.Error(w, http.StatusBadRequest, "File must be an image")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, http.StatusNotFound, "User not found")
			return
		}
		h.Log.Error("avatar: load user", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}

	name := filestore.Filename(id.Hex(), up.Filename)
	url, err := filestore.Save(ctx, h.Storage, filestore.DirAvatars, name, up)
	if err != nil {
		h.Log.Error("avatar: save file", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "could not store file")
		return
	}

	if err := h.Users.SetAvatar(ctx, id, url); err != nil {
		_ = filestore.Remove(ctx, h.Storage, url, filestore.DirAvatars, id.Hex())
		if errors.Is(err, userstore.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "User not found")
			return
		}
		h.Log.Error("avatar: set", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}

	if u.Avatar != "" {
		if err := filestore.Remove(ctx, h.Storage, u.Avatar, filestore.DirAvatars, id.Hex()); err != nil {
			h.Log.Warn("avatar: remove previous", zap.Error(err), zap.String("url", u.Avatar))
		}
	}

	respond.JSON(w, http.StatusOK, avatarResponse{
		Message:   "Avatar uploaded successfully",
		AvatarURL: url,
		Filename:  path.Base(url),
	})
}

// HandleDeleteAvatar handles DELETE /users/{id}/avatar.
func (h *Handler) HandleDeleteAvatar(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ObjectID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	if !authz.IsSelfOrAdmin(r, id) {
		respond.Error(w, http.StatusForbidden, "Not authorized to update this user")
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
		h.Log.Error("avatar delete: load user", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	if u.Avatar == "" {
		respond.Error(w, http.StatusNotFound, "No avatar found")
		return
	}

	if err := filestore.Remove(ctx, h.Storage, u.Avatar, filestore.DirAvatars, id.Hex()); err != nil {
		h.Log.Warn("avatar delete: remove file", zap.Error(err), zap.String("url", u.Avatar))
	}
	if err := h.Users.SetAvatar(ctx, id, ""); err != nil {
		h.Log.Error("avatar delete: clear", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	respond.Message(w, "Avatar deleted successfully")
}
