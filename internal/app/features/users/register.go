// internal/app/features/users/register.go
package users

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/dalemusser/learnhub/internal/app/store/users"
	"github.com/dalemusser/learnhub/internal/app/system/authutil"
	"github.com/dalemusser/learnhub/internal/app/system/inputval"
	"github.com/dalemusser/learnhub/internal/app/system/normalize"
	"github.com/dalemusser/learnhub/internal/app/system/respond"
	"github.com/dalemusser/learnhub/internal/app/system/timeouts"
	"github.com/dalemusser/learnhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100" label:"Name"`
	Email    string `json:"email" validate:"required,email" label:"Email"`
	Password string `json:"password" validate:"required,min=6,max=72" label:"Password"`
	Role     string `json:"role" validate:"omitempty,role" label:"Role"`
}

// HandleRegister handles POST /users/register.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.InvalidBody(w, err)
		return
	}
	req.Role = normalize.Role(req.Role)
	if res := inputval.Validate(req); res.HasErrors() {
		respond.Error(w, http.StatusBadRequest, res.First())
		return
	}
	if req.Role == models.RoleAdmin {
		respond.Error(w, http.StatusBadRequest, "Cannot register as admin")
		return
	}

	hash, err := authutil.HashPassword(req.Password)
	if err != nil {
		h.Log.Error("hash password", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "could not create user")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	taken, err := h.Users.EmailExistsForOther(ctx, req.Email, primitive.NilObjectID)
	if err != nil {
		h.Log.Error("register: email lookup", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	if taken {
		respond.Error(w, http.StatusBadRequest, "Email already registered")
		return
	}

	u, err := h.Users.Create(ctx, models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     true,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			respond.Error(w, http.StatusBadRequest, "Email already registered")
			return
		}
		h.Log.Error("register user", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}

	h.AuditLog.UserRegistered(r.Context(), r, u.ID, u.Role)
	respond.JSON(w, http.StatusCreated, u)
}
