// internal/app/features/admin/users.go
package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/learnhub/internal/app/store/audit"
	"github.com/dalemusser/learnhub/internal/app/store/queries/adminqueries"
	userstore "github.com/dalemusser/learnhub/internal/app/store/users"
	"github.com/dalemusser/learnhub/internal/app/system/authutil"
	"github.com/dalemusser/learnhub/internal/app/system/authz"
	"github.com/dalemusser/learnhub/internal/app/system/inputval"
	"github.com/dalemusser/learnhub/internal/app/system/normalize"
	"github.com/dalemusser/learnhub/internal/app/system/paging"
	"github.com/dalemusser/learnhub/internal/app/system/respond"
	"github.com/dalemusser/learnhub/internal/app/system/timeouts"
	"github.com/dalemusser/learnhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// parseActive reads an optional ?is_active=true|false.
func parseActive(r *http.Request) (*bool, bool) {
	s := query.Get(r, "is_active")
	if s == "" {
		return nil, true
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, false
	}
	return &b, true
}

type userListResponse struct {
	Users      []adminqueries.UserWithStats `json:"users"`
	Pagination paging.Pagination            `json:"pagination"`
}

// ServeUsers handles GET /admin/users?page&limit&search&role&is_active.
func (h *Handler) ServeUsers(w http.ResponseWriter, r *http.Request) {
	pg, err := paging.Parse(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	active, ok := parseActive(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "is_active must be true or false")
		return
	}
	f := adminqueries.UserFilter{
		Search:   normalize.QueryParam(query.Get(r, "search")),
		Role:     normalize.Role(query.Get(r, "role")),
		IsActive: active,
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, total, err := adminqueries.ListUsers(ctx, h.DB, f, pg)
	if err != nil {
		h.Log.Error("admin list users", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	respond.JSON(w, http.StatusOK, userListResponse{Users: rows, Pagination: paging.NewPagination(pg, total)})
}

// ServeUser handles GET /admin/users/{id}.
func (h *Handler) ServeUser(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ObjectID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := adminqueries.GetUser(ctx, h.DB, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, http.StatusNotFound, "User not found")
			return
		}
		h.Log.Error("admin get user", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	respond.JSON(w, http.StatusOK, u)
}

type createUserRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100" label:"Name"`
	Email    string `json:"email" validate:"required,email" label:"Email"`
	Password string `json:"password" validate:"required,min=6,max=72" label:"Password"`
	Role     string `json:"role" validate:"required,role" label:"Role"`
	IsActive *bool  `json:"is_active"`
}

// HandleCreateUser handles POST /admin/users.
func (h *Handler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.InvalidBody(w, err)
		return
	}
	req.Role = normalize.Role(req.Role)
	if res := inputval.Validate(req); res.HasErrors() {
		respond.Error(w, http.StatusBadRequest, res.First())
		return
	}
	active := req.IsActive == nil || *req.IsActive

	hash, err := authutil.HashPassword(req.Password)
	if err != nil {
		h.Log.Error("admin create user: hash", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "could not create user")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	taken, err := h.Users.EmailExistsForOther(ctx, req.Email, primitive.NilObjectID)
	if err != nil {
		h.Log.Error("admin create user: email lookup", zap.Error(err))
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
		IsActive:     active,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			respond.Error(w, http.StatusBadRequest, "Email already registered")
			return
		}
		h.Log.Error("admin create user", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}

	_, _, actor, _ := authz.UserCtx(r)
	h.AuditLog.UserCreated(r.Context(), r, actor, u.ID, u.Role)
	respond.JSON(w, http.StatusCreated, map[string]string{
		"message": "User created successfully",
		"user_id": u.ID.Hex(),
	})
}

type updateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=100" label:"Name"`
	Email    *string `json:"email" validate:"omitempty,email" label:"Email"`
	Role     *string `json:"role" validate:"omitempty,role" label:"Role"`
	IsActive *bool   `json:"is_active"`
}

// HandleUpdateUser handles PUT /admin/users/{id}.
func (h *Handler) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ObjectID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req updateUserRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.InvalidBody(w, err)
		return
	}
	if req.Role != nil {
		role := normalize.Role(*req.Role)
		req.Role = &role
	}
	if res := inputval.Validate(req); res.HasErrors() {
		respond.Error(w, http.StatusBadRequest, res.First())
		return
	}

	upd := userstore.Update{Name: req.Name, Email: req.Email, Role: req.Role, IsActive: req.IsActive}
	if upd.Empty() {
		respond.Error(w, http.StatusBadRequest, "No changes were made")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if req.Email != nil {
		taken, err := h.Users.EmailExistsForOther(ctx, *req.Email, id)
		if err != nil {
			h.Log.Error("admin update user: email lookup", zap.Error(err))
			respond.Error(w, http.StatusInternalServerError, "database error")
			return
		}
		if taken {
			respond.Error(w, http.StatusBadRequest, "Email already in use")
			return
		}
	}

	changed, err := h.Users.Update(ctx, id, upd)
	switch {
	case errors.Is(err, userstore.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "User not found")
		return
	case errors.Is(err, userstore.ErrDuplicateEmail):
		respond.Error(w, http.StatusBadRequest, "Email already in use")
		return
	case err != nil:
		h.Log.Error("admin update user", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	if !changed {
		respond.Error(w, http.StatusBadRequest, "No changes were made")
		return
	}

	_, _, actor, _ := authz.UserCtx(r)
	h.AuditLog.UserUpdated(r.Context(), r, actor, id, changedFields(req))
	respond.Message(w, "User updated successfully")
}

func changedFields(req updateUserRequest) string {
	var fields []string
	if req.Name != nil {
		fields = append(fields, "name")
	}
	if req.Email != nil {
		fields = append(fields, "email")
	}
	if req.Role != nil {
		fields = append(fields, "role")
	}
	if req.IsActive != nil {
		fields = append(fields, "is_active")
	}
	return strings.Join(fields, ",")
}

// HandleDeleteUser handles DELETE /admin/users/{id}. Users are soft-deleted.
func (h *Handler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ObjectID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	_, _, actor, _ := authz.UserCtx(r)
	if id == actor {
		respond.Error(w, http.StatusBadRequest, "Cannot delete your own account")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.Users.SoftDelete(ctx, id)
	if err != nil {
		h.Log.Error("admin delete user", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	if n == 0 {
		respond.Error(w, http.StatusNotFound, "User not found")
		return
	}

	h.AuditLog.UserDeleted(r.Context(), r, actor, id, false)
	respond.Message(w, "User deleted successfully")
}

// Bulk actions shared by users and courses.
const (
	bulkActivate   = "activate"
	bulkDeactivate = "deactivate"
	bulkDelete     = "delete"
)

// bulkRequest is the body of both bulk-action endpoints.
type bulkRequest struct {
	Action string   `json:"action" validate:"required,oneof=activate deactivate delete" label:"Action"`
	IDs    []string `json:"ids" validate:"min=1,dive,objectid" label:"IDs"`
}

type bulkResponse struct {
	Message       string `json:"message"`
	AffectedCount int64  `json:"affected_count"`
}

// parseIDs converts validated hex ids, dropping duplicates.
func parseIDs(hexes []string) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool, len(hexes))
	out := make([]primitive.ObjectID, 0, len(hexes))
	for _, s := range hexes {
		oid, err := primitive.ObjectIDFromHex(s)
		if err != nil || seen[oid] {
			continue
		}
		seen[oid] = true
		out = append(out, oid)
	}
	return out
}

// HandleUserBulkAction handles POST /admin/users/bulk-action. A list that
// includes the caller is rejected so an admin cannot lock themselves out.
func (h *Handler) HandleUserBulkAction(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.InvalidBody(w, err)
		return
	}
	req.Action = strings.ToLower(strings.TrimSpace(req.Action))
	if res := inputval.Validate(req); res.HasErrors() {
		respond.Error(w, http.StatusBadRequest, res.First())
		return
	}

	_, _, actor, _ := authz.UserCtx(r)
	ids := parseIDs(req.IDs)
	for _, id := range ids {
		if id == actor {
			respond.Error(w, http.StatusBadRequest, "Cannot perform bulk actions on your own account")
			return
		}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "user bulk action")
	defer cancel()

	var n int64
	var err error
	switch req.Action {
	case bulkActivate:
		n, err = h.Users.SetActiveMany(ctx, ids, true)
	case bulkDeactivate:
		n, err = h.Users.SetActiveMany(ctx, ids, false)
	case bulkDelete:
		n, err = h.Users.SoftDeleteMany(ctx, ids)
	}
	if err != nil {
		h.Log.Error("user bulk action", zap.Error(err), zap.String("action", req.Action))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}

	h.AuditLog.BulkAction(r.Context(), r, actor, audit.EventUserBulkAction, req.Action, len(req.IDs), int(n))
	respond.JSON(w, http.StatusOK, bulkResponse{
		Message:       fmt.Sprintf("Successfully performed %s on %d users", req.Action, n),
		AffectedCount: n,
	})
}
