// internal/app/features/admin/audit.go
package admin

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/learnhub/internal/app/store/audit"
	"github.com/dalemusser/learnhub/internal/app/system/normalize"
	"github.com/dalemusser/learnhub/internal/app/system/respond"
	"github.com/dalemusser/learnhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	defaultAuditLimit = 100
	maxAuditLimit     = 1000
)

// ServeAudit handles GET /admin/audit?limit&category&event_type&user_id.
func (h *Handler) ServeAudit(w http.ResponseWriter, r *http.Request) {
	limit := defaultAuditLimit
	if s := query.Get(r, "limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxAuditLimit {
			respond.Error(w, http.StatusBadRequest, "limit must be between 1 and 1000")
			return
		}
		limit = n
	}

	category := normalize.QueryParam(query.Get(r, "category"))
	switch category {
	case "", audit.CategoryAuth, audit.CategoryAdmin:
	default:
		respond.Error(w, http.StatusBadRequest, "category must be auth or admin")
		return
	}

	var userID *primitive.ObjectID
	if s := query.Get(r, "user_id"); s != "" {
		oid, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "Invalid user ID")
			return
		}
		userID = &oid
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, err := h.Audit.Query(ctx, audit.QueryFilter{
		UserID:    userID,
		Category:  category,
		EventType: normalize.QueryParam(query.Get(r, "event_type")),
		Limit:     int64(limit),
	})
	if err != nil {
		h.Log.Error("query audit events", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	respond.JSON(w, http.StatusOK, events)
}
