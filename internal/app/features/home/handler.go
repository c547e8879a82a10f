// internal/app/features/home/handler.go
package home

import (
	"context"
	"net/http"

	coursestore "github.com/dalemusser/learnhub/internal/app/store/courses"
	"github.com/dalemusser/learnhub/internal/app/system/respond"
	"github.com/dalemusser/learnhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// feedLimit caps the courses returned by the public feed.
const feedLimit = 50

type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}

// ServeRoot handles GET /.
func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	respond.Message(w, "LearnHub e-learning backend is running.")
}

// ServeFeed handles GET /home-feed: active courses, newest first.
func (h *Handler) ServeFeed(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	courses, err := coursestore.New(h.DB).ListActive(ctx, feedLimit)
	if err != nil {
		h.Log.Error("home feed: list courses", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"courses": courses})
}
