package health

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/learnhub/internal/app/system/respond"
	"github.com/dalemusser/learnhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client  *mongo.Client
	Version string
	Log     *zap.Logger
}

// NewHandler constructs a health Handler with the Mongo client and logger.
func NewHandler(client *mongo.Client, version string, logger *zap.Logger) *Handler {
	return &Handler{
		Client:  client,
		Version: version,
		Log:     logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status    string     `json:"status"`
	Database  string     `json:"database"`
	Message   string     `json:"message,omitempty"`
	Error     string     `json:"error,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Version   string     `json:"version,omitempty"`
}

func (h *Handler) check(r *http.Request) (healthResponse, int) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	resp := healthResponse{Status: "ok", Database: "connected"}
	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
		return resp, http.StatusServiceUnavailable
	}
	return resp, http.StatusOK
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected" }
//
// On DB failure: 503 and
//
//	{ "status":"error", "database":"disconnected", "message":"Database unavailable", "error":"…"}
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	resp, status := h.check(r)
	respond.JSON(w, status, resp)
}

// ServeSystem handles GET /admin/system/health. It adds the server time
// and build version to the basic check.
func (h *Handler) ServeSystem(w http.ResponseWriter, r *http.Request) {
	resp, status := h.check(r)
	now := time.Now().UTC()
	resp.Timestamp = &now
	resp.Version = h.Version
	if status == http.StatusOK {
		resp.Status = "healthy"
	} else {
		resp.Status = "unhealthy"
	}
	respond.JSON(w, status, resp)
}
