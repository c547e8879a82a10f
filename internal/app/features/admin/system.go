// internal/app/features/admin/system.go
package admin

import (
	"net/http"
	"sort"
	"time"

	"github.com/dalemusser/learnhub/internal/app/system/respond"
	"github.com/dalemusser/learnhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// dbStats is the subset of the dbStats command result the admin area shows.
type dbStats struct {
	DB          string  `bson:"db" json:"db"`
	Collections int64   `bson:"collections" json:"collections"`
	Objects     int64   `bson:"objects" json:"objects"`
	DataSize    float64 `bson:"dataSize" json:"data_size"`
	StorageSize float64 `bson:"storageSize" json:"storage_size"`
	Indexes     int64   `bson:"indexes" json:"indexes"`
	IndexSize   float64 `bson:"indexSize" json:"index_size"`
}

type systemStatsResponse struct {
	Database    dbStats          `json:"database"`
	Collections map[string]int64 `json:"collections"`
	Timestamp   time.Time        `json:"timestamp"`
}

// ServeSystemStats handles GET /admin/system/stats.
func (h *Handler) ServeSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "system stats")
	defer cancel()

	var stats dbStats
	if err := h.DB.RunCommand(ctx, bson.D{{Key: "dbStats", Value: 1}}).Decode(&stats); err != nil {
		h.Log.Error("dbStats", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}

	names, err := h.DB.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		h.Log.Error("list collections", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	sort.Strings(names)

	counts := make(map[string]int64, len(names))
	for _, name := range names {
		n, err := h.DB.Collection(name).EstimatedDocumentCount(ctx)
		if err != nil {
			h.Log.Warn("estimated count", zap.String("collection", name), zap.Error(err))
			continue
		}
		counts[name] = n
	}

	respond.JSON(w, http.StatusOK, systemStatsResponse{
		Database:    stats,
		Collections: counts,
		Timestamp:   time.Now().UTC(),
	})
}
