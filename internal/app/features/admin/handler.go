// internal/app/features/admin/handler.go
package admin

import (
	"net/http"

	"github.com/dalemusser/learnhub/internal/app/store/audit"
	coursestore "github.com/dalemusser/learnhub/internal/app/store/courses"
	userstore "github.com/dalemusser/learnhub/internal/app/store/users"
	"github.com/dalemusser/learnhub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the /admin area. Every route requires the admin role.
// SystemHealth is the health feature's detailed check, supplied by the
// caller and mounted at /admin/system/health.
type Handler struct {
	DB           *mongo.Database
	Log          *zap.Logger
	AuditLog     *auditlog.Logger
	Audit        *audit.Store
	Users        *userstore.Store
	Courses      *coursestore.Store
	SystemHealth http.HandlerFunc
}

func NewHandler(db *mongo.Database, auditLog *auditlog.Logger, systemHealth http.HandlerFunc, logger *zap.Logger) *Handler {
	return &Handler{
		DB:           db,
		Log:          logger,
		AuditLog:     auditLog,
		Audit:        audit.New(db),
		Users:        userstore.New(db),
		Courses:      coursestore.New(db),
		SystemHealth: systemHealth,
	}
}
