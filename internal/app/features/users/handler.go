// internal/app/features/users/handler.go
package users

import (
	"net/http"

	userstore "github.com/dalemusser/learnhub/internal/app/store/users"
	"github.com/dalemusser/learnhub/internal/app/system/auditlog"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves /users. Login is the token endpoint shared with /auth and
// is supplied by the caller so this package does not depend on login.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	AuditLog *auditlog.Logger
	Users    *userstore.Store
	Storage  storage.Store
	Login    http.HandlerFunc
}

func NewHandler(db *mongo.Database, store storage.Store, audit *auditlog.Logger, login http.HandlerFunc, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		AuditLog: audit,
		Users:    userstore.New(db),
		Storage:  store,
		Login:    login,
	}
}
