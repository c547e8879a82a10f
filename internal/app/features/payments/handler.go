// internal/app/features/payments/handler.go
package payments

import (
	coursestore "github.com/dalemusser/learnhub/internal/app/store/courses"
	paymentstore "github.com/dalemusser/learnhub/internal/app/store/payments"
	"github.com/dalemusser/learnhub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	AuditLog *auditlog.Logger
	Payments *paymentstore.Store
	Courses  *coursestore.Store
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		AuditLog: audit,
		Payments: paymentstore.New(db),
		Courses:  coursestore.New(db),
	}
}
