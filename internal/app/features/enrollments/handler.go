// internal/app/features/enrollments/handler.go
package enrollments

import (
	coursestore "github.com/dalemusser/learnhub/internal/app/store/courses"
	enrollmentstore "github.com/dalemusser/learnhub/internal/app/store/enrollments"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB          *mongo.Database
	Log         *zap.Logger
	Enrollments *enrollmentstore.Store
	Courses     *coursestore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:          db,
		Log:         logger,
		Enrollments: enrollmentstore.New(db),
		Courses:     coursestore.New(db),
	}
}
