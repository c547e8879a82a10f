// internal/app/features/reviews/handler.go
package reviews

import (
	coursestore "github.com/dalemusser/learnhub/internal/app/store/courses"
	reviewstore "github.com/dalemusser/learnhub/internal/app/store/reviews"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB      *mongo.Database
	Log     *zap.Logger
	Reviews *reviewstore.Store
	Courses *coursestore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Log:     logger,
		Reviews: reviewstore.New(db),
		Courses: coursestore.New(db),
	}
}
