// internal/app/features/lessons/handler.go
package lessons

import (
	coursestore "github.com/dalemusser/learnhub/internal/app/store/courses"
	lessonstore "github.com/dalemusser/learnhub/internal/app/store/lessons"
	"github.com/dalemusser/learnhub/internal/app/system/limits"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves /lessons. MaxVideoBytes caps a video upload.
type Handler struct {
	DB            *mongo.Database
	Log           *zap.Logger
	Lessons       *lessonstore.Store
	Courses       *coursestore.Store
	Storage       storage.Store
	MaxVideoBytes int64
}

func NewHandler(db *mongo.Database, store storage.Store, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Log:           logger,
		Lessons:       lessonstore.New(db),
		Courses:       coursestore.New(db),
		Storage:       store,
		MaxVideoBytes: limits.MaxVideoBytes,
	}
}
