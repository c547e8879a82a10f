// internal/app/features/quizzes/handler.go
package quizzes

import (
	coursestore "github.com/dalemusser/learnhub/internal/app/store/courses"
	quizstore "github.com/dalemusser/learnhub/internal/app/store/quizzes"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB      *mongo.Database
	Log     *zap.Logger
	Quizzes *quizstore.Store
	Courses *coursestore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Log:     logger,
		Quizzes: quizstore.New(db),
		Courses: coursestore.New(db),
	}
}
