// internal/app/features/notifications/handler.go
package notifications

import (
	notificationstore "github.com/dalemusser/learnhub/internal/app/store/notifications"
	userstore "github.com/dalemusser/learnhub/internal/app/store/users"
	"github.com/dalemusser/learnhub/internal/app/system/mailer"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves /notifications. Mail is nil when email delivery is disabled.
type Handler struct {
	DB            *mongo.Database
	Log           *zap.Logger
	Notifications *notificationstore.Store
	Users         *userstore.Store
	Mail          mailer.Sender
	SiteName      string
}

func NewHandler(db *mongo.Database, mail mailer.Sender, siteName string, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Log:           logger,
		Notifications: notificationstore.New(db),
		Users:         userstore.New(db),
		Mail:          mail,
		SiteName:      siteName,
	}
}
