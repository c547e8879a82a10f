// internal/app/features/notifications/notifications.go
package notifications

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/learnhub/internal/app/system/authz"
	"github.com/dalemusser/learnhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/learnhub/internal/app/system/inputval"
	"github.com/dalemusser/learnhub/internal/app/system/mailer"
	"github.com/dalemusser/learnhub/internal/app/system/respond"
	"github.com/dalemusser/learnhub/internal/app/system/timeouts"
	"github.com/dalemusser/learnhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type createRequest struct {
	UserID  string `json:"user_id" validate:"required,objectid" label:"User ID"`
	Message string `json:"message" validate:"required,max=2000" label:"Message"`
}

// HandleCreate handles POST /notifications.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.InvalidBody(w, err)
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		respond.Error(w, http.StatusBadRequest, res.First())
		return
	}
	msg := htmlsanitize.PlainText(req.Message)
	if msg == "" {
		respond.Error(w, http.StatusBadRequest, "Message is required.")
		return
	}
	userID, _ := primitive.ObjectIDFromHex(req.UserID)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, http.StatusNotFound, "User not found")
			return
		}
		h.Log.Error("notification: load user", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}

	n, err := h.Notifications.Create(ctx, userID, msg)
	if err != nil {
		h.Log.Error("create notification", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}

	if h.Mail != nil {
		go h.sendEmail(*u, msg)
	}
	respond.JSON(w, http.StatusCreated, n)
}

// sendEmail runs detached from the request; failures are only logged.
func (h *Handler) sendEmail(u models.User, msg string) {
	e := mailer.BuildNotificationEmail(mailer.NotificationEmailData{
		SiteName: h.SiteName,
		Name:     u.Name,
		Message:  msg,
	})
	e.To = u.Email

	ctx, cancel := timeouts.WithTimeout(context.Background(), timeouts.Long(), h.Log, "notification email")
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- h.Mail.Send(e) }()

	select {
	case err := <-done:
		if err != nil {
			h.Log.Warn("notification email failed", zap.Error(err), zap.String("user_id", u.ID.Hex()))
		}
	case <-ctx.Done():
	}
}

// ServeForUser handles GET /notifications/user/{id} (self or admin).
func (h *Handler) ServeForUser(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ObjectID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	if !authz.IsSelfOrAdmin(r, id) {
		respond.Error(w, http.StatusForbidden, "Not authorized to view these notifications")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Notifications.ListForUser(ctx, id)
	if err != nil {
		h.Log.Error("list notifications", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

func (h *Handler) loadOwned(ctx context.Context, w http.ResponseWriter, r *http.Request) *models.Notification {
	id, ok := respond.ObjectID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid notification ID")
		return nil
	}
	n, err := h.Notifications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, http.StatusNotFound, "Notification not found")
			return nil
		}
		h.Log.Error("load notification", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return nil
	}
	if !authz.IsSelfOrAdmin(r, n.UserID) {
		respond.Error(w, http.StatusForbidden, "Not authorized to modify this notification")
		return nil
	}
	return n
}

// HandleMarkRead handles PUT /notifications/{id}/read.
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n := h.loadOwned(ctx, w, r)
	if n == nil {
		return
	}
	if _, err := h.Notifications.MarkRead(ctx, n.ID); err != nil {
		h.Log.Error("mark notification read", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	respond.Message(w, "Notification marked as read")
}

// HandleDelete handles DELETE /notifications/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n := h.loadOwned(ctx, w, r)
	if n == nil {
		return
	}
	if _, err := h.Notifications.Delete(ctx, n.ID); err != nil {
		h.Log.Error("delete notification", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	respond.Message(w, "Notification deleted successfully")
}
