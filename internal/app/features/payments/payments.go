// internal/app/features/payments/payments.go
package payments

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/learnhub/internal/app/store/audit"
	paymentstore "github.com/dalemusser/learnhub/internal/app/store/payments"
	"github.com/dalemusser/learnhub/internal/app/system/authz"
	"github.com/dalemusser/learnhub/internal/app/system/inputval"
	"github.com/dalemusser/learnhub/internal/app/system/normalize"
	"github.com/dalemusser/learnhub/internal/app/system/respond"
	"github.com/dalemusser/learnhub/internal/app/system/timeouts"
	"github.com/dalemusser/learnhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type createRequest struct {
	CourseID string  `json:"course_id" validate:"required,objectid" label:"Course ID"`
	Amount   float64 `json:"amount" validate:"gte=0" label:"Amount"`
	Status   string  `json:"status" validate:"omitempty,paymentstatus" label:"Status"`
}

// HandleCreate handles POST /payments. The caller is the payer.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	var req createRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.InvalidBody(w, err)
		return
	}
	req.Status = normalize.Status(req.Status)
	if res := inputval.Validate(req); res.HasErrors() {
		respond.Error(w, http.StatusBadRequest, res.First())
		return
	}
	courseID, _ := primitive.ObjectIDFromHex(req.CourseID)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, http.StatusNotFound, "Course not found")
			return
		}
		h.Log.Error("payment: load course", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}

	p, err := h.Payments.Create(ctx, models.Payment{
		UserID:   uid,
		CourseID: courseID,
		Amount:   req.Amount,
		Status:   req.Status,
	})
	switch {
	case errors.Is(err, paymentstore.ErrNegativeAmount), errors.Is(err, paymentstore.ErrBadStatus):
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.Log.Error("create payment", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	respond.JSON(w, http.StatusCreated, p)
}

// ServeList handles GET /payments (admin).
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Payments.List(ctx)
	if err != nil {
		h.Log.Error("list payments", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

func (h *Handler) load(ctx context.Context, w http.ResponseWriter, r *http.Request) *models.Payment {
	id, ok := respond.ObjectID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid payment ID")
		return nil
	}
	p, err := h.Payments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, http.StatusNotFound, "Payment not found")
			return nil
		}
		h.Log.Error("load payment", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return nil
	}
	return p
}

// ServeGet handles GET /payments/{id} (payer or admin).
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p := h.load(ctx, w, r)
	if p == nil {
		return
	}
	if !authz.IsSelfOrAdmin(r, p.UserID) {
		respond.Error(w, http.StatusForbidden, "Not authorized to view this payment")
		return
	}
	respond.JSON(w, http.StatusOK, p)
}

// HandleDelete handles DELETE /payments/{id} (admin).
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p := h.load(ctx, w, r)
	if p == nil {
		return
	}
	if _, err := h.Payments.Delete(ctx, p.ID); err != nil {
		h.Log.Error("delete payment", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}

	_, _, actor, _ := authz.UserCtx(r)
	h.AuditLog.AdminAction(r.Context(), r, actor, &p.UserID, audit.EventPaymentDeleted, map[string]string{
		"payment_id": p.ID.Hex(),
		"status":     p.Status,
	})
	respond.Message(w, "Payment deleted successfully")
}
