// internal/app/features/admin/listings.go
package admin

import (
	"context"
	"net/http"

	"github.com/dalemusser/learnhub/internal/app/store/queries/adminqueries"
	"github.com/dalemusser/learnhub/internal/app/system/normalize"
	"github.com/dalemusser/learnhub/internal/app/system/paging"
	"github.com/dalemusser/learnhub/internal/app/system/respond"
	"github.com/dalemusser/learnhub/internal/app/system/timeouts"
	"github.com/dalemusser/learnhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

type enrollmentListResponse struct {
	Enrollments []adminqueries.EnrollmentRow `json:"enrollments"`
	Pagination  paging.Pagination            `json:"pagination"`
}

type paymentListResponse struct {
	Payments   []adminqueries.PaymentRow `json:"payments"`
	Pagination paging.Pagination         `json:"pagination"`
}

// ServeEnrollments handles GET /admin/enrollments?page&limit.
func (h *Handler) ServeEnrollments(w http.ResponseWriter, r *http.Request) {
	pg, err := paging.Parse(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, total, err := adminqueries.ListEnrollments(ctx, h.DB, pg)
	if err != nil {
		h.Log.Error("admin list enrollments", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	respond.JSON(w, http.StatusOK, enrollmentListResponse{Enrollments: rows, Pagination: paging.NewPagination(pg, total)})
}

// ServePayments handles GET /admin/payments?page&limit&status.
func (h *Handler) ServePayments(w http.ResponseWriter, r *http.Request) {
	pg, err := paging.Parse(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	status := normalize.Status(query.Get(r, "status"))
	if status != "" && !models.IsValidPaymentStatus(status) {
		respond.Error(w, http.StatusBadRequest, "status must be pending, completed, failed, or refunded")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, total, err := adminqueries.ListPayments(ctx, h.DB, status, pg)
	if err != nil {
		h.Log.Error("admin list payments", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	respond.JSON(w, http.StatusOK, paymentListResponse{Payments: rows, Pagination: paging.NewPagination(pg, total)})
}
