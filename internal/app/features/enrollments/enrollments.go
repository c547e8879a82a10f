// internal/app/features/enrollments/enrollments.go
package enrollments

import (
	"context"
	"errors"
	"net/http"

	enrollmentstore "github.com/dalemusser/learnhub/internal/app/store/enrollments"
	"github.com/dalemusser/learnhub/internal/app/system/authz"
	"github.com/dalemusser/learnhub/internal/app/system/inputval"
	"github.com/dalemusser/learnhub/internal/app/system/respond"
	"github.com/dalemusser/learnhub/internal/app/system/timeouts"
	"github.com/dalemusser/learnhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type enrollRequest struct {
	CourseID string `json:"course_id" validate:"required,objectid" label:"Course ID"`
}

// HandleEnroll handles POST /enrollments, enrolling the caller.
func (h *Handler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	var req enrollRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.InvalidBody(w, err)
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		respond.Error(w, http.StatusBadRequest, res.First())
		return
	}
	courseID, _ := primitive.ObjectIDFromHex(req.CourseID)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Courses.GetActive(ctx, courseID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, http.StatusNotFound, "Course not found or inactive")
			return
		}
		h.Log.Error("enroll: load course", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}

	e, err := h.Enrollments.Enroll(ctx, uid, courseID)
	if err != nil {
		if errors.Is(err, enrollmentstore.ErrAlreadyEnrolled) {
			respond.Error(w, http.StatusBadRequest, "Already enrolled in this course")
			return
		}
		h.Log.Error("enroll", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	respond.JSON(w, http.StatusCreated, e)
}

// ServeList handles GET /enrollments (admin).
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Enrollments.List(ctx)
	if err != nil {
		h.Log.Error("list enrollments", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

// ServeMyCourses handles GET /enrollments/my-courses.
func (h *Handler) ServeMyCourses(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Enrollments.ListForUser(ctx, uid)
	if err != nil {
		h.Log.Error("list my courses", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

// loadOwned fetches the enrollment from the {id} param and checks the
// caller owns it or is an admin.
func (h *Handler) loadOwned(ctx context.Context, w http.ResponseWriter, r *http.Request, verb string) *models.Enrollment {
	id, ok := respond.ObjectID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid enrollment ID")
		return nil
	}
	e, err := h.Enrollments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, http.StatusNotFound, "Enrollment not found")
			return nil
		}
		h.Log.Error("load enrollment", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return nil
	}
	if !authz.IsSelfOrAdmin(r, e.UserID) {
		respond.Error(w, http.StatusForbidden, "Not authorized to "+verb+" this enrollment")
		return nil
	}
	return e
}

type progressRequest struct {
	Progress *float64 `json:"progress" validate:"required,gte=0,lte=100" label:"Progress"`
}

// HandleProgress handles PUT /enrollments/{id}/progress.
func (h *Handler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	var req progressRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.InvalidBody(w, err)
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		respond.Error(w, http.StatusBadRequest, res.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	e := h.loadOwned(ctx, w, r, "update")
	if e == nil {
		return
	}
	if _, err := h.Enrollments.UpdateProgress(ctx, e.ID, *req.Progress); err != nil {
		h.Log.Error("update progress", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	respond.Message(w, "Progress updated successfully")
}

// HandleDelete handles DELETE /enrollments/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	e := h.loadOwned(ctx, w, r, "delete")
	if e == nil {
		return
	}
	if _, err := h.Enrollments.Delete(ctx, e.ID); err != nil {
		h.Log.Error("delete enrollment", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	respond.Message(w, "Enrollment deleted successfully")
}
