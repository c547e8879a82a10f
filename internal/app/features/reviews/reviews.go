// internal/app/features/reviews/reviews.go
package reviews

import (
	"context"
	"errors"
	"net/http"

	reviewstore "github.com/dalemusser/learnhub/internal/app/store/reviews"
	"github.com/dalemusser/learnhub/internal/app/system/authz"
	"github.com/dalemusser/learnhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/learnhub/internal/app/system/inputval"
	"github.com/dalemusser/learnhub/internal/app/system/respond"
	"github.com/dalemusser/learnhub/internal/app/system/timeouts"
	"github.com/dalemusser/learnhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type createRequest struct {
	CourseID string `json:"course_id" validate:"required,objectid" label:"Course ID"`
	Rating   int    `json:"rating" validate:"required,gte=1,lte=5" label:"Rating"`
	Comment  string `json:"comment" validate:"max=2000" label:"Comment"`
}

// HandleCreate handles POST /reviews. One review per user per course.
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
		h.Log.Error("review: load course", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}

	rv, err := h.Reviews.Create(ctx, models.Review{
		UserID:   uid,
		CourseID: courseID,
		Rating:   req.Rating,
		Comment:  htmlsanitize.PlainText(req.Comment),
	})
	if err != nil {
		if errors.Is(err, reviewstore.ErrAlreadyReviewed) {
			respond.Error(w, http.StatusBadRequest, "Course already reviewed")
			return
		}
		h.Log.Error("create review", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	respond.JSON(w, http.StatusCreated, rv)
}

// ServeForCourse handles GET /reviews/course/{id}.
func (h *Handler) ServeForCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ObjectID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid course ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	sum, err := h.Reviews.ForCourse(ctx, id)
	if err != nil {
		h.Log.Error("course reviews", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	respond.JSON(w, http.StatusOK, sum)
}

// HandleDelete handles DELETE /reviews/{id} (author or admin).
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ObjectID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid review ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	rv, err := h.Reviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, http.StatusNotFound, "Review not found")
			return
		}
		h.Log.Error("load review", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	if !authz.IsSelfOrAdmin(r, rv.UserID) {
		respond.Error(w, http.StatusForbidden, "Not authorized to delete this review")
		return
	}

	if _, err := h.Reviews.Delete(ctx, id); err != nil {
		h.Log.Error("delete review", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	respond.Message(w, "Review deleted successfully")
}
