// internal/app/features/courses/courses.go
package courses

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/learnhub/internal/app/store/audit"
	coursestore "github.com/dalemusser/learnhub/internal/app/store/courses"
	"github.com/dalemusser/learnhub/internal/app/system/authz"
	"github.com/dalemusser/learnhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/learnhub/internal/app/system/inputval"
	"github.com/dalemusser/learnhub/internal/app/system/respond"
	"github.com/dalemusser/learnhub/internal/app/system/timeouts"
	"github.com/dalemusser/learnhub/internal/domain/models"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func roundPrice(p float64) float64 {
	return decimal.NewFromFloat(p).Round(2).InexactFloat64()
}

func lessonIDs(hexes []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(hexes))
	for _, h := range hexes {
		if oid, err := primitive.ObjectIDFromHex(h); err == nil {
			out = append(out, oid)
		}
	}
	return out
}

// ServeList handles GET /courses.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Courses.List(ctx)
	if err != nil {
		h.Log.Error("list courses", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

// ServeGet handles GET /courses/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ObjectID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid course ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := h.Courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, http.StatusNotFound, "Course not found")
			return
		}
		h.Log.Error("get course", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	respond.JSON(w, http.StatusOK, c)
}

// ServeByInstructor handles GET /courses/instructor/{id}.
func (h *Handler) ServeByInstructor(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ObjectID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid instructor ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Courses.ListByInstructor(ctx, id)
	if err != nil {
		h.Log.Error("list instructor courses", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

type createRequest struct {
	Title           string   `json:"title" validate:"required,min=3,max=200" label:"Title"`
	Description     string   `json:"description" validate:"required" label:"Description"`
	Price           float64  `json:"price" validate:"gte=0" label:"Price"`
	DurationMinutes int      `json:"duration_minutes" validate:"gte=0" label:"Duration"`
	Lessons         []string `json:"lessons" validate:"omitempty,dive,objectid" label:"Lessons"`
}

// HandleCreate handles POST /courses. The caller becomes the instructor.
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := h.Courses.Create(ctx, models.Course{
		Title:           req.Title,
		Description:     htmlsanitize.Sanitize(req.Description),
		InstructorID:    uid,
		Lessons:         lessonIDs(req.Lessons),
		Price:           roundPrice(req.Price),
		DurationMinutes: req.DurationMinutes,
		IsActive:        true,
	})
	if err != nil {
		h.Log.Error("create course", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}

	h.AuditLog.CourseChanged(r.Context(), r, uid, c.ID, audit.EventCourseCreated, c.Title)
	respond.JSON(w, http.StatusCreated, c)
}

type updateRequest struct {
	Title           *string   `json:"title" validate:"omitempty,min=3,max=200" label:"Title"`
	Description     *string   `json:"description" label:"Description"`
	Price           *float64  `json:"price" validate:"omitempty,gte=0" label:"Price"`
	DurationMinutes *int      `json:"duration_minutes" validate:"omitempty,gte=0" label:"Duration"`
	Lessons         *[]string `json:"lessons" validate:"omitempty,dive,objectid" label:"Lessons"`
	IsActive        *bool     `json:"is_active"`
}

// loadOwned fetches the course and checks the caller owns it or is an admin.
// It writes the error response itself and returns nil on failure.
func (h *Handler) loadOwned(ctx context.Context, w http.ResponseWriter, r *http.Request, id primitive.ObjectID, verb string) *models.Course {
	c, err := h.Courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, http.StatusNotFound, "Course not found")
			return nil
		}
		h.Log.Error("load course", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return nil
	}
	if !authz.IsSelfOrAdmin(r, c.InstructorID) {
		respond.Error(w, http.StatusForbidden, "Not authorized to "+verb+" this course")
		return nil
	}
	return c
}

// HandleUpdate handles PUT /courses/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ObjectID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid course ID")
		return
	}

	var req updateRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.InvalidBody(w, err)
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		respond.Error(w, http.StatusBadRequest, res.First())
		return
	}

	upd := coursestore.Update{
		Title:           req.Title,
		DurationMinutes: req.DurationMinutes,
		IsActive:        req.IsActive,
	}
	if req.Description != nil {
		d := htmlsanitize.Sanitize(*req.Description)
		upd.Description = &d
	}
	if req.Price != nil {
		p := roundPrice(*req.Price)
		upd.Price = &p
	}
	if req.Lessons != nil {
		ids := lessonIDs(*req.Lessons)
		upd.Lessons = &ids
	}
	if upd.Empty() {
		respond.Error(w, http.StatusBadRequest, "No fields provided for update")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if h.loadOwned(ctx, w, r, id, "update") == nil {
		return
	}

	c, err := h.Courses.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, coursestore.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Course not found")
			return
		}
		h.Log.Error("update course", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}

	_, _, uid, _ := authz.UserCtx(r)
	h.AuditLog.CourseChanged(r.Context(), r, uid, c.ID, audit.EventCourseUpdated, c.Title)
	respond.JSON(w, http.StatusOK, c)
}

// HandleDelete handles DELETE /courses/{id}. This is a hard delete; the
// admin surface soft-deletes instead.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ObjectID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid course ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c := h.loadOwned(ctx, w, r, id, "delete")
	if c == nil {
		return
	}

	if _, err := h.Courses.Delete(ctx, id); err != nil {
		h.Log.Error("delete course", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}

	_, _, uid, _ := authz.UserCtx(r)
	h.AuditLog.CourseChanged(r.Context(), r, uid, c.ID, audit.EventCourseDeleted, c.Title)
	respond.Message(w, "Course deleted successfully")
}
