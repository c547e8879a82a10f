// internal/app/features/admin/courses.go
package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dalemusser/learnhub/internal/app/store/audit"
	coursestore "github.com/dalemusser/learnhub/internal/app/store/courses"
	"github.com/dalemusser/learnhub/internal/app/store/queries/adminqueries"
	"github.com/dalemusser/learnhub/internal/app/system/authz"
	"github.com/dalemusser/learnhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/learnhub/internal/app/system/inputval"
	"github.com/dalemusser/learnhub/internal/app/system/normalize"
	"github.com/dalemusser/learnhub/internal/app/system/paging"
	"github.com/dalemusser/learnhub/internal/app/system/respond"
	"github.com/dalemusser/learnhub/internal/app/system/timeouts"
	"github.com/dalemusser/learnhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type courseListResponse struct {
	Courses    []adminqueries.CourseWithStats `json:"courses"`
	Pagination paging.Pagination              `json:"pagination"`
}

// ServeCourses handles GET /admin/courses?page&limit&search&is_active.
func (h *Handler) ServeCourses(w http.ResponseWriter, r *http.Request) {
	pg, err := paging.Parse(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	active, ok := parseActive(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "is_active must be true or false")
		return
	}
	f := adminqueries.CourseFilter{
		Search:   normalize.QueryParam(query.Get(r, "search")),
		IsActive: active,
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, total, err := adminqueries.ListCourses(ctx, h.DB, f, pg)
	if err != nil {
		h.Log.Error("admin list courses", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	respond.JSON(w, http.StatusOK, courseListResponse{Courses: rows, Pagination: paging.NewPagination(pg, total)})
}

// ServeCourse handles GET /admin/courses/{id}.
func (h *Handler) ServeCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ObjectID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid course ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := adminqueries.GetCourse(ctx, h.DB, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, http.StatusNotFound, "Course not found")
			return
		}
		h.Log.Error("admin get course", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	respond.JSON(w, http.StatusOK, c)
}

// checkInstructor writes 400 and returns false unless id is an instructor.
func (h *Handler) checkInstructor(ctx context.Context, w http.ResponseWriter, id primitive.ObjectID) bool {
	if _, err := h.Users.GetInstructor(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, http.StatusBadRequest, "Instructor not found or user is not an instructor")
			return false
		}
		h.Log.Error("admin course: instructor lookup", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return false
	}
	return true
}

type createCourseRequest struct {
	Title           string  `json:"title" validate:"required,min=3,max=200" label:"Title"`
	Description     string  `json:"description" validate:"required,min=10" label:"Description"`
	InstructorID    string  `json:"instructor_id" validate:"required,objectid" label:"Instructor ID"`
	Price           float64 `json:"price" validate:"gte=0" label:"Price"`
	DurationMinutes int     `json:"duration_minutes" validate:"gte=0" label:"Duration"`
	IsActive        *bool   `json:"is_active"`
}

// HandleCreateCourse handles POST /admin/courses.
func (h *Handler) HandleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var req createCourseRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.InvalidBody(w, err)
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		respond.Error(w, http.StatusBadRequest, res.First())
		return
	}
	instructorID, _ := primitive.ObjectIDFromHex(req.InstructorID)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if !h.checkInstructor(ctx, w, instructorID) {
		return
	}

	c, err := h.Courses.Create(ctx, models.Course{
		Title:           req.Title,
		Description:     htmlsanitize.Sanitize(req.Description),
		InstructorID:    instructorID,
		Lessons:         []primitive.ObjectID{},
		Price:           decimal.NewFromFloat(req.Price).Round(2).InexactFloat64(),
		DurationMinutes: req.DurationMinutes,
		IsActive:        req.IsActive == nil || *req.IsActive,
	})
	if err != nil {
		h.Log.Error("admin create course", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}

	_, _, actor, _ := authz.UserCtx(r)
	h.AuditLog.CourseChanged(r.Context(), r, actor, c.ID, audit.EventCourseCreated, c.Title)
	respond.JSON(w, http.StatusCreated, map[string]string{
		"message":   "Course created successfully",
		"course_id": c.ID.Hex(),
	})
}

type updateCourseRequest struct {
	Title           *string  `json:"title" validate:"omitempty,min=3,max=200" label:"Title"`
	Description     *string  `json:"description" validate:"omitempty,min=10" label:"Description"`
	InstructorID    *string  `json:"instructor_id" validate:"omitempty,objectid" label:"Instructor ID"`
	Price           *float64 `json:"price" validate:"omitempty,gte=0" label:"Price"`
	DurationMinutes *int     `json:"duration_minutes" validate:"omitempty,gte=0" label:"Duration"`
	IsActive        *bool    `json:"is_active"`
}

// HandleUpdateCourse handles PUT /admin/courses/{id}.
func (h *Handler) HandleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ObjectID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid course ID")
		return
	}

	var req updateCourseRequest
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
		p := decimal.NewFromFloat(*req.Price).Round(2).InexactFloat64()
		upd.Price = &p
	}
	if upd.Empty() && req.InstructorID == nil {
		respond.Error(w, http.StatusBadRequest, "No changes were made")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if req.InstructorID != nil {
		oid, _ := primitive.ObjectIDFromHex(*req.InstructorID)
		if !h.checkInstructor(ctx, w, oid) {
			return
		}
		upd.InstructorID = &oid
	}

	c, err := h.Courses.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, coursestore.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Course not found")
			return
		}
		h.Log.Error("admin update course", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}

	_, _, actor, _ := authz.UserCtx(r)
	h.AuditLog.CourseChanged(r.Context(), r, actor, id, audit.EventCourseUpdated, c.Title)
	respond.Message(w, "Course updated successfully")
}

// HandleDeleteCourse handles DELETE /admin/courses/{id}. Courses are soft-deleted.
func (h *Handler) HandleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ObjectID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid course ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.Courses.SoftDeleteMany(ctx, []primitive.ObjectID{id})
	if err != nil {
		h.Log.Error("admin delete course", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	if n == 0 {
		respond.Error(w, http.StatusNotFound, "Course not found")
		return
	}

	_, _, actor, _ := authz.UserCtx(r)
	h.AuditLog.CourseChanged(r.Context(), r, actor, id, audit.EventCourseDeleted, "")
	respond.Message(w, "Course deleted successfully")
}

// HandleCourseBulkAction handles POST /admin/courses/bulk-action.
func (h *Handler) HandleCourseBulkAction(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.InvalidBody(w, err)
		return
	}
	req.Action = strings.ToLower(strings.TrimSpace(req.Action))
	if res := inputval.Validate(req); res.HasErrors() {
		respond.Error(w, http.StatusBadRequest, res.First())
		return
	}
	ids := parseIDs(req.IDs)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "course bulk action")
	defer cancel()

	var n int64
	var err error
	switch req.Action {
	case bulkActivate:
		n, err = h.Courses.SetActiveMany(ctx, ids, true)
	case bulkDeactivate:
		n, err = h.Courses.SetActiveMany(ctx, ids, false)
	case bulkDelete:
		n, err = h.Courses.SoftDeleteMany(ctx, ids)
	}
	if err != nil {
		h.Log.Error("course bulk action", zap.Error(err), zap.String("action", req.Action))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}

	_, _, actor, _ := authz.UserCtx(r)
	h.AuditLog.BulkAction(r.Context(), r, actor, audit.EventCourseBulkAction, req.Action, len(req.IDs), int(n))
	respond.JSON(w, http.StatusOK, bulkResponse{
		Message:       fmt.Sprintf("Successfully performed %s on %d courses", req.Action, n),
		AffectedCount: n,
	})
}
