// internal/app/features/lessons/lessons.go
package lessons

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/learnhub/internal/app/system/authz"
	"github.com/dalemusser/learnhub/internal/app/system/filestore"
	"github.com/dalemusser/learnhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/learnhub/internal/app/system/inputval"
	"github.com/dalemusser/learnhub/internal/app/system/respond"
	"github.com/dalemusser/learnhub/internal/app/system/timeouts"
	"github.com/dalemusser/learnhub/internal/app/system/txn"
	"github.com/dalemusser/learnhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServeList handles GET /lessons?course_id=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	var courseID *primitive.ObjectID
	if raw := query.Get(r, "course_id"); raw != "" {
		oid, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "Invalid course ID")
			return
		}
		courseID = &oid
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Lessons.List(ctx, courseID)
	if err != nil {
		h.Log.Error("list lessons", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

// ServeGet handles GET /lessons/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ObjectID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid lesson ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	l, err := h.Lessons.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, http.StatusNotFound, "Lesson not found")
			return
		}
		h.Log.Error("get lesson", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	respond.JSON(w, http.StatusOK, l)
}

type createRequest struct {
	CourseID    string `json:"course_id" validate:"required,objectid" label:"Course ID"`
	Title       string `json:"title" validate:"required,max=200" label:"Title"`
	Content     string `json:"content" validate:"required" label:"Content"`
	VideoURL    string `json:"video_url" validate:"omitempty,httpurl" label:"Video URL"`
	DocumentURL string `json:"document_url" validate:"omitempty,httpurl" label:"Document URL"`
}

// ownsCourse reports whether the caller may author content in courseID,
// writing the error response when not.
func (h *Handler) ownsCourse(ctx context.Context, w http.ResponseWriter, r *http.Request, courseID primitive.ObjectID) bool {
	c, err := h.Courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, http.StatusNotFound, "Course not found")
			return false
		}
		h.Log.Error("load course for lesson", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return false
	}
	if !authz.IsSelfOrAdmin(r, c.InstructorID) {
		respond.Error(w, http.StatusForbidden, "Not authorized to modify this course")
		return false
	}
	return true
}

// HandleCreate handles POST /lessons and appends the lesson to its course.
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
	courseID, _ := primitive.ObjectIDFromHex(req.CourseID)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if !h.ownsCourse(ctx, w, r, courseID) {
		return
	}

	var l models.Lesson
	if err := txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		var err error
		l, err = h.Lessons.Create(ctx, models.Lesson{
			CourseID:    courseID,
			Title:       req.Title,
			Content:     htmlsanitize.Sanitize(req.Content),
			VideoURL:    req.VideoURL,
			DocumentURL: req.DocumentURL,
		})
		if err != nil {
			return err
		}
		return h.Courses.AddLesson(ctx, courseID, l.ID)
	}); err != nil {
		h.Log.Error("create lesson", zap.Error(err), zap.String("course_id", courseID.Hex()))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	respond.JSON(w, http.StatusCreated, l)
}

// loadOwned fetches the lesson and checks the caller owns its course.
func (h *Handler) loadOwned(ctx context.Context, w http.ResponseWriter, r *http.Request) *models.Lesson {
	id, ok := respond.ObjectID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid lesson ID")
		return nil
	}
	l, err := h.Lessons.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, http.StatusNotFound, "Lesson not found")
			return nil
		}
		h.Log.Error("load lesson", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return nil
	}
	if !h.ownsCourse(ctx, w, r, l.CourseID) {
		return nil
	}
	return l
}

// HandleUploadVideo handles POST /lessons/{id}/upload-video (multipart field "file").
func (h *Handler) HandleUploadVideo(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	l := h.loadOwned(ctx, w, r)
	if l == nil {
		return
	}

	up, err := filestore.FromRequest(w, r, "file", h.MaxVideoBytes)
	switch {
	case errors.Is(err, filestore.ErrTooLarge):
		respond.Error(w, http.StatusRequestEntityTooLarge, "File is too large")
		return
	case err != nil:
		respond.Error(w, http.StatusBadRequest, "A file is required")
		return
	}
	defer up.Close()

	if !up.Is("video/") {
		respond.Error(w, http.StatusBadRequest, "File must be a video")
		return
	}

	url, err := filestore.Save(ctx, h.Storage, filestore.DirVideos, filestore.Filename(l.ID.Hex(), up.Filename), up)
	if err != nil {
		h.Log.Error("save lesson video", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "could not store file")
		return
	}

	sctx, scancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer scancel()
	if _, err := h.Lessons.SetVideoURL(sctx, l.ID, url); err != nil {
		_ = filestore.Remove(sctx, h.Storage, url, filestore.DirVideos, l.ID.Hex())
		h.Log.Error("set lesson video", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	if l.VideoURL != "" {
		if err := filestore.Remove(sctx, h.Storage, l.VideoURL, filestore.DirVideos, l.ID.Hex()); err != nil {
			h.Log.Warn("remove previous lesson video", zap.Error(err))
		}
	}

	respond.JSON(w, http.StatusOK, map[string]string{
		"message":   "Video uploaded successfully",
		"video_url": url,
	})
}

// HandleDelete handles DELETE /lessons/{id} and pulls it from its course.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	l := h.loadOwned(ctx, w, r)
	if l == nil {
		return
	}

	if err := txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		if _, err := h.Lessons.Delete(ctx, l.ID); err != nil {
			return err
		}
		return h.Courses.RemoveLesson(ctx, l.CourseID, l.ID)
	}); err != nil {
		h.Log.Error("delete lesson", zap.Error(err), zap.String("lesson_id", l.ID.Hex()))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	if l.VideoURL != "" && h.Storage != nil {
		if err := filestore.Remove(ctx, h.Storage, l.VideoURL, filestore.DirVideos, l.ID.Hex()); err != nil {
			h.Log.Warn("remove lesson video", zap.Error(err), zap.String("lesson_id", l.ID.Hex()))
		}
	}
	respond.Message(w, "Lesson deleted successfully")
}
