// internal/app/features/quizzes/quizzes.go
package quizzes

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"

	quizstore "github.com/dalemusser/learnhub/internal/app/store/quizzes"
	"github.com/dalemusser/learnhub/internal/app/system/authz"
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

type questionInput struct {
	Question string   `json:"question" validate:"required,max=1000" label:"Question"`
	Options  []string `json:"options" validate:"min=2,dive,required" label:"Options"`
	Answer   string   `json:"answer" validate:"required" label:"Answer"`
}

type createRequest struct {
	CourseID  string          `json:"course_id" validate:"required,objectid" label:"Course ID"`
	LessonID  string          `json:"lesson_id" validate:"omitempty,objectid" label:"Lesson ID"`
	Questions []questionInput `json:"questions" validate:"min=1,dive" label:"Questions"`
}

// checkAnswers reports the first question whose answer is not among its options.
func checkAnswers(qs []questionInput) string {
	for i, q := range qs {
		if !slices.Contains(q.Options, q.Answer) {
			return fmt.Sprintf("Answer for question %d must be one of its options.", i+1)
		}
	}
	return ""
}

// HandleCreate handles POST /quizzes.
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
	if msg := checkAnswers(req.Questions); msg != "" {
		respond.Error(w, http.StatusBadRequest, msg)
		return
	}

	courseID, _ := primitive.ObjectIDFromHex(req.CourseID)
	q := models.Quiz{CourseID: courseID, Questions: make([]models.Question, len(req.Questions))}
	if req.LessonID != "" {
		lid, _ := primitive.ObjectIDFromHex(req.LessonID)
		q.LessonID = &lid
	}
	for i, in := range req.Questions {
		q.Questions[i] = models.Question{Question: in.Question, Options: in.Options, Answer: in.Answer}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if !h.ownsCourse(ctx, w, r, courseID) {
		return
	}

	created, err := h.Quizzes.Create(ctx, q)
	if err != nil {
		h.Log.Error("create quiz", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}

func (h *Handler) ownsCourse(ctx context.Context, w http.ResponseWriter, r *http.Request, courseID primitive.ObjectID) bool {
	c, err := h.Courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, http.StatusNotFound, "Course not found")
			return false
		}
		h.Log.Error("load course for quiz", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return false
	}
	if !authz.IsSelfOrAdmin(r, c.InstructorID) {
		respond.Error(w, http.StatusForbidden, "Not authorized to modify this course")
		return false
	}
	return true
}

// ServeList handles GET /quizzes?course_id=.
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

	list, err := h.Quizzes.List(ctx, courseID)
	if err != nil {
		h.Log.Error("list quizzes", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	if !authz.CanTeach(r) {
		for i := range list {
			list[i] = list[i].WithoutAnswers()
		}
	}
	respond.JSON(w, http.StatusOK, list)
}

func (h *Handler) load(ctx context.Context, w http.ResponseWriter, r *http.Request) *models.Quiz {
	id, ok := respond.ObjectID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid quiz ID")
		return nil
	}
	q, err := h.Quizzes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, http.StatusNotFound, "Quiz not found")
			return nil
		}
		h.Log.Error("load quiz", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return nil
	}
	return q
}

// ServeGet handles GET /quizzes/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	q := h.load(ctx, w, r)
	if q == nil {
		return
	}
	if !authz.CanTeach(r) {
		respond.JSON(w, http.StatusOK, q.WithoutAnswers())
		return
	}
	respond.JSON(w, http.StatusOK, q)
}

type submitRequest struct {
	Answers []string `json:"answers" validate:"required" label:"Answers"`
}

// HandleSubmit handles POST /quizzes/{id}/submit. Answers are matched by position.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	var req submitRequest
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

	q := h.load(ctx, w, r)
	if q == nil {
		return
	}

	res, err := h.Quizzes.SaveResult(ctx, quizstore.Grade(*q, uid, req.Answers))
	if err != nil {
		h.Log.Error("save quiz result", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	respond.JSON(w, http.StatusOK, res)
}

// ServeResults handles GET /quizzes/{id}/results.
func (h *Handler) ServeResults(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	q := h.load(ctx, w, r)
	if q == nil || !h.ownsCourse(ctx, w, r, q.CourseID) {
		return
	}

	list, err := h.Quizzes.Results(ctx, q.ID)
	if err != nil {
		h.Log.Error("list quiz results", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

// HandleDelete handles DELETE /quizzes/{id}; stored results go with it.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	q := h.load(ctx, w, r)
	if q == nil || !h.ownsCourse(ctx, w, r, q.CourseID) {
		return
	}

	if err := txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		_, err := h.Quizzes.Delete(ctx, q.ID)
		return err
	}); err != nil {
		h.Log.Error("delete quiz", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	respond.Message(w, "Quiz deleted successfully")
}
