package courses_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/dalemusser/learnhub/internal/app/features/courses"
	coursestore "github.com/dalemusser/learnhub/internal/app/store/courses"
	"github.com/dalemusser/learnhub/internal/domain/models"
	"github.com/dalemusser/learnhub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newHandler(t *testing.T) (*courses.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return courses.NewHandler(db, nil, zap.NewNop()), testutil.NewFixtures(t, db)
}

func TestHandleCreate(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	inst := fx.CreateInstructor(ctx, "Ina", "ina@example.com")

	rec := testutil.NewRecorder()
	h.HandleCreate(rec, testutil.NewAuthenticatedRequest(t, "POST", "/courses", map[string]any{
		"title":       "Go Basics",
		"description": `<p>Learn Go</p><script>alert(1)</script>`,
		"price":       19.999,
	}, testutil.AsUser(inst)))
	rec.AssertStatus(t, http.StatusCreated)

	var c models.Course
	rec.DecodeJSON(t, &c)
	if c.InstructorID != inst.ID || !c.IsActive {
		t.Errorf("unexpected course %+v", c)
	}
	if strings.Contains(c.Description, "script") {
		t.Errorf("description not sanitized: %q", c.Description)
	}
	if c.Price != 20.00 {
		t.Errorf("price = %v, want 20.00", c.Price)
	}
	if c.Lessons == nil || len(c.Lessons) != 0 {
		t.Errorf("expected empty lesson list, got %v", c.Lessons)
	}
}

func TestHandleCreate_Validation(t *testing.T) {
	h, _ := newHandler(t)

	rec := testutil.NewRecorder()
	h.HandleCreate(rec, testutil.NewAuthenticatedRequest(t, "POST", "/courses", map[string]any{
		"title":       "Go",
		"description": "short",
		"price":       10,
	}, testutil.InstructorUser()))
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertDetail(t, "Title must be at least 3 characters.")

	rec = testutil.NewRecorder()
	h.HandleCreate(rec, testutil.NewAuthenticatedRequest(t, "POST", "/courses", map[string]any{
		"title":       "Go Basics",
		"description": "desc",
		"price":       -1,
	}, testutil.InstructorUser()))
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertDetail(t, "Price must be at least 0.")
}

func TestServeGetAndList(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	inst := fx.CreateInstructor(ctx, "Ina", "ina@example.com")
	c := fx.CreateCourse(ctx, "Go Basics", inst.ID, 10)
	fx.CreateCourse(ctx, "Advanced Go", inst.ID, 20)
	other := fx.CreateInstructor(ctx, "Otto", "otto@example.com")
	fx.CreateCourse(ctx, "Rust", other.ID, 30)

	rec := testutil.NewRecorder()
	h.ServeGet(rec, testutil.WithChiURLParam(testutil.NewRequest("GET", "/courses/"+c.ID.Hex()), "id", c.ID.Hex()))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Go Basics")

	rec = testutil.NewRecorder()
	h.ServeList(rec, testutil.NewRequest("GET", "/courses"))
	rec.AssertStatus(t, http.StatusOK)
	var all []models.Course
	rec.DecodeJSON(t, &all)
	if len(all) != 3 {
		t.Errorf("expected 3 courses, got %d", len(all))
	}

	rec = testutil.NewRecorder()
	h.ServeByInstructor(rec, testutil.WithChiURLParam(testutil.NewRequest("GET", "/courses/instructor/x"), "id", inst.ID.Hex()))
	rec.AssertStatus(t, http.StatusOK)
	var mine []models.Course
	rec.DecodeJSON(t, &mine)
	if len(mine) != 2 {
		t.Errorf("expected 2 instructor courses, got %d", len(mine))
	}

	rec = testutil.NewRecorder()
	missing := inst.ID.Hex()
	h.ServeGet(rec, testutil.WithChiURLParam(testutil.NewRequest("GET", "/courses/"+missing), "id", missing))
	rec.AssertStatus(t, http.StatusNotFound)
	rec.AssertDetail(t, "Course not found")
}

func TestHandleUpdate_Ownership(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	owner := fx.CreateInstructor(ctx, "Owner", "owner@example.com")
	stranger := fx.CreateInstructor(ctx, "Stranger", "stranger@example.com")
	c := fx.CreateCourse(ctx, "Go Basics", owner.ID, 10)

	put := func(body any, as *models.User) *testutil.ResponseRecorder {
		rec := testutil.NewRecorder()
		req := testutil.NewAuthenticatedRequest(t, "PUT", "/courses/"+c.ID.Hex(), body, testutil.AsUser(*as))
		h.HandleUpdate(rec, testutil.WithChiURLParam(req, "id", c.ID.Hex()))
		return rec
	}

	rec := put(map[string]any{"title": "Hijacked"}, &stranger)
	rec.AssertStatus(t, http.StatusForbidden)
	rec.AssertDetail(t, "Not authorized to update this course")

	rec = put(map[string]any{"title": "Go Fundamentals", "price": 12.345}, &owner)
	rec.AssertStatus(t, http.StatusOK)
	var got models.Course
	rec.DecodeJSON(t, &got)
	if got.Title != "Go Fundamentals" || got.Price != 12.35 {
		t.Errorf("unexpected update result %+v", got)
	}

	admin := fx.CreateAdmin(ctx, "Ada", "ada@example.com")
	rec = put(map[string]any{"is_active": false}, &admin)
	rec.AssertStatus(t, http.StatusOK)
}

func TestHandleDelete(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	owner := fx.CreateInstructor(ctx, "Owner", "owner@example.com")
	c := fx.CreateCourse(ctx, "Go Basics", owner.ID, 10)

	rec := testutil.NewRecorder()
	req := testutil.NewAuthenticatedRequest(t, "DELETE", "/courses/"+c.ID.Hex(), nil, testutil.AsUser(owner))
	h.HandleDelete(rec, testutil.WithChiURLParam(req, "id", c.ID.Hex()))
	rec.AssertStatus(t, http.StatusOK)

	if _, err := coursestore.New(fx.DB()).GetByID(ctx, c.ID); err != mongo.ErrNoDocuments {
		t.Errorf("expected course to be gone, got %v", err)
	}
}
