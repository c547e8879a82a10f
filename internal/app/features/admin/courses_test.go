package admin_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/learnhub/internal/app/store/queries/adminqueries"
	"github.com/dalemusser/learnhub/internal/domain/models"
	"github.com/dalemusser/learnhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestServeCourses(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	inst := fx.CreateInstructor(ctx, "Ina", "ina@example.com")
	sam := fx.CreateStudent(ctx, "Sam", "sam@example.com")
	goCourse := fx.CreateCourse(ctx, "Go Basics", inst.ID, 10)
	fx.CreateCourse(ctx, "Mongo 101", inst.ID, 20)
	fx.CreateLesson(ctx, goCourse.ID, "Hello")
	fx.CreateLesson(ctx, goCourse.ID, "Types")
	fx.CreateEnrollment(ctx, sam.ID, goCourse.ID, 0)

	rec := testutil.NewRecorder()
	h.ServeCourses(rec, testutil.NewAuthenticatedRequest(t, "GET", "/admin/courses?search=go", nil, testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusOK)

	var got struct {
		Courses []adminqueries.CourseWithStats `json:"courses"`
	}
	rec.DecodeJSON(t, &got)
	if len(got.Courses) != 1 {
		t.Fatalf("search=go returned %d courses, want 1", len(got.Courses))
	}
	c := got.Courses[0]
	if c.InstructorName != "Ina" || c.TotalLessons != 2 || c.TotalEnrollments != 1 {
		t.Errorf("unexpected course stats %+v", c)
	}

	rec = testutil.NewRecorder()
	req := testutil.NewAuthenticatedRequest(t, "GET", "/admin/courses/"+goCourse.ID.Hex(), nil, testutil.AdminUser())
	h.ServeCourse(rec, testutil.WithChiURLParam(req, "id", goCourse.ID.Hex()))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"instructor_name":"Ina"`)
}

func TestHandleCreateCourse(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	inst := fx.CreateInstructor(ctx, "Ina", "ina@example.com")
	sam := fx.CreateStudent(ctx, "Sam", "sam@example.com")

	post := func(body map[string]any) *testutil.ResponseRecorder {
		rec := testutil.NewRecorder()
		h.HandleCreateCourse(rec, testutil.NewAuthenticatedRequest(t, "POST", "/admin/courses", body, testutil.AdminUser()))
		return rec
	}

	rec := post(map[string]any{
		"title":         "Go Basics",
		"description":   "<p>Learn Go</p><script>alert(1)</script>",
		"instructor_id": inst.ID.Hex(),
		"price":         19.999,
	})
	rec.AssertStatus(t, http.StatusCreated)
	var created struct {
		CourseID string `json:"course_id"`
	}
	rec.DecodeJSON(t, &created)

	oid, err := primitive.ObjectIDFromHex(created.CourseID)
	if err != nil {
		t.Fatalf("course_id: %v", err)
	}
	var c models.Course
	if err := fx.DB().Collection("courses").FindOne(ctx, bson.M{"_id": oid}).Decode(&c); err != nil {
		t.Fatalf("load course: %v", err)
	}
	if c.Price != 20 || !c.IsActive || c.InstructorID != inst.ID || c.Description != "<p>Learn Go</p>" {
		t.Errorf("unexpected stored course %+v", c)
	}

	tests := []struct {
		name string
		body map[string]any
		want string
	}{
		{"student instructor", map[string]any{"title": "Go Basics", "description": "long enough text", "instructor_id": sam.ID.Hex()}, "Instructor not found or user is not an instructor"},
		{"short title", map[string]any{"title": "Go", "description": "long enough text", "instructor_id": inst.ID.Hex()}, "Title must be at least 3 characters."},
		{"short description", map[string]any{"title": "Go Basics", "description": "short", "instructor_id": inst.ID.Hex()}, "Description must be at least 10 characters."},
		{"negative price", map[string]any{"title": "Go Basics", "description": "long enough text", "instructor_id": inst.ID.Hex(), "price": -1}, "Price must be at least 0."},
		{"bad instructor id", map[string]any{"title": "Go Basics", "description": "long enough text", "instructor_id": "x"}, "Instructor ID must be a valid ID."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(tt.body)
			rec.AssertStatus(t, http.StatusBadRequest)
			rec.AssertDetail(t, tt.want)
		})
	}
}

func TestHandleUpdateCourse(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	inst := fx.CreateInstructor(ctx, "Ina", "ina@example.com")
	other := fx.CreateInstructor(ctx, "Olu", "olu@example.com")
	sam := fx.CreateStudent(ctx, "Sam", "sam@example.com")
	c := fx.CreateCourse(ctx, "Go Basics", inst.ID, 10)

	put := func(body map[string]any) *testutil.ResponseRecorder {
		rec := testutil.NewRecorder()
		req := testutil.NewAuthenticatedRequest(t, "PUT", "/admin/courses/"+c.ID.Hex(), body, testutil.AdminUser())
		h.HandleUpdateCourse(rec, testutil.WithChiURLParam(req, "id", c.ID.Hex()))
		return rec
	}

	put(map[string]any{"instructor_id": other.ID.Hex(), "price": 5.555}).AssertStatus(t, http.StatusOK)
	var stored models.Course
	if err := fx.DB().Collection("courses").FindOne(ctx, bson.M{"_id": c.ID}).Decode(&stored); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.InstructorID != other.ID || stored.Price != 5.56 {
		t.Errorf("update not applied: %+v", stored)
	}

	rec := put(map[string]any{"instructor_id": sam.ID.Hex()})
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertDetail(t, "Instructor not found or user is not an instructor")

	rec = put(map[string]any{})
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertDetail(t, "No changes were made")
}

func TestHandleDeleteCourse(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	inst := fx.CreateInstructor(ctx, "Ina", "ina@example.com")
	c := fx.CreateCourse(ctx, "Go Basics", inst.ID, 10)

	del := func(hex string) *testutil.ResponseRecorder {
		rec := testutil.NewRecorder()
		req := testutil.NewAuthenticatedRequest(t, "DELETE", "/admin/courses/"+hex, nil, testutil.AdminUser())
		h.HandleDeleteCourse(rec, testutil.WithChiURLParam(req, "id", hex))
		return rec
	}

	del(c.ID.Hex()).AssertStatus(t, http.StatusOK)
	var stored models.Course
	if err := fx.DB().Collection("courses").FindOne(ctx, bson.M{"_id": c.ID}).Decode(&stored); err != nil {
		t.Fatalf("soft-deleted course should remain: %v", err)
	}
	if stored.IsActive || stored.DeletedAt == nil {
		t.Errorf("expected soft delete, got %+v", stored)
	}

	del(primitive.NewObjectID().Hex()).AssertStatus(t, http.StatusNotFound)
}

func TestHandleCourseBulkAction(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	inst := fx.CreateInstructor(ctx, "Ina", "ina@example.com")
	a := fx.CreateCourse(ctx, "Go Basics", inst.ID, 10)
	b := fx.CreateCourse(ctx, "Mongo 101", inst.ID, 10)

	bulk := func(action string, ids ...string) int64 {
		t.Helper()
		rec := testutil.NewRecorder()
		body := map[string]any{"action": action, "ids": ids}
		h.HandleCourseBulkAction(rec, testutil.NewAuthenticatedRequest(t, "POST", "/admin/courses/bulk-action", body, testutil.AdminUser()))
		rec.AssertStatus(t, http.StatusOK)
		var resp struct {
			AffectedCount int64 `json:"affected_count"`
		}
		rec.DecodeJSON(t, &resp)
		return resp.AffectedCount
	}

	if n := bulk("deactivate", a.ID.Hex(), b.ID.Hex(), a.ID.Hex()); n != 2 {
		t.Errorf("deactivate affected %d, want 2", n)
	}
	if n := bulk("deactivate", a.ID.Hex()); n != 0 {
		t.Errorf("repeat deactivate affected %d, want 0", n)
	}
	if n := bulk("activate", a.ID.Hex()); n != 1 {
		t.Errorf("activate affected %d, want 1", n)
	}
	if n := bulk("delete", a.ID.Hex(), b.ID.Hex()); n != 2 {
		t.Errorf("delete affected %d, want 2", n)
	}
}
