package adminqueries_test

import (
	"errors"
	"testing"

	"github.com/dalemusser/learnhub/internal/app/store/queries/adminqueries"
	"github.com/dalemusser/learnhub/internal/app/system/paging"
	"github.com/dalemusser/learnhub/internal/domain/models"
	"github.com/dalemusser/learnhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func boolPtr(b bool) *bool { return &b }

func TestListUsers_FiltersAndCounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ins := fx.CreateInstructor(ctx, "Ivy Instructor", "ivy@example.com")
	alice := fx.CreateStudent(ctx, "Alice", "alice@example.com")
	fx.CreateStudent(ctx, "Bob", "bob@sample.org")
	fx.CreateDisabledUser(ctx, "Carl", "carl@example.com")

	c := fx.CreateCourse(ctx, "C", ins.ID, 0)
	fx.CreateEnrollment(ctx, alice.ID, c.ID, 0)

	tests := []struct {
		name   string
		filter adminqueries.UserFilter
		want   int64
	}{
		{"all", adminqueries.UserFilter{}, 4},
		{"by role", adminqueries.UserFilter{Role: models.RoleStudent}, 3},
		{"inactive", adminqueries.UserFilter{IsActive: boolPtr(false)}, 1},
		{"search email domain", adminqueries.UserFilter{Search: "EXAMPLE.com"}, 3},
		{"search name", adminqueries.UserFilter{Search: "ali"}, 1},
		{"regex chars are literal", adminqueries.UserFilter{Search: ".*"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, total, err := adminqueries.ListUsers(ctx, db, tt.filter, paging.Page{Page: 1, Limit: 20})
			if err != nil {
				t.Fatalf("ListUsers: %v", err)
			}
			if total != tt.want || int64(len(rows)) != tt.want {
				t.Errorf("total=%d rows=%d, want %d", total, len(rows), tt.want)
			}
		})
	}

	u, err := adminqueries.GetUser(ctx, db, alice.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if u.TotalEnrollments != 1 || u.Email != "alice@example.com" {
		t.Errorf("unexpected %+v", u)
	}
	if u.PasswordHash != "" {
		t.Error("password hash should be projected out")
	}

	if _, err := adminqueries.GetUser(ctx, db, primitive.NewObjectID()); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}

func TestListUsers_Paging(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for i := 0; i < 5; i++ {
		fx.CreateStudent(ctx, "S", primitive.NewObjectID().Hex()+"@example.com")
	}

	rows, total, err := adminqueries.ListUsers(ctx, db, adminqueries.UserFilter{}, paging.Page{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if total != 5 || len(rows) != 2 {
		t.Errorf("total=%d rows=%d", total, len(rows))
	}

	rows, _, _ = adminqueries.ListUsers(ctx, db, adminqueries.UserFilter{}, paging.Page{Page: 3, Limit: 2})
	if len(rows) != 1 {
		t.Errorf("last page rows=%d, want 1", len(rows))
	}

	rows, total, _ = adminqueries.ListUsers(ctx, db, adminqueries.UserFilter{}, paging.Page{})
	if total != 5 || len(rows) != 5 {
		t.Errorf("unpaged total=%d rows=%d", total, len(rows))
	}
}

func TestListCourses(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ins := fx.CreateInstructor(ctx, "Ivy", "ivy@example.com")
	c := fx.CreateCourse(ctx, "Distributed Systems", ins.ID, 10)
	fx.CreateLesson(ctx, c.ID, "L1")
	fx.CreateLesson(ctx, c.ID, "L2")
	fx.CreateEnrollment(ctx, primitive.NewObjectID(), c.ID, 0)
	fx.CreateCourse(ctx, "Orphan", primitive.NewObjectID(), 0)

	rows, total, err := adminqueries.ListCourses(ctx, db, adminqueries.CourseFilter{Search: "distributed"}, paging.Page{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("ListCourses: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("total=%d rows=%d", total, len(rows))
	}
	if rows[0].InstructorName != "Ivy" || rows[0].TotalLessons != 2 || rows[0].TotalEnrollments != 1 {
		t.Errorf("unexpected %+v", rows[0])
	}

	orphan, _, _ := adminqueries.ListCourses(ctx, db, adminqueries.CourseFilter{Search: "orphan"}, paging.Page{Page: 1, Limit: 10})
	if len(orphan) != 1 || orphan[0].InstructorName != "Unknown" {
		t.Errorf("expected Unknown instructor, got %+v", orphan)
	}

	got, err := adminqueries.GetCourse(ctx, db, c.ID)
	if err != nil || got.Title != "Distributed Systems" {
		t.Fatalf("GetCourse: %+v %v", got, err)
	}
}

func TestListEnrollmentsAndPayments(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := fx.CreateStudent(ctx, "Stu", "stu@example.com")
	c := fx.CreateCourse(ctx, "Course", primitive.NewObjectID(), 10)
	fx.CreateEnrollment(ctx, s.ID, c.ID, 0)
	fx.CreateEnrollment(ctx, primitive.NewObjectID(), primitive.NewObjectID(), 0)
	fx.CreatePayment(ctx, s.ID, c.ID, 10, models.PaymentCompleted)
	fx.CreatePayment(ctx, s.ID, c.ID, 10, models.PaymentFailed)

	enr, total, err := adminqueries.ListEnrollments(ctx, db, paging.Page{Page: 1, Limit: 20})
	if err != nil || total != 2 {
		t.Fatalf("ListEnrollments: total=%d err=%v", total, err)
	}
	known, unknown := 0, 0
	for _, e := range enr {
		if e.UserName == "Stu" && e.CourseTitle == "Course" {
			known++
		}
		if e.UserName == "Unknown" && e.CourseTitle == "Unknown" {
			unknown++
		}
	}
	if known != 1 || unknown != 1 {
		t.Errorf("enrichment: known=%d unknown=%d", known, unknown)
	}

	pays, total, err := adminqueries.ListPayments(ctx, db, models.PaymentCompleted, paging.Page{Page: 1, Limit: 20})
	if err != nil || total != 1 {
		t.Fatalf("ListPayments: total=%d err=%v", total, err)
	}
	if pays[0].UserName != "Stu" || pays[0].CourseTitle != "Course" {
		t.Errorf("unexpected %+v", pays[0])
	}
}
