package coursestore_test

import (
	"errors"
	"testing"

	coursestore "github.com/dalemusser/learnhub/internal/app/store/courses"
	"github.com/dalemusser/learnhub/internal/domain/models"
	"github.com/dalemusser/learnhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_CreateThenGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := coursestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	instructor := primitive.NewObjectID()
	created, err := store.Create(ctx, models.Course{
		Title:        "Go Basics",
		Description:  "Learn Go",
		InstructorID: instructor,
		Price:        49.99,
		IsActive:     true,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Lessons == nil {
		t.Error("expected empty lesson list, got nil")
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != "Go Basics" || got.InstructorID != instructor || got.Price != 49.99 {
		t.Errorf("GetByID mismatch: %+v", got)
	}
}

func TestStore_ListVariants(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := coursestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ins := fx.CreateInstructor(ctx, "Ins", "ins@example.com")
	other := fx.CreateInstructor(ctx, "Other", "other@example.com")
	c1 := fx.CreateCourse(ctx, "One", ins.ID, 10)
	fx.CreateCourse(ctx, "Two", ins.ID, 20)
	c3 := fx.CreateCourse(ctx, "Three", other.ID, 30)

	if _, err := store.SetActiveMany(ctx, []primitive.ObjectID{c1.ID}, false); err != nil {
		t.Fatalf("SetActiveMany: %v", err)
	}

	all, err := store.List(ctx)
	if err != nil || len(all) != 3 {
		t.Fatalf("List: len=%d err=%v", len(all), err)
	}

	active, err := store.ListActive(ctx, 0)
	if err != nil || len(active) != 2 {
		t.Fatalf("ListActive: len=%d err=%v", len(active), err)
	}
	if active[0].ID != c3.ID {
		t.Errorf("expected newest active course first, got %q", active[0].Title)
	}

	mine, err := store.ListByInstructor(ctx, ins.ID)
	if err != nil || len(mine) != 2 {
		t.Fatalf("ListByInstructor: len=%d err=%v", len(mine), err)
	}

	if _, err := store.GetActive(ctx, c1.ID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("GetActive on inactive course: %v", err)
	}
}

func TestStore_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := coursestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c := fx.CreateCourse(ctx, "Old", primitive.NewObjectID(), 10)
	title := "New"
	price := 12.5
	got, err := store.Update(ctx, c.ID, coursestore.Update{Title: &title, Price: &price})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Title != "New" || got.Price != 12.5 {
		t.Errorf("unexpected %+v", got)
	}
	if !got.UpdatedAt.After(c.UpdatedAt) && !got.UpdatedAt.Equal(c.UpdatedAt) {
		t.Error("updated_at went backwards")
	}

	if _, err := store.Update(ctx, primitive.NewObjectID(), coursestore.Update{Title: &title}); !errors.Is(err, coursestore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_LessonLinks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := coursestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c := fx.CreateCourse(ctx, "C", primitive.NewObjectID(), 0)
	lessonID := primitive.NewObjectID()

	if err := store.AddLesson(ctx, c.ID, lessonID); err != nil {
		t.Fatalf("AddLesson: %v", err)
	}
	got, _ := store.GetByID(ctx, c.ID)
	if len(got.Lessons) != 1 || got.Lessons[0] != lessonID {
		t.Fatalf("lesson not linked: %v", got.Lessons)
	}

	if err := store.RemoveLesson(ctx, c.ID, lessonID); err != nil {
		t.Fatalf("RemoveLesson: %v", err)
	}
	got, _ = store.GetByID(ctx, c.ID)
	if len(got.Lessons) != 0 {
		t.Errorf("lesson not removed: %v", got.Lessons)
	}
}

func TestStore_DeleteAndSoftDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := coursestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fx.CreateCourse(ctx, "A", primitive.NewObjectID(), 0)
	b := fx.CreateCourse(ctx, "B", primitive.NewObjectID(), 0)

	n, err := store.Delete(ctx, a.ID)
	if err != nil || n != 1 {
		t.Fatalf("Delete: n=%d err=%v", n, err)
	}
	if _, err := store.GetByID(ctx, a.ID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments after delete, got %v", err)
	}

	n, err = store.SoftDeleteMany(ctx, []primitive.ObjectID{b.ID})
	if err != nil || n != 1 {
		t.Fatalf("SoftDeleteMany: n=%d err=%v", n, err)
	}
	got, _ := store.GetByID(ctx, b.ID)
	if got.IsActive || got.DeletedAt == nil {
		t.Errorf("expected soft-deleted course, got %+v", got)
	}
}
