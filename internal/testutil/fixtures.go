package testutil

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/learnhub/internal/app/system/authutil"
	"github.com/dalemusser/learnhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// FixturePassword is the plain-text password of every fixture user.
const FixturePassword = "password123"

var (
	hashOnce    sync.Once
	fixtureHash string
)

func passwordHash(t *testing.T) string {
	t.Helper()
	hashOnce.Do(func() {
		h, err := authutil.HashPassword(FixturePassword)
		if err != nil {
			panic(err)
		}
		fixtureHash = h
	})
	return fixtureHash
}

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) insert(ctx context.Context, coll string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("insert into %s: %v", coll, err)
	}
}

// CreateUser creates an active user with FixturePassword.
func (f *Fixtures) CreateUser(ctx context.Context, name, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash(f.t),
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.insert(ctx, "users", u)
	return u
}

// CreateAdmin creates an active admin.
func (f *Fixtures) CreateAdmin(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.RoleAdmin)
}

// CreateInstructor creates an active instructor.
func (f *Fixtures) CreateInstructor(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.RoleInstructor)
}

// CreateStudent creates an active student.
func (f *Fixtures) CreateStudent(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.RoleStudent)
}

// CreateDisabledUser creates a student with is_active=false.
func (f *Fixtures) CreateDisabledUser(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	u := f.CreateStudent(ctx, name, email)
	if _, err := f.db.Collection("users").UpdateByID(ctx, u.ID, bson.M{"$set": bson.M{"is_active": false}}); err != nil {
		f.t.Fatalf("disable user: %v", err)
	}
	u.IsActive = false
	return u
}

// CreateCourse creates an active course owned by instructorID.
func (f *Fixtures) CreateCourse(ctx context.Context, title string, instructorID primitive.ObjectID, price float64) models.Course {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Course{
		ID:              primitive.NewObjectID(),
		Title:           title,
		Description:     "Description for " + title,
		InstructorID:    instructorID,
		Lessons:         []primitive.ObjectID{},
		Price:           price,
		DurationMinutes: 60,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	f.insert(ctx, "courses", c)
	return c
}

// CreateLesson creates a lesson and appends it to the course's lesson list.
func (f *Fixtures) CreateLesson(ctx context.Context, courseID primitive.ObjectID, title string) models.Lesson {
	f.t.Helper()

	now := time.Now().UTC()
	l := models.Lesson{
		ID:        primitive.NewObjectID(),
		CourseID:  courseID,
		Title:     title,
		Content:   "Content for " + title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(ctx, "lessons", l)
	if _, err := f.db.Collection("courses").UpdateByID(ctx, courseID, bson.M{"$push": bson.M{"lessons": l.ID}}); err != nil {
		f.t.Fatalf("link lesson: %v", err)
	}
	return l
}

// CreateEnrollment enrolls userID in courseID with the given progress.
func (f *Fixtures) CreateEnrollment(ctx context.Context, userID, courseID primitive.ObjectID, progress float64) models.Enrollment {
	f.t.Helper()

	now := time.Now().UTC()
	e := models.Enrollment{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		CourseID:   courseID,
		Progress:   progress,
		EnrolledAt: now,
		UpdatedAt:  now,
	}
	f.insert(ctx, "enrollments", e)
	return e
}

// CreateQuiz creates a quiz with the given questions.
func (f *Fixtures) CreateQuiz(ctx context.Context, courseID primitive.ObjectID, questions []models.Question) models.Quiz {
	f.t.Helper()

	q := models.Quiz{
		ID:        primitive.NewObjectID(),
		CourseID:  courseID,
		Questions: questions,
		CreatedAt: time.Now().UTC(),
	}
	f.insert(ctx, "quizzes", q)
	return q
}

// SampleQuestions returns two questions with answers "4" and "Paris".
func SampleQuestions() []models.Question {
	return []models.Question{
		{Question: "2 + 2?", Options: []string{"3", "4", "5"}, Answer: "4"},
		{Question: "Capital of France?", Options: []string{"Paris", "Rome"}, Answer: "Paris"},
	}
}

// CreateReview creates a review by userID on courseID.
func (f *Fixtures) CreateReview(ctx context.Context, userID, courseID primitive.ObjectID, rating int) models.Review {
	f.t.Helper()

	r := models.Review{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		CourseID:  courseID,
		Rating:    rating,
		Comment:   "Fixture review",
		CreatedAt: time.Now().UTC(),
	}
	f.insert(ctx, "reviews", r)
	return r
}

// CreateNotification creates an unread notification for userID.
func (f *Fixtures) CreateNotification(ctx context.Context, userID primitive.ObjectID, message string) models.Notification {
	f.t.Helper()

	n := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	f.insert(ctx, "notifications", n)
	return n
}

// CreatePayment creates a payment with the given status.
func (f *Fixtures) CreatePayment(ctx context.Context, userID, courseID primitive.ObjectID, amount float64, status string) models.Payment {
	f.t.Helper()

	p := models.Payment{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		CourseID:  courseID,
		Amount:    amount,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}
	f.insert(ctx, "payments", p)
	return p
}
