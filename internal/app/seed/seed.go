// Package seed fills a database with sample LearnHub data for local
// development and demos.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	coursestore "github.com/dalemusser/learnhub/internal/app/store/courses"
	enrollmentstore "github.com/dalemusser/learnhub/internal/app/store/enrollments"
	lessonstore "github.com/dalemusser/learnhub/internal/app/store/lessons"
	notificationstore "github.com/dalemusser/learnhub/internal/app/store/notifications"
	paymentstore "github.com/dalemusser/learnhub/internal/app/store/payments"
	quizstore "github.com/dalemusser/learnhub/internal/app/store/quizzes"
	reviewstore "github.com/dalemusser/learnhub/internal/app/store/reviews"
	userstore "github.com/dalemusser/learnhub/internal/app/store/users"
	"github.com/dalemusser/learnhub/internal/app/system/authutil"
	"github.com/dalemusser/learnhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// DefaultPassword is given to every seeded account.
const DefaultPassword = "password123"

// Collections dropped by Reset.
var Collections = []string{
	"users", "courses", "lessons", "enrollments", "quizzes", "quiz_results",
	"reviews", "notifications", "payments", "audit_events",
}

// Summary counts what one Run created. Reused users are not counted.
type Summary struct {
	Users         int
	Courses       int
	Lessons       int
	Enrollments   int
	Quizzes       int
	Reviews       int
	Notifications int
	Payments      int
}

type person struct {
	name, email, role string
}

var people = []person{
	{"Administrator", "admin@learnhub.local", models.RoleAdmin},
	{"Grace Hopper", "grace@learnhub.local", models.RoleInstructor},
	{"Alan Turing", "alan@learnhub.local", models.RoleInstructor},
	{"Ada Student", "ada@learnhub.local", models.RoleStudent},
	{"Linus Student", "linus@learnhub.local", models.RoleStudent},
	{"Barbara Student", "barbara@learnhub.local", models.RoleStudent},
}

type sampleCourse struct {
	title, description string
	instructor         string // email
	price              float64
	minutes            int
	lessons            []string
}

var courses = []sampleCourse{
	{
		title:       "Introduction to Go",
		description: "<p>Types, functions, packages and the standard library.</p>",
		instructor:  "grace@learnhub.local",
		price:       49.99,
		minutes:     240,
		lessons:     []string{"Hello, Go", "Types and Values", "Packages"},
	},
	{
		title:       "MongoDB Fundamentals",
		description: "<p>Documents, queries, indexes and aggregation pipelines.</p>",
		instructor:  "alan@learnhub.local",
		price:       29.5,
		minutes:     180,
		lessons:     []string{"Documents and Collections", "Querying", "Aggregation"},
	},
	{
		title:       "Web APIs with chi",
		description: "<p>Routing, middleware and JSON handlers.</p>",
		instructor:  "grace@learnhub.local",
		price:       0,
		minutes:     90,
		lessons:     []string{"Routers", "Middleware"},
	},
}

// Reset drops every LearnHub collection in db.
func Reset(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	for _, name := range Collections {
		if err := db.Collection(name).Drop(ctx); err != nil {
			return fmt.Errorf("drop %s: %w", name, err)
		}
	}
	logger.Info("dropped collections", zap.Strings("collections", Collections))
	return nil
}

// Run inserts the sample data. Users are matched by email and courses by
// title and instructor, so running twice reuses what exists; dependent
// records are only created for new courses.
func Run(ctx context.Context, db *mongo.Database, logger *zap.Logger) (Summary, error) {
	var sum Summary
	start := time.Now()

	hash, err := authutil.HashPassword(DefaultPassword)
	if err != nil {
		return sum, err
	}

	users := userstore.New(db)
	byEmail := make(map[string]models.User, len(people))
	for _, p := range people {
		u, created, err := ensureUser(ctx, users, p, hash)
		if err != nil {
			return sum, err
		}
		if created {
			sum.Users++
		}
		byEmail[p.email] = u
	}

	var students []models.User
	for _, p := range people {
		if p.role == models.RoleStudent {
			students = append(students, byEmail[p.email])
		}
	}

	cs := coursestore.New(db)
	ls := lessonstore.New(db)
	es := enrollmentstore.New(db)
	qs := quizstore.New(db)
	rs := reviewstore.New(db)
	ns := notificationstore.New(db)
	ps := paymentstore.New(db)

	for i, sc := range courses {
		instructor := byEmail[sc.instructor]

		var existing models.Course
		err := db.Collection("courses").FindOne(ctx, bson.M{"title": sc.title, "instructor_id": instructor.ID}).Decode(&existing)
		if err == nil {
			continue
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return sum, fmt.Errorf("lookup course %q: %w", sc.title, err)
		}

		c, err := cs.Create(ctx, models.Course{
			Title:           sc.title,
			Description:     sc.description,
			InstructorID:    instructor.ID,
			Lessons:         []primitive.ObjectID{},
			Price:           sc.price,
			DurationMinutes: sc.minutes,
			IsActive:        true,
		})
		if err != nil {
			return sum, fmt.Errorf("create course %q: %w", sc.title, err)
		}
		sum.Courses++

		var firstLesson primitive.ObjectID
		for j, title := range sc.lessons {
			l, err := ls.Create(ctx, models.Lesson{
				CourseID: c.ID,
				Title:    title,
				Content:  "<p>" + title + " for " + sc.title + ".</p>",
			})
			if err != nil {
				return sum, fmt.Errorf("create lesson %q: %w", title, err)
			}
			if err := cs.AddLesson(ctx, c.ID, l.ID); err != nil {
				return sum, err
			}
			if j == 0 {
				firstLesson = l.ID
			}
			sum.Lessons++
		}

		if _, err := qs.Create(ctx, models.Quiz{
			CourseID: c.ID,
			LessonID: &firstLesson,
			Questions: []models.Question{
				{Question: "Which keyword declares a function in Go?", Options: []string{"func", "def", "fn"}, Answer: "func"},
				{Question: "What does MongoDB store records as?", Options: []string{"rows", "documents", "blobs"}, Answer: "documents"},
			},
		}); err != nil {
			return sum, fmt.Errorf("create quiz: %w", err)
		}
		sum.Quizzes++

		// Each course gets a rotating subset of students.
		for k, s := range students {
			if (k+i)%len(students) == len(students)-1 {
				continue
			}
			if _, err := es.Enroll(ctx, s.ID, c.ID); err != nil {
				return sum, fmt.Errorf("enroll: %w", err)
			}
			sum.Enrollments++

			if _, err := rs.Create(ctx, models.Review{
				UserID:   s.ID,
				CourseID: c.ID,
				Rating:   3 + (k+i)%3,
				Comment:  "Enjoyed " + sc.title + ".",
			}); err != nil {
				return sum, fmt.Errorf("review: %w", err)
			}
			sum.Reviews++

			if sc.price > 0 {
				if _, err := ps.Create(ctx, models.Payment{
					UserID:   s.ID,
					CourseID: c.ID,
					Amount:   sc.price,
					Status:   models.PaymentCompleted,
				}); err != nil {
					return sum, fmt.Errorf("payment: %w", err)
				}
				sum.Payments++
			}

			if _, err := ns.Create(ctx, s.ID, "Welcome to "+sc.title+"!"); err != nil {
				return sum, fmt.Errorf("notification: %w", err)
			}
			sum.Notifications++
		}
	}

	logger.Info("seed complete",
		zap.Int("users", sum.Users),
		zap.Int("courses", sum.Courses),
		zap.Int("lessons", sum.Lessons),
		zap.Int("enrollments", sum.Enrollments),
		zap.Int("quizzes", sum.Quizzes),
		zap.Int("reviews", sum.Reviews),
		zap.Int("notifications", sum.Notifications),
		zap.Int("payments", sum.Payments),
		zap.Duration("elapsed", time.Since(start)),
	)
	return sum, nil
}

// ensureUser returns the user with p.email, creating it when missing.
func ensureUser(ctx context.Context, users *userstore.Store, p person, hash string) (models.User, bool, error) {
	u, err := users.GetByEmail(ctx, p.email)
	if err == nil {
		return *u, false, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, false, fmt.Errorf("lookup %s: %w", p.email, err)
	}
	created, err := users.Create(ctx, models.User{
		Name:         p.name,
		Email:        p.email,
		PasswordHash: hash,
		Role:         p.role,
		IsActive:     true,
	})
	if err != nil {
		return models.User{}, false, fmt.Errorf("create %s: %w", p.email, err)
	}
	return created, true, nil
}
