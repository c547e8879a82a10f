// internal/app/store/enrollments/enrollmentstore.go
package enrollmentstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/learnhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrAlreadyEnrolled is returned when the user already has an enrollment for the course.
var ErrAlreadyEnrolled = errors.New("already enrolled in this course")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("enrollments")}
}

// Enroll creates an enrollment with zero progress. The check-then-insert is
// backed by the unique (user_id, course_id) index, so a concurrent duplicate
// still surfaces as ErrAlreadyEnrolled.
func (s *Store) Enroll(ctx context.Context, userID, courseID primitive.ObjectID) (models.Enrollment, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"user_id": userID, "course_id": courseID}, options.Count().SetLimit(1))
	if err != nil {
		return models.Enrollment{}, err
	}
	if n > 0 {
		return models.Enrollment{}, ErrAlreadyEnrolled
	}

	now := time.Now().UTC()
	e := models.Enrollment{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		CourseID:   courseID,
		Progress:   0,
		EnrolledAt: now,
		UpdatedAt:  now,
	}
	if _, err := s.c.InsertOne(ctx, e); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Enrollment{}, ErrAlreadyEnrolled
		}
		return models.Enrollment{}, err
	}
	return e, nil
}

// GetByID loads an enrollment. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Enrollment, error) {
	var e models.Enrollment
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns every enrollment, newest first.
func (s *Store) List(ctx context.Context) ([]models.Enrollment, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "enrolled_at", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Enrollment{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EnrollmentWithCourse is an enrollment joined with its course. Course is
// nil when the course has been hard-deleted.
type EnrollmentWithCourse struct {
	models.Enrollment `bson:",inline"`
	Course            *models.Course `bson:"course" json:"course"`
}

// ListForUser returns a user's enrollments joined with their courses.
func (s *Store) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]EnrollmentWithCourse, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$sort", Value: bson.D{{Key: "enrolled_at", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "courses",
			"localField":   "course_id",
			"foreignField": "_id",
			"as":           "course",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$course", "preserveNullAndEmptyArrays": true}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []EnrollmentWithCourse{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateProgress sets progress. Returns the number matched.
func (s *Store) UpdateProgress(ctx context.Context, id primitive.ObjectID, progress float64) (int64, error) {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"progress": progress, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// Delete removes an enrollment. Returns the number deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountForUser returns how many courses userID is enrolled in.
func (s *Store) CountForUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"user_id": userID})
}

// CountForCourse returns how many users are enrolled in courseID.
func (s *Store) CountForCourse(ctx context.Context, courseID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"course_id": courseID})
}
