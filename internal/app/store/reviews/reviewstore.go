// internal/app/store/reviews/reviewstore.go
package reviewstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/learnhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrAlreadyReviewed is returned when the user has already reviewed the course.
var ErrAlreadyReviewed = errors.New("course already reviewed")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("reviews")}
}

// Create inserts a review. One review per (user, course).
func (s *Store) Create(ctx context.Context, r models.Review) (models.Review, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"user_id": r.UserID, "course_id": r.CourseID}, options.Count().SetLimit(1))
	if err != nil {
		return models.Review{}, err
	}
	if n > 0 {
		return models.Review{}, ErrAlreadyReviewed
	}

	r.ID = primitive.NewObjectID()
	r.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Review{}, ErrAlreadyReviewed
		}
		return models.Review{}, err
	}
	return r, nil
}

// GetByID loads a review. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	var r models.Review
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		return nil, err
	}
	return &r, nil
}

// CourseSummary is the reviews for one course with their average rating.
type CourseSummary struct {
	Reviews       []models.Review `json:"reviews"`
	AverageRating float64         `json:"average_rating"`
	Count         int             `json:"count"`
}

// ForCourse returns a course's reviews, newest first, and the average
// rating rounded to two decimals (0 when there are none).
func (s *Store) ForCourse(ctx context.Context, courseID primitive.ObjectID) (CourseSummary, error) {
	cur, err := s.c.Find(ctx, bson.M{"course_id": courseID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return CourseSummary{}, err
	}
	defer cur.Close(ctx)

	out := CourseSummary{Reviews: []models.Review{}}
	if err := cur.All(ctx, &out.Reviews); err != nil {
		return CourseSummary{}, err
	}

	out.Count = len(out.Reviews)
	if out.Count > 0 {
		sum := decimal.Zero
		for _, r := range out.Reviews {
			sum = sum.Add(decimal.NewFromInt(int64(r.Rating)))
		}
		out.AverageRating = sum.Div(decimal.NewFromInt(int64(out.Count))).Round(2).InexactFloat64()
	}
	return out, nil
}

// Delete removes a review. Returns the number deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
