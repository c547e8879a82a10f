// internal/app/store/courses/coursestore.go
package coursestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/learnhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no course matches the given ID.
var ErrNotFound = errors.New("course not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("courses")}
}

// Create inserts a course, assigning ID and timestamps. A nil lesson list
// is stored as an empty array so $push works later.
func (s *Store) Create(ctx context.Context, c models.Course) (models.Course, error) {
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	if c.Lessons == nil {
		c.Lessons = []primitive.ObjectID{}
	}
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Course{}, err
	}
	return c, nil
}

// GetByID loads a course. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Course, error) {
	var c models.Course
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetActive loads a course only if it is active.
func (s *Store) GetActive(ctx context.Context, id primitive.ObjectID) (*models.Course, error) {
	var c models.Course
	if err := s.c.FindOne(ctx, bson.M{"_id": id, "is_active": true}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Course, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Course{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// List returns every course, oldest first.
func (s *Store) List(ctx context.Context) ([]models.Course, error) {
	return s.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
}

// ListActive returns active courses, newest first, capped at limit (0 = no cap).
func (s *Store) ListActive(ctx context.Context, limit int64) ([]models.Course, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return s.find(ctx, bson.M{"is_active": true}, opts)
}

// ListByInstructor returns courses taught by instructorID.
func (s *Store) ListByInstructor(ctx context.Context, instructorID primitive.ObjectID) ([]models.Course, error) {
	return s.find(ctx, bson.M{"instructor_id": instructorID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
}

// Update holds optional field changes. Nil fields are left untouched.
type Update struct {
	Title           *string
	Description     *string
	InstructorID    *primitive.ObjectID
	Lessons         *[]primitive.ObjectID
	Price           *float64
	DurationMinutes *int
	IsActive        *bool
}

// Empty reports whether no field is set.
func (u Update) Empty() bool {
	return u.Title == nil && u.Description == nil && u.InstructorID == nil && u.Lessons == nil &&
		u.Price == nil && u.DurationMinutes == nil && u.IsActive == nil
}

// Update applies upd, sets updated_at and returns the stored course.
// Returns ErrNotFound when id matches nothing.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (*models.Course, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.InstructorID != nil {
		set["instructor_id"] = *upd.InstructorID
	}
	if upd.Lessons != nil {
		set["lessons"] = *upd.Lessons
	}
	if upd.Price != nil {
		set["price"] = *upd.Price
	}
	if upd.DurationMinutes != nil {
		set["duration_minutes"] = *upd.DurationMinutes
	}
	if upd.IsActive != nil {
		set["is_active"] = *upd.IsActive
		if *upd.IsActive {
			set["deleted_at"] = nil
		}
	}

	var c models.Course
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// AddLesson appends lessonID to the course's lesson list.
func (s *Store) AddLesson(ctx context.Context, courseID, lessonID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": courseID}, bson.M{
		"$push": bson.M{"lessons": lessonID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// RemoveLesson pulls lessonID from the course's lesson list.
func (s *Store) RemoveLesson(ctx context.Context, courseID, lessonID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": courseID}, bson.M{
		"$pull": bson.M{"lessons": lessonID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// Delete removes a course document. Returns the number deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// SoftDeleteMany deactivates the listed courses and stamps deleted_at.
// Returns the number of courses matched.
func (s *Store) SoftDeleteMany(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	now := time.Now().UTC()
	res, err := s.c.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{"is_active": false, "deleted_at": now, "updated_at": now}})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// SetActiveMany sets is_active on the listed courses. Returns the number modified.
func (s *Store) SetActiveMany(ctx context.Context, ids []primitive.ObjectID, active bool) (int64, error) {
	update := bson.M{"$set": bson.M{"is_active": active, "updated_at": time.Now().UTC()}}
	if active {
		update["$unset"] = bson.M{"deleted_at": ""}
	}
	res, err := s.c.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": ids}}, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
