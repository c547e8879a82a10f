// internal/domain/models/course.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Course is a priced collection of lessons owned by one instructor.
type Course struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title           string               `bson:"title" json:"title"`
	Description     string               `bson:"description" json:"description"` // sanitized HTML
	InstructorID    primitive.ObjectID   `bson:"instructor_id" json:"instructor_id"`
	Lessons         []primitive.ObjectID `bson:"lessons" json:"lessons"`
	Price           float64              `bson:"price" json:"price"`
	DurationMinutes int                  `bson:"duration_minutes,omitempty" json:"duration_minutes,omitempty"`
	IsActive        bool                 `bson:"is_active" json:"is_active"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}
