// internal/domain/models/enrollment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Enrollment links a user to a course. (user_id, course_id) is unique.
type Enrollment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	CourseID   primitive.ObjectID `bson:"course_id" json:"course_id"`
	Progress   float64            `bson:"progress" json:"progress"` // percent, 0..100
	EnrolledAt time.Time          `bson:"enrolled_at" json:"enrolled_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}
