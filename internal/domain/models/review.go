// internal/domain/models/review.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Review struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	CourseID primitive.ObjectID `bson:"course_id" json:"course_id"`
	Rating   int                `bson:"rating" json:"rating"` // 1..5
	Comment  string             `bson:"comment" json:"comment"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
