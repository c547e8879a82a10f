// internal/domain/models/quiz.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Question is a single multiple-choice question. Answer must equal one
// of Options.
type Question struct {
	Question string   `bson:"question" json:"question"`
	Options  []string `bson:"options" json:"options"`
	Answer   string   `bson:"answer" json:"answer,omitempty"`
}

type Quiz struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CourseID  primitive.ObjectID  `bson:"course_id" json:"course_id"`
	LessonID  *primitive.ObjectID `bson:"lesson_id,omitempty" json:"lesson_id,omitempty"`
	Questions []Question          `bson:"questions" json:"questions"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// WithoutAnswers returns a copy of the quiz with every answer blanked,
// for callers who should not see the key.
func (q Quiz) WithoutAnswers() Quiz {
	out := q
	out.Questions = make([]Question, len(q.Questions))
	for i, qq := range q.Questions {
		qq.Answer = ""
		out.Questions[i] = qq
	}
	return out
}

// QuizResult is one graded submission.
type QuizResult struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"user_id" json:"user_id"`
	QuizID         primitive.ObjectID `bson:"quiz_id" json:"quiz_id"`
	Score          float64            `bson:"score" json:"score"`
	TotalQuestions int                `bson:"total_questions" json:"total_questions"`
	CorrectAnswers int                `bson:"correct_answers" json:"correct_answers"`
	SubmittedAt    time.Time          `bson:"submitted_at" json:"submitted_at"`
}
