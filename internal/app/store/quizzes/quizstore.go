// internal/app/store/quizzes/quizstore.go
package quizstore

import (
	"context"
	"time"

	"github.com/dalemusser/learnhub/internal/domain/models"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store covers quizzes and their graded submissions (quiz_results).
type Store struct {
	c       *mongo.Collection
	results *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:       db.Collection("quizzes"),
		results: db.Collection("quiz_results"),
	}
}

// Create inserts a quiz, assigning ID and CreatedAt.
func (s *Store) Create(ctx context.Context, q models.Quiz) (models.Quiz, error) {
	q.ID = primitive.NewObjectID()
	q.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, q); err != nil {
		return models.Quiz{}, err
	}
	return q, nil
}

// GetByID loads a quiz. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Quiz, error) {
	var q models.Quiz
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&q); err != nil {
		return nil, err
	}
	return &q, nil
}

// List returns quizzes, optionally restricted to one course.
func (s *Store) List(ctx context.Context, courseID *primitive.ObjectID) ([]models.Quiz, error) {
	filter := bson.M{}
	if courseID != nil {
		filter["course_id"] = *courseID
	}
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Quiz{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a quiz and every result recorded for it. Returns the
// number of quizzes deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	if res.DeletedCount > 0 {
		if _, err := s.results.DeleteMany(ctx, bson.M{"quiz_id": id}); err != nil {
			return res.DeletedCount, err
		}
	}
	return res.DeletedCount, nil
}

// Grade scores answers against quiz positionally. Missing answers count as
// wrong; extra answers are ignored. Score is a percentage rounded to two
// decimals and is 0 for a quiz with no questions.
func Grade(quiz models.Quiz, userID primitive.ObjectID, answers []string) models.QuizResult {
	total := len(quiz.Questions)
	correct := 0
	for i, q := range quiz.Questions {
		if i < len(answers) && answers[i] == q.Answer {
			correct++
		}
	}

	score := 0.0
	if total > 0 {
		score = decimal.NewFromInt(int64(correct)).
			Div(decimal.NewFromInt(int64(total))).
			Mul(decimal.NewFromInt(100)).
			Round(2).
			InexactFloat64()
	}

	return models.QuizResult{
		UserID:         userID,
		QuizID:         quiz.ID,
		Score:          score,
		TotalQuestions: total,
		CorrectAnswers: correct,
	}
}

// SaveResult stores a graded submission, assigning ID and SubmittedAt.
func (s *Store) SaveResult(ctx context.Context, r models.QuizResult) (models.QuizResult, error) {
	r.ID = primitive.NewObjectID()
	r.SubmittedAt = time.Now().UTC()
	if _, err := s.results.InsertOne(ctx, r); err != nil {
		return models.QuizResult{}, err
	}
	return r, nil
}

// Results returns every submission for quizID, newest first.
func (s *Store) Results(ctx context.Context, quizID primitive.ObjectID) ([]models.QuizResult, error) {
	cur, err := s.results.Find(ctx, bson.M{"quiz_id": quizID},
		options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.QuizResult{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
