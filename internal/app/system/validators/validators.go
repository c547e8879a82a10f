// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/learnhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates the application's collections when missing and attaches
// a $jsonSchema validator to each. Servers that do not support collMod
// validators are logged and skipped. Problems are aggregated.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	existing, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		// fall back to create-and-handle-race per collection
		existing = nil
	}

	for _, c := range schemas() {
		if err := ensureCollection(ctx, db, c.name, existing); err != nil {
			problems = append(problems, c.name+": "+err.Error())
			continue
		}
		if c.schema == nil {
			continue
		}
		if err := setValidator(ctx, db, c.name, c.schema); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", c.name))
				continue
			}
			problems = append(problems, c.name+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

type collectionSchema struct {
	name   string
	schema bson.M
}

func schemas() []collectionSchema {
	return []collectionSchema{
		{"users", usersSchema()},
		{"courses", coursesSchema()},
		{"lessons", lessonsSchema()},
		{"enrollments", enrollmentsSchema()},
		{"quizzes", quizzesSchema()},
		{"quiz_results", quizResultsSchema()},
		{"reviews", reviewsSchema()},
		{"notifications", notificationsSchema()},
		{"payments", paymentsSchema()},
		{"audit_events", nil},
	}
}

/* ---------------------- collection helpers ---------------------- */

func ensureCollection(ctx context.Context, db *mongo.Database, name string, existing []string) error {
	for _, n := range existing {
		if n == name {
			return nil
		}
	}
	if err := db.CreateCollection(ctx, name); err != nil {
		if isNamespaceExistsErr(err) {
			return nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return nil
}

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	if err := db.RunCommand(ctx, cmd).Err(); err != nil {
		return err
	}
	zap.L().Debug("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func commandMatches(err error, code int32, phrases ...string) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == code {
		return true
	}
	s := strings.ToLower(err.Error())
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func isNamespaceExistsErr(err error) bool {
	return commandMatches(err, 48, "already exists", "namespace exists")
}

func isNoSuchCommand(err error) bool {
	return commandMatches(err, 59, "no such command")
}

func isNotImplemented(err error) bool {
	return commandMatches(err, 115, "not implemented", "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var (
	nonBlank  = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}
	objectID  = bson.M{"bsonType": "objectId"}
	number    = bson.M{"bsonType": "number"}
	integer   = bson.M{"bsonType": bson.A{"int", "long"}}
	timestamp = bson.M{"bsonType": "date"}
)

func object(required bson.A, props bson.M) bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType":   "object",
			"required":   required,
			"properties": props,
		},
	}
}

func usersSchema() bson.M {
	return object(bson.A{"name", "email", "password_hash", "role", "is_active"}, bson.M{
		"name":          nonBlank,
		"email":         nonBlank,
		"password_hash": nonBlank,
		"role":          bson.M{"enum": bson.A{models.RoleAdmin, models.RoleInstructor, models.RoleStudent}},
		"is_active":     bson.M{"bsonType": "bool"},
		"created_at":    timestamp,
	})
}

func coursesSchema() bson.M {
	return object(bson.A{"title", "instructor_id", "price", "is_active"}, bson.M{
		"title":         nonBlank,
		"instructor_id": objectID,
		"lessons":       bson.M{"bsonType": bson.A{"array", "null"}, "items": objectID},
		"price":         bson.M{"bsonType": "number", "minimum": 0},
		"is_active":     bson.M{"bsonType": "bool"},
	})
}

func lessonsSchema() bson.M {
	return object(bson.A{"course_id", "title"}, bson.M{
		"course_id": objectID,
		"title":     nonBlank,
	})
}

func enrollmentsSchema() bson.M {
	return object(bson.A{"user_id", "course_id", "progress"}, bson.M{
		"user_id":   objectID,
		"course_id": objectID,
		"progress":  bson.M{"bsonType": "number", "minimum": 0, "maximum": 100},
	})
}

func quizzesSchema() bson.M {
	return object(bson.A{"course_id", "questions"}, bson.M{
		"course_id": objectID,
		"questions": bson.M{
			"bsonType": "array",
			"items": bson.M{
				"bsonType": "object",
				"required": bson.A{"question", "options", "answer"},
				"properties": bson.M{
					"question": nonBlank,
					"options":  bson.M{"bsonType": "array", "minItems": 2},
					"answer":   bson.M{"bsonType": "string"},
				},
			},
		},
	})
}

func quizResultsSchema() bson.M {
	return object(bson.A{"user_id", "quiz_id", "score"}, bson.M{
		"user_id":         objectID,
		"quiz_id":         objectID,
		"score":           bson.M{"bsonType": "number", "minimum": 0, "maximum": 100},
		"total_questions": integer,
		"correct_answers": integer,
	})
}

func reviewsSchema() bson.M {
	return object(bson.A{"user_id", "course_id", "rating"}, bson.M{
		"user_id":   objectID,
		"course_id": objectID,
		"rating":    bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 1, "maximum": 5},
	})
}

func notificationsSchema() bson.M {
	return object(bson.A{"user_id", "message", "is_read"}, bson.M{
		"user_id": objectID,
		"message": nonBlank,
		"is_read": bson.M{"bsonType": "bool"},
	})
}

func paymentsSchema() bson.M {
	return object(bson.A{"user_id", "course_id", "amount", "status"}, bson.M{
		"user_id":   objectID,
		"course_id": objectID,
		"amount":    number,
		"status": bson.M{"enum": bson.A{
			models.PaymentPending, models.PaymentCompleted, models.PaymentFailed, models.PaymentRefunded,
		}},
	})
}
