// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each collection's index set is reconciled
independently and problems are aggregated so startup can fail fast with a
complete picture.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	for _, set := range indexSets() {
		if err := ensureIndexSet(ctx, db.Collection(set.collection), set.models); err != nil {
			problems = append(problems, set.collection+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

type collectionIndexes struct {
	collection string
	models     []mongo.IndexModel
}

func idx(name string, keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetName(name)}
}

func uniq(name string, keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetName(name).SetUnique(true)}
}

func indexSets() []collectionIndexes {
	return []collectionIndexes{
		{"users", []mongo.IndexModel{
			uniq("uniq_users_email", bson.D{{Key: "email", Value: 1}}),
			idx("idx_users_role_active", bson.D{{Key: "role", Value: 1}, {Key: "is_active", Value: 1}}),
			idx("idx_users_created", bson.D{{Key: "created_at", Value: -1}}),
		}},
		{"courses", []mongo.IndexModel{
			idx("idx_courses_instructor", bson.D{{Key: "instructor_id", Value: 1}}),
			idx("idx_courses_active_created", bson.D{{Key: "is_active", Value: 1}, {Key: "created_at", Value: -1}}),
		}},
		{"lessons", []mongo.IndexModel{
			idx("idx_lessons_course", bson.D{{Key: "course_id", Value: 1}}),
		}},
		{"enrollments", []mongo.IndexModel{
			uniq("uniq_enrollments_user_course", bson.D{{Key: "user_id", Value: 1}, {Key: "course_id", Value: 1}}),
			idx("idx_enrollments_course_enrolled", bson.D{{Key: "course_id", Value: 1}, {Key: "enrolled_at", Value: -1}}),
		}},
		{"quiz_results", []mongo.IndexModel{
			idx("idx_quiz_results_quiz", bson.D{{Key: "quiz_id", Value: 1}}),
		}},
		{"reviews", []mongo.IndexModel{
			uniq("uniq_reviews_user_course", bson.D{{Key: "user_id", Value: 1}, {Key: "course_id", Value: 1}}),
			idx("idx_reviews_course", bson.D{{Key: "course_id", Value: 1}}),
		}},
		{"notifications", []mongo.IndexModel{
			idx("idx_notifications_user_created", bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}),
		}},
		{"payments", []mongo.IndexModel{
			idx("idx_payments_user", bson.D{{Key: "user_id", Value: 1}}),
			idx("idx_payments_status", bson.D{{Key: "status", Value: 1}}),
		}},
		{"audit_events", []mongo.IndexModel{
			idx("idx_audit_timestamp", bson.D{{Key: "timestamp", Value: -1}}),
			idx("idx_audit_category_type_timestamp", bson.D{{Key: "category", Value: 1}, {Key: "event_type", Value: 1}, {Key: "timestamp", Value: -1}}),
		}},
	}
}

/* -------------------------------------------------------------------------- */
/* Reconcile a set of desired indexes for one collection                      */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	return (a != nil && *a) == (b != nil && *b)
}

func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

func listExisting(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	existing := map[string]existingIndex{}
	for cur.Next(ctx) {
		var ix existingIndex
		if err := cur.Decode(&ix); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		existing[keySig(ix.Key)] = ix
	}
	return existing, cur.Err()
}

func createOne(ctx context.Context, coll *mongo.Collection, m mongo.IndexModel, name string, unique bool) error {
	if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
		if unique && isDuplicateKeyErr(err) {
			return fmt.Errorf("%s: cannot create unique index (duplicates present)", name)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// ensureIndexSet creates missing indexes and realigns ones whose name or
// uniqueness drifted from the desired model. A collection that does not exist
// yet lists no indexes, so everything is created.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	existing, err := listExisting(ctx, coll)
	if err != nil {
		// Namespace not found: the collection has no indexes yet.
		existing = map[string]existingIndex{}
	}

	var errs []string
	for _, m := range models {
		name := *m.Options.Name
		unique := m.Options.Unique != nil && *m.Options.Unique
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()

		ex, found := existing[sig]
		switch {
		case !found:
			if err := createOne(ctx, coll, m, name, unique); err != nil {
				errs = append(errs, err.Error())
				continue
			}
			zap.L().Info("index created",
				zap.String("collection", coll.Name()),
				zap.String("name", name),
				zap.String("keys", sig),
				zap.Bool("unique", unique),
				zap.Duration("took", time.Since(start)))

		case ex.Name == name && sameBoolPtr(m.Options.Unique, ex.Unique):
			zap.L().Debug("index up to date",
				zap.String("collection", coll.Name()),
				zap.String("name", name))

		default:
			// Same keys under a different name or uniqueness: drop and recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s: drop %s failed: %v", name, ex.Name, err))
				continue
			}
			if err := createOne(ctx, coll, m, name, unique); err != nil {
				errs = append(errs, err.Error())
				continue
			}
			zap.L().Info("index recreated",
				zap.String("collection", coll.Name()),
				zap.String("from", ex.Name),
				zap.String("name", name),
				zap.String("keys", sig),
				zap.Bool("unique", unique),
				zap.Duration("took", time.Since(start)))
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
