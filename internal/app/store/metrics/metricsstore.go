package metricsstore

import (
	"context"
	"time"

	"github.com/dalemusser/learnhub/internal/domain/models"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Counts is the set of totals shown on the admin dashboard.
type Counts struct {
	TotalUsers         int64   `json:"total_users"`
	ActiveUsers        int64   `json:"active_users"`
	InactiveUsers      int64   `json:"inactive_users"`
	TotalCourses       int64   `json:"total_courses"`
	PublishedCourses   int64   `json:"published_courses"`
	UnpublishedCourses int64   `json:"unpublished_courses"`
	TotalEnrollments   int64   `json:"total_enrollments"`
	TotalPayments      float64 `json:"total_payments"`
	NewUsersThisWeek   int64   `json:"new_users_this_week"`
	NewCoursesThisWeek int64   `json:"new_courses_this_week"`
}

func count(ctx context.Context, db *mongo.Database, coll string, filter bson.M) int64 {
	n, err := db.Collection(coll).CountDocuments(ctx, filter)
	if err != nil {
		return 0
	}
	return n
}

// FetchDashboardCounts returns the high-level counts used by the admin
// dashboard. Intentionally tolerant: on error it returns 0 for that counter.
// now anchors the "this week" window.
func FetchDashboardCounts(ctx context.Context, db *mongo.Database, now time.Time) Counts {
	weekAgo := now.AddDate(0, 0, -7)

	out := Counts{
		TotalUsers:         count(ctx, db, "users", bson.M{}),
		ActiveUsers:        count(ctx, db, "users", bson.M{"is_active": true}),
		InactiveUsers:      count(ctx, db, "users", bson.M{"is_active": false}),
		TotalCourses:       count(ctx, db, "courses", bson.M{}),
		PublishedCourses:   count(ctx, db, "courses", bson.M{"is_active": true}),
		UnpublishedCourses: count(ctx, db, "courses", bson.M{"is_active": false}),
		TotalEnrollments:   count(ctx, db, "enrollments", bson.M{}),
		NewUsersThisWeek:   count(ctx, db, "users", bson.M{"created_at": bson.M{"$gte": weekAgo}}),
		NewCoursesThisWeek: count(ctx, db, "courses", bson.M{"created_at": bson.M{"$gte": weekAgo}}),
	}

	// sum of every payment amount, whatever its status
	cur, err := db.Collection("payments").Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}}},
	})
	if err == nil {
		defer cur.Close(ctx)
		var rows []struct {
			Total float64 `bson:"total"`
		}
		if cur.All(ctx, &rows) == nil && len(rows) > 0 {
			out.TotalPayments = decimal.NewFromFloat(rows[0].Total).Round(2).InexactFloat64()
		}
	}

	return out
}

// DayCount is the number of records created on one UTC day (YYYY-MM-DD).
type DayCount struct {
	Day   string `bson:"_id" json:"_id"`
	Count int64  `bson:"count" json:"count"`
}

// UserGrowth counts new users per day since the given time, oldest day first.
func UserGrowth(ctx context.Context, db *mongo.Database, since time.Time) ([]DayCount, error) {
	cur, err := db.Collection("users").Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"created_at": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$created_at"}},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []DayCount{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CourseEnrollments is a course with its enrollment count over a window.
type CourseEnrollments struct {
	CourseID    primitive.ObjectID `bson:"_id" json:"course_id"`
	Title       string             `bson:"title" json:"course_title"`
	Enrollments int64              `bson:"enrollments" json:"enrollments"`
}

// PopularCourses returns the courses with the most enrollments since the
// given time, most enrolled first. limit <= 0 means no cap.
func PopularCourses(ctx context.Context, db *mongo.Database, since time.Time, limit int64) ([]CourseEnrollments, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"enrolled_at": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{"_id": "$course_id", "enrollments": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "enrollments", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "courses",
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "course",
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"enrollments": 1,
			"title":       bson.M{"$ifNull": bson.A{bson.M{"$arrayElemAt": bson.A{"$course.title", 0}}, "Unknown"}},
		}}},
	)

	cur, err := db.Collection("enrollments").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []CourseEnrollments{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// InstructorStats summarizes one instructor's courses and enrollments.
type InstructorStats struct {
	InstructorID     primitive.ObjectID `bson:"_id" json:"instructor_id"`
	Name             string             `bson:"name" json:"name"`
	Email            string             `bson:"email" json:"email"`
	TotalCourses     int64              `bson:"total_courses" json:"total_courses"`
	ActiveCourses    int64              `bson:"active_courses" json:"active_courses"`
	TotalEnrollments int64              `bson:"total_enrollments" json:"total_enrollments"`
}

// InstructorPerformance ranks instructors by total enrollments across their
// courses. limit <= 0 means no cap.
func InstructorPerformance(ctx context.Context, db *mongo.Database, limit int64) ([]InstructorStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"role": models.RoleInstructor}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "courses",
			"localField":   "_id",
			"foreignField": "instructor_id",
			"as":           "courses",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "enrollments",
			"localField":   "courses._id",
			"foreignField": "course_id",
			"as":           "enrollments",
		}}},
		{{Key: "$project", Value: bson.M{
			"name":              1,
			"email":             1,
			"total_courses":     bson.M{"$size": "$courses"},
			"total_enrollments": bson.M{"$size": "$enrollments"},
			"active_courses": bson.M{"$size": bson.M{"$filter": bson.M{
				"input": "$courses",
				"cond":  bson.M{"$eq": bson.A{"$$this.is_active", true}},
			}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "total_enrollments", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}

	cur, err := db.Collection("users").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []InstructorStats{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
