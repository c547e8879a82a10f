// Package adminqueries provides read-only joined queries for the admin area.
package adminqueries

import (
	"context"

	"github.com/dalemusser/learnhub/internal/app/system/paging"
	"github.com/dalemusser/learnhub/internal/app/system/search"
	"github.com/dalemusser/learnhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserWithStats is a user plus their enrollment count.
type UserWithStats struct {
	models.User      `bson:",inline"`
	TotalEnrollments int64 `bson:"total_enrollments" json:"total_enrollments"`
}

// CourseWithStats is a course plus instructor name and counts.
type CourseWithStats struct {
	models.Course    `bson:",inline"`
	InstructorName   string `bson:"instructor_name" json:"instructor_name"`
	TotalLessons     int64  `bson:"total_lessons" json:"total_lessons"`
	TotalEnrollments int64  `bson:"total_enrollments" json:"total_enrollments"`
}

// EnrollmentRow is an enrollment with its user's name and course's title.
type EnrollmentRow struct {
	models.Enrollment `bson:",inline"`
	UserName          string `bson:"user_name" json:"user_name"`
	CourseTitle       string `bson:"course_title" json:"course_title"`
}

// PaymentRow is a payment with its user's name and course's title.
type PaymentRow struct {
	models.Payment `bson:",inline"`
	UserName       string `bson:"user_name" json:"user_name"`
	CourseTitle    string `bson:"course_title" json:"course_title"`
}

// UserFilter narrows the admin user list.
type UserFilter struct {
	Search   string // case-insensitive substring of name or email
	Role     string
	IsActive *bool
}

// CourseFilter narrows the admin course list.
type CourseFilter struct {
	Search   string // case-insensitive substring of title or description
	IsActive *bool
}

func (f UserFilter) match() bson.M {
	m := bson.M{}
	if c := search.Clause(f.Search, "name", "email"); c != nil {
		m["$or"] = c["$or"]
	}
	if f.Role != "" {
		m["role"] = f.Role
	}
	if f.IsActive != nil {
		m["is_active"] = *f.IsActive
	}
	return m
}

func (f CourseFilter) match() bson.M {
	m := bson.M{}
	if c := search.Clause(f.Search, "title", "description"); c != nil {
		m["$or"] = c["$or"]
	}
	if f.IsActive != nil {
		m["is_active"] = *f.IsActive
	}
	return m
}

// lookupName joins coll by localField and stores the first match's field
// (or "Unknown") under as.
func lookupName(coll, localField, field, as string) []bson.D {
	tmp := "_" + as
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{
			"from":         coll,
			"localField":   localField,
			"foreignField": "_id",
			"as":           tmp,
		}}},
		{{Key: "$addFields", Value: bson.M{
			as: bson.M{"$ifNull": bson.A{bson.M{"$arrayElemAt": bson.A{"$" + tmp + "." + field, 0}}, "Unknown"}},
		}}},
		{{Key: "$project", Value: bson.M{tmp: 0}}},
	}
}

func enrollmentCount(foreignField string) []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{
			"from":         "enrollments",
			"localField":   "_id",
			"foreignField": foreignField,
			"as":           "_enrollments",
		}}},
		{{Key: "$addFields", Value: bson.M{"total_enrollments": bson.M{"$size": "$_enrollments"}}}},
		{{Key: "$project", Value: bson.M{"_enrollments": 0, "password_hash": 0}}},
	}
}

// paged runs match + sort, then a $facet returning one page of rows with
// enrich applied and the total count. A zero Page skips the facet and
// returns every row.
func paged[T any](ctx context.Context, coll *mongo.Collection, match bson.M, sort bson.D, pg paging.Page, enrich []bson.D) ([]T, int64, error) {
	if pg.Limit <= 0 {
		return all[T](ctx, coll, match, sort, enrich)
	}

	data := bson.A{bson.M{"$skip": pg.Skip()}, bson.M{"$limit": pg.Limit}}
	for _, st := range enrich {
		data = append(data, st)
	}

	pipe := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: sort}},
		{{Key: "$facet", Value: bson.M{
			"totalCount": bson.A{bson.M{"$count": "count"}},
			"data":       data,
		}}},
	}

	cur, err := coll.Aggregate(ctx, pipe)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var agg struct {
		TotalCount []struct {
			Count int64 `bson:"count"`
		} `bson:"totalCount"`
		Data []T `bson:"data"`
	}
	if cur.Next(ctx) {
		if err := cur.Decode(&agg); err != nil {
			return nil, 0, err
		}
	}
	if err := cur.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if len(agg.TotalCount) > 0 {
		total = agg.TotalCount[0].Count
	}
	if agg.Data == nil {
		agg.Data = []T{}
	}
	return agg.Data, total, nil
}

func all[T any](ctx context.Context, coll *mongo.Collection, match bson.M, sort bson.D, enrich []bson.D) ([]T, int64, error) {
	pipe := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: sort}},
	}
	pipe = append(pipe, enrich...)

	cur, err := coll.Aggregate(ctx, pipe)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, int64(len(out)), nil
}

var newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

// ListUsers returns one page of users with enrollment counts, newest first.
func ListUsers(ctx context.Context, db *mongo.Database, f UserFilter, pg paging.Page) ([]UserWithStats, int64, error) {
	return paged[UserWithStats](ctx, db.Collection("users"), f.match(), newestFirst, pg, enrollmentCount("user_id"))
}

// GetUser returns one user with enrollment count. Returns mongo.ErrNoDocuments if not found.
func GetUser(ctx context.Context, db *mongo.Database, id primitive.ObjectID) (*UserWithStats, error) {
	rows, _, err := paged[UserWithStats](ctx, db.Collection("users"), bson.M{"_id": id}, newestFirst, paging.Page{}, enrollmentCount("user_id"))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, mongo.ErrNoDocuments
	}
	return &rows[0], nil
}

func courseEnrichment() []bson.D {
	stages := lookupName("users", "instructor_id", "name", "instructor_name")
	stages = append(stages, bson.D{{Key: "$addFields", Value: bson.M{
		"total_lessons": bson.M{"$size": bson.M{"$ifNull": bson.A{"$lessons", bson.A{}}}},
	}}})
	return append(stages, enrollmentCount("course_id")...)
}

// ListCourses returns one page of courses with instructor name, lesson and
// enrollment counts, newest first.
func ListCourses(ctx context.Context, db *mongo.Database, f CourseFilter, pg paging.Page) ([]CourseWithStats, int64, error) {
	return paged[CourseWithStats](ctx, db.Collection("courses"), f.match(), newestFirst, pg, courseEnrichment())
}

// GetCourse returns one course with stats. Returns mongo.ErrNoDocuments if not found.
func GetCourse(ctx context.Context, db *mongo.Database, id primitive.ObjectID) (*CourseWithStats, error) {
	rows, _, err := paged[CourseWithStats](ctx, db.Collection("courses"), bson.M{"_id": id}, newestFirst, paging.Page{}, courseEnrichment())
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, mongo.ErrNoDocuments
	}
	return &rows[0], nil
}

func userAndCourseNames() []bson.D {
	stages := lookupName("users", "user_id", "name", "user_name")
	return append(stages, lookupName("courses", "course_id", "title", "course_title")...)
}

// ListEnrollments returns one page of enrollments with user and course names.
func ListEnrollments(ctx context.Context, db *mongo.Database, pg paging.Page) ([]EnrollmentRow, int64, error) {
	sort := bson.D{{Key: "enrolled_at", Value: -1}, {Key: "_id", Value: -1}}
	return paged[EnrollmentRow](ctx, db.Collection("enrollments"), bson.M{}, sort, pg, userAndCourseNames())
}

// ListPayments returns one page of payments with user and course names,
// optionally filtered by status.
func ListPayments(ctx context.Context, db *mongo.Database, status string, pg paging.Page) ([]PaymentRow, int64, error) {
	match := bson.M{}
	if status != "" {
		match["status"] = status
	}
	return paged[PaymentRow](ctx, db.Collection("payments"), match, newestFirst, pg, userAndCourseNames())
}
