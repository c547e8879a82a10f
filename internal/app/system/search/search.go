// internal/app/system/search/search.go
package search

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxLen caps how many runes of a search query are used.
const MaxLen = 100

// Normalize trims q, collapses runs of whitespace to one space and
// truncates the result to MaxLen runes.
func Normalize(q string) string {
	q = strings.Join(strings.Fields(q), " ")
	if utf8.RuneCountInString(q) <= MaxLen {
		return q
	}
	return string([]rune(q)[:MaxLen])
}

// Clause matches q as a literal, case-insensitive substring of any of
// fields. Regex metacharacters in q have no special meaning. It returns
// nil when q is empty after normalizing.
//
//	m := bson.M{"role": "student"}
//	if c := search.Clause(q, "name", "email"); c != nil {
//	    m["$or"] = c["$or"]
//	}
func Clause(q string, fields ...string) bson.M {
	q = Normalize(q)
	if q == "" || len(fields) == 0 {
		return nil
	}
	rx := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
	or := make(bson.A, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: rx})
	}
	return bson.M{"$or": or}
}
