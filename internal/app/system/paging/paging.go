// internal/app/system/paging/paging.go
package paging

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// DefaultLimit is the page size when ?limit is absent.
	DefaultLimit = 20
	// MaxLimit caps ?limit.
	MaxLimit = 100
	// MaxPage caps ?page so Skip stays far from overflow.
	MaxPage = 1_000_000
)

var (
	ErrBadPage  = errors.New("page must be between 1 and 1000000")
	ErrBadLimit = errors.New("limit must be between 1 and 100")
)

// Page is a 1-based page number and a page size.
type Page struct {
	Page  int
	Limit int
}

// Parse reads ?page and ?limit. Missing values take defaults; present but
// out-of-range values are an error so callers can answer 400.
func Parse(r *http.Request) (Page, error) {
	p := Page{Page: 1, Limit: DefaultLimit}

	if s := query.Get(r, "page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > MaxPage {
			return Page{}, ErrBadPage
		}
		p.Page = n
	}
	if s := query.Get(r, "limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > MaxLimit {
			return Page{}, ErrBadLimit
		}
		p.Limit = n
	}
	return p, nil
}

// Skip is the number of documents before this page.
func (p Page) Skip() int64 {
	return int64(p.Page-1) * int64(p.Limit)
}

// FindOptions returns skip/limit options for Find.
func (p Page) FindOptions() *options.FindOptions {
	return options.Find().SetSkip(p.Skip()).SetLimit(int64(p.Limit))
}

// Pagination is the block returned beside every paged list.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// NewPagination fills Pages as ceil(total/limit).
func NewPagination(p Page, total int64) Pagination {
	pages := int64(0)
	if p.Limit > 0 {
		pages = (total + int64(p.Limit) - 1) / int64(p.Limit)
	}
	return Pagination{Page: p.Page, Limit: p.Limit, Total: total, Pages: pages}
}
