package board

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// DefaultPageSize is the number of posts requested per list page.
const DefaultPageSize = 10

// ListQuery is the normalized query sent to GET /posts.
type ListQuery struct {
	Category string
	Search   string
	Page     int
	Limit    int
}

// Values encodes the query, omitting empty filters.
func (q ListQuery) Values() url.Values {
	values := url.Values{}
	if q.Category != "" {
		values.Set("category", q.Category)
	}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	values.Set("page", strconv.Itoa(q.Page))
	values.Set("limit", strconv.Itoa(q.Limit))
	return values
}

// BuildQuery normalizes user input into a list query with the default page size.
func BuildQuery(category string, page float64, search string) ListQuery {
	return buildQuery(category, page, search, DefaultPageSize)
}

func buildQuery(category string, page float64, search string, limit int) ListQuery {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	return ListQuery{
		Category: NormalizeCategory(category),
		Search:   strings.TrimSpace(search),
		Page:     ClampPage(page),
		Limit:    limit,
	}
}

// ClampPage turns any requested page into a valid 1-based page number.
func ClampPage(page float64) int {
	if math.IsNaN(page) || math.IsInf(page, 0) || page < 1 {
		return 1
	}
	if page > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Floor(page))
}

// ParsePage reads a page from a query string value. Unparsable input yields NaN, which
// ClampPage turns into 1.
func ParsePage(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
