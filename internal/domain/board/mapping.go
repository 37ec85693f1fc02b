package board

import (
	"sort"
	"strings"
	"time"

	"github.com/yanqian/jungle-board/internal/domain/session"
	"github.com/yanqian/jungle-board/pkg/util"
)

const displayDateLayout = "2006.01.02"

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006.01.02",
	"2006/01/02",
}

// timestamp is a resolved createdAt: the string to show and, when it parsed, the instant.
type timestamp struct {
	text   string
	at     time.Time
	parsed bool
}

// resolveTimestamp picks the first candidate that parses. When none parse, the first non-empty
// literal is kept verbatim; when there is none at all, now is used.
func resolveTimestamp(now time.Time, loc *time.Location, candidates ...*string) timestamp {
	literal := ""
	for _, c := range candidates {
		if c == nil {
			continue
		}
		value := strings.TrimSpace(*c)
		if value == "" {
			continue
		}
		if at, ok := parseTimestamp(value, loc); ok {
			return timestamp{text: at.In(loc).Format(time.RFC3339), at: at, parsed: true}
		}
		if literal == "" {
			literal = value
		}
	}
	if literal != "" {
		return timestamp{text: literal}
	}
	return timestamp{text: now.In(loc).Format(time.RFC3339), at: now, parsed: true}
}

func parseTimestamp(value string, loc *time.Location) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if at, err := time.ParseInLocation(layout, value, loc); err == nil {
			return at, true
		}
	}
	return time.Time{}, false
}

func (t timestamp) displayDate(loc *time.Location) string {
	if !t.parsed {
		return t.text
	}
	return t.at.In(loc).Format(displayDateLayout)
}

// MapResponse turns a raw list payload into a display-ready page for query q.
func MapResponse(raw RawListResponse, q ListQuery, now time.Time, loc *time.Location) PostPage {
	if loc == nil {
		loc = time.Local
	}
	items := make([]PostListItem, 0, len(raw.Data))
	for _, post := range raw.Data {
		items = append(items, mapListItem(post, now, loc))
	}
	return PostPage{
		Items:      items,
		Pagination: mapPagination(raw.Pagination, q, len(items)),
		Query:      q,
		Empty:      len(items) == 0,
	}
}

func mapListItem(post RawPost, now time.Time, loc *time.Location) PostListItem {
	created := resolveTimestamp(now, loc, post.CreatedAt, post.CreatedAtAlt, post.Date)
	isNew := created.parsed && util.SameDay(created.at, now, loc)
	if post.IsNew != nil {
		isNew = *post.IsNew
	}
	return PostListItem{
		ID:           post.ID.Value,
		Number:       post.Number.Ptr(),
		Title:        post.Title,
		Category:     NormalizeCategory(post.Category),
		Author:       post.Author.Name,
		CreatedAt:    created.text,
		DisplayDate:  created.displayDate(loc),
		Views:        max(post.Views.Value, 0),
		CommentCount: post.commentCount(),
		IsNew:        isNew,
		Pinned:       post.Pinned != nil && *post.Pinned,
	}
}

func mapPagination(raw *RawPagination, q ListQuery, itemCount int) Pagination {
	if raw == nil {
		raw = &RawPagination{}
	}
	page := max(q.Page, 1)
	if raw.Page.Valid && raw.Page.Value >= 1 {
		page = int(raw.Page.Value)
	}
	limit := q.Limit
	if raw.Limit.Valid && raw.Limit.Value > 0 {
		limit = int(raw.Limit.Value)
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	total := itemCount
	if raw.Total.Valid && raw.Total.Value >= 0 {
		total = int(raw.Total.Value)
	}
	totalPages := (total + limit - 1) / limit
	if raw.TotalPages.Valid && raw.TotalPages.Value >= 0 {
		totalPages = int(raw.TotalPages.Value)
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: max(totalPages, 1),
	}
}

// EmptyPage is what a failed list request renders as.
func EmptyPage(q ListQuery) PostPage {
	return PostPage{
		Items:      []PostListItem{},
		Pagination: Pagination{Page: max(q.Page, 1), Limit: q.Limit, Total: 0, TotalPages: 1},
		Query:      q,
		Empty:      true,
	}
}

// MapDetail turns a raw post payload into a detail view for viewer (nil when signed out).
func MapDetail(raw RawPostDetail, viewer *session.Session, now time.Time, loc *time.Location) PostDetail {
	if loc == nil {
		loc = time.Local
	}
	created := resolveTimestamp(now, loc, raw.CreatedAt, raw.CreatedAtAlt)

	type sortable struct {
		comment Comment
		at      time.Time
		parsed  bool
	}
	rows := make([]sortable, 0, len(raw.Comments))
	for _, c := range raw.Comments {
		ts := resolveTimestamp(now, loc, c.CreatedAt, c.CreatedAtAlt)
		rows = append(rows, sortable{
			comment: Comment{
				ID:        c.ID.Value,
				Author:    c.Author.Name,
				AuthorID:  c.AuthorID.Ptr(),
				Content:   c.Content,
				CreatedAt: ts.text,
			},
			at:     ts.at,
			parsed: ts.parsed,
		})
	}
	// oldest first; unparsable timestamps sink to the end in server order
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].parsed != rows[j].parsed {
			return rows[i].parsed
		}
		return rows[i].at.Before(rows[j].at)
	})
	comments := make([]Comment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, row.comment)
	}

	return PostDetail{
		ID:        raw.ID.Value,
		Title:     raw.Title,
		Content:   raw.Content,
		Author:    raw.Author.Name,
		AuthorID:  raw.AuthorID.Ptr(),
		Category:  NormalizeCategory(raw.Category),
		CreatedAt: created.text,
		Views:     max(raw.Views.Value, 0),
		Comments:  comments,
		CanEdit:   viewer != nil && raw.AuthorID.Valid && viewer.User.ID == raw.AuthorID.Value,
	}
}
