package board

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// RawListResponse is the GET /posts payload as sent by the server.
type RawListResponse struct {
	Data       []RawPost      `json:"data"`
	Pagination *RawPagination `json:"pagination"`
}

// RawPagination has every field optional.
type RawPagination struct {
	Page       OptInt `json:"page"`
	Limit      OptInt `json:"limit"`
	Total      OptInt `json:"total"`
	TotalPages OptInt `json:"totalPages"`
}

// RawPost is one list row. Date and comment fields come in several shapes.
type RawPost struct {
	ID           OptInt          `json:"id"`
	Number       OptInt          `json:"number"`
	Title        string          `json:"title"`
	Category     string          `json:"category"`
	Author       RawAuthor       `json:"author"`
	CreatedAt    *string         `json:"createdAt"`
	CreatedAtAlt *string         `json:"created_at"`
	Date         *string         `json:"date"`
	Views        OptInt          `json:"views"`
	CommentCount OptInt          `json:"commentCount"`
	Comments     json.RawMessage `json:"comments"`
	Count        *rawCount       `json:"_count"`
	IsNew        *bool           `json:"isNew"`
	Pinned       *bool           `json:"pinned"`
}

type rawCount struct {
	Comments OptInt `json:"comments"`
}

// RawPostDetail is the GET /posts/:id payload.
type RawPostDetail struct {
	ID           OptInt       `json:"id"`
	Title        string       `json:"title"`
	Content      string       `json:"content"`
	Author       RawAuthor    `json:"author"`
	AuthorID     OptInt       `json:"authorId"`
	Category     string       `json:"category"`
	CreatedAt    *string      `json:"createdAt"`
	CreatedAtAlt *string      `json:"created_at"`
	Views        OptInt       `json:"views"`
	Comments     []RawComment `json:"comments"`
}

// RawComment is a nested comment of RawPostDetail.
type RawComment struct {
	ID           OptInt    `json:"id"`
	Author       RawAuthor `json:"author"`
	AuthorID     OptInt    `json:"authorId"`
	Content      string    `json:"content"`
	CreatedAt    *string   `json:"createdAt"`
	CreatedAtAlt *string   `json:"created_at"`
}

// OptInt is an integer that may be absent, null, a JSON number or a numeric string.
type OptInt struct {
	Value int64
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OptInt) UnmarshalJSON(data []byte) error {
	*o = OptInt{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		trimmed = []byte(strings.TrimSpace(s))
		if len(trimmed) == 0 {
			return nil
		}
	}
	f, err := strconv.ParseFloat(string(trimmed), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		// unusable numbers read as absent
		return nil
	}
	*o = OptInt{Value: int64(f), Valid: true}
	return nil
}

// Ptr returns nil when the value is absent.
func (o OptInt) Ptr() *int64 {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}

// RawAuthor accepts either a plain name or an object carrying one.
type RawAuthor struct {
	Name string
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *RawAuthor) UnmarshalJSON(data []byte) error {
	*a = RawAuthor{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] == '"' {
		return json.Unmarshal(trimmed, &a.Name)
	}
	var obj struct {
		Name     string `json:"name"`
		Nickname string `json:"nickname"`
	}
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return err
	}
	a.Name = obj.Name
	if a.Name == "" {
		a.Name = obj.Nickname
	}
	return nil
}

// commentCount prefers an explicit count, then the comments field as a number or an array.
func (p RawPost) commentCount() int64 {
	if p.CommentCount.Valid {
		return max(p.CommentCount.Value, 0)
	}
	trimmed := bytes.TrimSpace(p.Comments)
	if len(trimmed) > 0 {
		if trimmed[0] == '[' {
			var items []json.RawMessage
			if err := json.Unmarshal(trimmed, &items); err == nil {
				return int64(len(items))
			}
		} else {
			var n OptInt
			if err := n.UnmarshalJSON(trimmed); err == nil && n.Valid {
				return max(n.Value, 0)
			}
		}
	}
	if p.Count != nil && p.Count.Comments.Valid {
		return max(p.Count.Comments.Value, 0)
	}
	return 0
}
