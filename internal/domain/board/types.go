package board

import "time"

// Config drives board behavior.
type Config struct {
	PageSize  int
	GroupSize int
	Location  *time.Location
}

// PostListItem is a display-ready row of the post list.
type PostListItem struct {
	ID           int64  `json:"id"`
	Number       *int64 `json:"number,omitempty"`
	Title        string `json:"title"`
	Category     string `json:"category"`
	Author       string `json:"author"`
	CreatedAt    string `json:"createdAt"`
	DisplayDate  string `json:"displayDate"`
	Views        int64  `json:"views"`
	CommentCount int64  `json:"commentCount"`
	IsNew        bool   `json:"isNew"`
	Pinned       bool   `json:"pinned,omitempty"`
}

// Pagination describes the page the server returned.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// PostPage is one list page plus its pagination window.
type PostPage struct {
	Items      []PostListItem   `json:"items"`
	Pagination Pagination       `json:"pagination"`
	Window     PaginationWindow `json:"window"`
	Query      ListQuery        `json:"-"`
	Empty      bool             `json:"empty"`
}

// Comment is a display-ready comment on a post.
type Comment struct {
	ID        int64  `json:"id"`
	Author    string `json:"author"`
	AuthorID  *int64 `json:"authorId"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

// PostDetail is a post with its comments, oldest comment first.
type PostDetail struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	AuthorID  *int64    `json:"authorId"`
	Category  string    `json:"category"`
	CreatedAt string    `json:"createdAt"`
	Views     int64     `json:"views"`
	Comments  []Comment `json:"comments"`
	CanEdit   bool      `json:"canEdit"`
}

// ListRequest is the user facing list input.
type ListRequest struct {
	Category string
	Search   string
	Page     float64
}

// PostForm is the editor payload for create and update.
type PostForm struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Content  string `json:"content"`
}

// PostInput is a validated PostForm as sent to the API.
type PostInput struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Content  string `json:"content"`
}

// CommentForm is the comment box payload.
type CommentForm struct {
	Content string `json:"content"`
}

// CommentInput is a validated CommentForm as sent to the API.
type CommentInput struct {
	Content string `json:"content"`
}
