package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/jungle-board/internal/domain/board"
	apperrors "github.com/yanqian/jungle-board/pkg/errors"
)

// BoardHandler wires the board HTTP transport to the board service.
type BoardHandler struct {
	svc    board.Service
	logger *slog.Logger
}

// NewBoardHandler constructs the board HTTP handler.
func NewBoardHandler(svc board.Service, logger *slog.Logger) *BoardHandler {
	return &BoardHandler{
		svc:    svc,
		logger: logger.With("component", "http.board"),
	}
}

type listResponse struct {
	board.PostPage
	Query listQuery `json:"query"`
}

type listQuery struct {
	Category string `json:"category"`
	Search   string `json:"search"`
	Page     int    `json:"page"`
}

// Categories returns the board tabs, "all" first.
func (h *BoardHandler) Categories(c *gin.Context) {
	tabs := make([]string, 0, len(board.Categories)+1)
	tabs = append(tabs, board.CategoryAll)
	tabs = append(tabs, board.Categories...)
	c.JSON(http.StatusOK, gin.H{"categories": tabs})
}

// ListPosts returns one page of posts with its pagination window.
func (h *BoardHandler) ListPosts(c *gin.Context) {
	page, err := h.svc.ListPosts(c.Request.Context(), board.ListRequest{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Page:     board.ParsePage(c.Query("page")),
	})
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse{
		PostPage: page,
		Query: listQuery{
			Category: page.Query.Category,
			Search:   page.Query.Search,
			Page:     page.Query.Page,
		},
	})
}

// GetPost returns a post with its comments.
func (h *BoardHandler) GetPost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	detail, err := h.svc.GetPost(c.Request.Context(), id)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// CreatePost publishes a new post as the signed-in user.
func (h *BoardHandler) CreatePost(c *gin.Context) {
	var form board.PostForm
	if err := c.ShouldBindJSON(&form); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, apperrors.CodeInvalidInput, errMessage(err), err))
		return
	}
	id, err := h.svc.CreatePost(c.Request.Context(), form)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// UpdatePost edits an existing post.
func (h *BoardHandler) UpdatePost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	var form board.PostForm
	if err := c.ShouldBindJSON(&form); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, apperrors.CodeInvalidInput, errMessage(err), err))
		return
	}
	updated, err := h.svc.UpdatePost(c.Request.Context(), id, form)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": updated})
}

// DeletePost removes a post.
func (h *BoardHandler) DeletePost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	if err := h.svc.DeletePost(c.Request.Context(), id); err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddComment appends a comment to a post.
func (h *BoardHandler) AddComment(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	var form board.CommentForm
	if err := c.ShouldBindJSON(&form); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, apperrors.CodeInvalidInput, errMessage(err), err))
		return
	}
	if err := h.svc.AddComment(c.Request.Context(), id, form); err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"postId": id})
}

func postID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abortWithError(c, NewHTTPError(http.StatusNotFound, apperrors.CodeNotFound, "post not found", err))
		return 0, false
	}
	return id, true
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
