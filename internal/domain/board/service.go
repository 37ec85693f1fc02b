package board

import (
	"context"
	"log/slog"
	"time"

	"github.com/yanqian/jungle-board/internal/domain/session"
	apperrors "github.com/yanqian/jungle-board/pkg/errors"
)

// API is the subset of the board REST API the service calls.
type API interface {
	ListPosts(ctx context.Context, q ListQuery) (RawListResponse, error)
	GetPost(ctx context.Context, id int64) (RawPostDetail, error)
	CreatePost(ctx context.Context, token string, in PostInput) (int64, error)
	UpdatePost(ctx context.Context, token string, id int64, in PostInput) (int64, error)
	DeletePost(ctx context.Context, token string, id int64) error
	CreateComment(ctx context.Context, token string, postID int64, in CommentInput) error
}

// SessionSource yields the signed-in session, if any.
type SessionSource interface {
	Load(ctx context.Context) *session.Session
}

// Service exposes board workflows.
type Service interface {
	ListPosts(ctx context.Context, req ListRequest) (PostPage, error)
	GetPost(ctx context.Context, id int64) (PostDetail, error)
	CreatePost(ctx context.Context, form PostForm) (int64, error)
	UpdatePost(ctx context.Context, id int64, form PostForm) (int64, error)
	DeletePost(ctx context.Context, id int64) error
	AddComment(ctx context.Context, postID int64, form CommentForm) error
}

type service struct {
	cfg      Config
	api      API
	sessions SessionSource
	logger   *slog.Logger
	now      func() time.Time
}

// NewService constructs a Service instance.
func NewService(cfg Config, api API, sessions SessionSource, logger *slog.Logger) Service {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.GroupSize <= 0 {
		cfg.GroupSize = DefaultGroupSize
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &service{
		cfg:      cfg,
		api:      api,
		sessions: sessions,
		logger:   logger.With("component", "board.service"),
		now:      time.Now,
	}
}

// ListPosts never reports API failures; they render as an empty single page. The only error is
// the caller's context ending before the result could be used.
func (s *service) ListPosts(ctx context.Context, req ListRequest) (PostPage, error) {
	q := buildQuery(req.Category, req.Page, req.Search, s.cfg.PageSize)
	raw, err := s.api.ListPosts(ctx, q)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return PostPage{}, ctxErr
	}
	var page PostPage
	if err != nil {
		s.logger.Error("list posts failed", "category", q.Category, "page", q.Page, "error", err)
		page = EmptyPage(q)
	} else {
		page = MapResponse(raw, q, s.now(), s.cfg.Location)
	}
	page.Window = Window(q.Page, page.Pagination.TotalPages, s.cfg.GroupSize)
	return page, nil
}

func (s *service) GetPost(ctx context.Context, id int64) (PostDetail, error) {
	if id <= 0 {
		return PostDetail{}, apperrors.Wrap(apperrors.CodeNotFound, "post not found", nil)
	}
	raw, err := s.api.GetPost(ctx, id)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return PostDetail{}, ctxErr
	}
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeNotFound) {
			return PostDetail{}, apperrors.Wrap(apperrors.CodeNotFound, "post not found", err)
		}
		s.logger.Error("load post failed", "post_id", id, "error", err)
		return PostDetail{}, apperrors.Wrap(apperrors.CodeAPIError, "failed to load post", err)
	}
	return MapDetail(raw, s.sessions.Load(ctx), s.now(), s.cfg.Location), nil
}

func (s *service) CreatePost(ctx context.Context, form PostForm) (int64, error) {
	in, err := form.Validate()
	if err != nil {
		return 0, err
	}
	token, err := s.requireToken(ctx)
	if err != nil {
		return 0, err
	}
	id, err := s.api.CreatePost(ctx, token, in)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return 0, ctxErr
	}
	if err != nil {
		s.logger.Error("create post failed", "error", err)
		return 0, apperrors.Wrap(apperrors.CodeAPIError, "failed to save post", err)
	}
	return id, nil
}

func (s *service) UpdatePost(ctx context.Context, id int64, form PostForm) (int64, error) {
	in, err := form.Validate()
	if err != nil {
		return 0, err
	}
	token, err := s.requireToken(ctx)
	if err != nil {
		return 0, err
	}
	updated, err := s.api.UpdatePost(ctx, token, id, in)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return 0, ctxErr
	}
	if err != nil {
		s.logger.Error("update post failed", "post_id", id, "error", err)
		return 0, s.mutationError(err, "failed to save post")
	}
	if updated <= 0 {
		updated = id
	}
	return updated, nil
}

func (s *service) DeletePost(ctx context.Context, id int64) error {
	token, err := s.requireToken(ctx)
	if err != nil {
		return err
	}
	err = s.api.DeletePost(ctx, token, id)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		s.logger.Error("delete post failed", "post_id", id, "error", err)
		return s.mutationError(err, "failed to delete post")
	}
	return nil
}

func (s *service) AddComment(ctx context.Context, postID int64, form CommentForm) error {
	in, err := form.Validate()
	if err != nil {
		return err
	}
	token, err := s.requireToken(ctx)
	if err != nil {
		return err
	}
	err = s.api.CreateComment(ctx, token, postID, in)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		s.logger.Error("add comment failed", "post_id", postID, "error", err)
		return s.mutationError(err, "failed to save comment")
	}
	return nil
}

func (s *service) requireToken(ctx context.Context) (string, error) {
	sess := s.sessions.Load(ctx)
	if sess == nil {
		return "", apperrors.Wrap(apperrors.CodeUnauthorized, "login required", nil)
	}
	return sess.Token, nil
}

func (s *service) mutationError(err error, message string) error {
	if apperrors.IsCode(err, apperrors.CodeNotFound) {
		return apperrors.Wrap(apperrors.CodeNotFound, "post not found", err)
	}
	return apperrors.Wrap(apperrors.CodeAPIError, message, err)
}
