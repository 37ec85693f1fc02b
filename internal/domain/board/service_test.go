package board

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/jungle-board/internal/domain/session"
	apperrors "github.com/yanqian/jungle-board/pkg/errors"
)

var signedIn = &session.Session{Token: "token-abc", User: session.User{ID: 7, Email: "kim@jungle.kr", Name: "김민수"}}

func newServiceUnderTest(api API, sess *session.Session) *service {
	svc := NewService(Config{Location: seoul}, api, staticSessions{session: sess}, slog.New(slog.NewTextHandler(io.Discard, nil))).(*service)
	svc.now = fixedNow
	return svc
}

func TestService_ListPostsSuccess(t *testing.T) {
	api := &mockAPI{}
	expected := ListQuery{Category: CategoryQnA, Search: "router", Page: 7, Limit: 10}
	api.On("ListPosts", mock.Anything, expected).Return(RawListResponse{
		Data:       []RawPost{{ID: OptInt{Value: 1, Valid: true}, Title: "hello"}},
		Pagination: &RawPagination{Total: OptInt{Value: 230, Valid: true}},
	}, nil)

	svc := newServiceUnderTest(api, nil)
	page, err := svc.ListPosts(context.Background(), ListRequest{Category: "qna", Search: " router ", Page: 7})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, 23, page.Pagination.TotalPages)
	require.Equal(t, []int{6, 7, 8, 9, 10}, page.Window.PageNumbers)
	require.True(t, page.Window.HasNextGroup)
	api.AssertExpectations(t)
}

func TestService_ListPostsFailureRendersEmptyPage(t *testing.T) {
	api := &mockAPI{}
	api.On("ListPosts", mock.Anything, mock.Anything).Return(RawListResponse{}, errors.New("connection refused"))

	svc := newServiceUnderTest(api, nil)
	page, err := svc.ListPosts(context.Background(), ListRequest{Page: 3})
	require.NoError(t, err)
	require.True(t, page.Empty)
	require.Empty(t, page.Items)
	require.Equal(t, 1, page.Pagination.TotalPages)
	require.Equal(t, 3, page.Pagination.Page)
	require.Equal(t, []int{1}, page.Window.PageNumbers)
}

func TestService_ListPostsDropsStaleResponse(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	api := &mockAPI{}
	api.On("ListPosts", mock.Anything, mock.Anything).Run(func(mock.Arguments) { cancel() }).Return(RawListResponse{}, nil)

	svc := newServiceUnderTest(api, nil)
	_, err := svc.ListPosts(ctx, ListRequest{Page: 1})
	require.ErrorIs(t, err, context.Canceled)
}

func TestService_GetPostNotFound(t *testing.T) {
	api := &mockAPI{}
	api.On("GetPost", mock.Anything, int64(5)).Return(RawPostDetail{}, apperrors.Wrap(apperrors.CodeNotFound, "status 404", nil))
	api.On("GetPost", mock.Anything, int64(6)).Return(RawPostDetail{}, apperrors.Wrap(apperrors.CodeAPIError, "status 500", nil))

	svc := newServiceUnderTest(api, nil)
	_, err := svc.GetPost(context.Background(), 5)
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	_, err = svc.GetPost(context.Background(), 6)
	require.True(t, apperrors.IsCode(err, apperrors.CodeAPIError))

	_, err = svc.GetPost(context.Background(), 0)
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestService_CreatePostValidatesBeforeCallingAPI(t *testing.T) {
	api := &mockAPI{}
	svc := newServiceUnderTest(api, signedIn)

	_, err := svc.CreatePost(context.Background(), PostForm{Title: "  ", Content: "body"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	api.AssertNotCalled(t, "CreatePost", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_CreatePostRequiresSession(t *testing.T) {
	api := &mockAPI{}
	svc := newServiceUnderTest(api, nil)

	_, err := svc.CreatePost(context.Background(), PostForm{Title: "t", Content: "c"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
	api.AssertNotCalled(t, "CreatePost", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_CreatePostSendsToken(t *testing.T) {
	api := &mockAPI{}
	api.On("CreatePost", mock.Anything, "token-abc", PostInput{Title: "제목", Category: CategoryQnA, Content: "내용"}).Return(int64(42), nil)

	svc := newServiceUnderTest(api, signedIn)
	id, err := svc.CreatePost(context.Background(), PostForm{Title: " 제목 ", Category: "qna", Content: " 내용 "})
	require.NoError(t, err)
	require.Equal(t, int64(42), id)
	api.AssertExpectations(t)
}

func TestService_UpdatePostFallsBackToPathID(t *testing.T) {
	api := &mockAPI{}
	api.On("UpdatePost", mock.Anything, "token-abc", int64(9), PostInput{Title: "t", Category: CategoryNotice, Content: "c"}).Return(int64(0), nil)

	svc := newServiceUnderTest(api, signedIn)
	id, err := svc.UpdatePost(context.Background(), 9, PostForm{Title: "t", Category: "unknown", Content: "c"})
	require.NoError(t, err)
	require.Equal(t, int64(9), id)
}

func TestService_DeleteAndCommentErrors(t *testing.T) {
	api := &mockAPI{}
	api.On("DeletePost", mock.Anything, "token-abc", int64(3)).Return(apperrors.Wrap(apperrors.CodeAPIError, "status 403", nil))
	api.On("CreateComment", mock.Anything, "token-abc", int64(3), CommentInput{Content: "좋아요"}).Return(nil)

	svc := newServiceUnderTest(api, signedIn)
	err := svc.DeletePost(context.Background(), 3)
	require.True(t, apperrors.IsCode(err, apperrors.CodeAPIError))
	require.Equal(t, "failed to delete post", apperrors.MessageOf(err))

	require.NoError(t, svc.AddComment(context.Background(), 3, CommentForm{Content: " 좋아요 "}))

	err = svc.AddComment(context.Background(), 3, CommentForm{Content: "\n"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	api.AssertNumberOfCalls(t, "CreateComment", 1)
}

func TestService_MutationsReportCanceledCaller(t *testing.T) {
	cases := []struct {
		name   string
		method string
		args   []interface{}
		ret    []interface{}
		call   func(context.Context, *service) error
	}{
		{name: "create", method: "CreatePost", args: []interface{}{mock.Anything, "token-abc", mock.Anything}, ret: []interface{}{int64(42), nil}, call: func(ctx context.Context, svc *service) error {
			_, err := svc.CreatePost(ctx, PostForm{Title: "t", Content: "c"})
			return err
		}},
		{name: "update", method: "UpdatePost", args: []interface{}{mock.Anything, "token-abc", int64(9), mock.Anything}, ret: []interface{}{int64(9), nil}, call: func(ctx context.Context, svc *service) error {
			_, err := svc.UpdatePost(ctx, 9, PostForm{Title: "t", Content: "c"})
			return err
		}},
		{name: "delete", method: "DeletePost", args: []interface{}{mock.Anything, "token-abc", int64(9)}, ret: []interface{}{nil}, call: func(ctx context.Context, svc *service) error {
			return svc.DeletePost(ctx, 9)
		}},
		{name: "comment", method: "CreateComment", args: []interface{}{mock.Anything, "token-abc", int64(9), mock.Anything}, ret: []interface{}{nil}, call: func(ctx context.Context, svc *service) error {
			return svc.AddComment(ctx, 9, CommentForm{Content: "c"})
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			api := &mockAPI{}
			api.On(tc.method, tc.args...).Run(func(mock.Arguments) { cancel() }).Return(tc.ret...)

			err := tc.call(ctx, newServiceUnderTest(api, signedIn))
			require.ErrorIs(t, err, context.Canceled)
			api.AssertNumberOfCalls(t, tc.method, 1)
		})
	}
}

func TestNewService_Defaults(t *testing.T) {
	svc := NewService(Config{}, &mockAPI{}, staticSessions{}, slog.New(slog.NewTextHandler(io.Discard, nil))).(*service)
	require.Equal(t, DefaultPageSize, svc.cfg.PageSize)
	require.Equal(t, DefaultGroupSize, svc.cfg.GroupSize)
	require.Equal(t, time.Local, svc.cfg.Location)
}
