package board

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/yanqian/jungle-board/internal/domain/session"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) ListPosts(ctx context.Context, q ListQuery) (RawListResponse, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(RawListResponse), args.Error(1)
}

func (m *mockAPI) GetPost(ctx context.Context, id int64) (RawPostDetail, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(RawPostDetail), args.Error(1)
}

func (m *mockAPI) CreatePost(ctx context.Context, token string, in PostInput) (int64, error) {
	args := m.Called(ctx, token, in)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAPI) UpdatePost(ctx context.Context, token string, id int64, in PostInput) (int64, error) {
	args := m.Called(ctx, token, id, in)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAPI) DeletePost(ctx context.Context, token string, id int64) error {
	args := m.Called(ctx, token, id)
	return args.Error(0)
}

func (m *mockAPI) CreateComment(ctx context.Context, token string, postID int64, in CommentInput) error {
	args := m.Called(ctx, token, postID, in)
	return args.Error(0)
}

type staticSessions struct {
	session *session.Session
}

func (s staticSessions) Load(context.Context) *session.Session {
	return s.session
}
