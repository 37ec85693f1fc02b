package auth

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/jungle-board/internal/domain/session"
	apperrors "github.com/yanqian/jungle-board/pkg/errors"
)

func TestService_LoginPersistsSession(t *testing.T) {
	gateway := new(mockGateway)
	store := newTestStore()
	svc := NewService(gateway, store, newTestLogger())

	user := session.User{ID: 7, Email: "kim@jungle.kr", Name: "김민수"}
	gateway.On("Login", mock.Anything, LoginRequest{Email: "kim@jungle.kr", Password: "secret123"}).
		Return(LoginResponse{AccessToken: "token-abc", User: user}, nil).Once()

	var notified []*session.Session
	store.Subscribe(func(s *session.Session) { notified = append(notified, s) })

	sess, err := svc.Login(context.Background(), LoginRequest{Email: " kim@jungle.kr ", Password: "secret123"})
	require.NoError(t, err)
	require.Equal(t, "token-abc", sess.Token)
	require.Equal(t, user, sess.User)

	loaded := store.Load(context.Background())
	require.NotNil(t, loaded)
	require.Equal(t, sess, *loaded)
	require.Len(t, notified, 1)
	gateway.AssertExpectations(t)
}

func TestService_LoginRejectsBlankCredentials(t *testing.T) {
	gateway := new(mockGateway)
	svc := NewService(gateway, newTestStore(), newTestLogger())

	_, err := svc.Login(context.Background(), LoginRequest{Email: "kim@jungle.kr", Password: "   "})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	gateway.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
}

func TestService_LoginGatewayFailureKeepsSignedOut(t *testing.T) {
	gateway := new(mockGateway)
	store := newTestStore()
	svc := NewService(gateway, store, newTestLogger())
	gateway.On("Login", mock.Anything, mock.Anything).
		Return(LoginResponse{}, apperrors.Wrap(apperrors.CodeUnauthorized, "invalid credentials", nil)).Once()

	_, err := svc.Login(context.Background(), LoginRequest{Email: "kim@jungle.kr", Password: "wrongpass"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeAPIError))
	require.Nil(t, store.Load(context.Background()))
}

func TestService_LoginWithoutTokenFails(t *testing.T) {
	gateway := new(mockGateway)
	store := newTestStore()
	svc := NewService(gateway, store, newTestLogger())
	gateway.On("Login", mock.Anything, mock.Anything).
		Return(LoginResponse{User: session.User{ID: 1}}, nil).Once()

	_, err := svc.Login(context.Background(), LoginRequest{Email: "kim@jungle.kr", Password: "secret123"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeAPIError))
	require.Nil(t, store.Load(context.Background()))
}

func TestService_LoginWithoutUserFails(t *testing.T) {
	cases := []struct {
		name string
		user session.User
	}{
		{name: "absent user", user: session.User{}},
		{name: "zero id", user: session.User{Email: "kim@jungle.kr", Name: "김민수"}},
		{name: "blank email", user: session.User{ID: 7, Name: "김민수"}},
		{name: "blank name", user: session.User{ID: 7, Email: "kim@jungle.kr", Name: " "}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gateway := new(mockGateway)
			store := newTestStore()
			svc := NewService(gateway, store, newTestLogger())
			gateway.On("Login", mock.Anything, mock.Anything).
				Return(LoginResponse{AccessToken: "token-abc", User: tc.user}, nil).Once()

			_, err := svc.Login(context.Background(), LoginRequest{Email: "kim@jungle.kr", Password: "secret123"})
			require.True(t, apperrors.IsCode(err, apperrors.CodeAPIError))
			require.Nil(t, store.Load(context.Background()))
			require.False(t, svc.Current(context.Background()).Authenticated)
		})
	}
}

func TestService_RegisterValidation(t *testing.T) {
	valid := RegisterRequest{
		Name:            "김민수",
		Email:           "kim@jungle.kr",
		Password:        "secret123",
		PasswordConfirm: "secret123",
		BirthDate:       "1999-03-01",
		Phone:           "010-1234-5678",
		Cohort:          10,
		StudentNumber:   "07",
	}
	cases := []struct {
		name   string
		mutate func(*RegisterRequest)
	}{
		{name: "short name", mutate: func(r *RegisterRequest) { r.Name = "김" }},
		{name: "bad email", mutate: func(r *RegisterRequest) { r.Email = "kim@jungle" }},
		{name: "short password", mutate: func(r *RegisterRequest) { r.Password, r.PasswordConfirm = "short", "short" }},
		{name: "short multibyte password", mutate: func(r *RegisterRequest) { r.Password, r.PasswordConfirm = "비밀번호다", "비밀번호다" }},
		{name: "password mismatch", mutate: func(r *RegisterRequest) { r.PasswordConfirm = "secret124" }},
		{name: "missing birth date", mutate: func(r *RegisterRequest) { r.BirthDate = "" }},
		{name: "malformed birth date", mutate: func(r *RegisterRequest) { r.BirthDate = "03/01/1999" }},
		{name: "short phone", mutate: func(r *RegisterRequest) { r.Phone = "0101" }},
		{name: "short multibyte phone", mutate: func(r *RegisterRequest) { r.Phone = "공일공일" }},
		{name: "cohort too low", mutate: func(r *RegisterRequest) { r.Cohort = 4 }},
		{name: "cohort too high", mutate: func(r *RegisterRequest) { r.Cohort = 15 }},
		{name: "student number length", mutate: func(r *RegisterRequest) { r.StudentNumber = "7" }},
		{name: "student number letters", mutate: func(r *RegisterRequest) { r.StudentNumber = "a1" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gateway := new(mockGateway)
			svc := NewService(gateway, newTestStore(), newTestLogger())
			req := valid
			tc.mutate(&req)

			err := svc.Register(context.Background(), req)
			require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput), "got %v", err)
			gateway.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
		})
	}

	t.Run("valid", func(t *testing.T) {
		gateway := new(mockGateway)
		svc := NewService(gateway, newTestStore(), newTestLogger())
		gateway.On("Register", mock.Anything, RegisterPayload{
			Name:          "김민수",
			Email:         "kim@jungle.kr",
			Password:      "secret123",
			BirthDate:     "1999-03-01",
			Phone:         "010-1234-5678",
			Cohort:        10,
			StudentNumber: "07",
		}).Return(nil).Once()

		require.NoError(t, svc.Register(context.Background(), valid))
		gateway.AssertExpectations(t)
	})
}

func TestService_RegisterSurfacesAPIMessage(t *testing.T) {
	gateway := new(mockGateway)
	svc := NewService(gateway, newTestStore(), newTestLogger())
	gateway.On("Register", mock.Anything, mock.Anything).
		Return(apperrors.Wrap(apperrors.CodeAPIError, "이미 가입된 이메일입니다", nil)).Once()

	err := svc.Register(context.Background(), RegisterRequest{
		Name:            "김민수",
		Email:           "kim@jungle.kr",
		Password:        "secret123",
		PasswordConfirm: "secret123",
		BirthDate:       "1999-03-01",
		Phone:           "0101234567",
		Cohort:          5,
		StudentNumber:   "12",
	})
	require.True(t, apperrors.IsCode(err, apperrors.CodeAPIError))
	require.Equal(t, "이미 가입된 이메일입니다", apperrors.MessageOf(err))
}

func TestService_LogoutAndCurrent(t *testing.T) {
	store := newTestStore()
	svc := NewService(new(mockGateway), store, newTestLogger())

	require.False(t, svc.Current(context.Background()).Authenticated)

	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("server-side-secret"))
	require.NoError(t, err)

	user := session.User{ID: 3, Email: "park@jungle.kr", Name: "박"}
	require.NoError(t, store.Save(context.Background(), session.Session{Token: token, User: user}))

	view := svc.Current(context.Background())
	require.True(t, view.Authenticated)
	require.Equal(t, &user, view.User)
	require.NotNil(t, view.ExpiresAt)
	require.True(t, exp.Equal(*view.ExpiresAt))

	require.NoError(t, svc.Logout(context.Background()))
	require.Equal(t, SessionView{}, svc.Current(context.Background()))
}

func TestTokenExpiry_OpaqueToken(t *testing.T) {
	_, ok := tokenExpiry("not-a-jwt")
	require.False(t, ok)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(LoginResponse), args.Error(1)
}

func (m *mockGateway) Register(ctx context.Context, payload RegisterPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

type memStorage struct {
	mu     sync.Mutex
	values map[string]string
}

func (m *memStorage) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memStorage) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memStorage) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func newTestStore() *session.Store {
	return session.NewStore(&memStorage{values: make(map[string]string)}, "", newTestLogger(), nil)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
