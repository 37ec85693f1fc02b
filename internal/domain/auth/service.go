package auth

import (
	"context"
	"log/slog"
	"strings"

	"github.com/yanqian/jungle-board/internal/domain/session"
	apperrors "github.com/yanqian/jungle-board/pkg/errors"
)

// Service exposes authentication workflows of the client.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (session.Session, error)
	Register(ctx context.Context, req RegisterRequest) error
	Logout(ctx context.Context) error
	Current(ctx context.Context) SessionView
}

type service struct {
	gateway Gateway
	store   *session.Store
	logger  *slog.Logger
}

// NewService constructs a Service instance.
func NewService(gateway Gateway, store *session.Store, logger *slog.Logger) Service {
	return &service{
		gateway: gateway,
		store:   store,
		logger:  logger.With("component", "auth.service"),
	}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (session.Session, error) {
	normalized, err := normalizeLogin(req)
	if err != nil {
		return session.Session{}, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), nil)
	}
	resp, err := s.gateway.Login(ctx, normalized)
	if err != nil {
		s.logger.Warn("login failed", "error", err)
		return session.Session{}, apperrors.Wrap(apperrors.CodeAPIError, "login failed", err)
	}
	if strings.TrimSpace(resp.AccessToken) == "" {
		return session.Session{}, apperrors.Wrap(apperrors.CodeAPIError, "login response missing token", nil)
	}
	if !completeUser(resp.User) {
		return session.Session{}, apperrors.Wrap(apperrors.CodeAPIError, "login response missing user", nil)
	}
	sess := session.Session{Token: resp.AccessToken, User: resp.User}
	if err := s.store.Save(ctx, sess); err != nil {
		return session.Session{}, err
	}
	s.logger.Info("signed in", "user_id", sess.User.ID)
	return sess, nil
}

func completeUser(u session.User) bool {
	return u.ID > 0 && strings.TrimSpace(u.Email) != "" && strings.TrimSpace(u.Name) != ""
}

func (s *service) Register(ctx context.Context, req RegisterRequest) error {
	payload, err := normalizeRegistration(req)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), nil)
	}
	if err := s.gateway.Register(ctx, payload); err != nil {
		s.logger.Warn("registration failed", "error", err)
		message := apperrors.MessageOf(err)
		if strings.TrimSpace(message) == "" {
			message = "registration failed"
		}
		return apperrors.Wrap(apperrors.CodeAPIError, message, err)
	}
	return nil
}

func (s *service) Logout(ctx context.Context) error {
	return s.store.Clear(ctx)
}

func (s *service) Current(ctx context.Context) SessionView {
	return ViewOf(s.store.Load(ctx))
}

// ViewOf describes sess without exposing its token. A nil session is signed out.
func ViewOf(sess *session.Session) SessionView {
	if sess == nil {
		return SessionView{}
	}
	user := sess.User
	view := SessionView{Authenticated: true, User: &user}
	if exp, ok := tokenExpiry(sess.Token); ok {
		view.ExpiresAt = &exp
	}
	return view
}
