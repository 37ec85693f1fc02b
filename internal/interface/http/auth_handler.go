package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/jungle-board/internal/domain/auth"
	"github.com/yanqian/jungle-board/internal/domain/session"
	apperrors "github.com/yanqian/jungle-board/pkg/errors"
)

const sessionStreamBuffer = 8

// AuthHandler exposes login, registration and the session feed.
type AuthHandler struct {
	svc      auth.Service
	sessions *session.Store
	logger   *slog.Logger
}

// NewAuthHandler constructs the auth HTTP handler.
func NewAuthHandler(svc auth.Service, sessions *session.Store, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:      svc,
		sessions: sessions,
		logger:   logger.With("component", "http.auth"),
	}
}

// Login signs in and persists the session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, apperrors.CodeInvalidInput, errMessage(err), err))
		return
	}
	sess, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, auth.ViewOf(&sess))
}

// Register creates an account. It does not sign in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, apperrors.CodeInvalidInput, errMessage(err), err))
		return
	}
	if err := h.svc.Register(c.Request.Context(), req); err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"registered": true})
}

// Logout clears the session.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context()); err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Session reports who is signed in.
func (h *AuthHandler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Current(c.Request.Context()))
}

// SessionStream sends the current session, then one Server-Sent Event per change until the
// client disconnects.
func (h *AuthHandler) SessionStream(c *gin.Context) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "stream_unsupported", "streaming not supported", nil))
		return
	}

	updates := make(chan auth.SessionView, sessionStreamBuffer)
	unsubscribe := h.sessions.Subscribe(func(sess *session.Session) {
		select {
		case updates <- auth.ViewOf(sess):
		default:
			h.logger.Warn("session stream lagging, dropping update")
		}
	})
	defer unsubscribe()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)

	ctx := c.Request.Context()
	h.writeEvent(c, flusher, h.svc.Current(ctx))
	for {
		select {
		case <-ctx.Done():
			return
		case view := <-updates:
			h.writeEvent(c, flusher, view)
		}
	}
}

func (h *AuthHandler) writeEvent(c *gin.Context, flusher http.Flusher, view auth.SessionView) {
	payload, err := json.Marshal(view)
	if err != nil {
		h.logger.Error("marshal session event failed", "error", err)
		return
	}
	c.Writer.Write([]byte("data: "))
	c.Writer.Write(payload)
	c.Writer.Write([]byte("\n\n"))
	flusher.Flush()
}
