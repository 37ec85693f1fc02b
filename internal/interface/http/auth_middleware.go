package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/jungle-board/internal/domain/board"
	apperrors "github.com/yanqian/jungle-board/pkg/errors"
)

// requireSession rejects the request unless someone is signed in.
func requireSession(sessions board.SessionSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Load(c.Request.Context())
		if sess == nil {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, apperrors.CodeUnauthorized, "login required", nil))
			return
		}
		setSession(c, sess)
		c.Next()
	}
}
