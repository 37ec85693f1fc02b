package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/jungle-board/internal/infra/config"
	"github.com/yanqian/jungle-board/pkg/metrics"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, boardHandler *BoardHandler, authHandler *AuthHandler, recorder *metrics.Recorder, logger *slog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	logger = logger.With("component", "http.router")

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestID(),
		requestLogger(logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(logger),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(recorder.Handler()))

	api := router.Group("/api/v1")
	api.Use(rateLimitMiddleware(cfg.HTTP.RateLimit, logger))
	{
		api.GET("/categories", boardHandler.Categories)
		api.GET("/posts", boardHandler.ListPosts)
		api.POST("/posts", boardHandler.CreatePost)
		api.GET("/posts/:id", boardHandler.GetPost)
		api.PATCH("/posts/:id", boardHandler.UpdatePost)
		api.DELETE("/posts/:id", requireSession(authHandler.sessions), boardHandler.DeletePost)
		api.POST("/posts/:id/comments", boardHandler.AddComment)

		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/logout", authHandler.Logout)
		api.GET("/auth/session", authHandler.Session)
		api.GET("/auth/session/stream", authHandler.SessionStream)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
