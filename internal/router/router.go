// Package router wires handlers onto the Echo instance. Handlers and the
// JWT secret are passed in at startup; the router holds no state of its
// own.
package router

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/staysafe/stay-safe-api/internal/config"
	"github.com/staysafe/stay-safe-api/internal/handler"
	"github.com/staysafe/stay-safe-api/internal/middleware"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Users       *handler.UserHandler
	Assessments *handler.AssessmentHandler
	AI          *handler.AIHandler
	Articles    *handler.ArticleHandler
	Resources   *handler.ResourceHandler
}

// Register mounts all routes. Public catalog reads sit behind the Redis
// response cache and every route behind the rate limiter; user-scoped
// routes additionally require a bearer token.
func Register(e *echo.Echo, cfg config.Config, h Handlers, rdb *redis.Client, log *zap.Logger) {
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowCredentials: true,
	}))
	e.Use(requestLogger(log))
	e.Use(middleware.NewRateLimit(config.LoadRateLimitConfig(), rdb))

	e.GET("/health", handler.Health)

	auth := middleware.JWTAuth(cfg.JWTSecret)
	cache := middleware.NewCatalogCache(config.LoadCacheConfig(), rdb)

	// Identity
	users := e.Group("/api/users")
	users.POST("/register", h.Users.Register)
	users.POST("/login", h.Users.Login)
	users.GET("/me", h.Users.Me, auth)
	users.PATCH("/me", h.Users.UpdateMe, auth)
	users.DELETE("/me", h.Users.DeleteMe, auth)
	users.GET("/me/preferences", h.Users.GetPreferences, auth)
	users.PATCH("/me/preferences", h.Users.UpdatePreferences, auth)

	// Assessments (all user-scoped)
	assessments := e.Group("/api/assessments", auth)
	assessments.POST("", h.Assessments.Submit)
	assessments.GET("", h.Assessments.History)
	assessments.GET("/stats/me", h.Assessments.Stats)
	assessments.GET("/category/:category", h.Assessments.ByCategory)
	assessments.GET("/:id", h.Assessments.GetByID)
	assessments.DELETE("/:id", h.Assessments.Delete)

	// Advisory chat
	ai := e.Group("/api/ai", auth)
	ai.POST("/chat", h.AI.Chat)
	ai.POST("/health-tips", h.AI.HealthTips)

	// Article library: public reads cached, bookmarks authenticated
	articles := e.Group("/api/articles")
	articles.GET("", h.Articles.List, cache)
	articles.GET("/featured", h.Articles.Featured, cache)
	articles.GET("/bookmarks/me", h.Articles.MyBookmarks, auth)
	articles.GET("/:slug", h.Articles.BySlug, cache)
	articles.POST("/:articleId/bookmark", h.Articles.AddBookmark, auth)
	articles.DELETE("/:articleId/bookmark", h.Articles.RemoveBookmark, auth)

	// Campus resources: public reads cached
	resources := e.Group("/api/resources", cache)
	resources.GET("", h.Resources.List)
	resources.GET("/type/:type", h.Resources.ByType)
	resources.GET("/category/:category", h.Resources.ByCategory)
	resources.GET("/:id", h.Resources.ByID)
}

// requestLogger logs one line per request.
func requestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			log.Info("request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
			)
			return err
		}
	}
}

// NewHTTPErrorHandler converts unhandled errors into the response
// envelope: echo's own 404/405 keep their status, everything else becomes
// a 500 with a generic message. Error detail is included only in dev.
func NewHTTPErrorHandler(env string, log *zap.Logger) echo.HTTPErrorHandler {
	dev := env == "dev"
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status := http.StatusInternalServerError
		message := "internal server error"
		if he, ok := err.(*echo.HTTPError); ok {
			status = he.Code
			if s, ok := he.Message.(string); ok {
				message = s
			}
		}
		if status >= 500 {
			log.Error("unhandled error", zap.Error(err), zap.String("path", c.Request().URL.Path))
			if dev {
				message = err.Error()
			} else {
				message = "internal server error"
			}
		}
		_ = middleware.Fail(c, status, message)
	}
}
