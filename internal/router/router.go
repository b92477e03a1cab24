// Package router wires HTTP routes to their handlers. Public browse
// routes sit behind the Redis response cache and rate limiter; every
// mutating route sits behind JWT authentication.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/mkarlsson/showtime/internal/config"
	"github.com/mkarlsson/showtime/internal/handler"
	"github.com/mkarlsson/showtime/internal/middleware"
)

// Register attaches every route of the service to the Echo instance.
func Register(
	e *echo.Echo,
	cfg config.Config,
	rdb *redis.Client,
	health *handler.HealthHandler,
	auth *handler.AuthHandler,
	catalog *handler.CatalogHandler,
	quiz *handler.QuizHandler,
) {
	e.GET("/health", health.Health)

	authGroup := e.Group("/v1/auth")
	authGroup.POST("/register", auth.Register)
	authGroup.POST("/login", auth.Login)
	authGroup.GET("/me", auth.Me, middleware.JWTAuth(cfg.JWTSecret))

	// Public reads share the cache and rate limiter. The cache only ever
	// stores GET responses, so the two POST read endpoints below pass
	// through it untouched.
	public := e.Group("/v1",
		middleware.NewRateLimit(config.LoadRateLimitConfig(), rdb),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	)
	public.GET("/venues", catalog.ListVenues)
	public.GET("/venues/search", catalog.SearchVenues)
	public.GET("/venues/:id", catalog.GetVenue)
	public.GET("/artists", catalog.ListArtists)
	public.GET("/artists/search", catalog.SearchArtists)
	public.GET("/artists/:id", catalog.GetArtist)
	public.GET("/shows", catalog.ListShows)
	public.GET("/genres", catalog.ListGenres)
	public.GET("/categories", quiz.ListCategories)
	public.GET("/categories/:id/questions", quiz.QuestionsByCategory)
	public.GET("/questions", quiz.ListQuestions)
	public.POST("/questions/search", quiz.SearchQuestions)
	public.POST("/quizzes", quiz.QuizNext)

	// Mutations require a valid access token.
	guarded := e.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	guarded.POST("/venues", catalog.CreateVenue)
	guarded.PUT("/venues/:id", catalog.UpdateVenue)
	guarded.DELETE("/venues/:id", catalog.DeleteVenue)
	guarded.POST("/venues/:id/genres", catalog.TagVenue)
	guarded.DELETE("/venues/:id/genres", catalog.UntagVenue)
	guarded.POST("/artists", catalog.CreateArtist)
	guarded.PUT("/artists/:id", catalog.UpdateArtist)
	guarded.DELETE("/artists/:id", catalog.DeleteArtist)
	guarded.POST("/artists/:id/genres", catalog.TagArtist)
	guarded.DELETE("/artists/:id/genres", catalog.UntagArtist)
	guarded.POST("/shows", catalog.CreateShow)
	guarded.POST("/questions", quiz.CreateQuestion)
	guarded.DELETE("/questions/:id", quiz.DeleteQuestion)
}
