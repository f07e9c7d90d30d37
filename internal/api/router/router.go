package router

import (
	"net/http"

	"reviewhub/internal/api/handler"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/service"
	"reviewhub/internal/config"

	"github.com/gin-gonic/gin"
)

// Register wires routes and middleware.
func Register(
	r *gin.Engine,
	cfg *config.Config,
	authService service.AuthService,
	userService service.UserService,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	categoryHandler *handler.CategoryHandler,
	genreHandler *handler.GenreHandler,
	titleHandler *handler.TitleHandler,
	reviewHandler *handler.ReviewHandler,
	commentHandler *handler.CommentHandler,
) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	requireAuth := middleware.Authenticate(authService, userService)
	optionalAuth := middleware.AuthenticateOptional(authService, userService)
	requireAdmin := middleware.RequireAdmin()

	api := r.Group("/api/v1")

	// Anonymous signup/token exchange, throttled per client IP.
	auth := api.Group("/auth", middleware.RateLimit(cfg.AuthRateLimit, cfg.AuthRateBurst))
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/token", authHandler.Token)
	}

	users := api.Group("/users", requireAuth)
	{
		users.GET("/me", userHandler.Me)
		users.PATCH("/me", userHandler.UpdateMe)

		admin := users.Group("", requireAdmin)
		{
			admin.GET("", userHandler.List)
			admin.POST("", userHandler.Create)
			admin.GET("/:username", userHandler.Get)
			admin.PATCH("/:username", userHandler.Update)
			admin.DELETE("/:username", userHandler.Delete)
		}
	}

	// Catalog reads are public; writes are admin-only.
	categories := api.Group("/categories")
	{
		categories.GET("", categoryHandler.List)
		categories.POST("", requireAuth, requireAdmin, categoryHandler.Create)
		categories.DELETE("/:slug", requireAuth, requireAdmin, categoryHandler.Delete)
	}

	genres := api.Group("/genres")
	{
		genres.GET("", genreHandler.List)
		genres.POST("", requireAuth, requireAdmin, genreHandler.Create)
		genres.DELETE("/:slug", requireAuth, requireAdmin, genreHandler.Delete)
	}

	titles := api.Group("/titles")
	{
		titles.GET("", titleHandler.List)
		titles.GET("/:title_id", titleHandler.Get)
		titles.POST("", requireAuth, requireAdmin, titleHandler.Create)
		titles.PATCH("/:title_id", requireAuth, requireAdmin, titleHandler.Update)
		titles.DELETE("/:title_id", requireAuth, requireAdmin, titleHandler.Delete)

		// Reads are open but identify the reader when a token is
		// supplied; any authenticated user may write, and the service
		// layer decides who may edit whose.
		reviews := titles.Group("/:title_id/reviews")
		{
			reviews.GET("", optionalAuth, reviewHandler.List)
			reviews.GET("/:review_id", optionalAuth, reviewHandler.Get)
			reviews.POST("", requireAuth, reviewHandler.Create)
			reviews.PATCH("/:review_id", requireAuth, reviewHandler.Update)
			reviews.DELETE("/:review_id", requireAuth, reviewHandler.Delete)

			comments := reviews.Group("/:review_id/comments")
			{
				comments.GET("", optionalAuth, commentHandler.List)
				comments.GET("/:comment_id", optionalAuth, commentHandler.Get)
				comments.POST("", requireAuth, commentHandler.Create)
				comments.PATCH("/:comment_id", requireAuth, commentHandler.Update)
				comments.DELETE("/:comment_id", requireAuth, commentHandler.Delete)
			}
		}
	}
}
