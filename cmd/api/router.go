package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"blog-backend/internal/shared/middleware"
	"blog-backend/internal/shared/response"
	"blog-backend/internal/shared/web"
	"blog-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Authenticate(c.JWTManager, c.Config.Auth.CookieName),
	)

	router.NoRoute(pageNotFound)
	router.GET("/health", healthCheckHandler(c))

	setupAuthRoutes(router, c)
	setupAboutRoutes(router, c)
	setupPostRoutes(router, c)

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(r *gin.Engine, c *container.Container) {
	auth := r.Group("/auth")
	{
		auth.GET("/signup/", web.Handle(c.UserHandler.Signup))
		auth.POST("/signup/", web.Handle(c.UserHandler.Signup))
		auth.GET("/login/", web.Handle(c.UserHandler.Login))
		auth.POST("/login/", web.Handle(c.UserHandler.Login))
		auth.POST("/logout/", web.Handle(c.UserHandler.Logout))
	}
}

// ========================================
// ABOUT ROUTES
// ========================================
func setupAboutRoutes(r *gin.Engine, c *container.Container) {
	about := r.Group("/about")
	{
		about.GET("/author/", web.Handle(c.AboutHandler.Author))
		about.GET("/tech/", web.Handle(c.AboutHandler.Tech))
	}
}

// ========================================
// POST ROUTES
// ========================================
// Static segments (/new/, /follow/, /group/) are registered next to the
// :username wildcard; gin prefers static routes.
func setupPostRoutes(r *gin.Engine, c *container.Container) {
	loginRequired := middleware.LoginRequired(c.Config.Auth.LoginURL)
	feed := c.FeedHandler

	r.GET("/",
		middleware.CachePage(c.Cache, middleware.IndexPageKey, c.Config.Cache.PageCacheTTL),
		web.Handle(feed.Index),
	)
	r.GET("/group/:slug/", web.Handle(feed.Group))

	r.GET("/new/", loginRequired, web.Handle(c.PostHandler.NewPost))
	r.POST("/new/", loginRequired, web.LimitUploads(c.Config.Image.MaxBytes), web.Handle(c.PostHandler.NewPost))
	r.GET("/follow/", loginRequired, web.Handle(feed.Follow))

	r.GET("/:username/", web.Handle(feed.Profile))
	r.POST("/:username/follow/", loginRequired, web.Handle(c.FollowHandler.Follow))
	r.POST("/:username/unfollow/", loginRequired, web.Handle(c.FollowHandler.Unfollow))

	r.GET("/:username/:post_id/", web.Handle(feed.Post))
	r.GET("/:username/:post_id/edit/", loginRequired, web.Handle(c.PostHandler.Edit))
	r.POST("/:username/:post_id/edit/", loginRequired, web.Handle(c.PostHandler.Edit))
	r.POST("/:username/:post_id/comment/", loginRequired, web.Handle(c.CommentHandler.Add))
}

// pageNotFound answers unmatched URLs in the same envelope as handler 404s.
func pageNotFound(ctx *gin.Context) {
	response.ErrorWithDetails(ctx, http.StatusNotFound, "NOT_FOUND", "Page not found",
		gin.H{"path": ctx.Request.URL.Path})
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := gin.H{}

		if c.DB != nil {
			if err := c.DB.HealthCheck(checkCtx); err != nil {
				status = http.StatusServiceUnavailable
				checks["database"] = err.Error()
			} else {
				checks["database"] = "ok"
			}
		}

		if err := c.Cache.Ping(checkCtx); err != nil {
			status = http.StatusServiceUnavailable
			checks["cache"] = err.Error()
		} else {
			checks["cache"] = "ok"
		}

		body := gin.H{"version": c.Config.App.Version, "checks": checks}
		if status != http.StatusOK {
			response.ServiceUnavailable(ctx, "Dependency check failed", body)
			return
		}
		response.Success(ctx, status, body)
	}
}
