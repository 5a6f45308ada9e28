package router

import (
	"github.com/labstack/echo/v4"

	"medconnect/internal/adapter/api/handler"
	"medconnect/internal/adapter/api/middleware"
	"medconnect/internal/domain/entity"
	"medconnect/internal/infrastructure/ratelimit"
)

func SetupContentRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimit *middleware.RateLimitMiddleware) {
	contentHandler := handler.GetContentHandler()
	commentHandler := handler.GetCommentHandler()

	create := rateLimit.Limit(ratelimit.ActionCreate)
	toggle := rateLimit.Limit(ratelimit.ActionToggle)

	posts := e.Group("/v1/posts")
	posts.Use(authMiddleware.Authenticate)

	posts.GET("", contentHandler.PostFeed)
	posts.POST("", contentHandler.CreatePost, create)
	posts.GET("/:id", contentHandler.GetPost)
	posts.PATCH("/:id", contentHandler.EditPost)
	posts.DELETE("/:id", contentHandler.DeletePost)
	posts.POST("/:id/hide", contentHandler.HidePost)
	posts.POST("/:id/approve", contentHandler.ApprovePost)
	posts.PUT("/:id/like", contentHandler.LikePost, toggle)
	posts.PUT("/:id/bookmark", contentHandler.BookmarkPost, toggle)

	cases := e.Group("/v1/cases")
	cases.Use(authMiddleware.Authenticate)

	cases.GET("", contentHandler.CaseFeed)
	cases.POST("", contentHandler.CreateCase, create)
	cases.GET("/:id", contentHandler.GetCase)
	cases.DELETE("/:id", contentHandler.DeleteCase)
	cases.POST("/:id/hide", contentHandler.HideCase)
	cases.POST("/:id/approve", contentHandler.ApproveCase)
	cases.POST("/:id/solve", contentHandler.SolveCase)
	cases.POST("/:id/revisions", contentHandler.AddCaseRevision)
	cases.PUT("/:id/like", contentHandler.LikeCase, toggle)
	cases.PUT("/:id/bookmark", contentHandler.BookmarkCase, toggle)

	setupCommentRoutes(posts, commentHandler, entity.ContentPost, rateLimit)
	setupCommentRoutes(cases, commentHandler, entity.ContentCase, rateLimit)
}

func setupCommentRoutes(g *echo.Group, h *handler.CommentHandler, kind entity.ContentKind, rateLimit *middleware.RateLimitMiddleware) {
	comment := rateLimit.Limit(ratelimit.ActionComment)
	toggle := rateLimit.Limit(ratelimit.ActionToggle)

	g.GET("/:id/comments", h.List(kind))
	g.POST("/:id/comments", h.Add(kind), comment)
	g.DELETE("/:id/comments/:commentId", h.Delete(kind))
	g.PUT("/:id/comments/:commentId/like", h.Like(kind), toggle)

	g.GET("/:id/comments/:commentId/replies", h.List(kind))
	g.POST("/:id/comments/:commentId/replies", h.Add(kind), comment)
	g.DELETE("/:id/comments/:commentId/replies/:replyId", h.Delete(kind))
	g.PUT("/:id/comments/:commentId/replies/:replyId/like", h.Like(kind), toggle)
}
