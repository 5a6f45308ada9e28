package router

import (
	"github.com/labstack/echo/v4"

	"medconnect/internal/adapter/api/handler"
	"medconnect/internal/adapter/api/middleware"
	"medconnect/internal/infrastructure/ratelimit"
)

func SetupGroupRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimit *middleware.RateLimitMiddleware) {
	groupHandler := handler.GetGroupHandler()

	groups := e.Group("/v1/groups")
	groups.Use(authMiddleware.Authenticate)

	groups.GET("", groupHandler.ListPublic)
	groups.POST("", groupHandler.Create, rateLimit.Limit(ratelimit.ActionCreate))
	groups.GET("/mine", groupHandler.Mine)
	groups.GET("/:id", groupHandler.Get)
	groups.POST("/:id/join", groupHandler.Join, rateLimit.Limit(ratelimit.ActionRequest))
	groups.POST("/:id/leave", groupHandler.Leave)
	groups.GET("/:id/members", groupHandler.Members)
	groups.POST("/:id/members/:uid/accept", groupHandler.AcceptMember)
	groups.POST("/:id/members/:uid/ban", groupHandler.Ban)
	groups.GET("/:id/posts", groupHandler.Posts)
	groups.GET("/:id/cases", groupHandler.Cases)
}
