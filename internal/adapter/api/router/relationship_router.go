package router

import (
	"github.com/labstack/echo/v4"

	"medconnect/internal/adapter/api/handler"
	"medconnect/internal/adapter/api/middleware"
	"medconnect/internal/infrastructure/ratelimit"
)

func SetupRelationshipRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimit *middleware.RateLimitMiddleware) {
	relationshipHandler := handler.GetRelationshipHandler()
	request := rateLimit.Limit(ratelimit.ActionRequest)

	connections := e.Group("/v1/connections")
	connections.Use(authMiddleware.Authenticate)

	connections.GET("", relationshipHandler.ListConnections)
	connections.GET("/count", relationshipHandler.CountConnections)
	connections.GET("/:id", relationshipHandler.ConnectionPhase)
	connections.POST("/:id", relationshipHandler.Connect, request)
	connections.POST("/:id/accept", relationshipHandler.Accept)
	connections.POST("/:id/reject", relationshipHandler.Reject)
	connections.POST("/:id/withdraw", relationshipHandler.Withdraw)
	connections.DELETE("/:id", relationshipHandler.Unconnect)

	follows := e.Group("/v1/follows")
	follows.Use(authMiddleware.Authenticate)

	follows.GET("/:id", relationshipHandler.IsFollowing)
	follows.POST("/:id", relationshipHandler.Follow, request)
	follows.DELETE("/:id", relationshipHandler.Unfollow)

	blocks := e.Group("/v1/blocks")
	blocks.Use(authMiddleware.Authenticate)

	blocks.GET("", relationshipHandler.ListBlocks)
	blocks.GET("/:id", relationshipHandler.IsBlocked)
	blocks.POST("/:id", relationshipHandler.Block)
	blocks.DELETE("/:id", relationshipHandler.Unblock)
}
