package router

import (
	"github.com/labstack/echo/v4"

	"medconnect/internal/adapter/api/handler"
	"medconnect/internal/adapter/api/middleware"
	"medconnect/internal/infrastructure/ratelimit"
)

func SetupConversationRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimit *middleware.RateLimitMiddleware) {
	chatHandler := handler.GetChatHandler()
	send := rateLimit.Limit(ratelimit.ActionMessage)

	conversations := e.Group("/v1/conversations")
	conversations.Use(authMiddleware.Authenticate)

	conversations.GET("", chatHandler.ListConversations)
	conversations.POST("/sync", chatHandler.Sync)
	conversations.GET("/local", chatHandler.LocalConversations)
	conversations.GET("/local/:id/messages", chatHandler.LocalMessages)
	conversations.GET("/:id/messages", chatHandler.Messages)
	conversations.POST("/:id/synced", chatHandler.MarkSynced)

	conversations.POST("/with/:userId/messages", chatHandler.SendMessage, send)
	conversations.POST("/with/:userId/images", chatHandler.SendImage, send)
}
