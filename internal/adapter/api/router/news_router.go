package router

import (
	"github.com/labstack/echo/v4"

	"medconnect/internal/adapter/api/handler"
	"medconnect/internal/adapter/api/middleware"
)

func SetupNewsRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	newsHandler := handler.GetNewsHandler()

	news := e.Group("/v1/news")
	news.Use(authMiddleware.Authenticate)

	news.GET("", newsHandler.List)
	news.GET("/:id", newsHandler.Get)
}
