package router

import (
	"github.com/labstack/echo/v4"

	"medconnect/internal/adapter/api/handler"
	"medconnect/internal/adapter/api/middleware"
)

func SetupSearchRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	searchHandler := handler.GetSearchHandler()

	search := e.Group("/v1/search")
	search.Use(authMiddleware.Authenticate)

	search.GET("", searchHandler.Search)
	search.GET("/recent", searchHandler.Recents)
	search.POST("/recent", searchHandler.AddRecent)
	search.DELETE("/recent", searchHandler.ClearRecents)
	search.DELETE("/recent/:id", searchHandler.DeleteRecent)
}
