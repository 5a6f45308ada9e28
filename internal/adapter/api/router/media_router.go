package router

import (
	"github.com/labstack/echo/v4"

	"medconnect/internal/adapter/api/handler"
	"medconnect/internal/adapter/api/middleware"
)

func SetupMediaRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	mediaHandler := handler.GetMediaHandler()
	e.GET("/v1/media", mediaHandler.Get, authMiddleware.Authenticate)
}
