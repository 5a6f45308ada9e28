package router

import (
	"github.com/labstack/echo/v4"

	"medconnect/internal/adapter/api/handler"
	"medconnect/internal/adapter/api/middleware"
)

func SetupAdminRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	userHandler := handler.GetUserHandler()

	admin := e.Group("/v1/admin")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)

	admin.PUT("/users/:id/verify", userHandler.VerifyUser)
}
