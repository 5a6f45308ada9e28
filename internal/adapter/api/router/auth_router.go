package router

import (
	"github.com/labstack/echo/v4"

	"medconnect/internal/adapter/api/handler"
	"medconnect/internal/adapter/api/middleware"
	"medconnect/internal/infrastructure/ratelimit"
)

func SetupAuthRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimit *middleware.RateLimitMiddleware) {
	authHandler := handler.GetAuthHandler()

	// Public routes
	public := e.Group("/v1/auth")
	public.Use(rateLimit.Limit(ratelimit.ActionAuth))

	public.POST("/register", authHandler.Register)
	public.POST("/login", authHandler.Login)
	public.POST("/refresh", authHandler.RefreshToken)
	public.POST("/password-reset", authHandler.SendPasswordReset)

	// Protected routes
	protected := e.Group("/v1/auth")
	protected.Use(authMiddleware.Authenticate)

	protected.PUT("/password", authHandler.UpdatePassword, rateLimit.Limit(ratelimit.ActionAuth))
	protected.PUT("/email", authHandler.UpdateEmail, rateLimit.Limit(ratelimit.ActionAuth))
	protected.GET("/providers", authHandler.Providers)
	protected.DELETE("/account", authHandler.DeleteAccount, rateLimit.Limit(ratelimit.ActionAuth))
}
