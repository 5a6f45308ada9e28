package router

import (
	"github.com/labstack/echo/v4"

	"medconnect/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware, rateLimit *middleware.RateLimitMiddleware) {
	SetupHealthRouter(e)
	SetupAuthRouter(e, authMiddleware, rateLimit)
	SetupUserRouter(e, authMiddleware)
	SetupAdminRouter(e, authMiddleware, adminMiddleware)
	SetupContentRouter(e, authMiddleware, rateLimit)
	SetupRelationshipRouter(e, authMiddleware, rateLimit)
	SetupGroupRouter(e, authMiddleware, rateLimit)
	SetupNotificationRouter(e, authMiddleware)
	SetupNewsRouter(e, authMiddleware)
	SetupSearchRouter(e, authMiddleware)
	SetupConversationRouter(e, authMiddleware, rateLimit)
	SetupProfileRouter(e, authMiddleware)
	SetupMediaRouter(e, authMiddleware)
}
