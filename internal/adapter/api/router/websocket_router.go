package router

import (
	"github.com/labstack/echo/v4"

	"medconnect/internal/adapter/api/handler"
	"medconnect/internal/adapter/api/middleware"
)

// SetupWebSocketRouter mounts the realtime channel. Browsers cannot set
// headers on an upgrade, so the middleware also reads ?access_token=.
func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler, authMiddleware *middleware.AuthMiddleware) {
	e.GET("/v1/ws", wsHandler.HandleWebSocket, authMiddleware.Authenticate)
	e.GET("/v1/users/:id/presence", wsHandler.Presence, authMiddleware.Authenticate)
}
