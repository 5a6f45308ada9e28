package router

import (
	"github.com/labstack/echo/v4"

	"medconnect/internal/adapter/api/handler"
	"medconnect/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	userHandler := handler.GetUserHandler()
	contentHandler := handler.GetContentHandler()
	relationshipHandler := handler.GetRelationshipHandler()

	users := e.Group("/v1/users")
	users.Use(authMiddleware.Authenticate)

	users.GET("/me", userHandler.GetMe)
	users.PATCH("/me", userHandler.UpdateProfile)
	users.PUT("/me/phase", userHandler.UpdatePhase)
	users.PUT("/me/image", userHandler.UploadProfileImage)
	users.PUT("/me/banner", userHandler.UploadBannerImage)
	users.GET("/me/bookmarks/posts", contentHandler.BookmarkedPosts)
	users.GET("/me/bookmarks/cases", contentHandler.BookmarkedCases)
	users.GET("/suggestions", userHandler.Suggestions)

	users.GET("", userHandler.GetUsers)
	users.GET("/:id", userHandler.GetUser)
	users.GET("/:id/stats", userHandler.GetStats)
	users.GET("/:id/posts", contentHandler.UserPosts)
	users.GET("/:id/cases", contentHandler.UserCases)
	users.GET("/:id/following", relationshipHandler.Following)
	users.GET("/:id/followers", relationshipHandler.Followers)
	users.GET("/:id/connections/count", relationshipHandler.CountConnections)
}
