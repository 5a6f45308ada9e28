package handler

import (
	"github.com/labstack/echo/v4"

	"medconnect/internal/adapter/api/middleware"
	"medconnect/internal/usecase"
	"medconnect/pkg/errors"
)

// UseCases is everything the HTTP surface calls into.
type UseCases struct {
	Auth         *usecase.AuthUseCase
	User         *usecase.UserUseCase
	Post         *usecase.PostUseCase
	Case         *usecase.CaseUseCase
	Comment      *usecase.CommentUseCase
	Connection   *usecase.ConnectionUseCase
	Follow       *usecase.FollowUseCase
	Block        *usecase.BlockUseCase
	Group        *usecase.GroupUseCase
	Notification *usecase.NotificationUseCase
	News         *usecase.NewsUseCase
	Search       *usecase.SearchUseCase
	Chat         *usecase.ChatUseCase
	Profile      *usecase.ProfileUseCase
}

var (
	authHandler         *AuthHandler
	userHandler         *UserHandler
	contentHandler      *ContentHandler
	commentHandler      *CommentHandler
	relationshipHandler *RelationshipHandler
	groupHandler        *GroupHandler
	notificationHandler *NotificationHandler
	newsHandler         *NewsHandler
	searchHandler       *SearchHandler
	chatHandler         *ChatHandler
	profileHandler      *ProfileHandler
)

func Setup(uc UseCases) {
	authHandler = NewAuthHandler(uc.Auth)
	userHandler = NewUserHandler(uc.User)
	contentHandler = NewContentHandler(uc.Post, uc.Case)
	commentHandler = NewCommentHandler(uc.Comment)
	relationshipHandler = NewRelationshipHandler(uc.Connection, uc.Follow, uc.Block)
	groupHandler = NewGroupHandler(uc.Group, uc.Post, uc.Case)
	notificationHandler = NewNotificationHandler(uc.Notification)
	newsHandler = NewNewsHandler(uc.News)
	searchHandler = NewSearchHandler(uc.Search)
	chatHandler = NewChatHandler(uc.Chat)
	profileHandler = NewProfileHandler(uc.Profile)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetContentHandler() *ContentHandler {
	return contentHandler
}

func GetCommentHandler() *CommentHandler {
	return commentHandler
}

func GetRelationshipHandler() *RelationshipHandler {
	return relationshipHandler
}

func GetGroupHandler() *GroupHandler {
	return groupHandler
}

func GetNotificationHandler() *NotificationHandler {
	return notificationHandler
}

func GetNewsHandler() *NewsHandler {
	return newsHandler
}

func GetSearchHandler() *SearchHandler {
	return searchHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func GetProfileHandler() *ProfileHandler {
	return profileHandler
}

// currentUser is the uid set by the auth middleware.
func currentUser(c echo.Context) string {
	uid, _ := c.Get(middleware.ContextUID).(string)
	return uid
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.BadRequest("Invalid request body", err)
	}
	return c.Validate(req)
}
