package usecase

import (
	"context"
	"io"

	"medconnect/internal/domain/entity"
	"medconnect/internal/infrastructure/search"
	"medconnect/internal/infrastructure/storage"
)

type AuthProvider interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	VerifyToken(ctx context.Context, token string) (string, error)
	SignIn(ctx context.Context, email, password string) (*entity.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*entity.Session, error)
	UpdatePassword(ctx context.Context, uid, newPassword string) error
	UpdateEmail(ctx context.Context, uid, email string) error
	SendPasswordReset(ctx context.Context, email string) error
	Providers(ctx context.Context, uid string) ([]string, error)
	Disable(ctx context.Context, uid string) error
}

// FunctionCaller triggers server-side notification fan-out. Calls never
// report back.
type FunctionCaller interface {
	Call(name string, args interface{}, idToken string)
}

type Reachability interface {
	Require() error
}

type Broadcaster interface {
	Publish(userID, eventType string, data interface{})
}

type ImageUploader interface {
	UploadImage(ctx context.Context, kind entity.ImageKind, id string, r io.Reader, contentType string) (string, error)
	UploadImages(ctx context.Context, kind entity.ImageKind, id string, files []storage.Upload) ([]string, error)
	Delete(ctx context.Context, url string) error
}

type Searcher interface {
	Search(ctx context.Context, scope search.Scope, term string, page, hitsPerPage int) (*search.Result, error)
}

// Server-side functions that synthesize notifications.
const (
	FnPostLike          = "addNotificationOnPostLike"
	FnCaseLike          = "addNotificationOnCaseLike"
	FnPostReply         = "addNotificationOnPostReply"
	FnCaseReply         = "addNotificationOnCaseReply"
	FnCommentLike       = "addNotificationOnCommentLike"
	FnConnectionRequest = "addNotificationOnConnectionRequest"
	FnConnectionAccept  = "addNotificationOnConnectionAccept"
	FnFollow            = "addNotificationOnFollow"
	FnCaseRevision      = "addNotificationOnCaseRevision"
	FnCaseSolved        = "addNotificationOnCaseSolved"
	FnGroupRequest      = "addNotificationOnGroupRequest"
	FnGroupAccept       = "addNotificationOnGroupAccept"
)
