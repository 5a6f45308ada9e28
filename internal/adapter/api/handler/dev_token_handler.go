package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"medconnect/internal/domain/entity"
	"medconnect/pkg/errors"
	"medconnect/pkg/response"
)

// SessionMinter exchanges a uid for a signed-in session without a password.
type SessionMinter interface {
	DevSession(ctx context.Context, uid string) (*entity.Session, error)
}

type DevTokenHandler struct {
	minter SessionMinter
}

var devTokenHandler *DevTokenHandler

func NewDevTokenHandler(minter SessionMinter) *DevTokenHandler {
	return &DevTokenHandler{
		minter: minter,
	}
}

func SetupDevTokenHandler(minter SessionMinter) {
	devTokenHandler = NewDevTokenHandler(minter)
}

func GetDevTokenHandler() *DevTokenHandler {
	return devTokenHandler
}

// GenerateToken signs in as :uid. Development only.
func (h *DevTokenHandler) GenerateToken(c echo.Context) error {
	uid := c.Param("uid")
	if uid == "" {
		return response.Error(c, errors.BadRequest("uid is required", nil))
	}

	session, err := h.minter.DevSession(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, session)
}
