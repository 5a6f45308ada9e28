package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"medconnect/pkg/errors"
	"medconnect/pkg/response"
)

type AdminChecker interface {
	IsAdmin(ctx context.Context, uid string) (bool, error)
}

type AdminMiddleware struct {
	checker AdminChecker
}

func NewAdminMiddleware(checker AdminChecker) *AdminMiddleware {
	return &AdminMiddleware{
		checker: checker,
	}
}

// AdminOnly must run after Authenticate.
func (m *AdminMiddleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, ok := c.Get(ContextUID).(string)
		if !ok || uid == "" {
			return response.Error(c, errors.Unauthorized("Authentication required", nil))
		}

		isAdmin, err := m.checker.IsAdmin(c.Request().Context(), uid)
		if err != nil {
			return response.Error(c, err)
		}
		if !isAdmin {
			return response.Error(c, errors.Forbidden("Admin privileges required", nil))
		}

		return next(c)
	}
}
