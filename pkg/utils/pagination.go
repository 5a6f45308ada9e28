package utils

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// CursorParams carries an opaque cursor (the id of the last document the
// caller has seen) and the page size.
type CursorParams struct {
	Cursor string
	Limit  int
}

// PaginationParams represents offset pagination, used by the local inbox.
type PaginationParams struct {
	Page     int
	PageSize int
	Offset   int
}

// GetCursorParams extracts cursor pagination parameters from request
func GetCursorParams(c echo.Context) CursorParams {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return CursorParams{
		Cursor: c.QueryParam("cursor"),
		Limit:  ClampLimit(limit),
	}
}

// GetPaginationParams extracts pagination parameters from request
func GetPaginationParams(c echo.Context) PaginationParams {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("limit"))

	if page <= 0 {
		page = 1
	}
	pageSize = ClampLimit(pageSize)

	return PaginationParams{
		Page:     page,
		PageSize: pageSize,
		Offset:   (page - 1) * pageSize,
	}
}

func ClampLimit(limit int) int {
	if limit <= 0 || limit > MaxPageSize {
		return DefaultPageSize
	}
	return limit
}
