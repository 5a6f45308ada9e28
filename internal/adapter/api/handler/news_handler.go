package handler

import (
	"github.com/labstack/echo/v4"

	"medconnect/internal/usecase"
	"medconnect/pkg/response"
	"medconnect/pkg/utils"
)

type NewsHandler struct {
	newsUseCase *usecase.NewsUseCase
}

func NewNewsHandler(newsUseCase *usecase.NewsUseCase) *NewsHandler {
	return &NewsHandler{
		newsUseCase: newsUseCase,
	}
}

func (h *NewsHandler) List(c echo.Context) error {
	p := utils.GetCursorParams(c)
	page, err := h.newsUseCase.List(c.Request().Context(), c.QueryParam("category"), p.Cursor, p.Limit)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Cursor(c, page.Items, page.NextCursor)
}

func (h *NewsHandler) Get(c echo.Context) error {
	news, err := h.newsUseCase.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, news)
}
