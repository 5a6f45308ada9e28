package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"medconnect/internal/infrastructure/search"
	"medconnect/internal/usecase"
	"medconnect/pkg/response"
	"medconnect/pkg/utils"
)

type SearchHandler struct {
	searchUseCase *usecase.SearchUseCase
}

func NewSearchHandler(searchUseCase *usecase.SearchUseCase) *SearchHandler {
	return &SearchHandler{
		searchUseCase: searchUseCase,
	}
}

type recentSearchRequest struct {
	Term   string `json:"term" validate:"required_without=UserID"`
	UserID string `json:"user_id"`
}

// Search takes ?scope=users|posts|cases&q=term&page=0. Pages start at zero.
func (h *SearchHandler) Search(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.searchUseCase.Search(
		c.Request().Context(),
		currentUser(c),
		search.Scope(c.QueryParam("scope")),
		c.QueryParam("q"),
		page,
		utils.ClampLimit(limit),
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func (h *SearchHandler) Recents(c echo.Context) error {
	recents, err := h.searchUseCase.Recents(c.Request().Context(), currentUser(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, recents)
}

func (h *SearchHandler) AddRecent(c echo.Context) error {
	var req recentSearchRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	recent, err := h.searchUseCase.AddRecent(c.Request().Context(), currentUser(c), req.Term, req.UserID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, recent)
}

func (h *SearchHandler) DeleteRecent(c echo.Context) error {
	if err := h.searchUseCase.DeleteRecent(c.Request().Context(), currentUser(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Recent search deleted",
	})
}

func (h *SearchHandler) ClearRecents(c echo.Context) error {
	if err := h.searchUseCase.ClearRecents(c.Request().Context(), currentUser(c)); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Recent searches cleared",
	})
}
