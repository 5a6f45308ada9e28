package handler

import (
	"github.com/labstack/echo/v4"

	"medconnect/internal/domain/entity"
	"medconnect/internal/usecase"
	"medconnect/pkg/response"
)

type ProfileHandler struct {
	profileUseCase *usecase.ProfileUseCase
}

func NewProfileHandler(profileUseCase *usecase.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: profileUseCase,
	}
}

type profileItemRequest struct {
	ID           string   `json:"id"`
	Title        string   `json:"title" validate:"required,max=200"`
	Organization string   `json:"organization"`
	Degree       string   `json:"degree"`
	Level        string   `json:"level"`
	Code         string   `json:"code"`
	URL          string   `json:"url" validate:"omitempty,url"`
	Contributors []string `json:"contributors"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
}

// List reads another user's section when ?uid= is given.
func (h *ProfileHandler) List(c echo.Context) error {
	uid := c.QueryParam("uid")
	if uid == "" {
		uid = currentUser(c)
	}

	items, err := h.profileUseCase.List(c.Request().Context(), uid, entity.ProfileSection(c.Param("section")))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, items)
}

func (h *ProfileHandler) Save(c echo.Context) error {
	var req profileItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	item, err := h.profileUseCase.Save(c.Request().Context(), currentUser(c), entity.ProfileSection(c.Param("section")), &entity.ProfileItem{
		ID:           req.ID,
		Title:        req.Title,
		Organization: req.Organization,
		Degree:       req.Degree,
		Level:        req.Level,
		Code:         req.Code,
		URL:          req.URL,
		Contributors: req.Contributors,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, item)
}

func (h *ProfileHandler) Delete(c echo.Context) error {
	err := h.profileUseCase.Delete(c.Request().Context(), currentUser(c), entity.ProfileSection(c.Param("section")), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Item deleted",
	})
}
