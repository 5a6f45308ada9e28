package handler

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"medconnect/internal/domain/entity"
	"medconnect/internal/usecase"
	"medconnect/pkg/errors"
	"medconnect/pkg/logger"
	"medconnect/pkg/response"
	"medconnect/pkg/utils"
)

const maxImageSize = 10 * 1024 * 1024

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

type updateProfileRequest struct {
	FirstName  string   `json:"first_name" validate:"required"`
	LastName   string   `json:"last_name"`
	Profession string   `json:"profession"`
	Speciality string   `json:"speciality"`
	Country    string   `json:"country"`
	City       string   `json:"city"`
	Biography  string   `json:"biography" validate:"max=2000"`
	Website    string   `json:"website" validate:"omitempty,url"`
	Hobbies    []string `json:"hobbies"`
}

type updatePhaseRequest struct {
	Phase string `json:"phase" validate:"required,oneof=onboarding awaitingVerification verified deactivated"`
}

func (h *UserHandler) GetMe(c echo.Context) error {
	user, err := h.userUseCase.Profile(c.Request().Context(), currentUser(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.userUseCase.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

// GetUsers takes a comma separated ids query parameter.
func (h *UserHandler) GetUsers(c echo.Context) error {
	var ids []string
	for _, id := range strings.Split(c.QueryParam("ids"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return response.Error(c, errors.BadRequest("ids is required", nil))
	}

	users, err := h.userUseCase.GetUsers(c.Request().Context(), ids)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, users)
}

func (h *UserHandler) GetStats(c echo.Context) error {
	stats, err := h.userUseCase.FetchStats(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, stats)
}

func (h *UserHandler) Suggestions(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = 10
	}
	limit = min(limit, utils.MaxPageSize)

	users, err := h.userUseCase.Suggestions(c.Request().Context(), currentUser(c), c.QueryParam("profession"), limit)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, users)
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.UpdateProfile(c.Request().Context(), currentUser(c), usecase.UpdateProfileInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Profession: req.Profession,
		Speciality: req.Speciality,
		Country:    req.Country,
		City:       req.City,
		Biography:  req.Biography,
		Website:    req.Website,
		Hobbies:    req.Hobbies,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) UpdatePhase(c echo.Context) error {
	var req updatePhaseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	if err := h.userUseCase.UpdatePhase(c.Request().Context(), currentUser(c), entity.UserPhase(req.Phase)); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"phase": req.Phase,
	})
}

// VerifyUser is mounted behind the admin middleware.
func (h *UserHandler) VerifyUser(c echo.Context) error {
	if err := h.userUseCase.Verify(c.Request().Context(), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"user_id": c.Param("id"),
		"phase":   string(entity.UserPhaseVerified),
	})
}

func (h *UserHandler) UploadProfileImage(c echo.Context) error {
	return h.uploadImage(c, h.userUseCase.UploadProfileImage)
}

func (h *UserHandler) UploadBannerImage(c echo.Context) error {
	return h.uploadImage(c, h.userUseCase.UploadBannerImage)
}

func (h *UserHandler) uploadImage(c echo.Context, upload imageUpload) error {
	uid := currentUser(c)
	src, contentType, err := formImage(c, "file")
	if err != nil {
		return response.Error(c, err)
	}
	defer src.Close()

	url, err := upload(c.Request().Context(), uid, src, contentType)
	if err != nil {
		logger.Error("Image upload failed for user %s: %v", uid, err)
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"url": url,
	})
}
