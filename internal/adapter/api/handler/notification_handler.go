package handler

import (
	"github.com/labstack/echo/v4"

	"medconnect/internal/usecase"
	"medconnect/pkg/response"
	"medconnect/pkg/utils"
)

type NotificationHandler struct {
	notificationUseCase *usecase.NotificationUseCase
}

func NewNotificationHandler(notificationUseCase *usecase.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
	}
}

func (h *NotificationHandler) List(c echo.Context) error {
	p := utils.GetCursorParams(c)
	page, err := h.notificationUseCase.List(c.Request().Context(), currentUser(c), p.Cursor, p.Limit)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Cursor(c, page.Items, page.NextCursor)
}

func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	count, err := h.notificationUseCase.UnreadCount(c.Request().Context(), currentUser(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]int64{
		"unread": count,
	})
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	if err := h.notificationUseCase.MarkRead(c.Request().Context(), currentUser(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Notification marked as read",
	})
}

func (h *NotificationHandler) Delete(c echo.Context) error {
	if err := h.notificationUseCase.Delete(c.Request().Context(), currentUser(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Notification deleted",
	})
}

// Sync pulls everything newer than the local inbox's latest entry.
func (h *NotificationHandler) Sync(c echo.Context) error {
	synced, err := h.notificationUseCase.Sync(c.Request().Context(), currentUser(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]int{
		"synced": synced,
	})
}

func (h *NotificationHandler) LocalList(c echo.Context) error {
	p := utils.GetPaginationParams(c)
	items, total, err := h.notificationUseCase.LocalList(c.Request().Context(), currentUser(c), p.PageSize, p.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, items, total, p.Page, p.PageSize)
}

func (h *NotificationHandler) LocalBadge(c echo.Context) error {
	count, err := h.notificationUseCase.LocalBadge(c.Request().Context(), currentUser(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]int64{
		"unread": count,
	})
}
