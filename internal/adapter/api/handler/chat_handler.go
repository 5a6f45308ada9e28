package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"medconnect/internal/domain/entity"
	"medconnect/internal/usecase"
	"medconnect/pkg/response"
	"medconnect/pkg/utils"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type sendMessageRequest struct {
	Text string `json:"text" validate:"required,max=4000"`
}

func (h *ChatHandler) ListConversations(c echo.Context) error {
	conversations, err := h.chatUseCase.ListConversations(c.Request().Context(), currentUser(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, conversations)
}

// Messages pages backwards with ?before=<ms timestamp>&before_id=<message id>.
func (h *ChatHandler) Messages(c echo.Context) error {
	var cursor entity.MessageCursor
	if before := c.QueryParam("before"); before != "" {
		ts, err := strconv.ParseInt(before, 10, 64)
		if err == nil {
			cursor = entity.MessageCursor{Timestamp: ts, ID: c.QueryParam("before_id")}
		}
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	messages, err := h.chatUseCase.Messages(c.Request().Context(), currentUser(c), c.Param("id"), cursor, utils.ClampLimit(limit))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}

// SendMessage addresses the peer by user id; the conversation id is derived.
func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), currentUser(c), c.Param("userId"), req.Text)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

func (h *ChatHandler) SendImage(c echo.Context) error {
	src, contentType, err := formImage(c, "file")
	if err != nil {
		return response.Error(c, err)
	}
	defer src.Close()

	message, err := h.chatUseCase.SendImage(c.Request().Context(), currentUser(c), c.Param("userId"), src, contentType)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

func (h *ChatHandler) MarkSynced(c echo.Context) error {
	if err := h.chatUseCase.MarkSynced(c.Request().Context(), currentUser(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Conversation synced",
	})
}

// Sync copies unsynced conversations into the local store.
func (h *ChatHandler) Sync(c echo.Context) error {
	synced, err := h.chatUseCase.SyncConversations(c.Request().Context(), currentUser(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]int{
		"synced": synced,
	})
}

func (h *ChatHandler) LocalConversations(c echo.Context) error {
	conversations, err := h.chatUseCase.LocalConversations(c.Request().Context(), currentUser(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, conversations)
}

func (h *ChatHandler) LocalMessages(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	messages, err := h.chatUseCase.LocalMessages(c.Request().Context(), c.Param("id"), utils.ClampLimit(limit))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}
