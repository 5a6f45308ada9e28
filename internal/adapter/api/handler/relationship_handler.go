package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"medconnect/internal/domain/entity"
	"medconnect/internal/usecase"
	"medconnect/pkg/response"
	"medconnect/pkg/utils"
)

// RelationshipHandler covers connections, follows and blocks. Every route
// names the other user as :id.
type RelationshipHandler struct {
	connectionUseCase *usecase.ConnectionUseCase
	followUseCase     *usecase.FollowUseCase
	blockUseCase      *usecase.BlockUseCase
}

func NewRelationshipHandler(
	connectionUseCase *usecase.ConnectionUseCase,
	followUseCase *usecase.FollowUseCase,
	blockUseCase *usecase.BlockUseCase,
) *RelationshipHandler {
	return &RelationshipHandler{
		connectionUseCase: connectionUseCase,
		followUseCase:     followUseCase,
		blockUseCase:      blockUseCase,
	}
}

func (h *RelationshipHandler) ListConnections(c echo.Context) error {
	phase := entity.ConnectionPhase(c.QueryParam("phase"))
	p := utils.GetCursorParams(c)

	page, err := h.connectionUseCase.List(c.Request().Context(), currentUser(c), phase, p.Cursor, p.Limit)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Cursor(c, page.Items, page.NextCursor)
}

func (h *RelationshipHandler) CountConnections(c echo.Context) error {
	uid := c.Param("id")
	if uid == "" {
		uid = currentUser(c)
	}

	count, err := h.connectionUseCase.Count(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]int64{
		"count": count,
	})
}

func (h *RelationshipHandler) ConnectionPhase(c echo.Context) error {
	phase, err := h.connectionUseCase.Phase(c.Request().Context(), currentUser(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"phase": string(phase),
	})
}

func (h *RelationshipHandler) Connect(c echo.Context) error {
	return h.connectionAction(c, h.connectionUseCase.Connect)
}

func (h *RelationshipHandler) Accept(c echo.Context) error {
	return h.connectionAction(c, h.connectionUseCase.Accept)
}

func (h *RelationshipHandler) Reject(c echo.Context) error {
	return h.connectionAction(c, h.connectionUseCase.Reject)
}

func (h *RelationshipHandler) Withdraw(c echo.Context) error {
	return h.connectionAction(c, h.connectionUseCase.Withdraw)
}

func (h *RelationshipHandler) Unconnect(c echo.Context) error {
	return h.connectionAction(c, h.connectionUseCase.Unconnect)
}

// connectionAction runs a transition and answers with the phase it left.
func (h *RelationshipHandler) connectionAction(c echo.Context, action func(ctx context.Context, uid, otherID string) error) error {
	ctx := c.Request().Context()
	uid, otherID := currentUser(c), c.Param("id")

	if err := action(ctx, uid, otherID); err != nil {
		return response.Error(c, err)
	}

	phase, err := h.connectionUseCase.Phase(ctx, uid, otherID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"user_id": otherID,
		"phase":   string(phase),
	})
}

func (h *RelationshipHandler) Follow(c echo.Context) error {
	if err := h.followUseCase.Follow(c.Request().Context(), currentUser(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{
		"following": true,
	})
}

func (h *RelationshipHandler) Unfollow(c echo.Context) error {
	if err := h.followUseCase.Unfollow(c.Request().Context(), currentUser(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{
		"following": false,
	})
}

func (h *RelationshipHandler) IsFollowing(c echo.Context) error {
	following, err := h.followUseCase.IsFollowing(c.Request().Context(), currentUser(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{
		"following": following,
	})
}

func (h *RelationshipHandler) Following(c echo.Context) error {
	p := utils.GetCursorParams(c)
	page, err := h.followUseCase.Following(c.Request().Context(), c.Param("id"), p.Cursor, p.Limit)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Cursor(c, page.Items, page.NextCursor)
}

func (h *RelationshipHandler) Followers(c echo.Context) error {
	p := utils.GetCursorParams(c)
	page, err := h.followUseCase.Followers(c.Request().Context(), c.Param("id"), p.Cursor, p.Limit)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Cursor(c, page.Items, page.NextCursor)
}

func (h *RelationshipHandler) Block(c echo.Context) error {
	if err := h.blockUseCase.Block(c.Request().Context(), currentUser(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{
		"blocked": true,
	})
}

func (h *RelationshipHandler) Unblock(c echo.Context) error {
	if err := h.blockUseCase.Unblock(c.Request().Context(), currentUser(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{
		"blocked": false,
	})
}

func (h *RelationshipHandler) IsBlocked(c echo.Context) error {
	blocked, err := h.blockUseCase.IsBlocked(c.Request().Context(), currentUser(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{
		"blocked": blocked,
	})
}

func (h *RelationshipHandler) ListBlocks(c echo.Context) error {
	p := utils.GetCursorParams(c)
	page, err := h.blockUseCase.List(c.Request().Context(), currentUser(c), p.Cursor, p.Limit)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Cursor(c, page.Items, page.NextCursor)
}
