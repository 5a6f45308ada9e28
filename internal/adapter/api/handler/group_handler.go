package handler

import (
	"github.com/labstack/echo/v4"

	"medconnect/internal/domain/entity"
	"medconnect/internal/usecase"
	"medconnect/pkg/response"
	"medconnect/pkg/utils"
)

type GroupHandler struct {
	groupUseCase *usecase.GroupUseCase
	postUseCase  *usecase.PostUseCase
	caseUseCase  *usecase.CaseUseCase
}

func NewGroupHandler(groupUseCase *usecase.GroupUseCase, postUseCase *usecase.PostUseCase, caseUseCase *usecase.CaseUseCase) *GroupHandler {
	return &GroupHandler{
		groupUseCase: groupUseCase,
		postUseCase:  postUseCase,
		caseUseCase:  caseUseCase,
	}
}

type createGroupRequest struct {
	Name         string   `json:"name" validate:"required,max=100"`
	Description  string   `json:"description" validate:"max=2000"`
	Professions  []string `json:"professions"`
	Visibility   string   `json:"visibility" validate:"omitempty,oneof=public private"`
	PostApproval bool     `json:"post_approval"`
}

func (h *GroupHandler) Create(c echo.Context) error {
	var req createGroupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	group, err := h.groupUseCase.Create(c.Request().Context(), currentUser(c), usecase.CreateGroupInput{
		Name:         req.Name,
		Description:  req.Description,
		Professions:  req.Professions,
		Visibility:   entity.GroupVisibility(req.Visibility),
		PostApproval: req.PostApproval,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, group)
}

func (h *GroupHandler) Get(c echo.Context) error {
	group, err := h.groupUseCase.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, group)
}

func (h *GroupHandler) ListPublic(c echo.Context) error {
	p := utils.GetCursorParams(c)
	page, err := h.groupUseCase.ListPublic(c.Request().Context(), c.QueryParam("profession"), p.Cursor, p.Limit)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Cursor(c, page.Items, page.NextCursor)
}

func (h *GroupHandler) Mine(c echo.Context) error {
	groups, err := h.groupUseCase.ListUserGroups(c.Request().Context(), currentUser(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, groups)
}

func (h *GroupHandler) Join(c echo.Context) error {
	phase, err := h.groupUseCase.Join(c.Request().Context(), currentUser(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"phase": string(phase),
	})
}

func (h *GroupHandler) Leave(c echo.Context) error {
	if err := h.groupUseCase.Leave(c.Request().Context(), currentUser(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Left group",
	})
}

func (h *GroupHandler) AcceptMember(c echo.Context) error {
	err := h.groupUseCase.AcceptMember(c.Request().Context(), currentUser(c), c.Param("id"), c.Param("uid"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"phase": string(entity.MemberPhaseMember),
	})
}

func (h *GroupHandler) Ban(c echo.Context) error {
	err := h.groupUseCase.Ban(c.Request().Context(), currentUser(c), c.Param("id"), c.Param("uid"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"phase": string(entity.MemberPhaseBanned),
	})
}

// Members defaults to regular members; ?phase=pending|banned is admin only.
func (h *GroupHandler) Members(c echo.Context) error {
	phase := entity.MemberPhase(c.QueryParam("phase"))
	p := utils.GetCursorParams(c)

	page, err := h.groupUseCase.Members(c.Request().Context(), currentUser(c), c.Param("id"), phase, p.Cursor, p.Limit)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Cursor(c, page.Items, page.NextCursor)
}

func (h *GroupHandler) Posts(c echo.Context) error {
	p := utils.GetCursorParams(c)
	ctx, uid, groupID := c.Request().Context(), currentUser(c), c.Param("id")

	var (
		page *usecase.Page[*entity.Post]
		err  error
	)
	if c.QueryParam("pending") == "true" {
		page, err = h.postUseCase.ListPending(ctx, uid, groupID, p.Cursor, p.Limit)
	} else {
		page, err = h.postUseCase.ListByGroup(ctx, uid, groupID, p.Cursor, p.Limit)
	}
	if err != nil {
		return response.Error(c, err)
	}

	return response.Cursor(c, page.Items, page.NextCursor)
}

func (h *GroupHandler) Cases(c echo.Context) error {
	p := utils.GetCursorParams(c)
	ctx, uid, groupID := c.Request().Context(), currentUser(c), c.Param("id")

	var (
		page *usecase.Page[*entity.Case]
		err  error
	)
	if c.QueryParam("pending") == "true" {
		page, err = h.caseUseCase.ListPending(ctx, uid, groupID, p.Cursor, p.Limit)
	} else {
		page, err = h.caseUseCase.ListByGroup(ctx, uid, groupID, p.Cursor, p.Limit)
	}
	if err != nil {
		return response.Error(c, err)
	}

	return response.Cursor(c, page.Items, page.NextCursor)
}
