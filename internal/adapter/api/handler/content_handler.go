package handler

import (
	"github.com/labstack/echo/v4"

	"medconnect/internal/domain/entity"
	"medconnect/internal/usecase"
	"medconnect/pkg/response"
	"medconnect/pkg/utils"
)

// ContentHandler serves posts and cases. The two share their list and toggle
// shapes.
type ContentHandler struct {
	postUseCase *usecase.PostUseCase
	caseUseCase *usecase.CaseUseCase
}

func NewContentHandler(postUseCase *usecase.PostUseCase, caseUseCase *usecase.CaseUseCase) *ContentHandler {
	return &ContentHandler{
		postUseCase: postUseCase,
		caseUseCase: caseUseCase,
	}
}

type createPostRequest struct {
	Content     string   `json:"content" form:"content" validate:"max=5000"`
	Kind        string   `json:"kind" form:"kind" validate:"omitempty,oneof=text image link"`
	Link        string   `json:"link" form:"link" validate:"omitempty,url"`
	Professions []string `json:"professions" form:"professions"`
	Privacy     string   `json:"privacy" form:"privacy" validate:"omitempty,oneof=public anonymous group"`
	GroupID     string   `json:"group_id" form:"group_id"`
}

type editPostRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}

type createCaseRequest struct {
	Title        string   `json:"title" form:"title" validate:"required,max=200"`
	Content      string   `json:"content" form:"content" validate:"required"`
	Hashtags     []string `json:"hashtags" form:"hashtags"`
	Specialities []string `json:"specialities" form:"specialities"`
	Professions  []string `json:"professions" form:"professions"`
	Privacy      string   `json:"privacy" form:"privacy" validate:"omitempty,oneof=public anonymous group"`
	GroupID      string   `json:"group_id" form:"group_id"`
}

type revisionRequest struct {
	Revision string `json:"revision"`
}

type toggleRequest struct {
	Value *bool `json:"value" validate:"required"`
}

func (h *ContentHandler) CreatePost(c echo.Context) error {
	var req createPostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	images, closeImages, err := formImages(c, "images")
	if err != nil {
		return response.Error(c, err)
	}
	defer closeImages()

	post, err := h.postUseCase.Create(c.Request().Context(), currentUser(c), usecase.CreatePostInput{
		Content:     req.Content,
		Kind:        entity.PostKind(req.Kind),
		Link:        req.Link,
		Professions: req.Professions,
		Privacy:     entity.Privacy(req.Privacy),
		GroupID:     req.GroupID,
		Images:      images,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, post)
}

func (h *ContentHandler) GetPost(c echo.Context) error {
	post, err := h.postUseCase.Get(c.Request().Context(), currentUser(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, post)
}

// PostFeed lists public posts, optionally narrowed to one profession.
func (h *ContentHandler) PostFeed(c echo.Context) error {
	p := utils.GetCursorParams(c)
	page, err := h.postUseCase.Feed(c.Request().Context(), currentUser(c), c.QueryParam("profession"), p.Cursor, p.Limit)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Cursor(c, page.Items, page.NextCursor)
}

func (h *ContentHandler) UserPosts(c echo.Context) error {
	p := utils.GetCursorParams(c)
	page, err := h.postUseCase.ListByUser(c.Request().Context(), currentUser(c), c.Param("id"), p.Cursor, p.Limit)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Cursor(c, page.Items, page.NextCursor)
}

func (h *ContentHandler) BookmarkedPosts(c echo.Context) error {
	p := utils.GetCursorParams(c)
	page, err := h.postUseCase.Bookmarks(c.Request().Context(), currentUser(c), p.Cursor, p.Limit)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Cursor(c, page.Items, page.NextCursor)
}

func (h *ContentHandler) EditPost(c echo.Context) error {
	var req editPostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	post, err := h.postUseCase.Edit(c.Request().Context(), currentUser(c), c.Param("id"), req.Content)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, post)
}

func (h *ContentHandler) DeletePost(c echo.Context) error {
	if err := h.postUseCase.Delete(c.Request().Context(), currentUser(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Post deleted",
	})
}

func (h *ContentHandler) HidePost(c echo.Context) error {
	if err := h.postUseCase.Hide(c.Request().Context(), currentUser(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Post hidden",
	})
}

func (h *ContentHandler) ApprovePost(c echo.Context) error {
	if err := h.postUseCase.Approve(c.Request().Context(), currentUser(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Post approved",
	})
}

func (h *ContentHandler) LikePost(c echo.Context) error {
	return toggle(c, h.postUseCase.Like)
}

func (h *ContentHandler) BookmarkPost(c echo.Context) error {
	return toggle(c, h.postUseCase.Bookmark)
}

func (h *ContentHandler) CreateCase(c echo.Context) error {
	var req createCaseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	images, closeImages, err := formImages(c, "images")
	if err != nil {
		return response.Error(c, err)
	}
	defer closeImages()

	created, err := h.caseUseCase.Create(c.Request().Context(), currentUser(c), usecase.CreateCaseInput{
		Title:        req.Title,
		Content:      req.Content,
		Hashtags:     req.Hashtags,
		Specialities: req.Specialities,
		Professions:  req.Professions,
		Privacy:      entity.Privacy(req.Privacy),
		GroupID:      req.GroupID,
		Images:       images,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, created)
}

func (h *ContentHandler) GetCase(c echo.Context) error {
	found, err := h.caseUseCase.Get(c.Request().Context(), currentUser(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, found)
}

func (h *ContentHandler) CaseFeed(c echo.Context) error {
	p := utils.GetCursorParams(c)

	var (
		page *usecase.Page[*entity.Case]
		err  error
	)
	if hashtag := c.QueryParam("hashtag"); hashtag != "" {
		page, err = h.caseUseCase.ListByHashtag(c.Request().Context(), currentUser(c), hashtag, p.Cursor, p.Limit)
	} else {
		page, err = h.caseUseCase.Feed(c.Request().Context(), currentUser(c), c.QueryParam("profession"), p.Cursor, p.Limit)
	}
	if err != nil {
		return response.Error(c, err)
	}

	return response.Cursor(c, page.Items, page.NextCursor)
}

func (h *ContentHandler) UserCases(c echo.Context) error {
	p := utils.GetCursorParams(c)
	page, err := h.caseUseCase.ListByUser(c.Request().Context(), currentUser(c), c.Param("id"), p.Cursor, p.Limit)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Cursor(c, page.Items, page.NextCursor)
}

func (h *ContentHandler) BookmarkedCases(c echo.Context) error {
	p := utils.GetCursorParams(c)
	page, err := h.caseUseCase.Bookmarks(c.Request().Context(), currentUser(c), p.Cursor, p.Limit)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Cursor(c, page.Items, page.NextCursor)
}

func (h *ContentHandler) SolveCase(c echo.Context) error {
	var req revisionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	if err := h.caseUseCase.Solve(c.Request().Context(), currentUser(c), c.Param("id"), req.Revision); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"phase": string(entity.CasePhaseSolved),
	})
}

func (h *ContentHandler) AddCaseRevision(c echo.Context) error {
	var req revisionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	if err := h.caseUseCase.AddRevision(c.Request().Context(), currentUser(c), c.Param("id"), req.Revision); err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, map[string]string{
		"revision": req.Revision,
	})
}

func (h *ContentHandler) DeleteCase(c echo.Context) error {
	if err := h.caseUseCase.Delete(c.Request().Context(), currentUser(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Case deleted",
	})
}

func (h *ContentHandler) HideCase(c echo.Context) error {
	if err := h.caseUseCase.Hide(c.Request().Context(), currentUser(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Case hidden",
	})
}

func (h *ContentHandler) ApproveCase(c echo.Context) error {
	if err := h.caseUseCase.Approve(c.Request().Context(), currentUser(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Case approved",
	})
}

func (h *ContentHandler) LikeCase(c echo.Context) error {
	return toggle(c, h.caseUseCase.Like)
}

func (h *ContentHandler) BookmarkCase(c echo.Context) error {
	return toggle(c, h.caseUseCase.Bookmark)
}

// toggle hands the desired state to the coalescer. The write lands later, so
// the response only echoes what was asked for.
func toggle(c echo.Context, set func(uid, id string, value bool)) error {
	var req toggleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	set(currentUser(c), c.Param("id"), *req.Value)
	return response.Accepted(c, map[string]interface{}{
		"id":    c.Param("id"),
		"value": *req.Value,
	})
}
