package handler

import (
	"github.com/labstack/echo/v4"

	"medconnect/internal/domain/entity"
	"medconnect/internal/usecase"
	"medconnect/pkg/response"
	"medconnect/pkg/utils"
)

// CommentHandler is mounted under both /posts/:id and /cases/:id; the
// handler funcs are built per content kind.
type CommentHandler struct {
	commentUseCase *usecase.CommentUseCase
}

func NewCommentHandler(commentUseCase *usecase.CommentUseCase) *CommentHandler {
	return &CommentHandler{
		commentUseCase: commentUseCase,
	}
}

type addCommentRequest struct {
	Content   string `json:"content" validate:"required,max=2000"`
	Anonymous bool   `json:"anonymous"`
}

// commentRef reads :id, :commentId and :replyId from the path.
func commentRef(c echo.Context, kind entity.ContentKind) entity.CommentRef {
	return entity.CommentRef{
		Kind:      kind,
		ContentID: c.Param("id"),
		CommentID: c.Param("commentId"),
		ReplyID:   c.Param("replyId"),
	}
}

func (h *CommentHandler) Add(kind entity.ContentKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req addCommentRequest
		if err := bindAndValidate(c, &req); err != nil {
			return response.Error(c, err)
		}

		comment, err := h.commentUseCase.Add(c.Request().Context(), currentUser(c), commentRef(c, kind), req.Content, req.Anonymous)
		if err != nil {
			return response.Error(c, err)
		}

		return response.Created(c, comment)
	}
}

func (h *CommentHandler) List(kind entity.ContentKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		p := utils.GetCursorParams(c)
		page, err := h.commentUseCase.List(c.Request().Context(), currentUser(c), commentRef(c, kind), p.Cursor, p.Limit)
		if err != nil {
			return response.Error(c, err)
		}

		return response.Cursor(c, page.Items, page.NextCursor)
	}
}

func (h *CommentHandler) Delete(kind entity.ContentKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := h.commentUseCase.Delete(c.Request().Context(), currentUser(c), commentRef(c, kind)); err != nil {
			return response.Error(c, err)
		}

		return response.Success(c, map[string]string{
			"message": "Comment deleted",
		})
	}
}

func (h *CommentHandler) Like(kind entity.ContentKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req toggleRequest
		if err := bindAndValidate(c, &req); err != nil {
			return response.Error(c, err)
		}

		ref := commentRef(c, kind)
		h.commentUseCase.Like(currentUser(c), ref, *req.Value)
		return response.Accepted(c, map[string]interface{}{
			"comment_id": ref.CommentID,
			"reply_id":   ref.ReplyID,
			"value":      *req.Value,
		})
	}
}
