package usecase

import (
	"context"
	"slices"
	"strings"
	"time"

	"medconnect/internal/domain/entity"
	"medconnect/internal/domain/repository"
	"medconnect/internal/infrastructure/telemetry"
	"medconnect/pkg/errors"
)

type CommentUseCase struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	caseRepo    repository.CaseRepository
	functions   FunctionCaller
	network     Reachability
	coalescer   *Coalescer
	telemetry   *telemetry.Recorder
}

func NewCommentUseCase(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	caseRepo repository.CaseRepository,
	functions FunctionCaller,
	network Reachability,
	coalescer *Coalescer,
	recorder *telemetry.Recorder,
) *CommentUseCase {
	uc := &CommentUseCase{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		caseRepo:    caseRepo,
		functions:   functions,
		network:     network,
		coalescer:   coalescer,
		telemetry:   recorder,
	}

	for _, kind := range []ToggleKind{TogglePostCommentLike, TogglePostReplyLike, ToggleCaseCommentLike, ToggleCaseReplyLike} {
		coalescer.Register(kind, uc.writeLike)
	}
	return uc
}

// contentOwner returns the author of the post or case and checks it still
// accepts comments.
func (uc *CommentUseCase) contentOwner(ctx context.Context, kind entity.ContentKind, contentID string) (string, error) {
	var (
		owner      string
		visibility entity.Visibility
		resource   string
	)

	switch kind {
	case entity.ContentPost:
		post, err := uc.postRepo.GetByID(ctx, contentID)
		if err != nil {
			return "", err
		}
		owner, visibility, resource = post.UserID, post.Visibility, "Post"
	case entity.ContentCase:
		c, err := uc.caseRepo.GetByID(ctx, contentID)
		if err != nil {
			return "", err
		}
		owner, visibility, resource = c.UserID, c.Visibility, "Case"
	default:
		return "", errors.BadRequest("Unknown content kind", nil)
	}

	if visibility != entity.VisibilityRegular {
		return "", errors.NotFound(resource, nil)
	}
	return owner, nil
}

// Add creates a top-level comment, or a reply when ref.CommentID is set.
func (uc *CommentUseCase) Add(ctx context.Context, uid string, ref entity.CommentRef, content string, anonymous bool) (*entity.Comment, error) {
	if err := uc.network.Require(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, errors.BadRequest("Comment cannot be empty", nil)
	}

	owner, err := uc.contentOwner(ctx, ref.Kind, ref.ContentID)
	if err != nil {
		return nil, err
	}

	if ref.CommentID != "" {
		parent, err := uc.commentRepo.Get(ctx, entity.CommentRef{Kind: ref.Kind, ContentID: ref.ContentID, CommentID: ref.CommentID})
		if err != nil {
			return nil, err
		}
		if parent.Visibility == entity.CommentDeleted {
			return nil, errors.BadRequest("Cannot reply to a deleted comment", nil)
		}
	}

	visibility := entity.CommentRegular
	if anonymous {
		visibility = entity.CommentAnonymous
	}

	comment := &entity.Comment{
		UserID:     uid,
		Content:    content,
		Visibility: visibility,
		Timestamp:  time.Now(),
	}
	if err := uc.commentRepo.Create(ctx, ref, comment); err != nil {
		return nil, err
	}

	if owner != uid {
		fn := FnPostReply
		if ref.Kind == entity.ContentCase {
			fn = FnCaseReply
		}
		uc.functions.Call(fn, map[string]string{
			"contentId": ref.ContentID,
			"commentId": comment.ID,
			"parentId":  ref.CommentID,
			"uid":       uid,
		}, "")
	}

	uc.telemetry.Event(ctx, telemetry.EventComment)
	return comment, nil
}

// List returns comments of the content, or replies of ref.CommentID.
// Deleted entries keep their place with the body removed.
func (uc *CommentUseCase) List(ctx context.Context, viewerID string, ref entity.CommentRef, cursor string, limit int) (*Page[*entity.Comment], error) {
	owner, err := uc.contentOwner(ctx, ref.Kind, ref.ContentID)
	if err != nil {
		return nil, err
	}

	comments, err := uc.commentRepo.List(ctx, ref, cursor, limit)
	if err != nil {
		return nil, err
	}

	isReplies := ref.CommentID != ""
	err = join(len(comments), func(i int) error {
		return uc.enrichComment(ctx, comments[i], ref, viewerID, owner, isReplies)
	})
	if err != nil {
		return nil, err
	}

	if isReplies {
		sortOldestFirst(comments)
	} else {
		sortNewestFirst(comments, func(c *entity.Comment) time.Time { return c.Timestamp })
	}

	for _, c := range comments {
		redactComment(c, viewerID)
	}
	return newPage(comments, limit, func(c *entity.Comment) string { return c.ID }), nil
}

func (uc *CommentUseCase) enrichComment(ctx context.Context, c *entity.Comment, parent entity.CommentRef, viewerID, owner string, isReply bool) error {
	ref := entity.CommentRef{Kind: parent.Kind, ContentID: parent.ContentID, CommentID: c.ID}
	if isReply {
		ref = entity.CommentRef{Kind: parent.Kind, ContentID: parent.ContentID, CommentID: parent.CommentID, ReplyID: c.ID}
	}

	return join(4, func(i int) error {
		var err error
		switch i {
		case 0:
			c.Likes, err = uc.commentRepo.CountLikes(ctx, ref)
		case 1:
			c.DidLike, err = uc.commentRepo.DidLike(ctx, ref, viewerID)
		case 2:
			if !isReply {
				c.Replies, err = uc.commentRepo.CountReplies(ctx, ref)
			}
		case 3:
			if !isReply && owner != "" {
				c.AuthorReplied, err = uc.commentRepo.HasReplyFrom(ctx, ref, owner)
			}
		}
		return err
	})
}

func (uc *CommentUseCase) Delete(ctx context.Context, uid string, ref entity.CommentRef) error {
	if err := uc.network.Require(); err != nil {
		return err
	}

	comment, err := uc.commentRepo.Get(ctx, ref)
	if err != nil {
		return err
	}
	if comment.UserID != uid {
		return errors.Forbidden("You can only delete your own comments", nil)
	}
	if comment.Visibility == entity.CommentDeleted {
		return nil
	}
	return uc.commentRepo.UpdateVisibility(ctx, ref, entity.CommentDeleted)
}

func (uc *CommentUseCase) Like(uid string, ref entity.CommentRef, value bool) {
	uc.coalescer.Toggle(commentToggleKey(uid, ref), value)
}

func commentToggleKey(uid string, ref entity.CommentRef) ToggleKey {
	var kind ToggleKind
	switch {
	case ref.Kind == entity.ContentCase && ref.IsReply():
		kind = ToggleCaseReplyLike
	case ref.Kind == entity.ContentCase:
		kind = ToggleCaseCommentLike
	case ref.IsReply():
		kind = TogglePostReplyLike
	default:
		kind = TogglePostCommentLike
	}

	return ToggleKey{
		UserID:    uid,
		Kind:      kind,
		ContentID: ref.ContentID,
		CommentID: ref.CommentID,
		ReplyID:   ref.ReplyID,
	}
}

func (uc *CommentUseCase) writeLike(ctx context.Context, key ToggleKey, value bool) error {
	if err := uc.network.Require(); err != nil {
		return err
	}

	kind := entity.ContentPost
	if key.Kind == ToggleCaseCommentLike || key.Kind == ToggleCaseReplyLike {
		kind = entity.ContentCase
	}
	ref := entity.CommentRef{Kind: kind, ContentID: key.ContentID, CommentID: key.CommentID, ReplyID: key.ReplyID}

	if !value {
		return uc.commentRepo.Unlike(ctx, ref, key.UserID)
	}
	if err := uc.commentRepo.Like(ctx, ref, key.UserID); err != nil {
		return err
	}

	uc.functions.Call(FnCommentLike, map[string]string{
		"kind":      string(kind),
		"contentId": key.ContentID,
		"commentId": key.CommentID,
		"replyId":   key.ReplyID,
		"uid":       key.UserID,
	}, "")
	return nil
}

func redactComment(c *entity.Comment, viewerID string) {
	switch c.Visibility {
	case entity.CommentDeleted:
		c.Content = ""
		c.UserID = ""
	case entity.CommentAnonymous:
		if c.UserID != viewerID {
			c.UserID = ""
		}
	}
}

func sortOldestFirst(comments []*entity.Comment) {
	slices.SortStableFunc(comments, func(a, b *entity.Comment) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
}
