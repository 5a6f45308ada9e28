package usecase

import (
	"context"
	"strings"
	"time"

	"medconnect/internal/domain/entity"
	"medconnect/internal/domain/repository"
	"medconnect/internal/infrastructure/storage"
	"medconnect/internal/infrastructure/telemetry"
	"medconnect/pkg/errors"
)

type PostUseCase struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
	images    ImageUploader
	functions FunctionCaller
	network   Reachability
	coalescer *Coalescer
	telemetry *telemetry.Recorder
}

func NewPostUseCase(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	images ImageUploader,
	functions FunctionCaller,
	network Reachability,
	coalescer *Coalescer,
	recorder *telemetry.Recorder,
) *PostUseCase {
	uc := &PostUseCase{
		postRepo:  postRepo,
		groupRepo: groupRepo,
		images:    images,
		functions: functions,
		network:   network,
		coalescer: coalescer,
		telemetry: recorder,
	}

	coalescer.Register(TogglePostLike, uc.writeLike)
	coalescer.Register(TogglePostBookmark, uc.writeBookmark)
	return uc
}

type CreatePostInput struct {
	Content     string
	Kind        entity.PostKind
	Link        string
	Professions []string
	Privacy     entity.Privacy
	GroupID     string
	Images      []storage.Upload
}

func (uc *PostUseCase) Create(ctx context.Context, uid string, input CreatePostInput) (*entity.Post, error) {
	if err := uc.network.Require(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Content) == "" && len(input.Images) == 0 {
		return nil, errors.BadRequest("Post needs content or images", nil)
	}

	privacy := input.Privacy
	if privacy == "" {
		privacy = entity.PrivacyPublic
	}
	if input.GroupID != "" {
		privacy = entity.PrivacyGroup
	}

	visibility, err := initialVisibility(ctx, uc.groupRepo, input.GroupID, uid)
	if err != nil {
		return nil, err
	}

	post := &entity.Post{
		UserID:      uid,
		Content:     input.Content,
		Kind:        input.Kind,
		Link:        input.Link,
		Professions: input.Professions,
		Visibility:  visibility,
		Privacy:     privacy,
		GroupID:     input.GroupID,
		Timestamp:   time.Now(),
	}
	if post.Kind == "" {
		post.Kind = entity.PostKindText
	}

	if len(input.Images) > 0 {
		// images are stored under the post id, so reserve it first
		post.ID = newID()
		urls, err := uc.images.UploadImages(ctx, entity.ImagePost, post.ID, input.Images)
		if err != nil {
			return nil, err
		}
		post.ImageURLs = urls
		post.Kind = entity.PostKindImage
	}

	if err := uc.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	uc.telemetry.Event(ctx, telemetry.EventCreatePost)
	return post, nil
}

// Get returns the post whatever its visibility.
func (uc *PostUseCase) Get(ctx context.Context, viewerID, id string) (*entity.Post, error) {
	post, err := uc.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := uc.enrich(ctx, viewerID, []*entity.Post{post}); err != nil {
		return nil, err
	}
	return post, nil
}

func (uc *PostUseCase) Feed(ctx context.Context, viewerID, profession, cursor string, limit int) (*Page[*entity.Post], error) {
	return uc.list(ctx, viewerID, repository.ContentFilter{
		Profession:    profession,
		ExcludeGroups: true,
	}, cursor, limit)
}

func (uc *PostUseCase) ListByUser(ctx context.Context, viewerID, uid, cursor string, limit int) (*Page[*entity.Post], error) {
	return uc.list(ctx, viewerID, repository.ContentFilter{
		UserID: uid,
		Public: viewerID != uid,
	}, cursor, limit)
}

func (uc *PostUseCase) ListByGroup(ctx context.Context, viewerID, groupID, cursor string, limit int) (*Page[*entity.Post], error) {
	if _, _, err := groupAccess(ctx, uc.groupRepo, groupID, viewerID); err != nil {
		return nil, err
	}
	return uc.list(ctx, viewerID, repository.ContentFilter{GroupID: groupID}, cursor, limit)
}

func (uc *PostUseCase) ListPending(ctx context.Context, viewerID, groupID, cursor string, limit int) (*Page[*entity.Post], error) {
	if err := requireAdmin(ctx, uc.groupRepo, groupID, viewerID); err != nil {
		return nil, err
	}
	return uc.list(ctx, viewerID, repository.ContentFilter{
		GroupID:    groupID,
		Visibility: entity.VisibilityPending,
	}, cursor, limit)
}

func (uc *PostUseCase) list(ctx context.Context, viewerID string, filter repository.ContentFilter, cursor string, limit int) (*Page[*entity.Post], error) {
	posts, err := uc.postRepo.List(ctx, filter, cursor, limit)
	if err != nil {
		return nil, err
	}

	if err := uc.enrich(ctx, viewerID, posts); err != nil {
		return nil, err
	}
	sortNewestFirst(posts, postTime)
	return newPage(posts, limit, postID), nil
}

// Bookmarks resolves the bookmark index, newest bookmark first.
func (uc *PostUseCase) Bookmarks(ctx context.Context, uid, cursor string, limit int) (*Page[*entity.Post], error) {
	bookmarks, err := uc.postRepo.ListBookmarks(ctx, uid, cursor, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(bookmarks))
	for i, b := range bookmarks {
		ids[i] = b.ID
	}

	posts, err := uc.postRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	posts = visiblePosts(posts)

	if err := uc.enrich(ctx, uid, posts); err != nil {
		return nil, err
	}
	sortNewestFirst(posts, postTime)

	page := newPage(posts, limit, postID)
	page.NextCursor = nextCursor(bookmarks, limit, func(b *entity.Bookmark) string { return b.ID })
	return page, nil
}

func (uc *PostUseCase) Edit(ctx context.Context, uid, id, content string) (*entity.Post, error) {
	if err := uc.network.Require(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, errors.BadRequest("Content cannot be empty", nil)
	}

	post, err := uc.owned(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	if post.Visibility == entity.VisibilityDeleted {
		return nil, errors.NotFound("Post", nil)
	}

	if err := uc.postRepo.UpdateContent(ctx, id, content); err != nil {
		return nil, err
	}
	post.Content = content
	post.Edited = true
	return post, nil
}

func (uc *PostUseCase) Delete(ctx context.Context, uid, id string) error {
	return uc.transition(ctx, uid, id, entity.VisibilityDeleted)
}

func (uc *PostUseCase) Hide(ctx context.Context, uid, id string) error {
	return uc.transition(ctx, uid, id, entity.VisibilityHidden)
}

func (uc *PostUseCase) transition(ctx context.Context, uid, id string, next entity.Visibility) error {
	if err := uc.network.Require(); err != nil {
		return err
	}

	post, err := uc.owned(ctx, uid, id)
	if err != nil {
		return err
	}
	if !post.Visibility.CanMoveTo(next) {
		return errors.BadRequest("Post cannot move from "+string(post.Visibility)+" to "+string(next), nil)
	}
	return uc.postRepo.UpdateVisibility(ctx, id, next)
}

// Approve publishes a pending group post. Group admins only.
func (uc *PostUseCase) Approve(ctx context.Context, adminID, id string) error {
	if err := uc.network.Require(); err != nil {
		return err
	}

	post, err := uc.postRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if post.GroupID == "" || post.Visibility != entity.VisibilityPending {
		return errors.BadRequest("Post is not pending approval", nil)
	}
	if err := requireAdmin(ctx, uc.groupRepo, post.GroupID, adminID); err != nil {
		return err
	}
	return uc.postRepo.UpdateVisibility(ctx, id, entity.VisibilityRegular)
}

// Like and Bookmark return at once; the write is coalesced.
func (uc *PostUseCase) Like(uid, id string, value bool) {
	uc.coalescer.Toggle(ToggleKey{UserID: uid, Kind: TogglePostLike, ContentID: id}, value)
}

func (uc *PostUseCase) Bookmark(uid, id string, value bool) {
	uc.coalescer.Toggle(ToggleKey{UserID: uid, Kind: TogglePostBookmark, ContentID: id}, value)
}

func (uc *PostUseCase) writeLike(ctx context.Context, key ToggleKey, value bool) error {
	if err := uc.network.Require(); err != nil {
		return err
	}
	if !value {
		return uc.postRepo.Unlike(ctx, key.ContentID, key.UserID)
	}
	if err := uc.postRepo.Like(ctx, key.ContentID, key.UserID); err != nil {
		return err
	}
	uc.functions.Call(FnPostLike, map[string]string{"postId": key.ContentID, "uid": key.UserID}, "")
	uc.telemetry.Event(ctx, telemetry.EventLike)
	return nil
}

func (uc *PostUseCase) writeBookmark(ctx context.Context, key ToggleKey, value bool) error {
	if err := uc.network.Require(); err != nil {
		return err
	}
	if !value {
		return uc.postRepo.Unbookmark(ctx, key.ContentID, key.UserID)
	}
	if err := uc.postRepo.Bookmark(ctx, key.ContentID, key.UserID); err != nil {
		return err
	}
	uc.telemetry.Event(ctx, telemetry.EventBookmark)
	return nil
}

func (uc *PostUseCase) owned(ctx context.Context, uid, id string) (*entity.Post, error) {
	post, err := uc.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.UserID != uid {
		return nil, errors.Forbidden("You can only modify your own posts", nil)
	}
	return post, nil
}

func (uc *PostUseCase) enrich(ctx context.Context, viewerID string, posts []*entity.Post) error {
	err := enrich(ctx, uc.postRepo, viewerID, len(posts),
		func(i int) string { return posts[i].ID },
		func(i int) *entity.Engagement { return &posts[i].Engagement },
	)
	if err != nil {
		return err
	}

	for _, p := range posts {
		if p.Privacy == entity.PrivacyAnonymous && p.UserID != viewerID {
			p.UserID = ""
		}
	}
	return nil
}

func visiblePosts(posts []*entity.Post) []*entity.Post {
	out := posts[:0]
	for _, p := range posts {
		if p.Visibility == entity.VisibilityRegular {
			out = append(out, p)
		}
	}
	return out
}

func postTime(p *entity.Post) time.Time { return p.Timestamp }
func postID(p *entity.Post) string      { return p.ID }
