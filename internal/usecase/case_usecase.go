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

type CaseUseCase struct {
	caseRepo  repository.CaseRepository
	groupRepo repository.GroupRepository
	images    ImageUploader
	functions FunctionCaller
	network   Reachability
	coalescer *Coalescer
	telemetry *telemetry.Recorder
}

func NewCaseUseCase(
	caseRepo repository.CaseRepository,
	groupRepo repository.GroupRepository,
	images ImageUploader,
	functions FunctionCaller,
	network Reachability,
	coalescer *Coalescer,
	recorder *telemetry.Recorder,
) *CaseUseCase {
	uc := &CaseUseCase{
		caseRepo:  caseRepo,
		groupRepo: groupRepo,
		images:    images,
		functions: functions,
		network:   network,
		coalescer: coalescer,
		telemetry: recorder,
	}

	coalescer.Register(ToggleCaseLike, uc.writeLike)
	coalescer.Register(ToggleCaseBookmark, uc.writeBookmark)
	return uc
}

type CreateCaseInput struct {
	Title        string
	Content      string
	Hashtags     []string
	Specialities []string
	Professions  []string
	Privacy      entity.Privacy
	GroupID      string
	Images       []storage.Upload
}

func (uc *CaseUseCase) Create(ctx context.Context, uid string, input CreateCaseInput) (*entity.Case, error) {
	if err := uc.network.Require(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Content) == "" {
		return nil, errors.BadRequest("Case needs a title and a description", nil)
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

	c := &entity.Case{
		UserID:       uid,
		Title:        input.Title,
		Content:      input.Content,
		Hashtags:     normalizeHashtags(input.Hashtags),
		Specialities: input.Specialities,
		Professions:  input.Professions,
		Phase:        entity.CasePhaseUnsolved,
		Visibility:   visibility,
		Privacy:      privacy,
		GroupID:      input.GroupID,
		Timestamp:    time.Now(),
	}

	if len(input.Images) > 0 {
		c.ID = newID()
		urls, err := uc.images.UploadImages(ctx, entity.ImageCase, c.ID, input.Images)
		if err != nil {
			return nil, err
		}
		c.ImageURLs = urls
	}

	if err := uc.caseRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	uc.telemetry.Event(ctx, telemetry.EventCreateCase)
	return c, nil
}

func (uc *CaseUseCase) Get(ctx context.Context, viewerID, id string) (*entity.Case, error) {
	c, err := uc.caseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := uc.enrich(ctx, viewerID, []*entity.Case{c}); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *CaseUseCase) Feed(ctx context.Context, viewerID, profession, cursor string, limit int) (*Page[*entity.Case], error) {
	return uc.list(ctx, viewerID, repository.ContentFilter{
		Profession:    profession,
		ExcludeGroups: true,
	}, cursor, limit)
}

func (uc *CaseUseCase) ListByUser(ctx context.Context, viewerID, uid, cursor string, limit int) (*Page[*entity.Case], error) {
	return uc.list(ctx, viewerID, repository.ContentFilter{
		UserID: uid,
		Public: viewerID != uid,
	}, cursor, limit)
}

func (uc *CaseUseCase) ListByHashtag(ctx context.Context, viewerID, hashtag, cursor string, limit int) (*Page[*entity.Case], error) {
	tags := normalizeHashtags([]string{hashtag})
	if len(tags) == 0 {
		return nil, errors.BadRequest("Hashtag is required", nil)
	}
	return uc.list(ctx, viewerID, repository.ContentFilter{
		Hashtag:       tags[0],
		ExcludeGroups: true,
	}, cursor, limit)
}

func (uc *CaseUseCase) ListByGroup(ctx context.Context, viewerID, groupID, cursor string, limit int) (*Page[*entity.Case], error) {
	if _, _, err := groupAccess(ctx, uc.groupRepo, groupID, viewerID); err != nil {
		return nil, err
	}
	return uc.list(ctx, viewerID, repository.ContentFilter{GroupID: groupID}, cursor, limit)
}

func (uc *CaseUseCase) ListPending(ctx context.Context, viewerID, groupID, cursor string, limit int) (*Page[*entity.Case], error) {
	if err := requireAdmin(ctx, uc.groupRepo, groupID, viewerID); err != nil {
		return nil, err
	}
	return uc.list(ctx, viewerID, repository.ContentFilter{
		GroupID:    groupID,
		Visibility: entity.VisibilityPending,
	}, cursor, limit)
}

func (uc *CaseUseCase) list(ctx context.Context, viewerID string, filter repository.ContentFilter, cursor string, limit int) (*Page[*entity.Case], error) {
	cases, err := uc.caseRepo.List(ctx, filter, cursor, limit)
	if err != nil {
		return nil, err
	}

	if err := uc.enrich(ctx, viewerID, cases); err != nil {
		return nil, err
	}
	sortNewestFirst(cases, caseTime)
	return newPage(cases, limit, caseID), nil
}

func (uc *CaseUseCase) Bookmarks(ctx context.Context, uid, cursor string, limit int) (*Page[*entity.Case], error) {
	bookmarks, err := uc.caseRepo.ListBookmarks(ctx, uid, cursor, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(bookmarks))
	for i, b := range bookmarks {
		ids[i] = b.ID
	}

	cases, err := uc.caseRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	visible := visibleCases(cases)

	if err := uc.enrich(ctx, uid, visible); err != nil {
		return nil, err
	}
	sortNewestFirst(visible, caseTime)

	page := newPage(visible, limit, caseID)
	page.NextCursor = nextCursor(bookmarks, limit, func(b *entity.Bookmark) string { return b.ID })
	return page, nil
}

// Solve marks the case solved, optionally with the final diagnosis.
func (uc *CaseUseCase) Solve(ctx context.Context, uid, id, revision string) error {
	if err := uc.network.Require(); err != nil {
		return err
	}

	c, err := uc.owned(ctx, uid, id)
	if err != nil {
		return err
	}
	if c.Phase == entity.CasePhaseSolved {
		return errors.BadRequest("Case is already solved", nil)
	}

	if err := uc.caseRepo.Solve(ctx, id, revision); err != nil {
		return err
	}

	uc.functions.Call(FnCaseSolved, map[string]string{"caseId": id, "uid": uid}, "")
	uc.telemetry.Event(ctx, telemetry.EventSolveCase)
	return nil
}

// AddRevision records a diagnosis update without closing the case.
func (uc *CaseUseCase) AddRevision(ctx context.Context, uid, id, revision string) error {
	if err := uc.network.Require(); err != nil {
		return err
	}
	if strings.TrimSpace(revision) == "" {
		return errors.BadRequest("Revision cannot be empty", nil)
	}

	if _, err := uc.owned(ctx, uid, id); err != nil {
		return err
	}
	if err := uc.caseRepo.AddRevision(ctx, id, revision); err != nil {
		return err
	}

	uc.functions.Call(FnCaseRevision, map[string]string{"caseId": id, "uid": uid}, "")
	return nil
}

func (uc *CaseUseCase) Delete(ctx context.Context, uid, id string) error {
	return uc.transition(ctx, uid, id, entity.VisibilityDeleted)
}

func (uc *CaseUseCase) Hide(ctx context.Context, uid, id string) error {
	return uc.transition(ctx, uid, id, entity.VisibilityHidden)
}

func (uc *CaseUseCase) transition(ctx context.Context, uid, id string, next entity.Visibility) error {
	if err := uc.network.Require(); err != nil {
		return err
	}

	c, err := uc.owned(ctx, uid, id)
	if err != nil {
		return err
	}
	if !c.Visibility.CanMoveTo(next) {
		return errors.BadRequest("Case cannot move from "+string(c.Visibility)+" to "+string(next), nil)
	}
	return uc.caseRepo.UpdateVisibility(ctx, id, next)
}

func (uc *CaseUseCase) Approve(ctx context.Context, adminID, id string) error {
	if err := uc.network.Require(); err != nil {
		return err
	}

	c, err := uc.caseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c.GroupID == "" || c.Visibility != entity.VisibilityPending {
		return errors.BadRequest("Case is not pending approval", nil)
	}
	if err := requireAdmin(ctx, uc.groupRepo, c.GroupID, adminID); err != nil {
		return err
	}
	return uc.caseRepo.UpdateVisibility(ctx, id, entity.VisibilityRegular)
}

func (uc *CaseUseCase) Like(uid, id string, value bool) {
	uc.coalescer.Toggle(ToggleKey{UserID: uid, Kind: ToggleCaseLike, ContentID: id}, value)
}

func (uc *CaseUseCase) Bookmark(uid, id string, value bool) {
	uc.coalescer.Toggle(ToggleKey{UserID: uid, Kind: ToggleCaseBookmark, ContentID: id}, value)
}

func (uc *CaseUseCase) writeLike(ctx context.Context, key ToggleKey, value bool) error {
	if err := uc.network.Require(); err != nil {
		return err
	}
	if !value {
		return uc.caseRepo.Unlike(ctx, key.ContentID, key.UserID)
	}
	if err := uc.caseRepo.Like(ctx, key.ContentID, key.UserID); err != nil {
		return err
	}
	uc.functions.Call(FnCaseLike, map[string]string{"caseId": key.ContentID, "uid": key.UserID}, "")
	uc.telemetry.Event(ctx, telemetry.EventLike)
	return nil
}

func (uc *CaseUseCase) writeBookmark(ctx context.Context, key ToggleKey, value bool) error {
	if err := uc.network.Require(); err != nil {
		return err
	}
	if !value {
		return uc.caseRepo.Unbookmark(ctx, key.ContentID, key.UserID)
	}
	if err := uc.caseRepo.Bookmark(ctx, key.ContentID, key.UserID); err != nil {
		return err
	}
	uc.telemetry.Event(ctx, telemetry.EventBookmark)
	return nil
}

func (uc *CaseUseCase) owned(ctx context.Context, uid, id string) (*entity.Case, error) {
	c, err := uc.caseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.UserID != uid {
		return nil, errors.Forbidden("You can only modify your own cases", nil)
	}
	return c, nil
}

func (uc *CaseUseCase) enrich(ctx context.Context, viewerID string, cases []*entity.Case) error {
	err := enrich(ctx, uc.caseRepo, viewerID, len(cases),
		func(i int) string { return cases[i].ID },
		func(i int) *entity.Engagement { return &cases[i].Engagement },
	)
	if err != nil {
		return err
	}

	for _, c := range cases {
		if c.Privacy == entity.PrivacyAnonymous && c.UserID != viewerID {
			c.UserID = ""
		}
	}
	return nil
}

// normalizeHashtags lowercases and strips the leading '#', dropping blanks
// and duplicates.
func normalizeHashtags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tag), "#")))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

func caseTime(c *entity.Case) time.Time { return c.Timestamp }
func caseID(c *entity.Case) string      { return c.ID }

func visibleCases(cases []*entity.Case) []*entity.Case {
	out := cases[:0]
	for _, c := range cases {
		if c.Visibility == entity.VisibilityRegular {
			out = append(out, c)
		}
	}
	return out
}
