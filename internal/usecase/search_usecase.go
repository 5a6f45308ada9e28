package usecase

import (
	"context"
	"slices"
	"strings"
	"time"

	"medconnect/internal/domain/entity"
	"medconnect/internal/domain/repository"
	"medconnect/internal/infrastructure/search"
	"medconnect/internal/infrastructure/telemetry"
	"medconnect/pkg/errors"
)

const maxRecentSearches = 10

type SearchUseCase struct {
	searcher   Searcher
	userRepo   repository.UserRepository
	postRepo   repository.PostRepository
	caseRepo   repository.CaseRepository
	recentRepo repository.RecentSearchRepository
	telemetry  *telemetry.Recorder
}

func NewSearchUseCase(
	searcher Searcher,
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	caseRepo repository.CaseRepository,
	recentRepo repository.RecentSearchRepository,
	recorder *telemetry.Recorder,
) *SearchUseCase {
	return &SearchUseCase{
		searcher:   searcher,
		userRepo:   userRepo,
		postRepo:   postRepo,
		caseRepo:   caseRepo,
		recentRepo: recentRepo,
		telemetry:  recorder,
	}
}

// SearchResult holds one page of hits in ranking order. Only the slice
// matching the scope is set.
type SearchResult struct {
	Users   []*entity.User `json:"users,omitempty"`
	Posts   []*entity.Post `json:"posts,omitempty"`
	Cases   []*entity.Case `json:"cases,omitempty"`
	Page    int            `json:"page"`
	HasMore bool           `json:"has_more"`
}

func (uc *SearchUseCase) Search(ctx context.Context, viewerID string, scope search.Scope, term string, page, hitsPerPage int) (*SearchResult, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, errors.BadRequest("Search term is required", nil)
	}
	if !scope.Valid() {
		return nil, errors.BadRequest("Invalid search scope", nil)
	}

	hits, err := uc.searcher.Search(ctx, scope, term, page, hitsPerPage)
	if err != nil {
		return nil, err
	}

	result := &SearchResult{Page: hits.Page, HasMore: hits.HasMore()}
	uc.telemetry.Event(ctx, telemetry.EventSearch)
	if len(hits.IDs) == 0 {
		return result, nil
	}

	switch scope {
	case search.ScopeUsers:
		users, err := uc.userRepo.GetByIDs(ctx, hits.IDs)
		if err != nil {
			return nil, err
		}
		result.Users = inRankOrder(hits.IDs, users, func(u *entity.User) string { return u.ID })
	case search.ScopePosts:
		posts, err := uc.postRepo.GetByIDs(ctx, hits.IDs)
		if err != nil {
			return nil, err
		}
		// group content stays inside its group
		posts = slices.DeleteFunc(visiblePosts(posts), func(p *entity.Post) bool {
			return p.Privacy == entity.PrivacyGroup
		})
		for _, p := range posts {
			if p.Privacy == entity.PrivacyAnonymous && p.UserID != viewerID {
				p.UserID = ""
			}
		}
		result.Posts = inRankOrder(hits.IDs, posts, postID)
	case search.ScopeCases:
		cases, err := uc.caseRepo.GetByIDs(ctx, hits.IDs)
		if err != nil {
			return nil, err
		}
		cases = slices.DeleteFunc(visibleCases(cases), func(c *entity.Case) bool {
			return c.Privacy == entity.PrivacyGroup
		})
		for _, c := range cases {
			if c.Privacy == entity.PrivacyAnonymous && c.UserID != viewerID {
				c.UserID = ""
			}
		}
		result.Cases = inRankOrder(hits.IDs, cases, caseID)
	}
	return result, nil
}

// inRankOrder reorders fetched documents to match the search ranking and
// drops ids that no longer resolve.
func inRankOrder[T any](ids []string, items []T, id func(T) string) []T {
	byID := make(map[string]T, len(items))
	for _, item := range items {
		byID[id(item)] = item
	}

	out := make([]T, 0, len(items))
	for _, want := range ids {
		if item, ok := byID[want]; ok {
			out = append(out, item)
		}
	}
	return out
}

// AddRecent records a term or a visited user. Duplicates move to the top
// and only the newest entries are kept.
func (uc *SearchUseCase) AddRecent(ctx context.Context, uid, term, userID string) (*entity.RecentSearch, error) {
	term = strings.TrimSpace(term)
	if term == "" && userID == "" {
		return nil, errors.BadRequest("Recent search needs a term or a user", nil)
	}

	existing, err := uc.recentRepo.List(ctx, uid, maxRecentSearches*2)
	if err != nil {
		return nil, err
	}

	recent := &entity.RecentSearch{
		ID:        newID(),
		Term:      term,
		UserID:    userID,
		Timestamp: time.Now().UnixMilli(),
	}
	if err := uc.recentRepo.Add(ctx, uid, recent); err != nil {
		return nil, err
	}

	kept := 1
	for _, r := range existing {
		duplicate := (term != "" && strings.EqualFold(r.Term, term)) || (userID != "" && r.UserID == userID)
		if duplicate || kept >= maxRecentSearches {
			if err := uc.recentRepo.Delete(ctx, uid, r.ID); err != nil {
				return nil, err
			}
			continue
		}
		kept++
	}
	return recent, nil
}

func (uc *SearchUseCase) Recents(ctx context.Context, uid string) ([]*entity.RecentSearch, error) {
	return uc.recentRepo.List(ctx, uid, maxRecentSearches)
}

func (uc *SearchUseCase) DeleteRecent(ctx context.Context, uid, id string) error {
	return uc.recentRepo.Delete(ctx, uid, id)
}

func (uc *SearchUseCase) ClearRecents(ctx context.Context, uid string) error {
	return uc.recentRepo.Clear(ctx, uid)
}
