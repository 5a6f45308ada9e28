package search

import (
	"context"

	"github.com/algolia/algoliasearch-client-go/v3/algolia/opt"
	"github.com/algolia/algoliasearch-client-go/v3/algolia/search"

	"medconnect/pkg/errors"
)

type Scope string

const (
	ScopeUsers Scope = "users"
	ScopePosts Scope = "posts"
	ScopeCases Scope = "cases"
)

func (s Scope) Valid() bool {
	return s == ScopeUsers || s == ScopePosts || s == ScopeCases
}

// searchableAttributes restricts matching to the fields shown in suggestions.
func (s Scope) searchableAttributes() []string {
	switch s {
	case ScopeUsers:
		return []string{"firstName", "lastName", "profession", "speciality"}
	case ScopePosts:
		return []string{"content", "professions"}
	case ScopeCases:
		return []string{"title", "content", "hashtags", "specialities"}
	}
	return nil
}

// Result is one page of matching object ids in ranking order.
type Result struct {
	IDs     []string
	Page    int
	NbPages int
}

func (r *Result) HasMore() bool {
	return r.Page+1 < r.NbPages
}

type hit struct {
	ObjectID string `json:"objectID"`
}

type AlgoliaClient struct {
	client *search.Client
}

func NewAlgoliaClient(appID, apiKey string) *AlgoliaClient {
	return &AlgoliaClient{
		client: search.NewClient(appID, apiKey),
	}
}

func (a *AlgoliaClient) Search(ctx context.Context, scope Scope, term string, page, hitsPerPage int) (*Result, error) {
	if !scope.Valid() {
		return nil, errors.BadRequest("Unknown search scope", nil)
	}

	index := a.client.InitIndex(string(scope))
	res, err := index.Search(term, append(queryOptions(scope, page, hitsPerPage), ctx)...)
	if err != nil {
		return nil, errors.Unknown("Search request failed", err)
	}

	var hits []hit
	if err := res.UnmarshalHits(&hits); err != nil {
		return nil, errors.Unknown("Failed to decode search hits", err)
	}

	ids := make([]string, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.ObjectID)
	}

	return &Result{
		IDs:     ids,
		Page:    res.Page,
		NbPages: res.NbPages,
	}, nil
}

// queryOptions scopes the query to the scope's fields with typo tolerance on.
// Only ids are retrieved; documents are read from the store.
func queryOptions(scope Scope, page, hitsPerPage int) []interface{} {
	return []interface{}{
		opt.Page(page),
		opt.HitsPerPage(hitsPerPage),
		opt.RestrictSearchableAttributes(scope.searchableAttributes()...),
		opt.TypoTolerance(true),
		opt.AttributesToRetrieve("objectID"),
	}
}
