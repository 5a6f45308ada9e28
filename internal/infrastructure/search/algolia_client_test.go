package search

import (
	"testing"

	"github.com/algolia/algoliasearch-client-go/v3/algolia/opt"
	"github.com/stretchr/testify/assert"
)

func TestScope_Valid(t *testing.T) {
	assert.True(t, ScopeUsers.Valid())
	assert.True(t, ScopePosts.Valid())
	assert.True(t, ScopeCases.Valid())
	assert.False(t, Scope("groups").Valid())
}

func TestScope_SearchableAttributes(t *testing.T) {
	assert.Contains(t, ScopeUsers.searchableAttributes(), "profession")
	assert.Contains(t, ScopeCases.searchableAttributes(), "hashtags")
	assert.Nil(t, Scope("other").searchableAttributes())
}

func TestResult_HasMore(t *testing.T) {
	assert.True(t, (&Result{Page: 0, NbPages: 2}).HasMore())
	assert.False(t, (&Result{Page: 1, NbPages: 2}).HasMore())
	assert.False(t, (&Result{}).HasMore())
}

func TestQueryOptions(t *testing.T) {
	opts := queryOptions(ScopeCases, 2, 25)

	assert.Len(t, opts, 5)
	assert.NotNil(t, opt.ExtractTypoTolerance(opts...))
	assert.Equal(t, 2, opt.ExtractPage(opts...).Get())
	assert.Equal(t, 25, opt.ExtractHitsPerPage(opts...).Get())
	assert.Equal(t, ScopeCases.searchableAttributes(), opt.ExtractRestrictSearchableAttributes(opts...).Get())
}
