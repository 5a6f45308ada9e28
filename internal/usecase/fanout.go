package usecase

import (
	"slices"
	"time"

	"golang.org/x/sync/errgroup"
)

// join runs fn(i) for i in [0, n) concurrently and returns once every call
// has finished. Results are all-or-nothing: the first error is returned and
// nothing is cancelled early.
func join(n int, fn func(i int) error) error {
	var g errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			return fn(i)
		})
	}
	return g.Wait()
}

// sortNewestFirst re-imposes timestamp order after a join.
func sortNewestFirst[T any](items []T, ts func(T) time.Time) {
	slices.SortStableFunc(items, func(a, b T) int {
		return ts(b).Compare(ts(a))
	})
}

// nextCursor is the id of the last item when the page is full.
func nextCursor[T any](items []T, limit int, id func(T) string) string {
	if len(items) == 0 || len(items) < limit {
		return ""
	}
	return id(items[len(items)-1])
}

// Page is one cursor-paginated result.
type Page[T any] struct {
	Items      []T
	NextCursor string
}

func newPage[T any](items []T, limit int, id func(T) string) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:      items,
		NextCursor: nextCursor(items, limit, id),
	}
}
