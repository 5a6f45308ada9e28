package usecase

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoin_WaitsForAllBeforeReturning(t *testing.T) {
	const n = 25
	var finished atomic.Int32

	err := join(n, func(i int) error {
		time.Sleep(time.Duration(n-i) * time.Millisecond)
		finished.Add(1)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, int32(n), finished.Load())
}

func TestJoin_FailureStillWaitsForEverySubRequest(t *testing.T) {
	const n = 10
	var finished atomic.Int32

	err := join(n, func(i int) error {
		defer finished.Add(1)
		if i == 0 {
			return fmt.Errorf("sub-request %d failed", i)
		}
		time.Sleep(5 * time.Millisecond)
		return nil
	})

	require.Error(t, err)
	assert.Equal(t, int32(n), finished.Load())
}

func TestJoin_CompletesOnce(t *testing.T) {
	completions := 0
	for run := 0; run < 3; run++ {
		err := join(5, func(i int) error { return nil })
		require.NoError(t, err)
		completions++
	}
	assert.Equal(t, 3, completions)

	assert.NoError(t, join(0, func(i int) error { return fmt.Errorf("never called") }))
}

func TestSortNewestFirst(t *testing.T) {
	base := time.Now()
	items := []time.Time{base, base.Add(2 * time.Second), base.Add(time.Second)}

	sortNewestFirst(items, func(ts time.Time) time.Time { return ts })

	assert.Equal(t, base.Add(2*time.Second), items[0])
	assert.Equal(t, base.Add(time.Second), items[1])
	assert.Equal(t, base, items[2])
}

func TestNewPage_Cursor(t *testing.T) {
	id := func(s string) string { return s }

	full := newPage([]string{"a", "b"}, 2, id)
	assert.Equal(t, "b", full.NextCursor)

	short := newPage([]string{"a"}, 2, id)
	assert.Empty(t, short.NextCursor)

	empty := newPage[string](nil, 2, id)
	assert.NotNil(t, empty.Items)
	assert.Empty(t, empty.NextCursor)
}
