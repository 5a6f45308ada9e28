package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU[string, int](2, 0)
	c.Set("a", 1)
	c.Set("b", 2)

	_, ok := c.Get("a")
	require.True(t, ok)

	c.Set("c", 3)

	_, ok = c.Get("b")
	assert.False(t, ok)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, c.Len())
}

func TestLRU_Expires(t *testing.T) {
	c := NewLRU[string, int](10, 20*time.Millisecond)
	c.Set("a", 1)

	assert.Eventually(t, func() bool {
		_, ok := c.Get("a")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestLRU_Remove(t *testing.T) {
	c := NewLRU[string, int](10, 0)
	c.Set("a", 1)
	c.Remove("a")

	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestFileCache_RoundTrip(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)

	key := "https://storage.googleapis.com/bucket/posts/p1/images/x.jpg"
	_, ok := c.Get(key)
	assert.False(t, ok)

	require.NoError(t, c.Put(key, []byte("jpeg")))
	data, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, []byte("jpeg"), data)

	require.NoError(t, c.Remove(key))
	_, ok = c.Get(key)
	assert.False(t, ok)
	assert.NoError(t, c.Remove(key))
}
