package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// LRU is a size-bounded in-memory cache whose entries also expire after ttl.
// A zero ttl keeps entries until evicted by size.
type LRU[K comparable, V any] struct {
	cache *expirable.LRU[K, V]
}

func NewLRU[K comparable, V any](size int, ttl time.Duration) *LRU[K, V] {
	if size <= 0 {
		size = 128
	}
	return &LRU[K, V]{
		cache: expirable.NewLRU[K, V](size, nil, ttl),
	}
}

func (c *LRU[K, V]) Get(key K) (V, bool) {
	return c.cache.Get(key)
}

func (c *LRU[K, V]) Set(key K, value V) {
	c.cache.Add(key, value)
}

func (c *LRU[K, V]) Remove(key K) {
	c.cache.Remove(key)
}

func (c *LRU[K, V]) Len() int {
	return c.cache.Len()
}

func (c *LRU[K, V]) Purge() {
	c.cache.Purge()
}
