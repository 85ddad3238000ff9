/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

package lrucache

import (
	"container/list"
	"fmt"
	"sync"
)

type cacheEntry[K comparable, V any] struct {
	key   K
	value V
}

// LRUCache represents an LRU cache with a fixed maximum number of entries.
type LRUCache[K comparable, V any] struct {
	maxEntries int

	mu      sync.Mutex
	lruList *list.List
	cache   map[K]*list.Element // map of cache entries, value is a lruList element

	evictions int
}

// New creates a new LRUCache with the provided maximum number of entries.
func New[K comparable, V any](maxEntries int) (*LRUCache[K, V], error) {
	if maxEntries <= 0 {
		return nil, fmt.Errorf("maxEntries must be greater than 0")
	}
	return &LRUCache[K, V]{
		maxEntries: maxEntries,
		lruList:    list.New(),
		cache:      make(map[K]*list.Element),
	}, nil
}

// Get returns a value from the cache by the provided key and marks it as recently used.
func (c *LRUCache[K, V]) Get(key K) (value V, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.get(key)
}

// Add adds a value to the cache with the provided key.
// If the cache is full, the least recently used entry will be removed.
func (c *LRUCache[K, V]) Add(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[key]; ok {
		c.lruList.MoveToFront(elem)
		elem.Value.(*cacheEntry[K, V]).value = value
		return
	}
	c.addNew(key, value)
}

// GetOrAdd returns a value from the cache by the provided key.
// If the key does not exist, the value returned by valueProvider is added.
// valueProvider is called under the cache lock, so it's called at most once per missing key.
func (c *LRUCache[K, V]) GetOrAdd(key K, valueProvider func() V) (value V, exists bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if value, exists = c.get(key); exists {
		return value, exists
	}
	value = valueProvider()
	c.addNew(key, value)
	return value, false
}

// Remove removes a value from the cache by the provided key.
func (c *LRUCache[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.cache[key]
	if !ok {
		return false
	}
	c.lruList.Remove(elem)
	delete(c.cache, key)
	return true
}

// Purge clears the cache. Removed entries are not counted as evictions.
func (c *LRUCache[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache = make(map[K]*list.Element)
	c.lruList.Init()
}

// Len returns the number of items in the cache.
func (c *LRUCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}

// Evictions returns the number of entries removed to make room for new ones.
func (c *LRUCache[K, V]) Evictions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictions
}

func (c *LRUCache[K, V]) get(key K) (value V, ok bool) {
	elem, hit := c.cache[key]
	if !hit {
		return value, false
	}
	c.lruList.MoveToFront(elem)
	return elem.Value.(*cacheEntry[K, V]).value, true
}

func (c *LRUCache[K, V]) addNew(key K, value V) {
	c.cache[key] = c.lruList.PushFront(&cacheEntry[K, V]{key: key, value: value})
	if len(c.cache) <= c.maxEntries {
		return
	}
	if elem := c.lruList.Back(); elem != nil {
		c.lruList.Remove(elem)
		delete(c.cache, elem.Value.(*cacheEntry[K, V]).key)
		c.evictions++
	}
}
