/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

package lrucache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	_, err := New[string, int](0)
	require.EqualError(t, err, "maxEntries must be greater than 0")
}

func TestLRUCache(t *testing.T) {
	tests := []struct {
		name          string
		maxEntries    int
		fn            func(t *testing.T, cache *LRUCache[string, int])
		wantLen       int
		wantEvictions int
	}{
		{
			name:       "get not existing key",
			maxEntries: 10,
			fn: func(t *testing.T, cache *LRUCache[string, int]) {
				_, found := cache.Get("127.0.0.1")
				require.False(t, found)
			},
		},
		{
			name:       "add and get",
			maxEntries: 10,
			fn: func(t *testing.T, cache *LRUCache[string, int]) {
				cache.Add("127.0.0.1", 1)
				cache.Add("10.0.0.1", 2)
				cache.Add("127.0.0.1", 3)
				val, found := cache.Get("127.0.0.1")
				require.True(t, found)
				require.Equal(t, 3, val)
			},
			wantLen: 2,
		},
		{
			name:       "least recently used entry is evicted",
			maxEntries: 2,
			fn: func(t *testing.T, cache *LRUCache[string, int]) {
				cache.Add("a", 1)
				cache.Add("b", 2)
				_, found := cache.Get("a") // "b" becomes the least recently used
				require.True(t, found)
				cache.Add("c", 3)

				_, found = cache.Get("b")
				require.False(t, found)
				val, found := cache.Get("a")
				require.True(t, found)
				require.Equal(t, 1, val)
			},
			wantLen:       2,
			wantEvictions: 1,
		},
		{
			name:       "get or add",
			maxEntries: 1,
			fn: func(t *testing.T, cache *LRUCache[string, int]) {
				val, exists := cache.GetOrAdd("a", func() int { return 1 })
				require.False(t, exists)
				require.Equal(t, 1, val)
				val, exists = cache.GetOrAdd("a", func() int { return 2 })
				require.True(t, exists)
				require.Equal(t, 1, val)

				val, exists = cache.GetOrAdd("b", func() int { return 3 })
				require.False(t, exists)
				require.Equal(t, 3, val)
				_, found := cache.Get("a")
				require.False(t, found)
			},
			wantLen:       1,
			wantEvictions: 1,
		},
		{
			name:       "remove and purge",
			maxEntries: 10,
			fn: func(t *testing.T, cache *LRUCache[string, int]) {
				cache.Add("a", 1)
				cache.Add("b", 2)
				cache.Add("c", 3)
				require.True(t, cache.Remove("a"))
				require.False(t, cache.Remove("a"))
				require.Equal(t, 2, cache.Len())
				cache.Purge()
				_, found := cache.Get("b")
				require.False(t, found)
			},
		},
	}
	for i := range tests {
		tt := tests[i]
		t.Run(tt.name, func(t *testing.T) {
			cache, err := New[string, int](tt.maxEntries)
			require.NoError(t, err)
			tt.fn(t, cache)
			require.Equal(t, tt.wantLen, cache.Len())
			require.Equal(t, tt.wantEvictions, cache.Evictions())
		})
	}
}

func TestLRUCache_GetOrAddConcurrently(t *testing.T) {
	cache, err := New[string, *int](10)
	require.NoError(t, err)

	var mu sync.Mutex
	created := 0
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cache.GetOrAdd("key", func() *int {
				mu.Lock()
				created++
				mu.Unlock()
				return new(int)
			})
		}()
	}
	wg.Wait()
	require.Equal(t, 1, created)
	require.Equal(t, 1, cache.Len())
}
