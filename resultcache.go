// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package routemap

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/golang-lru/simplelru"

	"rivaas.dev/routemap/semconv"
)

// resultCache memoizes successful matches by "METHOD path". When it is full
// the least recently used half is dropped at once.
// Methods are no-ops on a nil cache.
type resultCache struct {
	mu       sync.Mutex
	lru      *simplelru.LRU
	capacity int
	onEvict  func(n int)

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

func newResultCache(capacity int, onEvict func(n int)) (*resultCache, error) {
	// One spare slot: the LRU never evicts on its own.
	lru, err := simplelru.NewLRU(capacity+1, nil)
	if err != nil {
		return nil, err
	}

	return &resultCache{lru: lru, capacity: capacity, onEvict: onEvict}, nil
}

func (c *resultCache) get(key string) (*Match, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.Lock()
	v, ok := c.lru.Get(key)
	c.mu.Unlock()

	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)

	return v.(*Match), true
}

func (c *resultCache) add(key string, m *Match) {
	if c == nil {
		return
	}

	evicted := 0
	c.mu.Lock()
	if c.lru.Len() >= c.capacity && !c.lru.Contains(key) {
		for range c.capacity / 2 {
			if _, _, ok := c.lru.RemoveOldest(); ok {
				evicted++
			}
		}
	}
	c.lru.Add(key, m)
	c.mu.Unlock()

	if evicted > 0 {
		//nolint:gosec // G115: evicted is bounded by capacity
		c.evictions.Add(uint64(evicted))
		if c.onEvict != nil {
			c.onEvict(evicted)
		}
	}
}

func (c *resultCache) purge() {
	if c == nil {
		return
	}

	c.mu.Lock()
	c.lru.Purge()
	c.mu.Unlock()
}

func (c *resultCache) len() int {
	if c == nil {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lru.Len()
}

// ResultCacheStats describes the result cache. All fields are zero when the
// cache is disabled.
type ResultCacheStats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Size      int
	Capacity  int
}

// ResultCacheStats returns the result cache counters.
func (r *Router) ResultCacheStats() ResultCacheStats {
	c := r.results
	if c == nil {
		return ResultCacheStats{}
	}

	return ResultCacheStats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Size:      c.len(),
		Capacity:  c.capacity,
	}
}

// PurgeResultCache drops every memoized match. Route changes purge the
// cache automatically.
func (r *Router) PurgeResultCache() {
	r.results.purge()
}

func (r *Router) resultsEvicted(n int) {
	r.logger.Debug("result cache evicted oldest entries", semconv.EvictedCount, n, semconv.CacheCapacity, r.resultCacheCapacity)
	r.metrics.recordEvictions(context.Background(), n)
	r.emit(DiagResultCacheEvicted, "result cache evicted oldest entries", map[string]any{
		semconv.EvictedCount:  n,
		semconv.CacheCapacity: r.resultCacheCapacity,
	})
}
