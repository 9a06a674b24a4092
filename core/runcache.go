package core

import (
	"sync"
	"sync/atomic"
	"time"
)

// RunCacheConfig configures the in-memory run store.
type RunCacheConfig struct {
	MaxSize int
}

// RunCacheStats are simple counters for run store behavior.
// These are intended for diagnostics and monitoring.
type RunCacheStats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Sets      int64 `json:"sets"`
	Deletes   int64 `json:"deletes"`
	Evictions int64 `json:"evictions"`
	Size      int   `json:"size"`
}

// InMemoryRunCache is the default RunStorage: a size-bounded map of runs
// keyed by run ID. Runs expire on their own ExpiresAt.
//
// The cache stores and returns clones, matching what a database-backed
// store does naturally: callers never share live maps with the store or
// with each other, so a returned run can be read or mutated while another
// goroutine persists the same ID.
type InMemoryRunCache struct {
	runs    map[string]*Run
	mu      sync.RWMutex
	maxSize int

	// counters
	hits      int64
	misses    int64
	sets      int64
	deletes   int64
	evictions int64
}

var _ RunStorage = (*InMemoryRunCache)(nil)

func NewInMemoryRunCache(c RunCacheConfig) *InMemoryRunCache {
	if c.MaxSize == 0 {
		c.MaxSize = 500
	}

	return &InMemoryRunCache{
		runs:    make(map[string]*Run),
		maxSize: c.MaxSize,
	}
}

func (c *InMemoryRunCache) CreateRun(run *Run) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Simple eviction if full
	if len(c.runs) >= c.maxSize {
		for k := range c.runs {
			delete(c.runs, k)
			atomic.AddInt64(&c.evictions, 1)
			break
		}
	}

	c.runs[run.ID] = run.Clone()
	atomic.AddInt64(&c.sets, 1)
	return nil
}

func (c *InMemoryRunCache) GetRun(id string) (*Run, error) {
	c.mu.RLock()
	run, exists := c.runs[id]
	c.mu.RUnlock()

	if !exists {
		atomic.AddInt64(&c.misses, 1)
		return nil, ErrRunNotFound
	}

	if run.Expired(time.Now()) {
		atomic.AddInt64(&c.misses, 1)
		if err := c.DeleteRun(id); err != nil {
			return nil, err
		}
		return nil, ErrRunExpired
	}

	atomic.AddInt64(&c.hits, 1)
	return run.Clone(), nil
}

func (c *InMemoryRunCache) UpdateRun(run *Run) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.runs[run.ID]; !exists {
		return ErrRunNotFound
	}
	c.runs[run.ID] = run.Clone()
	atomic.AddInt64(&c.sets, 1)
	return nil
}

func (c *InMemoryRunCache) DeleteRun(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, existed := c.runs[id]; existed {
		delete(c.runs, id)
		atomic.AddInt64(&c.deletes, 1)
	}
	return nil
}

func (c *InMemoryRunCache) DeleteExpiredRuns() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for id, run := range c.runs {
		if run.Expired(now) {
			delete(c.runs, id)
			removed++
		}
	}
	atomic.AddInt64(&c.deletes, int64(removed))
	return removed, nil
}

func (c *InMemoryRunCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.runs)
}

func (c *InMemoryRunCache) Stats() RunCacheStats {
	return RunCacheStats{
		Hits:      atomic.LoadInt64(&c.hits),
		Misses:    atomic.LoadInt64(&c.misses),
		Sets:      atomic.LoadInt64(&c.sets),
		Deletes:   atomic.LoadInt64(&c.deletes),
		Evictions: atomic.LoadInt64(&c.evictions),
		Size:      c.Len(),
	}
}
