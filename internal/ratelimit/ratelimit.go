// Package ratelimit provides sliding-window rate limiting for the submission
// and reaction pipelines. The window counter is shared mutable state across
// concurrent requests, so the contract is a single atomic check-and-increment:
// two simultaneous submissions near the window boundary can never both pass
// when only one slot remains.
//
// Two implementations are provided:
//   - Redis (redis.go): the production limiter; counters live in an external
//     store so multiple service instances enforce one global limit.
//   - Memory (this file): a process-local limiter for development and tests.
//     Never deploy it behind more than one instance; each process would keep
//     its own window.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter grants or denies one slot for key within a trailing window.
type Limiter interface {
	// Allow atomically checks and consumes one slot for key. It returns
	// false when the window is full. A denied attempt consumes nothing.
	Allow(ctx context.Context, key string) (bool, error)
}

// entry holds the accepted-event timestamps for one key plus the last time
// the key was touched, for idle eviction.
type entry struct {
	times    []time.Time
	lastSeen time.Time
}

// Memory is a mutex-guarded, process-local sliding-window limiter.
//
// Keys are created on demand and stored in an internal map. Idle keys are
// evicted opportunistically during lookups to keep memory bounded, the same
// discipline the HTTP edge limiter uses for its token buckets.
//
// This type is safe for concurrent use.
type Memory struct {
	limit  int
	window time.Duration

	mu       sync.Mutex
	entries  map[string]*entry
	ttl      time.Duration
	cleanupN uint64

	// now is a test seam; defaults to time.Now.
	now func() time.Time
}

// NewMemory constructs a process-local limiter permitting at most limit
// events per key in any trailing window. limit values < 1 are coerced to 1.
func NewMemory(limit int, window time.Duration) *Memory {
	if limit < 1 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Memory{
		limit:   limit,
		window:  window,
		entries: make(map[string]*entry),
		ttl:     10 * time.Minute,
		now:     time.Now,
	}
}

// Allow implements Limiter. The prune, the check, and the increment happen
// under one lock acquisition, which is what makes the operation atomic.
func (m *Memory) Allow(_ context.Context, key string) (bool, error) {
	now := m.now()
	cutoff := now.Add(-m.window)

	m.mu.Lock()
	defer m.mu.Unlock()

	// Opportunistic eviction of idle keys after a threshold of lookups.
	m.cleanupN++
	if m.cleanupN >= 5000 {
		for k, e := range m.entries {
			if now.Sub(e.lastSeen) >= m.ttl {
				delete(m.entries, k)
			}
		}
		m.cleanupN = 0
	}

	e, ok := m.entries[key]
	if !ok {
		e = &entry{}
		m.entries[key] = e
	}
	e.lastSeen = now

	// Drop events that slid out of the window.
	keep := e.times[:0]
	for _, ts := range e.times {
		if ts.After(cutoff) {
			keep = append(keep, ts)
		}
	}
	e.times = keep

	if len(e.times) >= m.limit {
		return false, nil
	}
	e.times = append(e.times, now)
	return true, nil
}
