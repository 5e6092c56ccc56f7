// Package cache holds completed scan payloads keyed by normalized URL.
//
// Expiry is lazy: a stale entry is ignored on read and overwritten on the
// next successful scan. An optional background sweep bounds memory growth
// in long-lived processes without changing request semantics.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/mverbeek/sitegauge/internal/logging"
	"github.com/mverbeek/sitegauge/internal/metrics"
	"github.com/mverbeek/sitegauge/internal/model"
)

type entry struct {
	storedAt time.Time
	payload  *model.ScanPayload
}

// Store is a TTL-keyed map of scan results. Safe for concurrent use; the
// raw map is never exposed to callers.
type Store struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry
	logger  logging.Logger

	now func() time.Time // injectable for tests
}

// New creates a Store whose entries stay fresh for ttl.
func New(ttl time.Duration, logger logging.Logger) *Store {
	return &Store{
		ttl:     ttl,
		entries: make(map[string]entry),
		logger:  logger.With(logging.Field{Key: "component", Value: "cache"}),
		now:     time.Now,
	}
}

// Get returns the payload for key if it exists and is still fresh.
func (s *Store) Get(key string) (*model.ScanPayload, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || s.now().Sub(e.storedAt) >= s.ttl {
		return nil, false
	}
	return e.payload, true
}

// Set inserts or replaces the entry for key.
func (s *Store) Set(key string, payload *model.ScanPayload) {
	s.mu.Lock()
	s.entries[key] = entry{storedAt: s.now(), payload: payload}
	n := len(s.entries)
	s.mu.Unlock()

	metrics.CacheEntries.Set(float64(n))
}

// Len reports the number of stored entries, fresh or stale.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Sweep drops expired entries and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for k, e := range s.entries {
		if e.storedAt.Before(cutoff) {
			delete(s.entries, k)
			removed++
		}
	}
	n := len(s.entries)
	s.mu.Unlock()

	metrics.CacheEntries.Set(float64(n))
	return removed
}

// RunSweeper sweeps every interval until ctx is done. Call in a goroutine.
func (s *Store) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.Sweep(); removed > 0 {
				s.logger.Debug("swept expired cache entries",
					logging.Field{Key: "removed", Value: removed},
					logging.Field{Key: "remaining", Value: s.Len()})
			}
		}
	}
}
