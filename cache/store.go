package cache

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// store is an expiring map that can enumerate its live keys.
type store struct {
	mu      sync.Mutex
	entries map[string]*storeEntry
	now     func() time.Time
}

type storeEntry struct {
	value     any
	expiresAt time.Time
	sliding   time.Duration
}

func newStore() *store {
	return &store{
		entries: make(map[string]*storeEntry),
		now:     time.Now,
	}
}

// get returns the live value for key, restarting its window if sliding.
// Expired entries are dropped on access.
func (s *store) get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	now := s.now()
	if !now.Before(e.expiresAt) {
		delete(s.entries, key)
		return nil, false
	}
	if e.sliding > 0 {
		e.expiresAt = now.Add(e.sliding)
	}
	return e.value, true
}

func (s *store) set(key string, value any, exp Expiration) {
	e := &storeEntry{value: value, expiresAt: s.now().Add(exp.TTL)}
	if exp.Sliding {
		e.sliding = exp.TTL
	}

	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
}

func (s *store) delete(keys ...string) {
	s.mu.Lock()
	for _, k := range keys {
		delete(s.entries, k)
	}
	s.mu.Unlock()
}

// keys returns the sorted live keys starting with prefix.
func (s *store) keys(prefix string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var out []string
	for k, e := range s.entries {
		if strings.HasPrefix(k, prefix) && now.Before(e.expiresAt) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// sweep drops expired entries and returns how many it removed.
func (s *store) sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for k, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed
}

func (s *store) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
