// Package cache provides an in-memory key/value store with per-entry expiry.
package cache

import (
	"sync"
	"time"

	"github.com/jonathan/career-compass/internal/types"
)

// DefaultTTL applies when Set is called without a positive TTL.
const DefaultTTL = 5 * time.Minute

// Entry is a cached value with its lifetime. ExpiresAt is always after CreatedAt.
type Entry struct {
	Key       string
	Value     any
	Source    types.Source
	CreatedAt time.Time
	ExpiresAt time.Time
}

// expired reports whether the entry is past its expiry at now.
func (e *Entry) expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// Store is a TTL cache. Expired entries are removed lazily on the next read of
// their key or on Clear; there is no background eviction and no size bound.
type Store struct {
	mu         sync.Mutex
	entries    map[string]*Entry
	defaultTTL time.Duration
	now        func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithDefaultTTL overrides DefaultTTL.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.defaultTTL = ttl
		}
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		entries:    make(map[string]*Entry),
		defaultTTL: DefaultTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Set stores value under key as a real result.
func (s *Store) Set(key string, value any, ttl time.Duration) {
	s.SetEntry(key, value, ttl, types.SourceReal)
}

// SetEntry stores value under key, replacing any previous entry.
func (s *Store) SetEntry(key string, value any, ttl time.Duration, source types.Source) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	if source == "" {
		source = types.SourceReal
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.entries[key] = &Entry{
		Key:       key,
		Value:     value,
		Source:    source,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Get returns the value for key if present and unexpired.
func (s *Store) Get(key string) (any, bool) {
	entry, ok := s.Lookup(key)
	if !ok {
		return nil, false
	}
	return entry.Value, true
}

// Lookup returns a copy of the entry for key if present and unexpired.
// An expired entry is deleted.
func (s *Store) Lookup(key string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return Entry{}, false
	}
	if entry.expired(s.now()) {
		delete(s.entries, key)
		return Entry{}, false
	}
	return *entry, true
}

// Invalidate removes key.
func (s *Store) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Clear removes every entry.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*Entry)
}

// Len counts stored entries, including expired ones not yet read.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
