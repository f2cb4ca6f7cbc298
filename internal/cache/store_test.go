package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/career-compass/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 9, 12, 8, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestStore_SetGet(t *testing.T) {
	clock := newFakeClock()
	s := New(WithClock(clock.Now))

	s.Set("k", "v", time.Minute)

	got, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)
}

func TestStore_ExpiresAfterTTL(t *testing.T) {
	clock := newFakeClock()
	s := New(WithClock(clock.Now))

	s.Set("k", 42, time.Minute)

	clock.Advance(time.Minute)
	_, ok := s.Get("k")
	assert.True(t, ok, "entry is still valid exactly at its expiry instant")

	clock.Advance(time.Millisecond)
	got, ok := s.Get("k")
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.Equal(t, 0, s.Len(), "expired entry should be removed on read")
}

func TestStore_DefaultTTL(t *testing.T) {
	clock := newFakeClock()
	s := New(WithClock(clock.Now))

	s.Set("k", "v", 0)
	entry, ok := s.Lookup("k")
	require.True(t, ok)
	assert.Equal(t, DefaultTTL, entry.ExpiresAt.Sub(entry.CreatedAt))

	custom := New(WithClock(clock.Now), WithDefaultTTL(time.Second))
	custom.Set("k", "v", -time.Hour)
	entry, ok = custom.Lookup("k")
	require.True(t, ok)
	assert.Equal(t, time.Second, entry.ExpiresAt.Sub(entry.CreatedAt))
}

func TestStore_LazyExpiryLeavesUnreadEntries(t *testing.T) {
	clock := newFakeClock()
	s := New(WithClock(clock.Now))

	s.Set("a", 1, time.Second)
	s.Set("b", 2, time.Second)
	clock.Advance(time.Hour)

	_, ok := s.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len(), "b lingers until read or cleared")

	s.Clear()
	assert.Equal(t, 0, s.Len())
}

func TestStore_OverwriteAndInvalidate(t *testing.T) {
	clock := newFakeClock()
	s := New(WithClock(clock.Now))

	s.Set("k", "first", time.Minute)
	clock.Advance(30 * time.Second)
	s.SetEntry("k", "second", time.Minute, types.SourceFallback)

	entry, ok := s.Lookup("k")
	require.True(t, ok)
	assert.Equal(t, "second", entry.Value)
	assert.Equal(t, types.SourceFallback, entry.Source)
	assert.Equal(t, clock.Now(), entry.CreatedAt)

	s.Invalidate("k")
	_, ok = s.Get("k")
	assert.False(t, ok)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := New()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%5)
			s.Set(key, i, time.Minute)
			s.Get(key)
			if i%10 == 0 {
				s.Invalidate(key)
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, s.Len(), 5)
}
