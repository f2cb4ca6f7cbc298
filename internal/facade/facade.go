// Package facade puts a TTL cache and request coalescing in front of the advisor's
// model-backed operations.
package facade

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/career-compass/internal/cache"
	"github.com/jonathan/career-compass/internal/types"
)

// Adapter names used as cache key prefixes.
const (
	AdapterAssessment        = "assessment"
	AdapterSubmission        = "submission"
	AdapterAssessmentHistory = "assessment-history"
	AdapterDashboard         = "dashboard"
	AdapterJobs              = "jobs"
	AdapterRecommendations   = "recommendations"
	AdapterCareer            = "career"
)

// TTLs holds the cache lifetime per domain.
// Fallback applies to results tagged as fallback; zero disables caching them.
type TTLs struct {
	Assessment      time.Duration
	Recommendations time.Duration
	Dashboard       time.Duration
	Jobs            time.Duration
	Default         time.Duration
	Fallback        time.Duration
}

// DefaultTTLs returns the standard lifetimes.
func DefaultTTLs() TTLs {
	return TTLs{
		Assessment:      10 * time.Minute,
		Recommendations: 15 * time.Minute,
		Dashboard:       5 * time.Minute,
		Jobs:            10 * time.Minute,
		Default:         cache.DefaultTTL,
		Fallback:        30 * time.Second,
	}
}

// Stats are cumulative cache counters.
type Stats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Coalesced int64 `json:"coalesced"`
	Entries   int   `json:"entries"`
}

type counters struct {
	hits, misses, coalesced atomic.Int64
}

// result is what travels through the single-flight group.
type result struct {
	value  any
	source types.Source
}

// Key derives the cache key for an adapter call: the adapter name and the
// hex SHA-256 of the input's JSON encoding. Map keys encode sorted, so equal
// inputs produce equal keys.
func Key(adapter string, input any) (string, error) {
	data, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s cache key: %w", adapter, err)
	}
	sum := sha256.Sum256(data)
	return adapter + ":" + hex.EncodeToString(sum[:]), nil
}

type fetchFunc[T any] func(ctx context.Context) (T, types.Source, error)

// cached returns a fresh cache entry for key or runs fetch once for all concurrent
// callers with the same key. Errors are never cached; fallback results use the
// fallback TTL.
func cached[T any](ctx context.Context, f *Facade, adapter string, input any, ttl time.Duration, fetch fetchFunc[T]) (T, types.Source, error) {
	var zero T

	key, err := Key(adapter, input)
	if err != nil {
		return zero, "", err
	}

	if entry, ok := f.cache.Lookup(key); ok {
		if value, ok := entry.Value.(T); ok {
			f.stats.hits.Add(1)
			f.logger.Debug("cache hit", zap.String("adapter", adapter), zap.String("source", string(entry.Source)))
			return value, entry.Source, nil
		}
	}

	executed := false
	ch := f.group.DoChan(key, func() (any, error) {
		executed = true
		f.stats.misses.Add(1)

		value, source, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		// A cancelled caller may have produced a fallback; do not keep it.
		if ctx.Err() == nil {
			f.store(key, adapter, value, source, ttl)
		}
		return result{value: value, source: source}, nil
	})

	select {
	case <-ctx.Done():
		return zero, "", ctx.Err()
	case res := <-ch:
		if res.Shared && !executed {
			f.stats.coalesced.Add(1)
		}
		if res.Err != nil {
			return zero, "", res.Err
		}
		r := res.Val.(result)
		return r.value.(T), r.source, nil
	}
}

func (f *Facade) store(key, adapter string, value any, source types.Source, ttl time.Duration) {
	if source == types.SourceFallback {
		if f.ttl.Fallback <= 0 {
			return
		}
		ttl = f.ttl.Fallback
	}
	f.cache.SetEntry(key, value, ttl, source)
	f.logger.Debug("cache store",
		zap.String("adapter", adapter),
		zap.String("source", string(source)),
		zap.Duration("ttl", ttl),
	)
}

func (f *Facade) invalidate(adapter string, input any) {
	if key, err := Key(adapter, input); err == nil {
		f.cache.Invalidate(key)
	}
}
