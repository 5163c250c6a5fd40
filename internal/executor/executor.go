// Package executor runs bound queries against the data store with
// best-effort result caching.
package executor

import (
	"context"
	"log/slog"
	"time"

	"github.com/campus-analytics/mirador/internal/domain"
	"github.com/campus-analytics/mirador/internal/query"
)

// statsWindow bounds the usage counters surfaced by GET /stats.
const statsWindow = 24 * time.Hour

// Executor is the cached query executor. Results are keyed by the
// rendered query and expire after the configured TTL; there is no
// explicit invalidation and no single-flight. Concurrent identical
// misses may each execute, but their writes are identical.
type Executor struct {
	store domain.Store
	cache domain.Cache
	ttl   time.Duration
}

// New creates an executor over a store and cache.
func New(store domain.Store, cache domain.Cache, ttl time.Duration) *Executor {
	if ttl <= 0 {
		ttl = domain.DefaultResultTTL
	}
	return &Executor{store: store, cache: cache, ttl: ttl}
}

// Execute returns the result set for a bound query, from cache when a
// non-expired entry exists, otherwise from the store. The boolean
// reports whether the result came from cache. Cache failures on either
// path are logged and degrade to a direct execution; store failures
// propagate and are never cached.
func (e *Executor) Execute(ctx context.Context, reportID string, q *query.Query) (*domain.ResultSet, bool, error) {
	key := q.Key()

	if e.cache != nil {
		rs, err := e.cache.GetResultSet(ctx, key)
		if err != nil {
			// Forced miss. The cache error stays here.
			slog.Warn("cache read failed, executing directly", "report_id", reportID, "error", err)
		} else if rs != nil {
			e.count(ctx, reportID, "hit")
			return rs, true, nil
		}
	}

	rs, err := e.store.Query(ctx, q.Text, q.Args...)
	if err != nil {
		return nil, false, err
	}

	if e.cache != nil {
		if err := e.cache.SetResultSet(ctx, key, rs, e.ttl); err != nil {
			slog.Warn("cache write failed", "report_id", reportID, "error", err)
		}
	}

	e.count(ctx, reportID, "miss")
	return rs, false, nil
}

// Stats reads the windowed hit/miss counters for the given report ids.
func (e *Executor) Stats(ctx context.Context, reportIDs []string) map[string]ReportStats {
	out := make(map[string]ReportStats, len(reportIDs))
	if e.cache == nil {
		return out
	}
	for _, id := range reportIDs {
		hits, err := e.cache.GetCounter(ctx, "report:"+id+":hit")
		if err != nil {
			slog.Warn("stats read failed", "report_id", id, "error", err)
			continue
		}
		misses, err := e.cache.GetCounter(ctx, "report:"+id+":miss")
		if err != nil {
			slog.Warn("stats read failed", "report_id", id, "error", err)
			continue
		}
		out[id] = ReportStats{Hits: hits, Misses: misses}
	}
	return out
}

// ReportStats holds windowed usage counters for one report.
type ReportStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

func (e *Executor) count(ctx context.Context, reportID, outcome string) {
	if e.cache == nil {
		return
	}
	if _, err := e.cache.IncrementCounter(ctx, "report:"+reportID+":"+outcome, statsWindow); err != nil {
		slog.Warn("counter update failed", "report_id", reportID, "error", err)
	}
}
