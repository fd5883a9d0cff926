package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kirillkom/chess-assistant/internal/core/domain"
)

func newClockedCache(t *testing.T, ttl time.Duration, capacity int) (*Cache[string, string], *time.Time) {
	t.Helper()
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	c := New[string, string](ttl, capacity)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestGetHonorsTTL(t *testing.T) {
	c, now := newClockedCache(t, 300*time.Second, 0)
	base := *now

	c.Set("k", "v")

	*now = base.Add(299 * time.Second)
	if v, ok := c.Get("k"); !ok || v != "v" {
		t.Fatalf("entry should still be live at 299s, got %q %v", v, ok)
	}

	*now = base.Add(301 * time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatal("entry should be expired at 301s")
	}
	if c.Len() != 0 {
		t.Fatal("expired entry should be evicted on read")
	}
}

func TestSetEvictsOldestAtCapacity(t *testing.T) {
	c, now := newClockedCache(t, time.Hour, 2)
	base := *now

	c.Set("a", "1")
	*now = base.Add(time.Second)
	c.Set("b", "2")
	*now = base.Add(2 * time.Second)
	c.Set("c", "3")

	if c.Len() != 2 {
		t.Fatalf("expected 2 entries after eviction, got %d", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Fatal("oldest entry should have been evicted")
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatal("newest entry should survive")
	}
}

func TestOverwriteDoesNotEvict(t *testing.T) {
	c, _ := newClockedCache(t, time.Hour, 2)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("a", "updated")

	if c.Len() != 2 {
		t.Fatalf("overwrite must not evict, got %d entries", c.Len())
	}
	if v, _ := c.Get("a"); v != "updated" {
		t.Fatalf("expected updated value, got %q", v)
	}
}

func TestFlushAndDelete(t *testing.T) {
	c, _ := newClockedCache(t, time.Hour, 0)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatal("deleted entry should be gone")
	}
	c.Flush()
	if c.Len() != 0 {
		t.Fatal("flush should drop everything")
	}
}

type fakeSessions struct {
	queries   []domain.SessionQuery
	readCalls int
	recordErr error
}

func (f *fakeSessions) RecentQueries(_ context.Context, _ string, _ int) ([]domain.SessionQuery, error) {
	f.readCalls++
	return f.queries, nil
}

func (f *fakeSessions) RecordQuery(_ context.Context, q domain.SessionQuery) error {
	if f.recordErr != nil {
		return f.recordErr
	}
	f.queries = append([]domain.SessionQuery{q}, f.queries...)
	return nil
}

func TestCachedSessionProvider(t *testing.T) {
	inner := &fakeSessions{queries: []domain.SessionQuery{{ID: "q1", SessionID: "s1"}}}
	provider := NewCachedSessionProvider(inner, New[string, SessionWindow](time.Minute, 0))

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		queries, err := provider.RecentQueries(ctx, "s1", 10)
		if err != nil {
			t.Fatalf("RecentQueries() error = %v", err)
		}
		if len(queries) != 1 {
			t.Fatalf("expected 1 query, got %d", len(queries))
		}
	}
	if inner.readCalls != 1 {
		t.Fatalf("expected 1 backend read, got %d", inner.readCalls)
	}

	// A different window size misses the cache.
	if _, err := provider.RecentQueries(ctx, "s1", 5); err != nil {
		t.Fatalf("RecentQueries() error = %v", err)
	}
	if inner.readCalls != 2 {
		t.Fatalf("expected 2 backend reads after limit change, got %d", inner.readCalls)
	}
}

func TestCachedSessionProviderInvalidatesOnWrite(t *testing.T) {
	inner := &fakeSessions{}
	provider := NewCachedSessionProvider(inner, New[string, SessionWindow](time.Minute, 0))

	ctx := context.Background()
	if _, err := provider.RecentQueries(ctx, "s1", 10); err != nil {
		t.Fatalf("RecentQueries() error = %v", err)
	}
	if err := provider.RecordQuery(ctx, domain.SessionQuery{ID: "q1", SessionID: "s1"}); err != nil {
		t.Fatalf("RecordQuery() error = %v", err)
	}

	queries, err := provider.RecentQueries(ctx, "s1", 10)
	if err != nil {
		t.Fatalf("RecentQueries() error = %v", err)
	}
	if len(queries) != 1 {
		t.Fatalf("write should invalidate cached window, got %d queries", len(queries))
	}
}

func TestCachedSessionProviderWriteFailureKeepsCache(t *testing.T) {
	inner := &fakeSessions{recordErr: errors.New("db down")}
	provider := NewCachedSessionProvider(inner, New[string, SessionWindow](time.Minute, 0))

	ctx := context.Background()
	if _, err := provider.RecentQueries(ctx, "s1", 10); err != nil {
		t.Fatalf("RecentQueries() error = %v", err)
	}
	if err := provider.RecordQuery(ctx, domain.SessionQuery{SessionID: "s1"}); err == nil {
		t.Fatal("expected write error")
	}
	if _, err := provider.RecentQueries(ctx, "s1", 10); err != nil {
		t.Fatalf("RecentQueries() error = %v", err)
	}
	if inner.readCalls != 1 {
		t.Fatalf("failed write must not invalidate, got %d reads", inner.readCalls)
	}
}
