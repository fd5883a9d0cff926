package cache

import (
	"context"

	"github.com/kirillkom/chess-assistant/internal/core/domain"
	"github.com/kirillkom/chess-assistant/internal/core/ports"
)

// SessionWindow is one cached history window. The window is only valid for
// the limit it was fetched with; a different limit is a miss.
type SessionWindow struct {
	Limit   int
	Queries []domain.SessionQuery
}

// CachedSessionProvider fronts a session provider with a short-lived cache
// so repeated "this position" lookups within a session do not hit the
// database every time. Writes invalidate the session's cached window.
type CachedSessionProvider struct {
	inner ports.SessionProvider
	cache *Cache[string, SessionWindow]
}

func NewCachedSessionProvider(inner ports.SessionProvider, cache *Cache[string, SessionWindow]) *CachedSessionProvider {
	return &CachedSessionProvider{inner: inner, cache: cache}
}

func (p *CachedSessionProvider) RecentQueries(ctx context.Context, sessionID string, limit int) ([]domain.SessionQuery, error) {
	if window, ok := p.cache.Get(sessionID); ok && window.Limit == limit {
		return window.Queries, nil
	}

	queries, err := p.inner.RecentQueries(ctx, sessionID, limit)
	if err != nil {
		return nil, err
	}
	p.cache.Set(sessionID, SessionWindow{Limit: limit, Queries: queries})
	return queries, nil
}

func (p *CachedSessionProvider) RecordQuery(ctx context.Context, query domain.SessionQuery) error {
	if err := p.inner.RecordQuery(ctx, query); err != nil {
		return err
	}
	p.cache.Delete(query.SessionID)
	return nil
}
