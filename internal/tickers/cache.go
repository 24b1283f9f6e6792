package tickers

import (
	"context"
	"time"

	"stockwatch/internal/logger"
	"stockwatch/internal/models"
	"stockwatch/internal/storage"
)

// Lister resolves a market's constituent list.
type Lister interface {
	List(ctx context.Context, src Source) ([]models.Ticker, error)
}

// CachedProvider wraps a Lister with a SQLite-backed cache so repeated
// market switches within the TTL do not rescrape the reference page.
type CachedProvider struct {
	inner Lister
	store *storage.Store
	ttl   time.Duration
	now   func() time.Time
}

func NewCachedProvider(inner Lister, store *storage.Store, ttl time.Duration) *CachedProvider {
	return &CachedProvider{inner: inner, store: store, ttl: ttl, now: time.Now}
}

// List serves from cache when fresh, otherwise scrapes and refreshes the
// cache. Cache write failures are logged, not surfaced: the scrape result is
// still good.
func (c *CachedProvider) List(ctx context.Context, src Source) ([]models.Ticker, error) {
	if cached, ok, err := c.store.LoadTickerList(src.Name, c.ttl, c.now()); err != nil {
		logger.Warn("Ticker cache read failed for %s: %v", src.Name, err)
	} else if ok {
		logger.Debug("Ticker list for %s served from cache (%d symbols)", src.Name, len(cached))
		return cached, nil
	}

	list, err := c.inner.List(ctx, src)
	if err != nil {
		return nil, err
	}
	if err := c.store.SaveTickerList(src.Name, list, c.now()); err != nil {
		logger.Warn("Ticker cache write failed for %s: %v", src.Name, err)
	}
	return list, nil
}
