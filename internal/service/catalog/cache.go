package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/stroyast/sales-agent/internal/model"
	"github.com/stroyast/sales-agent/platform/logger"
)

// GroupsFetcher pulls the full group hierarchy from the ERP.
type GroupsFetcher interface {
	FetchGroups(ctx context.Context) ([]model.CatalogGroup, error)
}

const sfKey = "catalog"

// Cache holds the latest ERP catalog snapshot with time-boxed validity.
// Snapshots are replaced wholesale, never mutated. The refresh is
// single-flighted: when the TTL expires under load, exactly one upstream
// fetch runs and every concurrent caller shares its result.
type Cache struct {
	fetcher GroupsFetcher
	ttl     time.Duration
	grace   time.Duration
	now     func() time.Time

	sf singleflight.Group

	mu        sync.RWMutex
	snapshot  []model.CatalogGroup
	fetchedAt time.Time
	forced    bool
	lastErr   error
}

// NewCache builds a cache with the given TTL. grace > 0 relaxes refresh
// blocking: callers arriving while a refresh is in flight get the previous
// snapshot immediately as long as it is younger than ttl+grace, instead of
// waiting behind a slow upstream call.
func NewCache(fetcher GroupsFetcher, ttl, grace time.Duration) *Cache {
	return &Cache{
		fetcher: fetcher,
		ttl:     ttl,
		grace:   grace,
		now:     time.Now,
	}
}

// Catalog returns the current snapshot, refreshing it first when the TTL has
// expired or Invalidate was called. The second return value flags a stale
// snapshot being served because a refresh failed or is still in flight.
func (c *Cache) Catalog(ctx context.Context) ([]model.CatalogGroup, bool, error) {
	const op = "catalog.cache.Catalog"

	c.mu.RLock()
	snap := c.snapshot
	fetchedAt := c.fetchedAt
	forced := c.forced
	c.mu.RUnlock()

	now := c.now()
	if snap != nil && !forced && now.Sub(fetchedAt) < c.ttl {
		return snap, false, nil
	}

	ch := c.sf.DoChan(sfKey, func() (any, error) {
		return nil, c.refresh(ctx)
	})

	if c.grace > 0 && snap != nil && !forced && now.Sub(fetchedAt) < c.ttl+c.grace {
		select {
		case <-ch:
			// Refresh already finished, hand out the fresh state below.
		default:
			return snap, true, nil
		}
	} else {
		select {
		case <-ctx.Done():
			if snap != nil {
				return snap, true, nil
			}
			return nil, false, fmt.Errorf("%s: %w", op, ctx.Err())
		case <-ch:
		}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.snapshot == nil {
		return nil, false, fmt.Errorf("%s: %w", op, model.ErrCatalogUnavailable)
	}

	stale := c.lastErr != nil || c.now().Sub(c.fetchedAt) >= c.ttl
	return c.snapshot, stale, nil
}

// Refresh forces a synchronous catalog fetch, sharing the flight with any
// concurrent Catalog callers. Used by the sync scheduler and the admin
// refresh trigger.
func (c *Cache) Refresh(ctx context.Context) error {
	_, err, _ := c.sf.Do(sfKey, func() (any, error) {
		return nil, c.refresh(ctx)
	})
	return err
}

// Invalidate forces the next Catalog call to refresh regardless of TTL.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.forced = true
	c.mu.Unlock()
}

func (c *Cache) Status() model.SyncStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	st := model.SyncStatus{
		FetchedAt:  c.fetchedAt,
		GroupCount: len(c.snapshot),
	}
	for _, g := range c.snapshot {
		st.ItemCount += len(g.Items)
	}
	if c.lastErr != nil {
		st.LastError = c.lastErr.Error()
	}
	st.Stale = c.snapshot == nil || c.lastErr != nil || c.now().Sub(c.fetchedAt) >= c.ttl
	return st
}

func (c *Cache) refresh(ctx context.Context) error {
	const op = "catalog.cache.refresh"

	// The fetch outlives the caller on purpose: a snapshot fetched for an
	// abandoned request still serves the next one.
	groups, err := c.fetcher.FetchGroups(context.WithoutCancel(ctx))

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.lastErr = err
		logger.Warn(ctx, "catalog refresh failed",
			logger.Bool("has_snapshot", c.snapshot != nil),
			logger.ErrorF(err),
		)
		return fmt.Errorf("%s: %w", op, err)
	}

	c.snapshot = groups
	c.fetchedAt = c.now()
	c.forced = false
	c.lastErr = nil

	itemCount := 0
	for _, g := range groups {
		itemCount += len(g.Items)
	}
	logger.Info(ctx, "catalog refreshed",
		logger.Int("groups", len(groups)),
		logger.Int("items", itemCount),
	)

	return nil
}
