// Package sync keeps the catalog snapshot warm: one refresh at startup, then
// one per interval until shutdown.
package sync

import (
	"context"
	"time"

	"github.com/stroyast/sales-agent/platform/logger"
)

type Refresher interface {
	Refresh(ctx context.Context) error
}

type Scheduler struct {
	refresher Refresher
	interval  time.Duration
}

func NewScheduler(refresher Refresher, interval time.Duration) *Scheduler {
	return &Scheduler{
		refresher: refresher,
		interval:  interval,
	}
}

// Run blocks until ctx is cancelled. A failed refresh is logged and retried
// on the next tick; the first snapshot may simply arrive later.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.refresher.Refresh(ctx); err != nil {
		logger.Warn(ctx, "initial catalog sync failed", logger.ErrorF(err))
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "catalog sync stopped")
			return nil
		case <-ticker.C:
			if err := s.refresher.Refresh(ctx); err != nil {
				logger.Warn(ctx, "scheduled catalog sync failed", logger.ErrorF(err))
			}
		}
	}
}
