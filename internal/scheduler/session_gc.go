package scheduler

import (
	"context"
	"time"

	"github.com/linkstash/linkstash/internal/logger"
	redisstore "github.com/linkstash/linkstash/internal/store/redis"
)

// SessionGC prunes expired session JTIs from the tracking set. The records
// themselves expire via Redis TTLs; only the set accumulates garbage.
type SessionGC struct {
	store    *redisstore.Store
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
}

func NewSessionGC(store *redisstore.Store, log logger.Logger, interval time.Duration) *SessionGC {
	return &SessionGC{
		store:    store,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic sweep.
func (gc *SessionGC) Start(ctx context.Context) error {
	// Run immediately on start
	if err := gc.Collect(ctx); err != nil {
		gc.logger.Warn("initial session sweep failed", logger.Error(err))
	}

	ticker := time.NewTicker(gc.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := gc.Collect(ctx); err != nil {
					gc.logger.Error("session sweep failed", logger.Error(err))
				}
			case <-gc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the sweeper.
func (gc *SessionGC) Stop() {
	close(gc.stopCh)
}

// Collect removes tracking entries for sessions that have expired.
func (gc *SessionGC) Collect(ctx context.Context) error {
	pruned, err := gc.store.PruneSessions(ctx)
	if err != nil {
		return err
	}
	if pruned > 0 {
		gc.logger.Info("session sweep completed", logger.Int("pruned", pruned))
	}
	return nil
}
