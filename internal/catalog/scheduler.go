package catalog

import (
	"context"
	"time"

	"github.com/dom/dota-draft-assistant/internal/logging"
)

// Scheduler runs the refresher on a fixed interval. It implements suture.Service.
type Scheduler struct {
	refresher *Refresher
	interval  time.Duration
	onStart   bool
}

func NewScheduler(refresher *Refresher, interval time.Duration, refreshOnStart bool) *Scheduler {
	return &Scheduler{refresher: refresher, interval: interval, onStart: refreshOnStart}
}

// Serve blocks until ctx is canceled. Refresh failures are logged and retried on the next tick.
func (s *Scheduler) Serve(ctx context.Context) error {
	log := logging.With("catalog-scheduler")
	log.Info().Dur("interval", s.interval).Msg("catalog refresh scheduled")

	if s.onStart {
		s.runOnce(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	log := logging.With("catalog-scheduler")
	res, err := s.refresher.Refresh(ctx, false)
	if err != nil {
		log.Error().Err(err).Msg("catalog refresh failed")
		return
	}
	log.Info().
		Int("heroes", res.Heroes).
		Bool("heroes_written", res.HeroesWritten).
		Int("meta_entries", res.MetaEntries).
		Str("last_updated", res.LastUpdated).
		Msg("catalog refreshed")
}

func (s *Scheduler) String() string {
	return "catalog-scheduler"
}
