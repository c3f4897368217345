package core

// scheduler.go runs the roster sweeper.
//
// Imported rosters are only needed between upload and printing, so the
// sweeper deletes those older than the configured TTL. A failed sweep is
// logged and retried on the next tick.

import (
	"context"
	"log/slog"
	"time"
)

// SweepConfig controls roster expiry.
type SweepConfig struct {
	TTL      time.Duration // roster lifetime (default: 24h)
	Interval time.Duration // how often to sweep (default: 1h)
}

func (c SweepConfig) withDefaults() SweepConfig {
	if c.TTL <= 0 {
		c.TTL = 24 * time.Hour
	}
	if c.Interval <= 0 {
		c.Interval = time.Hour
	}
	return c
}

// StartRosterSweeper deletes expired rosters immediately, then every
// Interval, until ctx is cancelled. Run it in its own goroutine.
func (s *Service) StartRosterSweeper(ctx context.Context, cfg SweepConfig) {
	cfg = cfg.withDefaults()
	slog.Info("roster sweeper started", "ttl", cfg.TTL, "interval", cfg.Interval)

	s.sweepExpired(ctx, cfg.TTL)

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("roster sweeper stopped")
			return
		case <-ticker.C:
			s.sweepExpired(ctx, cfg.TTL)
		}
	}
}

// sweepExpired performs one sweep and returns the number of rosters removed.
func (s *Service) sweepExpired(ctx context.Context, ttl time.Duration) int64 {
	start := time.Now()
	cutoff := s.now().Add(-ttl)

	removed, err := s.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		slog.Error("roster sweep failed", "error", err)
		return 0
	}

	if removed > 0 {
		slog.Info("expired rosters removed",
			"removed", removed,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
	return removed
}
