package store

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"
)

// Sweeper periodically deletes uploads older than a retention window. With
// no sweeper running the upload directory grows without bound, which is the
// historical behavior and still the default.
type Sweeper struct {
	store    *Store
	ttl      time.Duration
	interval time.Duration
	log      *zap.Logger
}

// NewSweeper returns a sweeper over store removing files older than ttl,
// checking every interval.
func NewSweeper(store *Store, ttl, interval time.Duration, log *zap.Logger) *Sweeper {
	return &Sweeper{
		store:    store,
		ttl:      ttl,
		interval: interval,
		log:      log.Named("sweeper"),
	}
}

// Run sweeps on the configured interval until ctx is canceled.
func (s *Sweeper) Run(ctx context.Context) {
	s.log.Info("retention sweeper started",
		zap.Duration("ttl", s.ttl),
		zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("retention sweeper stopped")
			return
		case <-ticker.C:
			if removed := s.sweep(time.Now()); removed > 0 {
				s.log.Info("expired uploads removed", zap.Int("count", removed))
			}
		}
	}
}

// sweep removes regular files whose modification time is older than the
// retention window, returning how many went away.
func (s *Sweeper) sweep(now time.Time) int {
	entries, err := os.ReadDir(s.store.Dir())
	if err != nil {
		s.log.Warn("read upload dir", zap.Error(err))
		return 0
	}

	cutoff := now.Add(-s.ttl)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(s.store.Path(entry.Name())); err != nil {
			s.log.Warn("remove expired upload",
				zap.String("file", entry.Name()),
				zap.Error(err))
			continue
		}
		removed++
	}
	return removed
}
