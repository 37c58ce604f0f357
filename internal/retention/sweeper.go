// Package retention purges stored articles past their age threshold.
package retention

import (
	"fmt"
	"time"

	"newsbrief/internal/logging"
)

// DefaultDays is the retention threshold applied when none is configured.
const DefaultDays = 30

// purger is the slice of the store the sweeper needs.
type purger interface {
	DeleteOlderThan(cutoff time.Time) (int64, error)
}

// Sweeper deletes articles whose ingestion time exceeds the retention
// threshold. Storage failures propagate unchanged; the data layer being
// unavailable is fatal.
type Sweeper struct {
	store purger
	now   func() time.Time
}

// New creates a Sweeper. The clock is injectable for tests; nil selects
// time.Now.
func New(store purger, now func() time.Time) *Sweeper {
	if now == nil {
		now = time.Now
	}
	return &Sweeper{store: store, now: now}
}

// Sweep removes all articles ingested more than retentionDays ago and
// returns the number deleted. Idempotent: a second sweep with no inserts
// in between deletes zero. Non-positive retentionDays falls back to
// DefaultDays rather than purging everything.
func (s *Sweeper) Sweep(retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		retentionDays = DefaultDays
	}

	cutoff := s.now().AddDate(0, 0, -retentionDays)
	deleted, err := s.store.DeleteOlderThan(cutoff)
	if err != nil {
		return 0, fmt.Errorf("sweep: %w", err)
	}

	logging.Info("retention sweep complete", "retention_days", retentionDays, "deleted", deleted)
	return deleted, nil
}
