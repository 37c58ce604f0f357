// Package schedule runs the pipeline on a cron cadence.
package schedule

import (
	"context"

	"github.com/robfig/cron/v3"

	"newsbrief/internal/logging"
)

// Scheduler triggers a job on the configured cron spec.
type Scheduler struct {
	cron *cron.Cron
}

// New creates a Scheduler for the given cron spec (standard 5-field
// syntax) and job.
func New(spec string, job func()) (*Scheduler, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, job); err != nil {
		return nil, err
	}
	return &Scheduler{cron: c}, nil
}

// Run starts the cron loop and blocks until the context is cancelled,
// then waits for any in-flight job to finish.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	logging.Info("scheduler started")

	<-ctx.Done()

	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	logging.Info("scheduler stopped")
}
