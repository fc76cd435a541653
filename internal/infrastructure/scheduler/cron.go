// Package scheduler triggers the two daily pipeline runs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"infocurator/internal/ports"
)

// Cron wraps robfig/cron with the two configured daily triggers. The
// evening trigger on Saturdays additionally requests the weekly digest.
type Cron struct {
	morning  string
	evening  string
	location *time.Location
	logger   *slog.Logger

	cron *cron.Cron
}

var _ ports.Scheduler = (*Cron)(nil)

func NewCron(morning, evening string, location *time.Location, logger *slog.Logger) *Cron {
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cron{
		morning:  morning,
		evening:  evening,
		location: location,
		logger:   logger.With("component", "scheduler"),
	}
}

// Start registers both triggers and starts the cron loop. The job callback
// runs on cron's goroutine; the pipeline's own run guard serializes it.
func (c *Cron) Start(_ context.Context, job func(trigger time.Time, includeWeekly bool)) error {
	c.cron = cron.New(cron.WithLocation(c.location))

	if _, err := c.cron.AddFunc(c.morning, func() {
		c.logger.Info("morning run triggered")
		job(time.Now().In(c.location), false)
	}); err != nil {
		return fmt.Errorf("morning schedule %q: %w", c.morning, err)
	}

	if _, err := c.cron.AddFunc(c.evening, func() {
		now := time.Now().In(c.location)
		weekly := now.Weekday() == time.Saturday
		c.logger.Info("evening run triggered", "weekly", weekly)
		job(now, weekly)
	}); err != nil {
		return fmt.Errorf("evening schedule %q: %w", c.evening, err)
	}

	c.cron.Start()
	c.logger.Info("scheduler started",
		"morning", c.morning, "evening", c.evening, "timezone", c.location.String())
	return nil
}

// Stop halts the cron loop and waits for a running job, bounded by ctx.
func (c *Cron) Stop(ctx context.Context) error {
	if c.cron == nil {
		return nil
	}
	done := c.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
