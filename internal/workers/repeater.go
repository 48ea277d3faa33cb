// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/data-publish-agent/internal/logger"
)

// Repeater runs a worker once, or repeatedly on boundaries aligned to
// multiples of interval since local midnight.
type Repeater struct {
	worker   Worker
	interval time.Duration

	now   func() time.Time
	after func(time.Duration) <-chan time.Time

	logger *logger.Logger
}

// NewRepeater returns a Repeater for worker. A zero interval runs the worker
// once.
func NewRepeater(worker Worker, interval time.Duration, logger *logger.Logger) *Repeater {
	return &Repeater{
		worker:   worker,
		interval: interval,
		now:      time.Now,
		after:    time.After,
		logger:   logger,
	}
}

// Run runs the worker. With an interval set, a failed run is logged and the
// next one is scheduled; Run returns when ctx is cancelled.
func (r *Repeater) Run(ctx context.Context) error {
	if r.interval <= 0 {
		return r.worker.Run(ctx)
	}

	for {
		if err := r.worker.Run(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.logger.Err(err).Msg("run failed, waiting for the next one")
		}

		next := NextRun(r.now(), r.interval)
		r.logger.Info().Time("next_run", next).Msg("waiting for the next run")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.after(next.Sub(r.now())):
		}
	}
}

// NextRun returns the first instant after now that is a whole multiple of
// interval since local midnight. The last slot of a day that does not divide
// evenly ends at the next midnight.
func NextRun(now time.Time, interval time.Duration) time.Time {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	elapsed := now.Sub(midnight)

	next := midnight.Add((elapsed/interval + 1) * interval)
	nextMidnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	if next.After(nextMidnight) {
		return nextMidnight
	}
	return next
}
