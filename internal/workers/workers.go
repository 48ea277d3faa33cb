// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
)

// Workers runs its workers one after another.
type Workers struct {
	workers []Worker
}

func NewWorkers(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

// Run runs the workers in order and stops at the first error, so a later
// step never runs after an earlier one failed.
func (w *Workers) Run(ctx context.Context) error {
	for _, worker := range w.workers {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := worker.Run(ctx); err != nil {
			return err
		}
	}
	return nil
}
