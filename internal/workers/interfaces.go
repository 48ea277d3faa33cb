// Package workers runs the background jobs of the agent: a set of workers
// executed in order and a repeater that schedules them on an aligned
// interval.
package workers

import "context"

// Worker is a unit of background work. Run blocks until the work is done or
// ctx is cancelled.
type Worker interface {
	Run(ctx context.Context) error
}

// WorkerFunc adapts a function to [Worker].
type WorkerFunc func(ctx context.Context) error

func (f WorkerFunc) Run(ctx context.Context) error {
	return f(ctx)
}
