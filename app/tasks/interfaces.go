package tasks

import (
	"context"

	"github.com/secdigest/secdigest/app/digest"
)

// TaskSchedulerInterface defines the interface for background task
// scheduling. Used by the main application to manage the worker pool.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

// RunnerInterface is the digest pipeline as the scheduler sees it.
type RunnerInterface interface {
	Run(ctx context.Context) (*digest.Stats, error)
}
