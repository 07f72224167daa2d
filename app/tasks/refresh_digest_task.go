package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/secdigest/secdigest/app/digest"
)

// RefreshDigestTask runs one full digest refresh. A refresh already covers
// every source, so an overlapping request is skipped rather than retried:
// MaxRetries is zero and ErrRunInProgress is not an error.
type RefreshDigestTask struct {
	Task
	runner RunnerInterface
}

func NewRefreshDigestTask(runner RunnerInterface) *RefreshDigestTask {
	return &RefreshDigestTask{
		Task:   NewTask(TaskTypeRefreshDigest, 0),
		runner: runner,
	}
}

func (t *RefreshDigestTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	stats, err := t.runner.Run(ctx)
	if errors.Is(err, digest.ErrRunInProgress) {
		slog.Debug("Digest refresh already running, skipping", "id", t.GetID())
		return nil
	}
	if err != nil {
		return fmt.Errorf("digest refresh failed: %w", err)
	}

	slog.Info("Task completed",
		"type", "RefreshDigest",
		"duration", t.GetDuration(),
		"sources", stats.Sources,
		"failed", stats.FailedFeeds,
		"kept", stats.Kept,
		"merged", stats.Merged)

	return nil
}
