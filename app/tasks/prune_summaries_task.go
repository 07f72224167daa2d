package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/secdigest/secdigest/app/database"
)

const pruneSummariesMaxRetries = 2

// PruneSummariesTask drops cached summaries for items that have rotated out
// of the digest. Keeps the cache bounded by digest size over time.
type PruneSummariesTask struct {
	Task
	summaryRepo database.SummaryRepository
}

func NewPruneSummariesTask(summaryRepo database.SummaryRepository) *PruneSummariesTask {
	return &PruneSummariesTask{
		Task:        NewTask(TaskTypePruneSummaries, pruneSummariesMaxRetries),
		summaryRepo: summaryRepo,
	}
}

func (t *PruneSummariesTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	pruned, err := t.summaryRepo.PruneOrphans()
	if err != nil {
		return fmt.Errorf("failed to prune summaries: %w", err)
	}

	slog.Info("Task completed",
		"type", "PruneSummaries",
		"duration", t.GetDuration(),
		"pruned", pruned)

	return nil
}
