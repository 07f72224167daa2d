package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/secdigest/secdigest/app/cfg"
	"github.com/secdigest/secdigest/app/database"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

const pruneInterval = 6 * time.Hour

type Scheduler struct {
	runner      RunnerInterface
	summaryRepo database.SummaryRepository
	interval    time.Duration
	workerCount int
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface
}

func NewScheduler(runner RunnerInterface, summaryRepo database.SummaryRepository) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		runner:      runner,
		summaryRepo: summaryRepo,
		interval:    time.Duration(cfg.RefreshInterval) * time.Minute,
		workerCount: cfg.WorkerCount,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 100),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		refreshTicker := time.NewTicker(s.interval)
		defer refreshTicker.Stop()

		pruneTicker := time.NewTicker(pruneInterval)
		defer pruneTicker.Stop()

		s.enqueueStartupTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-refreshTicker.C:
				s.enqueueRefreshTask()
			case <-pruneTicker.C:
				s.enqueuePruneTask()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// enqueueStartupTasks seeds the digest right away so the API serves data
// before the first interval elapses.
func (s *Scheduler) enqueueStartupTasks() {
	s.enqueueRefreshTask()
	s.enqueuePruneTask()
}

func (s *Scheduler) enqueueRefreshTask() {
	task := NewRefreshDigestTask(s.runner)
	if err := s.EnqueueTask(task); err != nil {
		slog.Warn("Failed to enqueue RefreshDigestTask", "error", err)
	}
}

func (s *Scheduler) enqueuePruneTask() {
	task := NewPruneSummariesTask(s.summaryRepo)
	if err := s.EnqueueTask(task); err != nil {
		slog.Warn("Failed to enqueue PruneSummariesTask", "error", err)
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			go func() {
				time.Sleep(retryDelay)
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				default:
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
