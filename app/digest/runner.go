package digest

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/secdigest/secdigest/app/database"
	"github.com/secdigest/secdigest/app/feed"
)

// ErrRunInProgress is returned when a refresh is requested while a previous
// run has not finished yet. Callers treat it as a benign skip.
var ErrRunInProgress = fmt.Errorf("digest run already in progress")

type SourceResolver interface {
	Resolve(ctx context.Context) []feed.Source
}

type EntryParser interface {
	Run(data []byte) ([]feed.Entry, error)
}

// Stats describes one completed digest run.
type Stats struct {
	Sources     int
	FailedFeeds int
	Fetched     int
	Kept        int
	Merged      int
	StartedAt   time.Time
	Duration    time.Duration
}

// Runner executes the full digest pipeline: resolve sources, fetch them in
// bounded chunks, filter to the time window, categorize, merge CVE duplicates,
// order and persist. At most one run is active at a time.
type Runner struct {
	catalog  SourceResolver
	fetcher  *Fetcher
	parser   EntryParser
	itemRepo database.ItemRepository

	hoursBack int
	maxItems  int
	chunkSize int

	inProgress atomic.Bool
}

func NewRunner(catalog SourceResolver, fetcher *Fetcher, parser EntryParser,
	itemRepo database.ItemRepository, hoursBack, maxItems, chunkSize int) *Runner {
	return &Runner{
		catalog:   catalog,
		fetcher:   fetcher,
		parser:    parser,
		itemRepo:  itemRepo,
		hoursBack: hoursBack,
		maxItems:  maxItems,
		chunkSize: chunkSize,
	}
}

// Running reports whether a digest run is currently active.
func (r *Runner) Running() bool {
	return r.inProgress.Load()
}

// Run executes one digest refresh. Individual feed failures are logged and
// skipped; the run fails only when persisting results fails.
func (r *Runner) Run(ctx context.Context) (*Stats, error) {
	if !r.inProgress.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer r.inProgress.Store(false)

	startedAt := time.Now().UTC()
	cutoff := startedAt.Add(-time.Duration(r.hoursBack) * time.Hour)

	sources := r.catalog.Resolve(ctx)
	stats := &Stats{Sources: len(sources), StartedAt: startedAt}

	var items []feed.Item

	for start := 0; start < len(sources); start += r.chunkSize {
		end := min(start+r.chunkSize, len(sources))
		chunk := sources[start:end]

		results := make([][]feed.Item, len(chunk))
		fetched := make([]int, len(chunk))
		errs := make([]error, len(chunk))

		var wg sync.WaitGroup
		for i, source := range chunk {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i], fetched[i], errs[i] = r.processFeed(ctx, source, cutoff)
			}()
		}
		wg.Wait()

		// Collect in source order, not completion order. Merge precedence
		// (canonical CVE item, contributing-sources order, tie-breaks) must
		// not depend on which feed answered first.
		for i, source := range chunk {
			if errs[i] != nil {
				stats.FailedFeeds++
				slog.Warn("Feed failed, skipping", "source", source.Title, "url", source.URL, "error", errs[i])
				continue
			}

			stats.Fetched += fetched[i]
			items = append(items, results[i]...)
		}
	}

	stats.Kept = len(items)

	merged := feed.MergeCVEItems(items)
	stats.Merged = stats.Kept - len(merged)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].PublishedAt.After(merged[j].PublishedAt)
	})

	if r.maxItems > 0 && len(merged) > r.maxItems {
		merged = merged[:r.maxItems]
	}

	if err := r.itemRepo.ReplaceItems(merged); err != nil {
		return nil, fmt.Errorf("failed to store digest: %w", err)
	}

	if err := r.itemRepo.SetLastRefreshAt(startedAt); err != nil {
		return nil, fmt.Errorf("failed to record refresh time: %w", err)
	}

	stats.Duration = time.Since(startedAt)

	slog.Info("Digest run completed",
		"sources", stats.Sources, "failed", stats.FailedFeeds,
		"fetched", stats.Fetched, "kept", stats.Kept,
		"merged", stats.Merged, "items", len(merged),
		"duration", stats.Duration.Round(time.Millisecond))

	return stats, nil
}

// processFeed fetches and parses one feed, keeping entries inside the time
// window. Entries without a date count as fresh so new feeds are not dropped
// wholesale.
func (r *Runner) processFeed(ctx context.Context, source feed.Source, cutoff time.Time) ([]feed.Item, int, error) {
	data, err := r.fetcher.Run(ctx, source.URL)
	if err != nil {
		return nil, 0, err
	}

	entries, err := r.parser.Run(data)
	if err != nil {
		return nil, 0, err
	}

	var items []feed.Item
	for _, entry := range entries {
		publishedAt := time.Now().UTC()
		if entry.PublishedAt != nil {
			publishedAt = entry.PublishedAt.UTC()
			if publishedAt.Before(cutoff) {
				continue
			}
		}

		items = append(items, feed.Item{
			Title:       entry.Title,
			Link:        entry.Link,
			Content:     entry.Content,
			PublishedAt: publishedAt,
			Source:      source.Title,
			SourceURL:   source.URL,
			Category:    feed.Categorize(entry.Title, entry.Content),
		})
	}

	return items, len(entries), nil
}
