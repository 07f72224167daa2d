package database

import (
	"time"

	"github.com/secdigest/secdigest/app/feed"
)

// ItemRepository persists the last successful digest assembly. The digest is
// replaced wholesale on every run; rows never survive a refresh, which keeps
// the store a best-effort cache of last results.
type ItemRepository interface {
	ReplaceItems(items []feed.Item) error
	GetItems(category string, limit int) ([]Item, error)
	GetItemByLink(link string) (*Item, error)
	GetItemCount() (int, error)
	GetCategoryCounts() (map[string]int, error)

	GetLastRefreshAt() (*time.Time, error)
	SetLastRefreshAt(t time.Time) error
}

type SummaryRepository interface {
	GetSummary(link string) (*Summary, error)
	UpsertSummary(link, model, text string) error
	PruneOrphans() (int64, error)
}
