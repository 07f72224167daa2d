package api

import (
	"context"
	"time"

	"github.com/secdigest/secdigest/app/database"
	"github.com/secdigest/secdigest/app/digest"
	"github.com/secdigest/secdigest/app/summary"
)

type RunnerInterface interface {
	Run(ctx context.Context) (*digest.Stats, error)
	Running() bool
}

type SummarizerInterface interface {
	Enabled() bool
	Run(ctx context.Context, item database.Item) (string, error)
}

var _ RunnerInterface = (*digest.Runner)(nil)
var _ SummarizerInterface = (*summary.Summarizer)(nil)

type Handler struct {
	itemRepo   database.ItemRepository
	runner     RunnerInterface
	summarizer SummarizerInterface
}

// ItemResponse is the JSON shape of one digest item.
type ItemResponse struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Content     string    `json:"content"`
	PublishedAt time.Time `json:"published_at"`
	Source      string    `json:"source"`
	SourceURL   string    `json:"source_url"`
	Category    string    `json:"category"`
	CVEID       string    `json:"cve_id,omitempty"`
	Sources     []string  `json:"sources,omitempty"`
}

func toItemResponse(item database.Item) ItemResponse {
	return ItemResponse{
		Title:       item.Title,
		Link:        item.Link,
		Content:     item.Content,
		PublishedAt: item.PublishedAt,
		Source:      item.Source,
		SourceURL:   item.SourceURL,
		Category:    item.Category,
		CVEID:       item.CVEID,
		Sources:     item.Sources,
	}
}
