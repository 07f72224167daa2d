package database

import (
	"time"
)

// Item is a digest item record. Sources holds the distinct contributing
// source names of a merged CVE record, stored as a JSON array.
type Item struct {
	ID          int64
	Position    int
	Title       string
	Link        string
	Content     string
	PublishedAt time.Time
	Source      string
	SourceURL   string
	Category    string
	CVEID       string
	Sources     []string
	CreatedAt   time.Time
}

// Summary is a cached AI summary, keyed by the item link.
type Summary struct {
	Link      string
	Model     string
	Summary   string
	CreatedAt time.Time
}
