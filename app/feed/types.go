package feed

import (
	"time"
)

// Category is the fixed classification taxonomy. The condensed three-value
// scheme is canonical; there is no user-defined category support.
type Category string

const (
	CategoryVulnerability Category = "vulnerability"
	CategoryIntelligence  Category = "intelligence"
	CategoryNews          Category = "news"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryVulnerability, CategoryIntelligence, CategoryNews:
		return true
	}
	return false
}

// Source is one feed to poll, resolved from the OPML directory or the
// builtin catalog. Immutable once resolved for a run. Category is the
// directory's own labeling, kept for informational purposes only; item
// categories always come from Categorize.
type Source struct {
	Title    string `yaml:"title"`
	URL      string `yaml:"url"`
	Category string `yaml:"category,omitempty"`
}

// Entry is the normalized output of parsing one feed document, before the
// time-window filter. Content is already HTML-stripped and capped.
// A nil PublishedAt means the document carried no parseable date; such
// entries are treated as published "now" so they are never dropped.
type Entry struct {
	Title       string
	Link        string
	Content     string
	PublishedAt *time.Time
}

// Item is the durable digest unit. CVEID and Sources are set by the merger:
// when CVEID is non-empty the item may represent several cross-source
// reports of the same advisory, with Sources holding every distinct source
// name in first-seen order.
type Item struct {
	Title       string
	Link        string
	Content     string
	PublishedAt time.Time
	Source      string
	SourceURL   string
	Category    Category
	CVEID       string
	Sources     []string
}
