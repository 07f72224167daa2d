package feed

import (
	"bytes"
	"cmp"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
)

// Parser converts raw RSS 2.0 / Atom documents into normalized entries.
// gofeed handles format detection and the single-item-collapses-to-scalar
// shape variance; normalization here is field precedence, defaults, and
// body sanitization.
type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

func (p *Parser) Run(data []byte) ([]Entry, error) {
	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	entries := make([]Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		entries = append(entries, p.normalizeItem(item))
	}

	return entries, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item) Entry {
	entry := Entry{
		Title: cmp.Or(strings.TrimSpace(item.Title), "Untitled"),
		Link:  item.Link,
	}

	// Body precedence: description, then full content.
	body := cmp.Or(item.Description, item.Content)
	entry.Content = Truncate(StripHTML(body), ContentMaxLen)

	// Date precedence: published, then updated. No date stays nil so the
	// caller can substitute the run's "now" - ambiguous items are kept, not
	// dropped.
	if item.PublishedParsed != nil {
		entry.PublishedAt = item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		entry.PublishedAt = item.UpdatedParsed
	}

	return entry
}
