package feed

import (
	"strings"
	"testing"
	"time"
)

func TestParseRSS2(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Security Feed</title>
    <link>https://example.com</link>
    <description>Advisories</description>
    <item>
      <title>Test Advisory 1</title>
      <link>https://example.com/advisory1</link>
      <description>First advisory description</description>
      <pubDate>Mon, 03 Jul 2023 10:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Test Advisory 2</title>
      <link>https://example.com/advisory2</link>
      <description>Second advisory description</description>
      <pubDate>Mon, 03 Jul 2023 11:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

	parser := NewParser()
	entries, err := parser.Run([]byte(rssData))

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got: %d", len(entries))
	}

	entry := entries[0]
	if entry.Title != "Test Advisory 1" {
		t.Errorf("Expected title 'Test Advisory 1', got: %s", entry.Title)
	}
	if entry.Link != "https://example.com/advisory1" {
		t.Errorf("Expected link 'https://example.com/advisory1', got: %s", entry.Link)
	}
	if entry.Content != "First advisory description" {
		t.Errorf("Expected normalized description, got: %s", entry.Content)
	}
	if entry.PublishedAt == nil {
		t.Fatal("Expected published date to be parsed")
	}
	expected := time.Date(2023, 7, 3, 10, 0, 0, 0, time.UTC)
	if !entry.PublishedAt.Equal(expected) {
		t.Errorf("Expected %v, got %v", expected, entry.PublishedAt)
	}
}

func TestParseAtom(t *testing.T) {
	atomData := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Atom Security Feed</title>
  <link href="https://example.com"/>
  <updated>2023-07-03T12:00:00Z</updated>
  <id>urn:uuid:feed-1</id>
  <entry>
    <title>Atom Entry</title>
    <link href="https://example.com/entry1"/>
    <id>urn:uuid:entry-1</id>
    <updated>2023-07-03T10:00:00Z</updated>
    <content type="html">&lt;p&gt;Entry body text&lt;/p&gt;</content>
  </entry>
</feed>`

	parser := NewParser()
	entries, err := parser.Run([]byte(atomData))

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got: %d", len(entries))
	}

	entry := entries[0]
	if entry.Title != "Atom Entry" {
		t.Errorf("Expected title 'Atom Entry', got: %s", entry.Title)
	}
	if entry.Link != "https://example.com/entry1" {
		t.Errorf("Expected attribute-style link resolved, got: %s", entry.Link)
	}
	if entry.Content != "Entry body text" {
		t.Errorf("Expected HTML stripped from content, got: %q", entry.Content)
	}
	// Atom entry with only <updated> still yields a date.
	if entry.PublishedAt == nil {
		t.Error("Expected updated date used as published fallback")
	}
}

func TestParseSingleItemDocument(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>One Item Feed</title>
    <link>https://example.com</link>
    <description>d</description>
    <item>
      <title>Only Item</title>
      <link>https://example.com/only</link>
      <description>body</description>
    </item>
  </channel>
</rss>`

	parser := NewParser()
	entries, err := parser.Run([]byte(rssData))

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected a one-element sequence, got %d entries", len(entries))
	}
}

func TestParseMissingFields(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Sparse Feed</title>
    <link>https://example.com</link>
    <description>d</description>
    <item>
      <link>https://example.com/untitled</link>
      <description>no title, no date</description>
    </item>
  </channel>
</rss>`

	parser := NewParser()
	entries, err := parser.Run([]byte(rssData))

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got: %d", len(entries))
	}

	entry := entries[0]
	if entry.Title != "Untitled" {
		t.Errorf("Expected placeholder title 'Untitled', got: %s", entry.Title)
	}
	if entry.PublishedAt != nil {
		t.Errorf("Expected nil published date for dateless item, got: %v", entry.PublishedAt)
	}
}

func TestParseContentFallback(t *testing.T) {
	atomData := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Fallback Feed</title>
  <id>urn:uuid:feed-2</id>
  <updated>2023-07-03T12:00:00Z</updated>
  <entry>
    <title>Summary Only</title>
    <link href="https://example.com/s"/>
    <id>urn:uuid:entry-2</id>
    <updated>2023-07-03T10:00:00Z</updated>
    <summary>summary text</summary>
  </entry>
</feed>`

	parser := NewParser()
	entries, err := parser.Run([]byte(atomData))

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if entries[0].Content != "summary text" {
		t.Errorf("Expected summary used as body fallback, got: %q", entries[0].Content)
	}
}

func TestParseLongBodyCapped(t *testing.T) {
	longBody := strings.Repeat("x", 2*ContentMaxLen)
	rssData := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Long Feed</title>
    <link>https://example.com</link>
    <description>d</description>
    <item>
      <title>Long Item</title>
      <link>https://example.com/long</link>
      <description>` + longBody + `</description>
    </item>
  </channel>
</rss>`

	parser := NewParser()
	entries, err := parser.Run([]byte(rssData))

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	content := entries[0].Content
	if len(content) != ContentMaxLen+len("...") {
		t.Errorf("Expected capped content of %d chars, got %d", ContentMaxLen+3, len(content))
	}
	if !strings.HasSuffix(content, "...") {
		t.Error("Expected truncation marker on capped content")
	}
}

func TestParseMalformedDocument(t *testing.T) {
	parser := NewParser()
	_, err := parser.Run([]byte("this is not XML at all"))

	if err == nil {
		t.Error("Expected error for malformed document")
	}
}
