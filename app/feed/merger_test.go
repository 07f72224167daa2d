package feed

import (
	"strings"
	"testing"
	"time"
)

func TestMergeCVEItems_TwoSources(t *testing.T) {
	now := time.Now().UTC()
	items := []Item{
		{
			Title:       "Critical Flaw in X (CVE-2024-1234)",
			Link:        "https://feeda.example.com/1",
			Content:     strings.Repeat("a", 40),
			PublishedAt: now,
			Source:      "FeedA",
		},
		{
			Title:       "X Vulnerability Patched CVE-2024-1234",
			Link:        "https://feedb.example.com/1",
			Content:     strings.Repeat("b", 120),
			PublishedAt: now,
			Source:      "FeedB",
		},
	}

	merged := MergeCVEItems(items)

	if len(merged) != 1 {
		t.Fatalf("Expected 1 merged item, got %d", len(merged))
	}

	item := merged[0]
	if item.CVEID != "CVE-2024-1234" {
		t.Errorf("Expected CVE-2024-1234, got %s", item.CVEID)
	}
	if item.Content != strings.Repeat("b", 120) {
		t.Error("Expected content from FeedB (longer content wins)")
	}
	if item.Link != "https://feedb.example.com/1" {
		t.Errorf("Expected link to follow content, got %s", item.Link)
	}
	if len(item.Sources) != 2 || item.Sources[0] != "FeedA" || item.Sources[1] != "FeedB" {
		t.Errorf("Expected sources [FeedA FeedB], got %v", item.Sources)
	}
	if !strings.HasPrefix(item.Title, "[2 sources] ") {
		t.Errorf("Expected [2 sources] title prefix, got %q", item.Title)
	}
	if !strings.Contains(item.Title, "Critical Flaw in X") {
		t.Errorf("Expected canonical title preserved, got %q", item.Title)
	}
}

func TestMergeCVEItems_SingleOccurrenceNoPrefix(t *testing.T) {
	items := []Item{
		{Title: "CVE-2024-5678 advisory", Content: "x", Source: "FeedA"},
	}

	merged := MergeCVEItems(items)

	if len(merged) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(merged))
	}
	if merged[0].CVEID != "CVE-2024-5678" {
		t.Errorf("Expected identifier recorded, got %q", merged[0].CVEID)
	}
	if strings.HasPrefix(merged[0].Title, "[") {
		t.Errorf("Expected no prefix for single source, got %q", merged[0].Title)
	}
	if len(merged[0].Sources) != 1 || merged[0].Sources[0] != "FeedA" {
		t.Errorf("Expected sources [FeedA], got %v", merged[0].Sources)
	}
}

func TestMergeCVEItems_DuplicateSourceNotCounted(t *testing.T) {
	items := []Item{
		{Title: "CVE-2024-1111 first", Content: "aa", Source: "FeedA"},
		{Title: "CVE-2024-1111 again", Content: "a", Source: "FeedA"},
		{Title: "CVE-2024-1111 elsewhere", Content: "b", Source: "FeedB"},
	}

	merged := MergeCVEItems(items)

	if len(merged) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(merged))
	}
	if len(merged[0].Sources) != 2 {
		t.Errorf("Expected 2 distinct sources, got %v", merged[0].Sources)
	}
	if !strings.HasPrefix(merged[0].Title, "[2 sources] ") {
		t.Errorf("Expected [2 sources] prefix from distinct count, got %q", merged[0].Title)
	}
}

func TestMergeCVEItems_ContentTieKeepsEarliest(t *testing.T) {
	items := []Item{
		{Title: "CVE-2024-2222 report", Link: "https://a.example.com", Content: "same size", Source: "FeedA"},
		{Title: "CVE-2024-2222 copy", Link: "https://b.example.com", Content: "equal len", Source: "FeedB"},
	}

	merged := MergeCVEItems(items)

	if merged[0].Content != "same size" {
		t.Errorf("Expected earliest content kept on tie, got %q", merged[0].Content)
	}
	if merged[0].Link != "https://a.example.com" {
		t.Errorf("Expected earliest link kept on tie, got %q", merged[0].Link)
	}
}

func TestMergeCVEItems_OutputOrdering(t *testing.T) {
	items := []Item{
		{Title: "plain news one", Source: "FeedA"},
		{Title: "CVE-2024-0002 late identifier", Source: "FeedA"},
		{Title: "plain news two", Source: "FeedB"},
		{Title: "CVE-2024-0001 early identifier", Source: "FeedB"},
	}

	merged := MergeCVEItems(items)

	if len(merged) != 4 {
		t.Fatalf("Expected 4 items, got %d", len(merged))
	}
	// CVE items first, in first-seen order; then non-CVE in original order.
	if merged[0].CVEID != "CVE-2024-0002" {
		t.Errorf("Expected first-seen CVE first, got %s", merged[0].CVEID)
	}
	if merged[1].CVEID != "CVE-2024-0001" {
		t.Errorf("Expected second-seen CVE second, got %s", merged[1].CVEID)
	}
	if merged[2].Title != "plain news one" || merged[3].Title != "plain news two" {
		t.Errorf("Expected non-CVE items in original order, got %q then %q", merged[2].Title, merged[3].Title)
	}
}

func TestMergeCVEItems_CaseNormalized(t *testing.T) {
	items := []Item{
		{Title: "cve-2024-3333 lowercase", Content: "a", Source: "FeedA"},
		{Title: "CVE-2024-3333 uppercase", Content: "b", Source: "FeedB"},
	}

	merged := MergeCVEItems(items)

	if len(merged) != 1 {
		t.Fatalf("Expected case-insensitive grouping to yield 1 item, got %d", len(merged))
	}
	if merged[0].CVEID != "CVE-2024-3333" {
		t.Errorf("Expected normalized identifier, got %s", merged[0].CVEID)
	}
}

func TestExtractCVEID(t *testing.T) {
	if id := ExtractCVEID("patch for cve-2021-44228 released"); id != "CVE-2021-44228" {
		t.Errorf("Expected CVE-2021-44228, got %q", id)
	}
	if id := ExtractCVEID("no identifier here"); id != "" {
		t.Errorf("Expected empty string, got %q", id)
	}
}
