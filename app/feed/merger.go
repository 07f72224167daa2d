package feed

import (
	"fmt"
	"slices"
	"strings"
)

// ExtractCVEID returns the first CVE identifier found in s, uppercased, or
// an empty string when there is none.
func ExtractCVEID(s string) string {
	return strings.ToUpper(cvePattern.FindString(s))
}

// MergeCVEItems collapses items whose titles reference the same CVE
// identifier into one record per identifier. The first occurrence seeds the
// canonical item; later occurrences contribute their source name and, when
// strictly longer, their content and link (title stays the canonical one).
// Canonical items reported by more than one distinct source get a
// "[n sources]" title prefix.
//
// The prefix mutation is irreversible, so this must run exactly once per
// run, on freshly parsed items only.
//
// Output order: merged CVE items in first-seen order, then non-CVE items in
// their original order. Callers sort by date afterwards.
func MergeCVEItems(items []Item) []Item {
	grouped := make(map[string]*Item)
	var seen []string
	var rest []Item

	for i := range items {
		item := items[i]

		cveID := ExtractCVEID(item.Title)
		if cveID == "" {
			rest = append(rest, item)
			continue
		}

		canonical, ok := grouped[cveID]
		if !ok {
			item.CVEID = cveID
			item.Sources = []string{item.Source}
			grouped[cveID] = &item
			seen = append(seen, cveID)
			continue
		}

		if !slices.Contains(canonical.Sources, item.Source) {
			canonical.Sources = append(canonical.Sources, item.Source)
		}

		// "Most detailed" rule: strictly longer content wins, ties keep the
		// earliest. The link follows the content.
		if len(item.Content) > len(canonical.Content) {
			canonical.Content = item.Content
			canonical.Link = item.Link
		}
	}

	merged := make([]Item, 0, len(seen)+len(rest))
	for _, cveID := range seen {
		item := grouped[cveID]
		if len(item.Sources) > 1 {
			item.Title = fmt.Sprintf("[%d sources] %s", len(item.Sources), item.Title)
		}
		merged = append(merged, *item)
	}

	return append(merged, rest...)
}
