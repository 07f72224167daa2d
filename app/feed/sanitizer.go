package feed

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ContentMaxLen is the cap applied to item bodies during normalization.
// Classification and storage both operate on the capped text.
const ContentMaxLen = 500

const truncationMarker = "..."

// StripHTML removes markup from a feed body: tags dropped, entities decoded,
// whitespace collapsed to single spaces. Falls back to the raw input when the
// fragment cannot be parsed at all.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}

	text := s
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
		text = doc.Text()
	}

	return strings.Join(strings.Fields(text), " ")
}

// Truncate caps s at max runes, appending the truncation marker when the
// input exceeded the cap.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + truncationMarker
}
