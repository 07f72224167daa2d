package feed

import (
	"cmp"
	"encoding/xml"
	"fmt"
)

type opmlDocument struct {
	XMLName xml.Name `xml:"opml"`
	Body    opmlBody `xml:"body"`
}

type opmlBody struct {
	Outlines []opmlOutline `xml:"outline"`
}

type opmlOutline struct {
	Text     string        `xml:"text,attr"`
	Title    string        `xml:"title,attr"`
	Type     string        `xml:"type,attr"`
	XMLURL   string        `xml:"xmlUrl,attr"`
	Category string        `xml:"category,attr"`
	Outlines []opmlOutline `xml:"outline"`
}

// ParseOPML extracts feed sources from an OPML subscription document.
// Nested outline folders are flattened; outlines without an xmlUrl
// attribute are folder nodes and contribute nothing themselves.
func ParseOPML(data []byte) ([]Source, error) {
	var doc opmlDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse OPML: %w", err)
	}

	var sources []Source
	var walk func(outlines []opmlOutline)
	walk = func(outlines []opmlOutline) {
		for _, outline := range outlines {
			if outline.XMLURL != "" {
				sources = append(sources, Source{
					Title:    cmp.Or(outline.Title, outline.Text, outline.XMLURL),
					URL:      outline.XMLURL,
					Category: outline.Category,
				})
			}
			walk(outline.Outlines)
		}
	}
	walk(doc.Body.Outlines)

	return sources, nil
}
