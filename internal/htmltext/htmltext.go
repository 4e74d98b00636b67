// Package htmltext reduces storefront HTML fragments to plain text for
// notification rendering.
package htmltext

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Normalize strips markup from the input, decodes HTML entities and
// collapses runs of whitespace to single spaces, trimming the ends.
// It never fails: unparseable input degrades to whitespace collapsing
// of the raw string, and an empty input yields an empty string.
// Applying Normalize to its own output returns the output unchanged.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return collapse(raw)
	}

	return collapse(doc.Text())
}

// collapse squeezes all whitespace runs, including non-breaking spaces
// decoded from entities, into single ASCII spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
