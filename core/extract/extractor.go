// Package extract implements the Extractor interface.
// It turns rendered HTML back into visible text by:
//  1. Removing subtrees that carry no prose (script, style by default)
//  2. Collecting the text nodes of what remains
package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// defaultDropTags are removed when no explicit list is given.
var defaultDropTags = []string{"script", "style"}

// TextExtractor strips markup from HTML and returns its visible text.
type TextExtractor struct {
	selector string
}

// New creates a TextExtractor that drops the given elements before
// extraction. An empty list falls back to script and style.
func New(dropTags ...string) *TextExtractor {
	if len(dropTags) == 0 {
		dropTags = defaultDropTags
	}
	return &TextExtractor{selector: strings.Join(dropTags, ", ")}
}

// Extract parses the HTML fragment and returns its text content.
// Entities are decoded and line breaks between blocks are preserved.
func (e *TextExtractor) Extract(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	doc.Find(e.selector).Remove()

	return doc.Text(), nil
}
