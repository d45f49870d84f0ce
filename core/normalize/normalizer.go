// Package normalize implements the Normalizer interface.
// It converts raw documentation Markdown into dense plain text through an
// ordered list of passes: structural removals, table linearization, then
// a Markdown to HTML round trip that strips whatever markup is left.
package normalize

import (
	"fmt"

	"github.com/gaurav-prasanna/doccorpus/core"
	"github.com/gaurav-prasanna/doccorpus/core/extract"
	"github.com/gaurav-prasanna/doccorpus/core/render"
	"github.com/gaurav-prasanna/doccorpus/core/rules"
	"github.com/gaurav-prasanna/doccorpus/core/table"
)

// Ensure TextNormalizer implements the interface.
var _ core.Normalizer = (*TextNormalizer)(nil)

// Result is the outcome of one Normalize call.
type Result struct {
	Text string

	// Skipped lists the passes that failed and were bypassed, in order.
	Skipped []string

	// Tables is the number of table blocks that were linearized.
	Tables int
}

// TextNormalizer runs the normalization pipeline. It holds no per-document
// state and is safe for concurrent use.
type TextNormalizer struct {
	cleanup   []Pass
	literal   Pass
	tables    core.TableFormatter
	renderer  core.Renderer
	extractor core.Extractor
}

// Option customizes a TextNormalizer.
type Option func(*TextNormalizer)

// WithTableFormatter overrides the table formatter.
func WithTableFormatter(f core.TableFormatter) Option {
	return func(n *TextNormalizer) { n.tables = f }
}

// WithRenderer overrides the Markdown to HTML renderer.
func WithRenderer(r core.Renderer) Option {
	return func(n *TextNormalizer) { n.renderer = r }
}

// WithExtractor overrides the HTML to text extractor.
func WithExtractor(e core.Extractor) Option {
	return func(n *TextNormalizer) { n.extractor = e }
}

// New builds a TextNormalizer for the given rule set.
func New(r rules.Rules, opts ...Option) (*TextNormalizer, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	cleanup, err := cleanupPasses(r)
	if err != nil {
		return nil, fmt.Errorf("building passes: %w", err)
	}

	n := &TextNormalizer{
		cleanup:   cleanup,
		literal:   literalMarkersPass(r.CodeFence),
		tables:    table.New(),
		renderer:  render.NewHTMLRenderer(),
		extractor: extract.New(r.DropTags...),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// NewDefault builds a TextNormalizer with the default rules.
func NewDefault() *TextNormalizer {
	n, err := New(rules.Default())
	if err != nil {
		panic(err)
	}
	return n
}

// Normalize returns the cleaned text of raw.
func (n *TextNormalizer) Normalize(raw string) string {
	return n.NormalizeResult(raw).Text
}

// NormalizeResult runs the full pipeline and reports which passes were
// bypassed.
func (n *TextNormalizer) NormalizeResult(raw string) Result {
	var res Result
	text := raw
	apply := func(p Pass) {
		out, ok := run(p, text)
		if !ok {
			res.Skipped = append(res.Skipped, p.Name())
		}
		text = out
	}

	for _, p := range n.cleanup {
		apply(p)
	}

	ph := newPlaceholders(raw)
	apply(NewPass("tables", func(s string) (string, error) {
		return extractTables(s, n.tables, ph), nil
	}))
	apply(n.literal)
	apply(NewPass("html-text", n.htmlToText))
	apply(NewPass("restore-tables", func(s string) (string, error) {
		return ph.restore(s), nil
	}))
	apply(NewPass("whitespace", collapseWhitespace))

	res.Text = text
	res.Tables = len(ph.tokens)
	return res
}

func (n *TextNormalizer) htmlToText(markdown string) (string, error) {
	html, err := n.renderer.Render(markdown)
	if err != nil {
		return "", err
	}
	return n.extractor.Extract(html)
}
