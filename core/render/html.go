// Package render provides the renderers used by the doccorpus pipeline.
// This file implements the Markdown to HTML step of text normalization.
package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// HTMLRenderer converts Markdown into HTML using goldmark.
// Raw HTML in the source is passed through so its text content survives
// tag stripping. The pipe-table extension stays enabled for tables that
// were not extracted upstream.
type HTMLRenderer struct {
	engine goldmark.Markdown
}

// NewHTMLRenderer creates an HTMLRenderer. The engine is stateless and
// safe for concurrent use.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{
		engine: goldmark.New(
			goldmark.WithExtensions(extension.Table),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// Render converts Markdown into an HTML fragment.
func (r *HTMLRenderer) Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.String(), nil
}
