// Package source reads candidate documents from disk.
// Markdown files are returned as-is; HTML files, when enabled, are first
// converted to Markdown so they go through the same normalization passes.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/gaurav-prasanna/doccorpus/core"
)

const byteOrderMark = "\ufeff"

// Reader loads documents relative to a root directory.
type Reader struct {
	Root string
}

// New creates a Reader rooted at root.
func New(root string) *Reader {
	return &Reader{Root: root}
}

// Read loads the file at rel (slash-separated, relative to Root).
// Content must be valid UTF-8.
func (r *Reader) Read(rel string) (core.Document, error) {
	path := filepath.Join(r.Root, filepath.FromSlash(rel))
	data, err := os.ReadFile(path)
	if err != nil {
		return core.Document{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return core.Document{}, fmt.Errorf("decoding %s: invalid UTF-8", path)
	}

	content := strings.TrimPrefix(string(data), byteOrderMark)
	if IsHTML(rel) {
		content, err = HTMLToMarkdown(content)
		if err != nil {
			return core.Document{}, fmt.Errorf("converting %s: %w", path, err)
		}
	}

	return core.Document{Path: rel, Content: content}, nil
}

// IsHTML reports whether the path has an HTML extension.
func IsHTML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}

// HTMLToMarkdown converts an HTML page into Markdown using html-to-markdown.
func HTMLToMarkdown(html string) (string, error) {
	markdown, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return markdown, nil
}
