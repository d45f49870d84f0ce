// Package core defines the pipeline interfaces for doccorpus.
// Each stage of the pipeline is a clean, testable interface.
package core

// Document is a single source file read from the documentation tree.
type Document struct {
	Path    string // relative to the input root, slash-separated
	Content string
}

// Record is one entry of the output corpus.
type Record struct {
	FilePath string `json:"file_path"`
	Content  string `json:"content"`
}

// Normalizer turns raw Markdown into clean prose. It never fails; the
// worst case is an empty string.
type Normalizer interface {
	Normalize(raw string) string
}

// TableFormatter linearizes the literal text of one pipe table.
type TableFormatter interface {
	Format(table string) string
}

// Renderer converts Markdown into HTML.
type Renderer interface {
	Render(markdown string) (string, error)
}

// Extractor pulls the visible text out of an HTML fragment.
type Extractor interface {
	Extract(html string) (string, error)
}
