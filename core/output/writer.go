// Package output writes the corpus artifact to disk.
// The artifact is written once, after every document has been processed,
// so a failed run never leaves a partial file behind.
package output

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFilename is used when no output path is configured.
const DefaultFilename = "corpus.json"

// Writer writes rendered output to a single file.
type Writer struct {
	Path string
}

// New creates a Writer targeting path.
// If path is empty, it defaults to DefaultFilename in the working directory.
func New(path string) (*Writer, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		path = filepath.Join(wd, DefaultFilename)
	}
	return &Writer{Path: path}, nil
}

// Write stores data at w.Path, creating parent directories as needed,
// and returns the number of bytes written. The file is replaced via a
// temporary sibling so readers never observe a half-written artifact.
func (w *Writer) Write(data []byte) (int64, error) {
	dir := filepath.Dir(w.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(w.Path)+".*")
	if err != nil {
		return 0, fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("writing file %s: %w", w.Path, err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("writing file %s: %w", w.Path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return 0, fmt.Errorf("setting mode on %s: %w", w.Path, err)
	}
	if err := os.Rename(tmp.Name(), w.Path); err != nil {
		return 0, fmt.Errorf("writing file %s: %w", w.Path, err)
	}
	return int64(len(data)), nil
}
