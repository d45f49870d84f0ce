// Package corpus builds the training corpus from a documentation tree.
// It walks the tree, normalizes every candidate file and keeps the ones
// whose cleaned text is long enough to be useful.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/gaurav-prasanna/doccorpus/core"
	"github.com/gaurav-prasanna/doccorpus/core/source"
	"github.com/gaurav-prasanna/doccorpus/logger"
)

// ErrNoDocuments is returned when no file survives the length filter.
var ErrNoDocuments = errors.New("no documents to save")

// DefaultMinLength is the default minimum cleaned length, in characters.
// Content must be strictly longer to be kept.
const DefaultMinLength = 50

// Options configures a Builder.
type Options struct {
	MinLength  int      // defaults to DefaultMinLength when <= 0
	Extensions []string // defaults to DefaultExtensions
	Workers    int      // defaults to 1
}

// Stats summarizes one build.
type Stats struct {
	Found     int
	Processed int
	Skipped   int
	Failed    int
}

// Result is the outcome of one build.
type Result struct {
	Records []core.Record
	Stats   Stats
}

// Builder turns a directory of Markdown files into corpus records.
type Builder struct {
	normalizer core.Normalizer
	opts       Options
}

// New creates a Builder.
func New(n core.Normalizer, opts Options) *Builder {
	if opts.MinLength <= 0 {
		opts.MinLength = DefaultMinLength
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Builder{normalizer: n, opts: opts}
}

// outcome is the per-file result, stored by discovery index.
type outcome int

const (
	outcomeFailed outcome = iota
	outcomeSkipped
	outcomeKept
)

// Build processes every candidate file under root. Per-file failures are
// logged and counted but never abort the run. Records keep discovery order
// regardless of the worker count.
func (b *Builder) Build(ctx context.Context, root string) (*Result, error) {
	paths, err := Discover(ctx, root, b.opts.Extensions)
	if err != nil {
		return nil, err
	}
	logger.Info("starting to process documents", "dir", root, "files", len(paths))

	reader := source.New(root)
	records := make([]core.Record, len(paths))
	outcomes := make([]outcome, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Workers)
	for i, rel := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records[i], outcomes[i] = b.process(reader, rel)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("processing documents: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("processing documents: %w", err)
	}

	res := &Result{Stats: Stats{Found: len(paths)}}
	for i, o := range outcomes {
		switch o {
		case outcomeKept:
			res.Records = append(res.Records, records[i])
			res.Stats.Processed++
		case outcomeSkipped:
			res.Stats.Skipped++
		default:
			res.Stats.Failed++
		}
	}
	if len(res.Records) == 0 {
		return res, ErrNoDocuments
	}
	return res, nil
}

func (b *Builder) process(reader *source.Reader, rel string) (core.Record, outcome) {
	doc, err := reader.Read(rel)
	if err != nil {
		logger.Error("failed to process file", "path", rel, "error", err)
		return core.Record{}, outcomeFailed
	}

	clean := b.normalizer.Normalize(doc.Content)
	if !b.Keep(clean) {
		logger.Info("skipped file", "path", rel, "reason", "too little content")
		return core.Record{}, outcomeSkipped
	}

	logger.Info("processed file", "path", rel, "chars", utf8.RuneCountInString(clean))
	return core.Record{FilePath: doc.Path, Content: clean}, outcomeKept
}

// Keep reports whether cleaned content passes the length filter. Length
// is counted in characters after trimming.
func (b *Builder) Keep(clean string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(clean)) > b.opts.MinLength
}
