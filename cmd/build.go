package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gaurav-prasanna/doccorpus/core/corpus"
	"github.com/gaurav-prasanna/doccorpus/core/normalize"
	"github.com/gaurav-prasanna/doccorpus/core/output"
	"github.com/gaurav-prasanna/doccorpus/core/render"
	"github.com/gaurav-prasanna/doccorpus/core/rules"
	"github.com/gaurav-prasanna/doccorpus/logger"
)

// buildCmd orchestrates the pipeline:
// discover → read → normalize → filter → render → write.
var buildCmd = &cobra.Command{
	Use:   "build <docs-dir>",
	Short: "Clean every Markdown file under a directory into a JSON corpus",
	Long: `Build walks the documentation directory, normalizes every Markdown file
to plain text, drops files with too little content and writes the rest as a
JSON array of {"file_path", "content"} records.

Examples:
  doccorpus build ./docs
  doccorpus build ./docs -o out/corpus.json --min-length 100
  doccorpus build ./site --include-html --workers 8`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	flags := buildCmd.Flags()
	flags.StringP("output", "o", output.DefaultFilename, "output JSON file")
	flags.Int("min-length", corpus.DefaultMinLength, "minimum cleaned length in characters (exclusive)")
	flags.IntP("workers", "w", 1, "number of files processed concurrently")
	flags.StringSlice("ext", corpus.DefaultExtensions, "candidate file extensions")
	flags.Bool("include-html", false, "also convert .html and .htm files")

	_ = viper.BindPFlag("output", flags.Lookup("output"))
	_ = viper.BindPFlag("min_length", flags.Lookup("min-length"))
	_ = viper.BindPFlag("workers", flags.Lookup("workers"))
	_ = viper.BindPFlag("extensions", flags.Lookup("ext"))
	_ = viper.BindPFlag("include_html", flags.Lookup("include-html"))
}

// buildOptions holds the resolved settings of one build run.
type buildOptions struct {
	InputDir    string
	Output      string
	MinLength   int
	Workers     int
	Extensions  []string
	IncludeHTML bool
}

func optionsFromViper(v *viper.Viper, inputDir string) buildOptions {
	return buildOptions{
		InputDir:    inputDir,
		Output:      v.GetString("output"),
		MinLength:   v.GetInt("min_length"),
		Workers:     v.GetInt("workers"),
		Extensions:  v.GetStringSlice("extensions"),
		IncludeHTML: v.GetBool("include_html"),
	}
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return buildCorpus(ctx, viper.GetViper(), optionsFromViper(viper.GetViper(), args[0]))
}

// buildCorpus runs the whole pipeline. An empty result is reported as a
// warning and is not an error; nothing is written in that case.
func buildCorpus(ctx context.Context, v *viper.Viper, opts buildOptions) error {
	r, err := rules.FromViper(v)
	if err != nil {
		return fmt.Errorf("loading rules: %w", err)
	}
	normalizer, err := normalize.New(r)
	if err != nil {
		return fmt.Errorf("initializing normalizer: %w", err)
	}

	exts := opts.Extensions
	if len(exts) == 0 {
		exts = corpus.DefaultExtensions
	}
	if opts.IncludeHTML {
		exts = append(append([]string(nil), exts...), ".html", ".htm")
	}
	builder := corpus.New(normalizer, corpus.Options{
		MinLength:  opts.MinLength,
		Extensions: exts,
		Workers:    opts.Workers,
	})

	res, err := builder.Build(ctx, opts.InputDir)
	if errors.Is(err, corpus.ErrNoDocuments) {
		logger.Warn("no data to save, check the documentation path and file contents",
			"dir", opts.InputDir, "found", res.Stats.Found, "failed", res.Stats.Failed)
		return nil
	}
	if err != nil {
		logger.Error("build failed", "dir", opts.InputDir, "error", err)
		return err
	}

	data, err := render.NewJSONRenderer().Render(res.Records)
	if err != nil {
		logger.Error("encoding corpus failed", "error", err)
		return err
	}

	writer, err := output.New(opts.Output)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}
	size, err := writer.Write(data)
	if err != nil {
		logger.Error("saving corpus failed", "path", writer.Path, "error", err)
		return err
	}

	logger.Info("saved corpus",
		"path", writer.Path,
		"documents", res.Stats.Processed,
		"skipped", res.Stats.Skipped,
		"failed", res.Stats.Failed,
		"size", humanize.Bytes(uint64(size)),
	)
	return nil
}
