package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/doccorpus/core"
	"github.com/gaurav-prasanna/doccorpus/logger"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	logger.Init(logger.Options{Output: buf})
	t.Cleanup(func() { logger.Init(logger.Options{}) })
	return buf
}

func writeDoc(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestBuildCorpus(t *testing.T) {
	logs := captureLogs(t)
	docs := t.TempDir()
	out := filepath.Join(t.TempDir(), "corpus.json")

	writeDoc(t, docs, "integrations/slack.md", "---\ntitle: Slack\n---\n# Slack node\n\n"+
		"Use the Slack node to automate work in Slack. See [credentials](https://docs.n8n.io/creds) first.\n\n"+
		"| Operation | Resource |\n|---|---|\n| Post | Message |\n")
	writeDoc(t, docs, "tiny.md", "# Tiny")

	err := buildCorpus(context.Background(), viper.New(), buildOptions{InputDir: docs, Output: out})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "[\n  {\n    \"file_path\""))

	var records []core.Record
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 1)
	assert.Equal(t, "integrations/slack.md", records[0].FilePath)
	assert.Equal(t, "Slack node\n"+
		"Use the Slack node to automate work in Slack. See credentials first.\n"+
		"Operation: Post | Resource: Message", records[0].Content)

	assert.Contains(t, logs.String(), "saved corpus")
	assert.Contains(t, logs.String(), "documents=1")
}

func TestBuildCorpus_EmptyDirectory(t *testing.T) {
	logs := captureLogs(t)
	out := filepath.Join(t.TempDir(), "corpus.json")

	err := buildCorpus(context.Background(), viper.New(), buildOptions{InputDir: t.TempDir(), Output: out})
	require.NoError(t, err)

	assert.NoFileExists(t, out)
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "no data to save")
}

func TestBuildCorpus_MissingDirectory(t *testing.T) {
	logs := captureLogs(t)
	out := filepath.Join(t.TempDir(), "corpus.json")

	err := buildCorpus(context.Background(), viper.New(), buildOptions{
		InputDir: filepath.Join(t.TempDir(), "missing"),
		Output:   out,
	})
	require.Error(t, err)
	assert.NoFileExists(t, out)
	assert.Contains(t, logs.String(), "build failed")
}

func TestBuildCorpus_WriteFailure(t *testing.T) {
	logs := captureLogs(t)
	docs := t.TempDir()
	writeDoc(t, docs, "a.md", strings.Repeat("Enough words to pass the filter. ", 3))

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := buildCorpus(context.Background(), viper.New(), buildOptions{
		InputDir: docs,
		Output:   filepath.Join(blocker, "corpus.json"),
	})
	require.Error(t, err)
	assert.Contains(t, logs.String(), "saving corpus failed")
}

func TestBuildCorpus_RulesFromConfig(t *testing.T) {
	captureLogs(t)
	docs := t.TempDir()
	out := filepath.Join(t.TempDir(), "corpus.json")
	writeDoc(t, docs, "page.md", "sidebar_position: 2\n\n"+strings.Repeat("Docusaurus page body text. ", 3))

	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader("rules:\n  metadata_keys: [sidebar_position]\n")))

	require.NoError(t, buildCorpus(context.Background(), v, buildOptions{InputDir: docs, Output: out}))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "sidebar_position")
}

func TestBuildCorpus_IncludeHTML(t *testing.T) {
	captureLogs(t)
	docs := t.TempDir()
	out := filepath.Join(t.TempDir(), "corpus.json")
	writeDoc(t, docs, "legacy/page.html", "<html><body><p>"+strings.Repeat("Converted legacy page text. ", 3)+"</p></body></html>")

	require.NoError(t, buildCorpus(context.Background(), viper.New(), buildOptions{
		InputDir:    docs,
		Output:      out,
		Extensions:  []string{".md"},
		IncludeHTML: true,
	}))

	var records []core.Record
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 1)
	assert.Equal(t, "legacy/page.html", records[0].FilePath)
}

func TestOptionsFromViper(t *testing.T) {
	v := viper.New()
	v.Set("output", "x.json")
	v.Set("min_length", 10)
	v.Set("workers", 3)
	v.Set("extensions", []string{".md", ".markdown"})
	v.Set("include_html", true)

	assert.Equal(t, buildOptions{
		InputDir:    "docs",
		Output:      "x.json",
		MinLength:   10,
		Workers:     3,
		Extensions:  []string{".md", ".markdown"},
		IncludeHTML: true,
	}, optionsFromViper(v, "docs"))
}
