package normalize

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/doccorpus/core/rules"
)

type failingRenderer struct{}

func (failingRenderer) Render(string) (string, error) { return "", errors.New("render failed") }

type panickingFormatter struct{}

func (panickingFormatter) Format(string) string { panic("format failed") }

func TestNew_InvalidRules(t *testing.T) {
	r := rules.Default()
	r.FrontmatterMarker = ""
	_, err := New(r)
	assert.Error(t, err)
}

func TestNormalize_EndToEnd(t *testing.T) {
	input := "---\ntitle: X\n---\n# Hi\n\nSee [link](http://x.com/y) for `code` and:\n\n| H1 | H2 |\n|---|---|\n| a | b |\n"

	got := NewDefault().Normalize(input)

	assert.Equal(t, "Hi\nSee link for code and:\nH1: a | H2: b", got)
	assert.Contains(t, strings.Split(got, "\n"), "H1: a | H2: b")
	assert.NotContains(t, got, "http")
	assert.NotContains(t, got, "---")
	assert.NotContains(t, got, "title:")
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "only frontmatter",
			input: "---\ntitle: Only\ndescription: nothing else\n---\n",
			want:  "",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "plain prose",
			input: "Plain prose line one.\n\n\n\nSecond paragraph here.\n",
			want:  "Plain prose line one.\nSecond paragraph here.",
		},
		{
			name:  "emphasis and headings stripped",
			input: "## Setup\n\nSome **bold** and _italic_ text.",
			want:  "Setup\nSome bold and italic text.",
		},
		{
			name:  "lists keep one item per line",
			input: "Steps:\n\n- first\n- second\n\n1. one\n2. two",
			want:  "Steps:\nfirst\nsecond\none\ntwo",
		},
		{
			name:  "code block removed",
			input: "Before\n\n```json\n{\"secret\": true}\n```\n\nAfter",
			want:  "Before\nAfter",
		},
		{
			name:  "unterminated fence keeps marker and rest",
			input: "a\n\n```\nrest",
			want:  "a\n```\nrest",
		},
		{
			name:  "unterminated fence with info string",
			input: "Intro line\n\n```go\nrest of the document stays\nmore text",
			want:  "Intro line\n```go\nrest of the document stays\nmore text",
		},
		{
			name:  "unterminated comment keeps marker and rest",
			input: "a\n\n<!-- never closed\nrest",
			want:  "a\n<!-- never closed\nrest",
		},
		{
			name:  "unterminated inline comment",
			input: "Intro <!-- unterminated comment\n\nrest of the document stays",
			want:  "Intro <!-- unterminated comment\nrest of the document stays",
		},
		{
			name:  "raw html text kept, script dropped",
			input: "<div>Hello</div>\n\n<script>alert(1)</script>",
			want:  "Hello",
		},
		{
			name:  "entities decoded",
			input: "Use a & b < c.",
			want:  "Use a & b < c.",
		},
		{
			name:  "metadata line in body",
			input: "description: removed\n\nKept line.",
			want:  "Kept line.",
		},
		{
			name:  "mkdocs constructs",
			input: "Intro [[% include 'x' %]]\n\n/// warning | Careful\nbody\n///\n\n--8<-- \"_snippets/a.md\"\n\n<!-- hidden -->Outro",
			want:  "Intro\nOutro",
		},
		{
			name:  "reference links and definitions",
			input: "Read the [guide][g].\n\n[g]: https://docs.n8n.io/guide",
			want:  "Read the guide.",
		},
		{
			name:  "indented table",
			input: "Options:\n\n  | Name | Default |\n  | --- | --- |\n  | timeout | 30 |\n",
			want:  "Options:\nName: timeout | Default: 30",
		},
		{
			name:  "malformed table degrades",
			input: "| just a pipe line\n| another",
			want:  "just a pipe line\nanother",
		},
	}

	n := NewDefault()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.input))
		})
	}
}

func TestNormalize_LinkProperty(t *testing.T) {
	got := NewDefault().Normalize("Read [the guide](docs/guide.md) now.")

	assert.Equal(t, "Read the guide now.", got)
	for _, s := range []string{"docs/guide.md", "(", ")", "[", "]"} {
		assert.NotContains(t, got, s)
	}
}

func TestNormalize_FencedBlockProperty(t *testing.T) {
	got := NewDefault().Normalize("Text\n\n```\nenclosed secret\n```\n\nMore text")

	assert.NotContains(t, got, "```")
	assert.NotContains(t, got, "enclosed secret")
}

func TestNormalize_Idempotent(t *testing.T) {
	n := NewDefault()
	input := "The workflow runs every hour.\n\n  It sends an email when it fails.  \n"

	once := n.Normalize(input)
	assert.Equal(t, "The workflow runs every hour.\nIt sends an email when it fails.", once)
	assert.Equal(t, once, n.Normalize(once))
}

func TestNormalizeResult_IdenticalTables(t *testing.T) {
	table := "| A | B |\n|---|---|\n| 1 | 2 |"
	input := table + "\n\nBetween the tables.\n\n" + table + "\n"

	res := NewDefault().NormalizeResult(input)

	assert.Equal(t, 2, res.Tables)
	assert.Empty(t, res.Skipped)
	assert.Equal(t, "A: 1 | B: 2\nBetween the tables.\nA: 1 | B: 2", res.Text)
	assert.NotContains(t, res.Text, "DOCCORPUSTABLE")
}

func TestNormalizeResult_TableCellsNotRendered(t *testing.T) {
	// Table text is restored after rendering, so cell markup stays literal.
	input := "Intro\n\n| __A__ | B |\n|---|---|\n| *x* | y |"

	res := NewDefault().NormalizeResult(input)

	assert.Equal(t, "Intro\n__A__: *x* | B: y", res.Text)
}

func TestNormalizeResult_FailingRendererIsSkipped(t *testing.T) {
	n, err := New(rules.Default(), WithRenderer(failingRenderer{}))
	require.NoError(t, err)

	res := n.NormalizeResult("# Title\n\n| A |\n|---|\n| 1 |\n")

	assert.Equal(t, []string{"html-text"}, res.Skipped)
	assert.Equal(t, "# Title\nA: 1", res.Text)
}

func TestNormalizeResult_PanickingFormatterIsSkipped(t *testing.T) {
	n, err := New(rules.Default(), WithTableFormatter(panickingFormatter{}))
	require.NoError(t, err)

	var res Result
	require.NotPanics(t, func() {
		res = n.NormalizeResult("Intro\n\n| A |\n|---|\n| 1 |\n")
	})

	assert.Equal(t, []string{"tables"}, res.Skipped)
	assert.True(t, strings.HasPrefix(res.Text, "Intro"))
}

func TestNormalize_CustomRules(t *testing.T) {
	r := rules.Default()
	r.MetadataKeys = []string{"sidebar_position"}

	n, err := New(r)
	require.NoError(t, err)

	got := n.Normalize("sidebar_position: 3\n\ntitle: stays")
	assert.Equal(t, "title: stays", got)
}
