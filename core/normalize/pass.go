package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/doccorpus/core/rules"
)

// Pass is one step of the normalization pipeline.
type Pass interface {
	Name() string
	Apply(text string) (string, error)
}

// passFunc adapts a plain function to the Pass interface.
type passFunc struct {
	name string
	fn   func(string) (string, error)
}

func (p passFunc) Name() string { return p.name }
func (p passFunc) Apply(text string) (string, error) { return p.fn(text) }

// NewPass wraps fn as a named Pass.
func NewPass(name string, fn func(string) (string, error)) Pass {
	return passFunc{name: name, fn: fn}
}

// run applies p and reports whether it succeeded. A failing or panicking
// pass leaves the text unchanged.
func run(p Pass, text string) (out string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			out, ok = text, false
		}
	}()
	res, err := p.Apply(text)
	if err != nil {
		return text, false
	}
	return res, true
}

// replacePass removes or rewrites every match of re.
func replacePass(name string, re *regexp.Regexp, repl string) Pass {
	return NewPass(name, func(text string) (string, error) {
		return re.ReplaceAllString(text, repl), nil
	})
}

// lineFilterPass drops every line for which drop returns true.
func lineFilterPass(name string, drop func(line string) bool) Pass {
	return NewPass(name, func(text string) (string, error) {
		lines := strings.Split(text, "\n")
		kept := lines[:0]
		for _, line := range lines {
			if !drop(line) {
				kept = append(kept, line)
			}
		}
		return strings.Join(kept, "\n"), nil
	})
}

var (
	lineEndingRegex  = regexp.MustCompile(`\r\n?`)
	inlineCodeRegex  = regexp.MustCompile("`([^`]+)`")
	commentRegex     = regexp.MustCompile(`(?s)<!--.*?-->`)
	bareURLRegex     = regexp.MustCompile(`https?://[^\s)]+`)
	inlineLinkRegex  = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	refLinkRegex     = regexp.MustCompile(`\[([^\]]*)\]\[[^\]]*\]`)
	manyNewlineRegex = regexp.MustCompile(`\n{3,}`)
)

// delimitedRegex matches the shortest span from open to closing. With
// multiline set the span may cross line boundaries.
func delimitedRegex(open, closing string, multiline bool) (*regexp.Regexp, error) {
	flags := ""
	if multiline {
		flags = "(?s)"
	}
	return regexp.Compile(flags + regexp.QuoteMeta(open) + ".*?" + regexp.QuoteMeta(closing))
}

// cleanupPasses builds passes 0 through 12: everything that runs before
// table extraction.
func cleanupPasses(r rules.Rules) ([]Pass, error) {
	fence, err := delimitedRegex(r.CodeFence, r.CodeFence, true)
	if err != nil {
		return nil, fmt.Errorf("compiling code fence pattern: %w", err)
	}
	macro, err := delimitedRegex(r.MacroOpen, r.MacroClose, false)
	if err != nil {
		return nil, fmt.Errorf("compiling macro pattern: %w", err)
	}
	service, err := delimitedRegex(r.ServiceMarker, r.ServiceMarker, true)
	if err != nil {
		return nil, fmt.Errorf("compiling service block pattern: %w", err)
	}
	snippet, err := regexp.Compile(regexp.QuoteMeta(r.SnippetMarker) + `\s*".*?"`)
	if err != nil {
		return nil, fmt.Errorf("compiling snippet pattern: %w", err)
	}

	return []Pass{
		replacePass("line-endings", lineEndingRegex, "\n"),
		frontmatterPass(r.FrontmatterMarker),
		lineFilterPass("metadata-lines", metadataLine(r.MetadataKeys, r.URLPrefixes)),
		replacePass("code-fences", fence, ""),
		replacePass("inline-code", inlineCodeRegex, "$1"),
		replacePass("macros", macro, ""),
		replacePass("service-blocks", service, ""),
		replacePass("html-comments", commentRegex, ""),
		replacePass("snippets", snippet, ""),
		replacePass("bare-urls", bareURLRegex, ""),
		replacePass("inline-links", inlineLinkRegex, "$1"),
		replacePass("reference-links", refLinkRegex, "$1"),
		lineFilterPass("link-definitions", linkDefinition),
	}, nil
}

// frontmatterPass drops a leading block opened by marker on the first line
// and closed by the next marker line. Without a closing line the text is
// left untouched.
func frontmatterPass(marker string) Pass {
	return NewPass("frontmatter", func(text string) (string, error) {
		lines := strings.Split(text, "\n")
		if strings.TrimSpace(lines[0]) != marker {
			return text, nil
		}
		for i := 1; i < len(lines); i++ {
			if strings.TrimSpace(lines[i]) == marker {
				return strings.Join(lines[i+1:], "\n"), nil
			}
		}
		return text, nil
	})
}

func metadataLine(keys, urlPrefixes []string) func(string) bool {
	prefixes := make([]string, 0, len(keys)+len(urlPrefixes))
	for _, key := range keys {
		prefixes = append(prefixes, key+":")
	}
	prefixes = append(prefixes, urlPrefixes...)

	return func(line string) bool {
		trimmed := strings.TrimSpace(line)
		for _, prefix := range prefixes {
			if strings.HasPrefix(trimmed, prefix) {
				return true
			}
		}
		return false
	}
}

// linkDefinition matches reference declarations like "[ref]: /some/url".
func linkDefinition(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "[") && strings.Contains(line, "]: ")
}

// commentOpen is the HTML comment opener left behind when a comment is
// never closed.
const commentOpen = "<!--"

// markdownPunctuation is the set of characters CommonMark lets a backslash
// escape.
const markdownPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// escapeMarkdown backslash-escapes every punctuation character of s.
func escapeMarkdown(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(markdownPunctuation, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// literalMarkersPass escapes the fence and comment openers that the removal
// passes left unmatched, so the renderer prints them instead of opening a
// code block or comment that runs to the end of the document.
func literalMarkersPass(fence string) Pass {
	replacer := strings.NewReplacer(
		fence, escapeMarkdown(fence),
		commentOpen, escapeMarkdown(commentOpen),
	)
	return NewPass("literal-markers", func(text string) (string, error) {
		return replacer.Replace(text), nil
	})
}

// collapseWhitespace trims every line, drops blank ones and joins the rest.
func collapseWhitespace(text string) (string, error) {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	joined := manyNewlineRegex.ReplaceAllString(strings.Join(kept, "\n"), "\n\n")
	return strings.TrimSpace(joined), nil
}
