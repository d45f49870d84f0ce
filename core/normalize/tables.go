package normalize

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gaurav-prasanna/doccorpus/core"
)

// placeholders maps synthetic tokens to formatted table text for the
// duration of one Normalize call.
type placeholders struct {
	nonce  string
	tokens []string
	tables []string
}

// newPlaceholders picks a nonce that does not occur in raw. Tokens are
// alphanumeric so Markdown rendering passes them through verbatim.
func newPlaceholders(raw string) *placeholders {
	for {
		nonce := strings.ReplaceAll(uuid.NewString(), "-", "")
		if !strings.Contains(raw, nonce) {
			return &placeholders{nonce: nonce}
		}
	}
}

func (p *placeholders) add(formatted string) string {
	token := fmt.Sprintf("DOCCORPUSTABLE%s%dEND", p.nonce, len(p.tokens))
	p.tokens = append(p.tokens, token)
	p.tables = append(p.tables, formatted)
	return token
}

func (p *placeholders) restore(text string) string {
	for i, token := range p.tokens {
		text = strings.Replace(text, token, p.tables[i], 1)
	}
	return text
}

// extractTables replaces every maximal run of lines whose trimmed form
// starts with "|" by a placeholder line. Replacement is positional, so
// two tables with identical text each get their own token.
func extractTables(text string, f core.TableFormatter, p *placeholders) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))

	for i := 0; i < len(lines); {
		if !isTableLine(lines[i]) {
			out = append(out, lines[i])
			i++
			continue
		}
		start := i
		for i < len(lines) && isTableLine(lines[i]) {
			i++
		}
		block := strings.Join(lines[start:i], "\n")
		out = append(out, p.add(f.Format(block)))
	}
	return strings.Join(out, "\n")
}

func isTableLine(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "|")
}
