// Package table linearizes Markdown pipe tables.
// Each data row becomes one "Header: value | Header: value" line, so the
// field semantics survive while the column layout is dropped.
package table

import "strings"

// Formatter implements core.TableFormatter.
type Formatter struct{}

// New creates a Formatter.
func New() *Formatter {
	return &Formatter{}
}

// Format converts the literal text of one table block. Malformed input
// degrades to the text with pipes replaced by spaces; it never fails.
func (f *Formatter) Format(table string) string {
	lines := nonEmptyLines(table)
	if len(lines) == 0 {
		return ""
	}

	header := lines[0]
	if !strings.HasPrefix(header, "|") {
		return fallback(table)
	}

	// Labels are re-indexed after empty ones are dropped.
	var labels []string
	for _, cell := range splitCells(header) {
		if cell != "" {
			labels = append(labels, cell)
		}
	}

	var rows []string
	for _, line := range lines[1:] {
		if isSeparator(line) {
			continue
		}
		if row := formatRow(line, labels); row != "" {
			rows = append(rows, row)
		}
	}

	if len(rows) == 0 {
		return fallback(table)
	}
	return strings.Join(rows, "\n")
}

// formatRow renders a single data row, or "" when the row is not
// pipe-delimited on both ends or has no content.
func formatRow(line string, labels []string) string {
	if !strings.HasPrefix(line, "|") || !strings.HasSuffix(line, "|") {
		return ""
	}

	var parts []string
	for i, cell := range splitCells(line) {
		if cell == "" {
			continue
		}
		if i < len(labels) {
			parts = append(parts, labels[i]+": "+cell)
		} else {
			parts = append(parts, cell)
		}
	}
	return strings.Join(parts, " | ")
}

// splitCells splits on "|" and drops the first and last segments, which
// are the outside of the leading and trailing pipes.
func splitCells(line string) []string {
	segments := strings.Split(line, "|")
	if len(segments) < 2 {
		return nil
	}
	cells := segments[1 : len(segments)-1]
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

// isSeparator reports whether the line is alignment syntax like |---|:--:|.
func isSeparator(line string) bool {
	for _, ch := range line {
		switch ch {
		case '|', '\t', ' ', '-', ':':
		default:
			return false
		}
	}
	return true
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func fallback(table string) string {
	return strings.TrimSpace(strings.ReplaceAll(table, "|", " "))
}
