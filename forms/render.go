package forms

import "strings"

// Text returns a plain text representation of the group: one
// tab-separated line per record under a header line.
func (g Group) Text() string {
	schema := g.Schema()

	var sb strings.Builder
	for j, col := range schema {
		if j > 0 {
			sb.WriteString("\t")
		}
		sb.WriteString(col)
	}

	for _, r := range g.Records {
		sb.WriteString("\n")
		for j, cell := range r.Row(schema) {
			if j > 0 {
				sb.WriteString("\t")
			}
			// Replace newlines within cells with spaces
			sb.WriteString(strings.ReplaceAll(cell, "\n", " "))
		}
	}

	return sb.String()
}

// Markdown returns a markdown table representation of the group.
func (g Group) Markdown() string {
	schema := g.Schema()

	var sb strings.Builder
	sb.WriteString("|")
	for _, col := range schema {
		sb.WriteString(" ")
		sb.WriteString(escapeMarkdownCell(col))
		sb.WriteString(" |")
	}
	sb.WriteString("\n|")
	for range schema {
		sb.WriteString(" --- |")
	}
	sb.WriteString("\n")

	for _, r := range g.Records {
		sb.WriteString("|")
		for _, cell := range r.Row(schema) {
			sb.WriteString(" ")
			sb.WriteString(escapeMarkdownCell(cell))
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// escapeMarkdownCell makes a value safe inside a markdown table cell.
func escapeMarkdownCell(text string) string {
	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.ReplaceAll(text, "|", "\\|")
	return strings.TrimSpace(text)
}
