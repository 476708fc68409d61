package codewindow

import (
	"html/template"
	"strings"
)

// Row is one line of source text with its 1-based line number.
type Row struct {
	Number int
	Text   string
}

// Line is a highlighted row ready for rendering.
type Line struct {
	Number int
	HTML   template.HTML
}

// Split breaks code into rows on "\n". Empty input gives a single empty row.
// Line endings are not normalised, so Join(Split(s)) == s.
func Split(code string) []Row {
	parts := strings.Split(code, "\n")
	rows := make([]Row, len(parts))
	for i, part := range parts {
		rows[i] = Row{Number: i + 1, Text: part}
	}
	return rows
}

// Join rebuilds the source text from rows.
func Join(rows []Row) string {
	parts := make([]string, len(rows))
	for i, row := range rows {
		parts[i] = row.Text
	}
	return strings.Join(parts, "\n")
}
