package engine

import "strings"

// markdownTable renders rows as a markdown table. The first row is treated
// as the header; column count is fixed by the header, short rows are padded.
func markdownTable(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	cols := len(rows[0])

	var b strings.Builder
	writeRow := func(row []string) {
		b.WriteString("| ")
		for i := 0; i < cols; i++ {
			if i < len(row) {
				b.WriteString(escapeCell(row[i]))
			}
			b.WriteString(" | ")
		}
		b.WriteString("\n")
	}

	writeRow(rows[0])

	b.WriteString("| ")
	for i := 0; i < cols; i++ {
		b.WriteString("--- | ")
	}
	b.WriteString("\n")

	for _, row := range rows[1:] {
		writeRow(row)
	}
	return b.String()
}

// escapeCell keeps cell content from breaking table syntax.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "|", "\\|")
	return s
}
