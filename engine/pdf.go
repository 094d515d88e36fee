package engine

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfRenderer extracts text from PDF files page by page.
type pdfRenderer struct{}

func (p *pdfRenderer) render(r io.ReadSeeker, _ request) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read PDF: %w", err)
	}

	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open PDF: %w", err)
	}

	var md strings.Builder
	for i := 1; i <= doc.NumPage(); i++ {
		page := doc.Page(i)
		if page.V.IsNull() {
			continue
		}
		text := strings.TrimSpace(pageText(page))
		if text == "" {
			continue
		}
		md.WriteString(text)
		md.WriteString("\n\n")
	}

	if strings.TrimSpace(md.String()) == "" {
		return "[No readable text content found in PDF]", nil
	}
	return md.String(), nil
}

// pageText extracts a page's text using the row-based API, falling back to
// positioned-fragment clustering when rows are unavailable.
func pageText(page pdf.Page) string {
	rows, err := page.GetTextByRow()
	if err == nil && len(rows) > 0 {
		var b strings.Builder
		for _, row := range rows {
			line := joinRowWords(row)
			if line != "" {
				b.WriteString(line)
				b.WriteString("\n")
			}
		}
		if strings.TrimSpace(b.String()) != "" {
			return b.String()
		}
	}
	return positionedText(page)
}

// joinRowWords concatenates a row's fragments. An empty fragment between two
// non-empty ones marks a word boundary.
func joinRowWords(row *pdf.Row) string {
	var line strings.Builder
	pendingGap := false
	for _, word := range row.Content {
		if word.S == "" {
			pendingGap = true
			continue
		}
		if line.Len() > 0 && pendingGap && !strings.HasSuffix(line.String(), " ") {
			line.WriteString(" ")
		}
		line.WriteString(word.S)
		pendingGap = false
	}
	return strings.TrimSpace(line.String())
}

type pdfFragment struct {
	x, y, size float64
	text       string
}

// positionedText groups raw text fragments into lines by Y proximity and
// orders them top to bottom, left to right.
func positionedText(page pdf.Page) string {
	content := page.Content()

	var frags []pdfFragment
	for _, t := range content.Text {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		frags = append(frags, pdfFragment{x: t.X, y: t.Y, size: t.FontSize, text: t.S})
	}
	if len(frags) == 0 {
		return ""
	}

	tolerance := 3.0
	if frags[0].size > 0 {
		tolerance = frags[0].size * 0.3
	}

	type line struct {
		y     float64
		frags []pdfFragment
	}
	var lines []line
	for _, f := range frags {
		placed := false
		for i := range lines {
			if abs(lines[i].y-f.y) < tolerance {
				lines[i].frags = append(lines[i].frags, f)
				placed = true
				break
			}
		}
		if !placed {
			lines = append(lines, line{y: f.y, frags: []pdfFragment{f}})
		}
	}

	// PDF coordinates grow upward, so sort Y descending.
	sort.Slice(lines, func(i, j int) bool { return lines[i].y > lines[j].y })

	var b strings.Builder
	for _, ln := range lines {
		sort.Slice(ln.frags, func(i, j int) bool { return ln.frags[i].x < ln.frags[j].x })

		var text strings.Builder
		var lastEnd float64
		for i, f := range ln.frags {
			if i > 0 {
				threshold := f.size * 0.2
				if threshold < 1.0 {
					threshold = 1.0
				}
				if f.x-lastEnd > threshold {
					text.WriteString(" ")
				}
			}
			text.WriteString(f.text)
			lastEnd = f.x + float64(len([]rune(f.text)))*f.size*0.55
		}
		if s := strings.TrimSpace(text.String()); s != "" {
			b.WriteString(s)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
