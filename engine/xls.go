package engine

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/extrame/xls"
)

// xlsRenderer renders legacy XLS workbooks. The xls library only opens
// files, so the stream is spooled to a temp file first.
type xlsRenderer struct{}

func (x *xlsRenderer) render(r io.ReadSeeker, _ request) (string, error) {
	tmp, err := os.CreateTemp("", "docreader-*.xls")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	wb, err := xls.Open(tmpPath, "utf-8")
	if err != nil {
		return "", fmt.Errorf("open XLS: %w", err)
	}

	var md strings.Builder
	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}

		name := sheet.Name
		if name == "" {
			name = fmt.Sprintf("Sheet%d", i+1)
		}

		var rows [][]string
		for rowIdx := 0; rowIdx <= int(sheet.MaxRow); rowIdx++ {
			row := sheet.Row(rowIdx)
			if row == nil {
				continue
			}
			var cells []string
			for colIdx := 0; colIdx < row.LastCol(); colIdx++ {
				cells = append(cells, row.Col(colIdx))
			}
			rows = append(rows, cells)
		}
		if len(rows) == 0 {
			continue
		}

		fmt.Fprintf(&md, "## %s\n", name)
		md.WriteString(markdownTable(rows))
		md.WriteString("\n")
	}

	return md.String(), nil
}
