package engine

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// csvRenderer turns CSV content into a markdown table.
type csvRenderer struct{}

func (c *csvRenderer) render(r io.ReadSeeker, _ request) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}

	text := decodeText(data)

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse CSV: %w", err)
	}
	if len(records) == 0 {
		return "", nil
	}

	return markdownTable(records), nil
}
