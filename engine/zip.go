package engine

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
)

// zipRenderer converts an archive by recursively converting each entry
// through the engine. Entries the engine cannot handle are skipped.
type zipRenderer struct {
	engine *Engine
}

func (z *zipRenderer) render(r io.ReadSeeker, req request) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read ZIP: %w", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open ZIP: %w", err)
	}

	archiveName := req.filename
	if archiveName == "" {
		archiveName = "archive"
	}

	var md strings.Builder
	fmt.Fprintf(&md, "Content from the zip file `%s`:\n\n", archiveName)

	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() {
			continue
		}

		rc, err := entry.Open()
		if err != nil {
			continue
		}
		entryData, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}

		mt := entryMIMEType(entry.Name)
		result, err := z.engine.Render(bytes.NewReader(entryData), mt, filepath.Base(entry.Name))
		if err != nil {
			continue
		}
		if strings.TrimSpace(result) != "" {
			fmt.Fprintf(&md, "## File: %s\n", entry.Name)
			md.WriteString(result)
			md.WriteString("\n\n")
		}
	}

	return md.String(), nil
}

// entryMIMEType resolves an archive entry's MIME type from its extension.
func entryMIMEType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if mt := mime.TypeByExtension(ext); mt != "" {
		return mt
	}
	switch ext {
	case ".md":
		return "text/markdown"
	case ".csv":
		return "text/csv"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".pptx":
		return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	}
	return "application/octet-stream"
}
