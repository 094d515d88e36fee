package engine

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/nicholasgasior/docreader-go/internal/ooxml"
)

// epubRenderer renders EPUB books: OPF metadata as a header, then the
// spine's HTML chapters in reading order through the HTML renderer.
type epubRenderer struct {
	html *htmlRenderer
}

func (e *epubRenderer) render(r io.ReadSeeker, _ request) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read EPUB: %w", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open EPUB ZIP: %w", err)
	}

	opfPath, err := findOPFPath(zr)
	if err != nil {
		return "", fmt.Errorf("find OPF: %w", err)
	}

	meta, manifest, spine, err := parseOPF(zr, opfPath)
	if err != nil {
		return "", fmt.Errorf("parse OPF: %w", err)
	}

	var md strings.Builder
	if meta.title != "" {
		fmt.Fprintf(&md, "# %s\n\n", meta.title)
	}
	if len(meta.authors) > 0 {
		fmt.Fprintf(&md, "**Authors:** %s\n\n", strings.Join(meta.authors, ", "))
	}
	if meta.language != "" {
		fmt.Fprintf(&md, "**Language:** %s\n\n", meta.language)
	}
	if meta.description != "" {
		fmt.Fprintf(&md, "**Description:** %s\n\n", meta.description)
	}

	opfDir := path.Dir(opfPath)
	for _, idref := range spine {
		item, ok := manifest[idref]
		if !ok {
			continue
		}

		chapterPath := item.href
		if opfDir != "." && !strings.HasPrefix(chapterPath, "/") {
			chapterPath = opfDir + "/" + chapterPath
		}

		chapter, err := ooxml.ReadFile(zr, chapterPath)
		if err != nil {
			continue
		}

		ext := strings.ToLower(path.Ext(chapterPath))
		isHTML := ext == ".html" || ext == ".htm" || ext == ".xhtml" ||
			strings.Contains(item.mediaType, "html")
		if !isHTML {
			continue
		}

		if chMD, err := e.html.renderString(string(chapter)); err == nil && strings.TrimSpace(chMD) != "" {
			md.WriteString(chMD)
			md.WriteString("\n\n")
		}
	}

	return md.String(), nil
}

type epubMeta struct {
	title       string
	authors     []string
	language    string
	description string
}

type epubItem struct {
	href      string
	mediaType string
}

// findOPFPath locates the package document via META-INF/container.xml.
func findOPFPath(zr *zip.Reader) (string, error) {
	data, err := ooxml.ReadFile(zr, "META-INF/container.xml")
	if err != nil {
		return "", err
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "rootfile" {
			continue
		}
		for _, attr := range se.Attr {
			if attr.Name.Local == "full-path" {
				return attr.Value, nil
			}
		}
	}
	return "", fmt.Errorf("rootfile not found in container.xml")
}

// parseOPF extracts metadata, the manifest, and the spine reading order.
func parseOPF(zr *zip.Reader, opfPath string) (epubMeta, map[string]epubItem, []string, error) {
	data, err := ooxml.ReadFile(zr, opfPath)
	if err != nil {
		return epubMeta{}, nil, nil, err
	}

	var meta epubMeta
	manifest := make(map[string]epubItem)
	var spine []string

	dec := xml.NewDecoder(bytes.NewReader(data))
	var inMetadata bool
	var currentTag string

	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "metadata":
				inMetadata = true
			case "title", "creator", "language", "description":
				if inMetadata {
					currentTag = t.Name.Local
				}
			case "item":
				var id string
				var item epubItem
				for _, attr := range t.Attr {
					switch attr.Name.Local {
					case "id":
						id = attr.Value
					case "href":
						item.href = attr.Value
					case "media-type":
						item.mediaType = attr.Value
					}
				}
				if id != "" {
					manifest[id] = item
				}
			case "itemref":
				for _, attr := range t.Attr {
					if attr.Name.Local == "idref" {
						spine = append(spine, attr.Value)
					}
				}
			}
		case xml.CharData:
			if !inMetadata || currentTag == "" {
				break
			}
			text := strings.TrimSpace(string(t))
			if text == "" {
				break
			}
			switch currentTag {
			case "title":
				meta.title = text
			case "creator":
				meta.authors = append(meta.authors, text)
			case "language":
				meta.language = text
			case "description":
				meta.description = text
			}
		case xml.EndElement:
			if t.Name.Local == "metadata" {
				inMetadata = false
			}
			currentTag = ""
		}
	}

	return meta, manifest, spine, nil
}
