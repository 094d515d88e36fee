// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package engine

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/nicholasgasior/docreader-go/internal/ooxml"
)

// pptxRenderer converts PPTX slide decks to markdown. Slides render in
// presentation order with a slide-number marker, title placeholders become
// headings, and drawing tables become markdown tables. Speaker notes follow
// each slide under a Notes heading.
type pptxRenderer struct{}

func (p *pptxRenderer) render(r io.ReadSeeker, _ request) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read PPTX: %w", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open PPTX ZIP: %w", err)
	}

	slides := slidePaths(zr)
	if len(slides) == 0 {
		return "", fmt.Errorf("no slides found in presentation")
	}

	var b strings.Builder
	for i, slidePath := range slides {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "<!-- Slide number: %d -->\n", i+1)

		slideXML, err := ooxml.ReadFile(zr, slidePath)
		if err != nil {
			continue
		}
		b.WriteString(slideToMarkdown(slideXML))

		if notes := notesFor(zr, slidePath); notes != "" {
			b.WriteString("\n\n### Notes:\n")
			b.WriteString(notes)
		}
	}

	return b.String(), nil
}

// slidePaths resolves slide part names in presentation order via the
// presentation relationships. When the relationship walk fails it falls
// back to sorting slide part names directly.
func slidePaths(zr *zip.Reader) []string {
	var ordered []string

	rels, err := ooxml.Relationships(zr, ooxml.RelsPathFor("ppt/presentation.xml"))
	if err == nil && len(rels) > 0 {
		if pres, err := ooxml.ReadFile(zr, "ppt/presentation.xml"); err == nil {
			for _, id := range slideRelIDs(pres) {
				rel, ok := rels[id]
				if !ok {
					continue
				}
				ordered = append(ordered, ooxml.ResolveTarget("ppt/presentation.xml", rel.Target))
			}
		}
	}
	if len(ordered) > 0 {
		return ordered
	}

	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
			ordered = append(ordered, f.Name)
		}
	}
	sort.Slice(ordered, func(i, j int) bool {
		return slideNumber(ordered[i]) < slideNumber(ordered[j])
	})
	return ordered
}

// slideRelIDs pulls the r:id of every p:sldId in document order.
func slideRelIDs(pres []byte) []string {
	dec := xml.NewDecoder(bytes.NewReader(pres))
	var ids []string
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "sldId" {
			continue
		}
		// p:sldId carries both a numeric id and an r:id; the relationship
		// one is the rId-prefixed value.
		for _, attr := range se.Attr {
			if attr.Name.Local == "id" && strings.HasPrefix(attr.Value, "rId") {
				ids = append(ids, attr.Value)
				break
			}
		}
	}
	return ids
}

func slideNumber(name string) int {
	base := strings.TrimSuffix(path.Base(name), ".xml")
	base = strings.TrimPrefix(base, "slide")
	n := 0
	for _, c := range base {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// slideToMarkdown walks a slide part and emits its shapes in order.
func slideToMarkdown(slide []byte) string {
	dec := xml.NewDecoder(bytes.NewReader(slide))

	var b strings.Builder
	var (
		inShape   bool
		isTitle   bool
		shapeText strings.Builder
		paraText  strings.Builder

		inTable   bool
		tableRows [][]string
		rowCells  []string
		cellText  strings.Builder
	)

	flushShape := func() {
		text := strings.TrimSpace(shapeText.String())
		if text == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		if isTitle {
			b.WriteString("# ")
		}
		b.WriteString(text)
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "sp":
				inShape = true
				isTitle = false
				shapeText.Reset()
			case "ph":
				if typ := attrValue(t, "type"); typ == "title" || typ == "ctrTitle" {
					isTitle = true
				}
			case "tbl":
				inTable = true
				tableRows = nil
			case "tr":
				if inTable {
					rowCells = nil
				}
			case "tc":
				if inTable {
					cellText.Reset()
				}
			case "p":
				if !inTable {
					paraText.Reset()
				}
			case "t":
				var text string
				if err := dec.DecodeElement(&text, &t); err != nil {
					continue
				}
				switch {
				case inTable:
					cellText.WriteString(text)
				case inShape:
					paraText.WriteString(text)
				}
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "sp":
				flushShape()
				inShape = false
			case "tbl":
				if inTable && len(tableRows) > 0 {
					if b.Len() > 0 {
						b.WriteString("\n\n")
					}
					b.WriteString(markdownTable(tableRows))
				}
				inTable = false
			case "tr":
				if inTable && len(rowCells) > 0 {
					tableRows = append(tableRows, rowCells)
				}
			case "tc":
				if inTable {
					rowCells = append(rowCells, cellText.String())
				}
			case "p":
				if !inTable && inShape {
					if line := strings.TrimSpace(paraText.String()); line != "" {
						if shapeText.Len() > 0 {
							shapeText.WriteString("\n")
						}
						shapeText.WriteString(line)
					}
				}
			}
		}
	}

	return b.String()
}

// notesFor reads the notes slide paired with a slide part, if any.
func notesFor(zr *zip.Reader, slidePath string) string {
	rels, err := ooxml.Relationships(zr, ooxml.RelsPathFor(slidePath))
	if err != nil {
		return ""
	}
	for _, rel := range rels {
		if !strings.HasSuffix(rel.Type, "/notesSlide") {
			continue
		}
		notesPath := ooxml.ResolveTarget(slidePath, rel.Target)
		notesXML, err := ooxml.ReadFile(zr, notesPath)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(slideToMarkdown(notesXML))
	}
	return ""
}
