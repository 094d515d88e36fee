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
	"html"
	"io"
	"strings"

	"github.com/nicholasgasior/docreader-go/internal/ooxml"
)

// docxRenderer extracts DOCX content by walking word/document.xml into an
// intermediate HTML document (headings, paragraphs, inline emphasis,
// hyperlinks, tables) and handing that to the HTML renderer.
type docxRenderer struct {
	html *htmlRenderer
}

func (d *docxRenderer) render(r io.ReadSeeker, _ request) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read DOCX: %w", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open DOCX ZIP: %w", err)
	}

	rels, err := ooxml.Relationships(zr, ooxml.RelsPathFor("word/document.xml"))
	if err != nil {
		rels = map[string]ooxml.Relationship{}
	}

	doc, err := ooxml.ReadFile(zr, "word/document.xml")
	if err != nil {
		return "", fmt.Errorf("read document.xml: %w", err)
	}

	htmlDoc, err := documentToHTML(doc, rels)
	if err != nil {
		return "", fmt.Errorf("walk document.xml: %w", err)
	}

	return d.html.renderString(htmlDoc)
}

// documentToHTML streams the WordprocessingML body into HTML.
func documentToHTML(doc []byte, rels map[string]ooxml.Relationship) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(doc))

	var b strings.Builder
	b.WriteString("<html><body>")

	var (
		para       strings.Builder // current paragraph content
		inPara     bool
		headingLvl int
		bold       bool
		italic     bool
		inRunProps bool
		linkTarget string
		tableDepth int
		cellSep    bool
	)

	openPara := func() {
		if headingLvl > 0 {
			fmt.Fprintf(&b, "<h%d>", headingLvl)
		} else {
			b.WriteString("<p>")
		}
	}
	closePara := func() {
		if headingLvl > 0 {
			fmt.Fprintf(&b, "</h%d>", headingLvl)
		} else {
			b.WriteString("</p>")
		}
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth++
				b.WriteString("<table>")
			case "tr":
				if tableDepth > 0 {
					b.WriteString("<tr>")
				}
			case "tc":
				if tableDepth > 0 {
					b.WriteString("<td>")
					cellSep = false
				}
			case "p":
				inPara = true
				headingLvl = 0
				para.Reset()
			case "pStyle":
				if lvl := headingLevel(attrValue(t, "val")); lvl > 0 {
					headingLvl = lvl
				}
			case "rPr":
				inRunProps = true
			case "b":
				if inRunProps && attrValue(t, "val") != "false" && attrValue(t, "val") != "0" {
					bold = true
				}
			case "i":
				if inRunProps && attrValue(t, "val") != "false" && attrValue(t, "val") != "0" {
					italic = true
				}
			case "hyperlink":
				if id := attrValue(t, "id"); id != "" {
					if rel, ok := rels[id]; ok {
						linkTarget = rel.Target
						para.WriteString(`<a href="` + html.EscapeString(linkTarget) + `">`)
					}
				}
			case "t":
				var text string
				if err := dec.DecodeElement(&text, &t); err == nil {
					para.WriteString(wrapRun(html.EscapeString(text), bold, italic))
				}
			case "br", "cr":
				para.WriteString("<br/>")
			case "tab":
				para.WriteString(" ")
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "tbl":
				if tableDepth > 0 {
					tableDepth--
					b.WriteString("</table>")
				}
			case "tr":
				if tableDepth > 0 {
					b.WriteString("</tr>")
				}
			case "tc":
				if tableDepth > 0 {
					b.WriteString("</td>")
				}
			case "p":
				if !inPara {
					break
				}
				inPara = false
				content := para.String()
				if tableDepth > 0 {
					// Paragraphs inside a cell concatenate with breaks.
					if cellSep {
						b.WriteString("<br/>")
					}
					b.WriteString(content)
					cellSep = true
				} else if strings.TrimSpace(content) != "" {
					openPara()
					b.WriteString(content)
					closePara()
				}
			case "rPr":
				inRunProps = false
			case "r":
				bold = false
				italic = false
			case "hyperlink":
				if linkTarget != "" {
					para.WriteString("</a>")
					linkTarget = ""
				}
			}
		}
	}

	b.WriteString("</body></html>")
	return b.String(), nil
}

// headingLevel maps a paragraph style ID like "Heading2" to 2; 0 means not
// a heading. Title styles map to level 1.
func headingLevel(styleID string) int {
	s := strings.ToLower(styleID)
	if s == "title" {
		return 1
	}
	if rest, ok := strings.CutPrefix(s, "heading"); ok && len(rest) == 1 && rest[0] >= '1' && rest[0] <= '6' {
		return int(rest[0] - '0')
	}
	return 0
}

func wrapRun(text string, bold, italic bool) string {
	if bold {
		text = "<strong>" + text + "</strong>"
	}
	if italic {
		text = "<em>" + text + "</em>"
	}
	return text
}

func attrValue(se xml.StartElement, local string) string {
	for _, attr := range se.Attr {
		if attr.Name.Local == local {
			return attr.Value
		}
	}
	return ""
}
