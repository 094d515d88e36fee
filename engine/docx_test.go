package engine

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

func buildZip(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

const docxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

func TestRenderDOCX(t *testing.T) {
	document := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"
            xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <w:body>
    <w:p>
      <w:pPr><w:pStyle w:val="Heading1"/></w:pPr>
      <w:r><w:t>Report Title</w:t></w:r>
    </w:p>
    <w:p>
      <w:r><w:t>Plain paragraph with </w:t></w:r>
      <w:r><w:rPr><w:b/></w:rPr><w:t>bold</w:t></w:r>
      <w:r><w:t> and </w:t></w:r>
      <w:r><w:rPr><w:i/></w:rPr><w:t>italic</w:t></w:r>
      <w:r><w:t> runs.</w:t></w:r>
    </w:p>
    <w:p>
      <w:hyperlink r:id="rId5">
        <w:r><w:t>example site</w:t></w:r>
      </w:hyperlink>
    </w:p>
    <w:tbl>
      <w:tr>
        <w:tc><w:p><w:r><w:t>cell a</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>cell b</w:t></w:r></w:p></w:tc>
      </w:tr>
      <w:tr>
        <w:tc><w:p><w:r><w:t>cell c</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>cell d</w:t></w:r></w:p></w:tc>
      </w:tr>
    </w:tbl>
  </w:body>
</w:document>`

	rels := `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId5" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink" Target="https://example.com" TargetMode="External"/>
</Relationships>`

	data := buildZip(t, map[string]string{
		"word/document.xml":            document,
		"word/_rels/document.xml.rels": rels,
	})

	e := New()
	out := render(t, e, data, docxMIME, "report.docx")

	if !strings.Contains(out, "# Report Title") {
		t.Errorf("heading missing:\n%s", out)
	}
	if !strings.Contains(out, "**bold**") {
		t.Errorf("bold run missing:\n%s", out)
	}
	if !strings.Contains(out, "*italic*") {
		t.Errorf("italic run missing:\n%s", out)
	}
	if !strings.Contains(out, "[example site](https://example.com)") {
		t.Errorf("hyperlink missing:\n%s", out)
	}
	for _, cell := range []string{"cell a", "cell b", "cell c", "cell d"} {
		if !strings.Contains(out, cell) {
			t.Errorf("table cell %q missing:\n%s", cell, out)
		}
	}
}

func TestRenderDOCXNotAZip(t *testing.T) {
	e := New()
	_, err := e.Render(bytes.NewReader([]byte("not a zip archive")), docxMIME, "broken.docx")
	if err == nil {
		t.Fatal("expected error for invalid DOCX payload")
	}
}

func TestHeadingLevel(t *testing.T) {
	cases := []struct {
		style string
		want  int
	}{
		{"Heading1", 1},
		{"heading3", 3},
		{"Heading6", 6},
		{"Title", 1},
		{"Heading7", 0},
		{"Normal", 0},
		{"", 0},
	}
	for _, tc := range cases {
		if got := headingLevel(tc.style); got != tc.want {
			t.Errorf("headingLevel(%q) = %d, want %d", tc.style, got, tc.want)
		}
	}
}
