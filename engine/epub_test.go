package engine

import (
	"strings"
	"testing"
)

func TestRenderEPUB(t *testing.T) {
	container := `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

	opf := `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>A Short Book</dc:title>
    <dc:creator>Jane Writer</dc:creator>
    <dc:language>en</dc:language>
    <dc:description>A very short test book.</dc:description>
  </metadata>
  <manifest>
    <item id="ch1" href="chapter1.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch2" href="chapter2.xhtml" media-type="application/xhtml+xml"/>
    <item id="css" href="style.css" media-type="text/css"/>
  </manifest>
  <spine>
    <itemref idref="ch1"/>
    <itemref idref="ch2"/>
  </spine>
</package>`

	chapter1 := `<html><body><h1>Chapter One</h1><p>It begins.</p></body></html>`
	chapter2 := `<html><body><h1>Chapter Two</h1><p>It continues.</p></body></html>`

	data := buildZip(t, map[string]string{
		"META-INF/container.xml": container,
		"OEBPS/content.opf":      opf,
		"OEBPS/chapter1.xhtml":   chapter1,
		"OEBPS/chapter2.xhtml":   chapter2,
		"OEBPS/style.css":        "body { margin: 0 }",
	})

	e := New()
	out := render(t, e, data, "application/epub+zip", "book.epub")

	if !strings.Contains(out, "# A Short Book") {
		t.Errorf("title missing:\n%s", out)
	}
	if !strings.Contains(out, "**Authors:** Jane Writer") {
		t.Errorf("author missing:\n%s", out)
	}
	if !strings.Contains(out, "**Language:** en") {
		t.Errorf("language missing:\n%s", out)
	}
	if !strings.Contains(out, "# Chapter One") || !strings.Contains(out, "It begins.") {
		t.Errorf("chapter 1 missing:\n%s", out)
	}
	if !strings.Contains(out, "# Chapter Two") || !strings.Contains(out, "It continues.") {
		t.Errorf("chapter 2 missing:\n%s", out)
	}
	if strings.Contains(out, "margin") {
		t.Errorf("stylesheet leaked into output:\n%s", out)
	}

	if strings.Index(out, "Chapter One") > strings.Index(out, "Chapter Two") {
		t.Errorf("chapters out of spine order:\n%s", out)
	}
}

func TestRenderEPUBMissingContainer(t *testing.T) {
	data := buildZip(t, map[string]string{
		"mimetype": "application/epub+zip",
	})

	e := New()
	if _, err := e.Render(strings.NewReader(string(data)), "application/epub+zip", "bad.epub"); err == nil {
		t.Fatal("expected error for EPUB without container.xml")
	}
}
