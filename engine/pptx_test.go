package engine

import (
	"strings"
	"testing"
)

const pptxMIME = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

func slideXML(title, body string) string {
	return `<?xml version="1.0"?>
<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
       xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <p:cSld><p:spTree>
    <p:sp>
      <p:nvSpPr><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr>
      <p:txBody><a:p><a:r><a:t>` + title + `</a:t></a:r></a:p></p:txBody>
    </p:sp>
    <p:sp>
      <p:nvSpPr><p:nvPr><p:ph type="body"/></p:nvPr></p:nvSpPr>
      <p:txBody><a:p><a:r><a:t>` + body + `</a:t></a:r></a:p></p:txBody>
    </p:sp>
  </p:spTree></p:cSld>
</p:sld>`
}

func TestRenderPPTX(t *testing.T) {
	presentation := `<?xml version="1.0"?>
<p:presentation xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
                xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <p:sldIdLst>
    <p:sldId id="256" r:id="rId2"/>
    <p:sldId id="257" r:id="rId3"/>
  </p:sldIdLst>
</p:presentation>`

	presRels := `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide1.xml"/>
  <Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide2.xml"/>
</Relationships>`

	data := buildZip(t, map[string]string{
		"ppt/presentation.xml":            presentation,
		"ppt/_rels/presentation.xml.rels": presRels,
		"ppt/slides/slide1.xml":           slideXML("Opening Slide", "First slide body"),
		"ppt/slides/slide2.xml":           slideXML("Second Slide", "More content"),
	})

	e := New()
	out := render(t, e, data, pptxMIME, "deck.pptx")

	if !strings.Contains(out, "<!-- Slide number: 1 -->") {
		t.Errorf("slide 1 marker missing:\n%s", out)
	}
	if !strings.Contains(out, "<!-- Slide number: 2 -->") {
		t.Errorf("slide 2 marker missing:\n%s", out)
	}
	if !strings.Contains(out, "# Opening Slide") {
		t.Errorf("title heading missing:\n%s", out)
	}
	if !strings.Contains(out, "First slide body") {
		t.Errorf("body text missing:\n%s", out)
	}

	if strings.Index(out, "Opening Slide") > strings.Index(out, "Second Slide") {
		t.Errorf("slides out of order:\n%s", out)
	}
}

func TestRenderPPTXNotes(t *testing.T) {
	notes := `<?xml version="1.0"?>
<p:notes xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
         xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <p:cSld><p:spTree>
    <p:sp>
      <p:txBody><a:p><a:r><a:t>Remember the demo.</a:t></a:r></a:p></p:txBody>
    </p:sp>
  </p:spTree></p:cSld>
</p:notes>`

	slideRels := `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide" Target="../notesSlides/notesSlide1.xml"/>
</Relationships>`

	data := buildZip(t, map[string]string{
		"ppt/slides/slide1.xml":            slideXML("Only Slide", "body"),
		"ppt/slides/_rels/slide1.xml.rels": slideRels,
		"ppt/notesSlides/notesSlide1.xml":  notes,
	})

	e := New()
	out := render(t, e, data, pptxMIME, "deck.pptx")

	if !strings.Contains(out, "### Notes:") {
		t.Errorf("notes heading missing:\n%s", out)
	}
	if !strings.Contains(out, "Remember the demo.") {
		t.Errorf("notes text missing:\n%s", out)
	}
}

func TestRenderPPTXTable(t *testing.T) {
	slide := `<?xml version="1.0"?>
<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
       xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <p:cSld><p:spTree>
    <p:graphicFrame><a:graphic><a:graphicData>
      <a:tbl>
        <a:tr><a:tc><a:txBody><a:p><a:r><a:t>q1</a:t></a:r></a:p></a:txBody></a:tc>
              <a:tc><a:txBody><a:p><a:r><a:t>q2</a:t></a:r></a:p></a:txBody></a:tc></a:tr>
        <a:tr><a:tc><a:txBody><a:p><a:r><a:t>10</a:t></a:r></a:p></a:txBody></a:tc>
              <a:tc><a:txBody><a:p><a:r><a:t>20</a:t></a:r></a:p></a:txBody></a:tc></a:tr>
      </a:tbl>
    </a:graphicData></a:graphic></p:graphicFrame>
  </p:spTree></p:cSld>
</p:sld>`

	data := buildZip(t, map[string]string{
		"ppt/slides/slide1.xml": slide,
	})

	e := New()
	out := render(t, e, data, pptxMIME, "table.pptx")

	if !strings.Contains(out, "| q1 | q2 |") {
		t.Errorf("table header missing:\n%s", out)
	}
	if !strings.Contains(out, "| 10 | 20 |") {
		t.Errorf("table row missing:\n%s", out)
	}
}

func TestSlideNumberOrdering(t *testing.T) {
	cases := []struct {
		name string
		want int
	}{
		{"ppt/slides/slide1.xml", 1},
		{"ppt/slides/slide10.xml", 10},
		{"ppt/slides/slide2.xml", 2},
		{"ppt/slides/other.xml", 0},
	}
	for _, tc := range cases {
		if got := slideNumber(tc.name); got != tc.want {
			t.Errorf("slideNumber(%q) = %d, want %d", tc.name, got, tc.want)
		}
	}
}
