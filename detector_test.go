package docreader

import (
	"bytes"
	"strings"
	"testing"
)

func TestDetectFromExtension(t *testing.T) {
	d := NewMimeTypeDetector()

	cases := []struct {
		ext  string
		want string
	}{
		{".pdf", "application/pdf"},
		{".docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{".xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{".pptx", "application/vnd.openxmlformats-officedocument.presentationml.presentation"},
		{".csv", "text/csv"},
		{".md", "text/markdown"},
		{".epub", "application/epub+zip"},
		{".ipynb", "application/x-ipynb+json"},
		{".unknownext", MIMEOctetStream},
		{"", MIMEOctetStream},
	}

	for _, tc := range cases {
		got := d.DetectFromExtension(tc.ext)
		if got != tc.want {
			t.Errorf("DetectFromExtension(%q) = %q, want %q", tc.ext, got, tc.want)
		}
	}
}

func TestDetectFromExtensionStripsParams(t *testing.T) {
	d := NewMimeTypeDetector()
	got := d.DetectFromExtension(".html")
	if strings.Contains(got, ";") {
		t.Errorf("DetectFromExtension(.html) = %q, parameters not stripped", got)
	}
	if got != "text/html" {
		t.Errorf("DetectFromExtension(.html) = %q, want text/html", got)
	}
}

func TestDetectFromContent(t *testing.T) {
	d := NewMimeTypeDetector()

	pdf := []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n")
	if got := d.DetectFromContent(bytes.NewReader(pdf)); got != "application/pdf" {
		t.Errorf("DetectFromContent(pdf magic) = %q, want application/pdf", got)
	}

	if got := d.DetectFromContent(bytes.NewReader([]byte("plain text here"))); !strings.HasPrefix(got, "text/") {
		t.Errorf("DetectFromContent(text) = %q, want text/*", got)
	}
}

func TestIsSupported(t *testing.T) {
	d := NewMimeTypeDetector()

	supported := []string{
		"application/pdf",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"text/plain",
		"text/html",
		"application/json",
		"application/zip",
		"application/epub+zip",
		// category fallbacks: any text or image subtype is eligible
		"text/x-fortran",
		"image/webp",
	}
	for _, mt := range supported {
		if !d.IsSupported(mt) {
			t.Errorf("IsSupported(%q) = false, want true", mt)
		}
	}

	unsupported := []string{
		"video/mp4",
		"application/octet-stream",
		"application/x-executable",
		"font/woff2",
		"",
	}
	for _, mt := range unsupported {
		if d.IsSupported(mt) {
			t.Errorf("IsSupported(%q) = true, want false", mt)
		}
	}
}

func TestSupportedFormatsSorted(t *testing.T) {
	d := NewMimeTypeDetector()
	formats := d.SupportedFormats()
	if len(formats) == 0 {
		t.Fatal("SupportedFormats returned no entries")
	}
	for i := 1; i < len(formats); i++ {
		if formats[i-1] > formats[i] {
			t.Fatalf("SupportedFormats not sorted: %q before %q", formats[i-1], formats[i])
		}
	}
}

func TestSupportedExtensionsIncludesCurated(t *testing.T) {
	d := NewMimeTypeDetector()
	exts := d.SupportedExtensions()

	want := []string{".pdf", ".docx", ".xlsx", ".pptx", ".csv", ".epub", ".ipynb"}
	have := make(map[string]bool, len(exts))
	for _, e := range exts {
		have[e] = true
	}
	for _, e := range want {
		if !have[e] {
			t.Errorf("SupportedExtensions missing %q", e)
		}
	}

	seen := make(map[string]bool, len(exts))
	for _, e := range exts {
		if seen[e] {
			t.Errorf("SupportedExtensions contains duplicate %q", e)
		}
		seen[e] = true
	}
}
