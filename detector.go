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

package docreader

import (
	"io"
	"mime"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MIMEOctetStream is the generic binary placeholder type returned when no
// better detection is possible.
const MIMEOctetStream = "application/octet-stream"

// supportedMIMETypes is the exact-match allow set for conversion. Any
// text/* or image/* subtype is additionally accepted through the base
// category check, so this list only needs the non-open-world formats.
var supportedMIMETypes = []string{
	"application/pdf",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document", // .docx
	"application/msword", // .doc
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", // .xlsx
	"application/vnd.ms-excel", // .xls
	"application/vnd.openxmlformats-officedocument.presentationml.presentation", // .pptx
	"application/vnd.ms-powerpoint", // .ppt
	"text/html",
	"text/csv",
	"text/plain",
	"text/markdown",
	"application/json",
	"application/xml",
	"text/xml",
	"image/jpeg",
	"image/png",
	"image/bmp",
	"image/tiff",
	"audio/wav",
	"audio/mpeg", // .mp3
	"application/zip",
	"application/epub+zip",
	"application/x-ipynb+json",
}

// supportedBaseCategories are the top-level categories accepted without an
// exact match (open-world policy).
var supportedBaseCategories = []string{"text", "image"}

// fallbackExtensions maps extensions the system MIME table commonly lacks,
// the open-XML office formats in particular.
var fallbackExtensions = map[string]string{
	".docx":  "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xlsx":  "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".pptx":  "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".doc":   "application/msword",
	".xls":   "application/vnd.ms-excel",
	".ppt":   "application/vnd.ms-powerpoint",
	".md":    "text/markdown",
	".csv":   "text/csv",
	".epub":  "application/epub+zip",
	".ipynb": "application/x-ipynb+json",
}

// curatedExtensions supplements the reverse mapping of supportedMIMETypes in
// SupportedExtensions; the system table has no entries for these.
var curatedExtensions = []string{".docx", ".xlsx", ".pptx", ".md", ".epub", ".ipynb"}

// MimeTypeDetector resolves extensions and declared content types to
// canonical MIME types and decides conversion eligibility. It is stateless
// after construction and safe to share across concurrent calls.
type MimeTypeDetector struct {
	exact map[string]struct{}
	base  map[string]struct{}
}

// NewMimeTypeDetector creates a detector with the built-in allow sets.
func NewMimeTypeDetector() *MimeTypeDetector {
	d := &MimeTypeDetector{
		exact: make(map[string]struct{}, len(supportedMIMETypes)),
		base:  make(map[string]struct{}, len(supportedBaseCategories)),
	}
	for _, mt := range supportedMIMETypes {
		d.exact[mt] = struct{}{}
	}
	for _, b := range supportedBaseCategories {
		d.base[b] = struct{}{}
	}
	return d
}

// DetectFromExtension resolves a file extension (leading dot included, e.g.
// ".pdf") to a MIME type. The system table is consulted first, then the
// curated fallback table; unknown extensions map to application/octet-stream.
func (d *MimeTypeDetector) DetectFromExtension(ext string) string {
	ext = strings.ToLower(ext)
	if mt := mime.TypeByExtension(ext); mt != "" {
		return stripParams(mt)
	}
	if mt, ok := fallbackExtensions[ext]; ok {
		return mt
	}
	return MIMEOctetStream
}

// DetectFromContent sniffs the MIME type from the stream content. It returns
// application/octet-stream when nothing more specific is found. The reader is
// consumed; callers holding a seekable stream must rewind afterwards.
func (d *MimeTypeDetector) DetectFromContent(r io.Reader) string {
	mtype, err := mimetype.DetectReader(r)
	if err != nil {
		return MIMEOctetStream
	}
	return stripParams(mtype.String())
}

// IsSupported reports whether the MIME type is eligible for conversion:
// either an exact member of the allow set, or any subtype of an open-world
// base category (text/*, image/*).
func (d *MimeTypeDetector) IsSupported(mimeType string) bool {
	if _, ok := d.exact[mimeType]; ok {
		return true
	}
	base, _, _ := strings.Cut(mimeType, "/")
	_, ok := d.base[base]
	return ok
}

// SupportedFormats returns the exact-match MIME type set, sorted, for
// capability advertisement.
func (d *MimeTypeDetector) SupportedFormats() []string {
	formats := make([]string, 0, len(d.exact))
	for mt := range d.exact {
		formats = append(formats, mt)
	}
	sort.Strings(formats)
	return formats
}

// SupportedExtensions returns the known file extensions for the supported
// formats, derived from the system table plus the curated additions,
// deduplicated and sorted.
func (d *MimeTypeDetector) SupportedExtensions() []string {
	seen := make(map[string]struct{})
	for mt := range d.exact {
		exts, err := mime.ExtensionsByType(mt)
		if err != nil {
			continue
		}
		for _, e := range exts {
			seen[strings.ToLower(e)] = struct{}{}
		}
	}
	for _, e := range curatedExtensions {
		seen[e] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for e := range seen {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

// stripParams drops any media type parameters ("; charset=utf-8").
func stripParams(mt string) string {
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return strings.TrimSpace(mt)
}
