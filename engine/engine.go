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

// Package engine implements the document-to-markdown rendering capability.
// Dispatch is keyed by MIME type: an exact-match renderer table first, then
// top-level category fallbacks (any text/* decodes as plain text; image/*
// and audio/* report a missing extraction backend).
package engine

import (
	"fmt"
	"io"
	"strings"
)

// request carries metadata alongside the byte stream for renderers that
// need it (archive listings, format hints).
type request struct {
	mimeType string
	filename string
}

// renderer turns one document format's bytes into markdown text.
// Implementations are stateless and safe for concurrent use.
type renderer interface {
	render(r io.ReadSeeker, req request) (string, error)
}

// Engine is the rendering capability handed to the conversion service. The
// renderer tables are read-only after New returns.
type Engine struct {
	exact map[string]renderer
	text  renderer
}

// New creates an engine with all built-in renderers registered.
func New() *Engine {
	e := &Engine{exact: make(map[string]renderer)}

	text := &textRenderer{}
	html := &htmlRenderer{}
	feed := &feedRenderer{text: text}

	e.text = text

	e.register(text, "application/json", "application/jsonl")
	e.register(html, "text/html")
	e.register(&csvRenderer{}, "text/csv", "application/csv")
	e.register(feed, "text/xml", "application/xml", "application/rss+xml", "application/atom+xml")
	e.register(&pdfRenderer{}, "application/pdf")
	e.register(&docxRenderer{html: html}, "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	e.register(&xlsxRenderer{}, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	e.register(&xlsRenderer{}, "application/vnd.ms-excel")
	e.register(&pptxRenderer{}, "application/vnd.openxmlformats-officedocument.presentationml.presentation")
	e.register(&ipynbRenderer{}, "application/x-ipynb+json")
	e.register(&zipRenderer{engine: e}, "application/zip")
	e.register(&epubRenderer{html: html}, "application/epub+zip", "application/x-epub+zip")

	// Formats the engine recognizes but has no parsing backend for.
	e.register(missingRenderer{hint: "legacy Word (.doc) documents need an OLE2 text extractor; resave as .docx"},
		"application/msword")
	e.register(missingRenderer{hint: "legacy PowerPoint (.ppt) documents need an OLE2 text extractor; resave as .pptx"},
		"application/vnd.ms-powerpoint")

	return e
}

func (e *Engine) register(ren renderer, mimeTypes ...string) {
	for _, mt := range mimeTypes {
		e.exact[mt] = ren
	}
}

// Render converts the stream to markdown. The declared MIME type selects the
// renderer; output is normalized before it is returned.
func (e *Engine) Render(r io.ReadSeeker, mimeType, filename string) (string, error) {
	mt := canonicalMIME(mimeType)

	ren := e.lookup(mt)
	if ren == nil {
		return "", &UnsupportedFormatError{MIMEType: mimeType}
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("seek: %w", err)
	}

	md, err := ren.render(r, request{mimeType: mt, filename: filename})
	if err != nil {
		return "", err
	}
	return normalizeOutput(md), nil
}

func (e *Engine) lookup(mt string) renderer {
	if ren, ok := e.exact[mt]; ok {
		return ren
	}
	base, _, _ := strings.Cut(mt, "/")
	switch base {
	case "text":
		return e.text
	case "image":
		return missingRenderer{hint: "image text extraction needs an OCR backend, which is not installed"}
	case "audio":
		return missingRenderer{hint: "audio transcription needs a speech-to-text backend, which is not installed"}
	}
	return nil
}

// canonicalMIME lowercases and strips media type parameters.
func canonicalMIME(mt string) string {
	mt = strings.ToLower(strings.TrimSpace(mt))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	return mt
}

// missingRenderer rejects every render with a MissingDependencyError.
type missingRenderer struct {
	hint string
}

func (m missingRenderer) render(_ io.ReadSeeker, req request) (string, error) {
	return "", &MissingDependencyError{MIMEType: req.mimeType, Hint: m.hint}
}
