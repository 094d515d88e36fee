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

// Package docreader turns documents (PDF, Office formats, HTML, archives,
// plain text) into markdown for consumption by AI agents. The Service wraps
// a pluggable rendering Engine with MIME eligibility checks, a size ceiling,
// and structured success/failure reporting; PathGuard protects the
// agent-facing file entry point.
package docreader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Engine is the rendering capability: it turns a document byte stream into
// markdown text. Implementations must be safe for concurrent use.
type Engine interface {
	Render(r io.ReadSeeker, mimeType, filename string) (string, error)
}

// defaultWorkers bounds the number of conversions running concurrently
// through the context-aware entry points.
const defaultWorkers = 4

// Service converts documents to markdown. It never returns a Go error from
// its public convert operations; every failure is boxed into the
// ConversionResult. One Service per process is expected; it is safe for
// concurrent use because nothing is mutated after construction.
type Service struct {
	cfg      Config
	detector *MimeTypeDetector
	engine   Engine
	log      *slog.Logger
	workers  chan struct{}
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the logging sink. The default discards nothing and writes
// through slog.Default.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) { s.log = l }
}

// WithWorkers sets the size of the bounded worker pool used by the
// context-aware entry points.
func WithWorkers(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.workers = make(chan struct{}, n)
		}
	}
}

// NewService creates a conversion service. A nil engine is permitted and
// makes the service report itself unavailable; every conversion then fails
// with a descriptive message instead of panicking.
func NewService(cfg Config, engine Engine, opts ...ServiceOption) *Service {
	s := &Service{
		cfg:      cfg,
		detector: NewMimeTypeDetector(),
		engine:   engine,
		log:      slog.Default(),
		workers:  make(chan struct{}, defaultWorkers),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Detector exposes the MIME resolver for callers that need standalone
// eligibility checks.
func (s *Service) Detector() *MimeTypeDetector {
	return s.detector
}

// IsAvailable reports whether a rendering engine is configured. This is a
// static precondition, not a per-call probe.
func (s *Service) IsAvailable() bool {
	return s.engine != nil
}

// IsSupported reports whether the MIME type can be converted by this
// service. Always false when no engine is configured.
func (s *Service) IsSupported(mimeType string) bool {
	return s.IsAvailable() && s.detector.IsSupported(mimeType)
}

// SupportedFormats advertises the convertible MIME types, empty when the
// engine is unavailable.
func (s *Service) SupportedFormats() []string {
	if !s.IsAvailable() {
		return nil
	}
	return s.detector.SupportedFormats()
}

// SupportedExtensions advertises the convertible file extensions, empty when
// the engine is unavailable.
func (s *Service) SupportedExtensions() []string {
	if !s.IsAvailable() {
		return nil
	}
	return s.detector.SupportedExtensions()
}

// ConvertToMarkdown converts a byte source with a declared MIME type to
// markdown. The checks run in a fixed order: engine availability, type
// eligibility, size ceiling, then the render itself. A payload strictly
// larger than the configured ceiling is rejected before the engine sees it.
func (s *Service) ConvertToMarkdown(src Source, mimeType, filename string) ConversionResult {
	if filename == "" {
		filename = "unknown"
	}

	if !s.IsAvailable() {
		return failureResult(mimeType, filename, "Document conversion not available: no rendering engine configured")
	}

	if !s.detector.IsSupported(mimeType) {
		return failureResult(mimeType, filename, "Unsupported file type: "+mimeType)
	}

	r, size, err := src.normalize()
	if err != nil {
		return failureResult(mimeType, filename, "Failed to read content: "+err.Error())
	}

	if maxBytes := s.cfg.maxFileSizeBytes(); size > maxBytes {
		s.log.Warn("document exceeds size limit",
			"filename", filename,
			"mime_type", mimeType,
			"size_bytes", size,
			"max_bytes", maxBytes)
		return failureResult(mimeType, filename, sizeExceededMessage(size, maxBytes))
	}

	if s.cfg.Debug {
		s.log.Debug("converting document", "filename", filename, "mime_type", mimeType, "size_bytes", size)
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return failureResult(mimeType, filename, "Failed to read content: "+err.Error())
	}

	markdown, err := s.engine.Render(r, mimeType, filename)
	if err != nil {
		var dep missingDependency
		if errors.As(err, &dep) && dep.MissingDependency() {
			return failureResult(mimeType, filename, fmt.Sprintf("Missing dependency for %s: %v", mimeType, err))
		}
		return failureResult(mimeType, filename, "Conversion failed: "+err.Error())
	}

	s.log.Info("document converted",
		"filename", filename,
		"mime_type", mimeType,
		"markdown_chars", len(markdown))

	return ConversionResult{
		Success:   true,
		Markdown:  markdown,
		MIMEType:  mimeType,
		Filename:  filename,
		SizeBytes: size,
	}
}

// ConvertFile converts a local file to markdown. The MIME type is resolved
// from the file extension, with a content sniff as a fallback for unknown
// extensions. The on-disk size is checked against the ceiling before the
// file is opened.
func (s *Service) ConvertFile(path string) ConversionResult {
	filename := filepath.Base(path)

	fi, err := os.Stat(path)
	if err != nil {
		return failureResult("", filename, statErrorMessage(path, err))
	}
	if !fi.Mode().IsRegular() {
		return failureResult("", filename, "Path is not a file: "+path)
	}

	mimeType := s.detector.DetectFromExtension(strings.ToLower(filepath.Ext(path)))

	if maxBytes := s.cfg.maxFileSizeBytes(); fi.Size() > maxBytes {
		s.log.Warn("file exceeds size limit",
			"path", path,
			"size_bytes", fi.Size(),
			"max_bytes", maxBytes)
		return failureResult(mimeType, filename, sizeExceededMessage(fi.Size(), maxBytes))
	}

	f, err := os.Open(path)
	if err != nil {
		return failureResult(mimeType, filename, openErrorMessage(path, err))
	}
	defer f.Close()

	if mimeType == MIMEOctetStream {
		if sniffed := s.detector.DetectFromContent(f); sniffed != MIMEOctetStream {
			mimeType = sniffed
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return failureResult(mimeType, filename, "Failed to read file: "+err.Error())
		}
	}

	res := s.ConvertToMarkdown(ReaderSource(f), mimeType, filename)
	res.FilePath = path
	return res
}

// ConvertToMarkdownContext is ConvertToMarkdown dispatched to the bounded
// worker pool and awaited. The configured timeout is enforced as a real
// deadline; expiry or cancellation surfaces as a structured failure. An
// abandoned in-flight render is not forcibly stopped, its worker slot is
// released when it finishes.
func (s *Service) ConvertToMarkdownContext(ctx context.Context, src Source, mimeType, filename string) ConversionResult {
	if filename == "" {
		filename = "unknown"
	}
	return s.await(ctx, mimeType, filename, func() ConversionResult {
		return s.ConvertToMarkdown(src, mimeType, filename)
	})
}

// ConvertFileContext is ConvertFile dispatched to the bounded worker pool
// and awaited, with the same deadline semantics as ConvertToMarkdownContext.
func (s *Service) ConvertFileContext(ctx context.Context, path string) ConversionResult {
	return s.await(ctx, "", filepath.Base(path), func() ConversionResult {
		return s.ConvertFile(path)
	})
}

// await acquires a worker slot, runs fn on it, and waits for either the
// result or the context.
func (s *Service) await(ctx context.Context, mimeType, filename string, fn func() ConversionResult) ConversionResult {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	select {
	case s.workers <- struct{}{}:
	case <-ctx.Done():
		return failureResult(mimeType, filename, s.deadlineMessage(ctx.Err()))
	}

	done := make(chan ConversionResult, 1)
	go func() {
		defer func() { <-s.workers }()
		done <- fn()
	}()

	select {
	case res := <-done:
		return res
	case <-ctx.Done():
		s.log.Warn("conversion abandoned", "filename", filename, "reason", ctx.Err())
		return failureResult(mimeType, filename, s.deadlineMessage(ctx.Err()))
	}
}

func (s *Service) deadlineMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("Conversion timed out after %s", s.cfg.Timeout)
	}
	return "Conversion cancelled: " + err.Error()
}

func sizeExceededMessage(size, maxBytes int64) string {
	const mb = 1024 * 1024
	return fmt.Sprintf("File too large (%.1fMB). Maximum size: %.1fMB",
		float64(size)/mb, float64(maxBytes)/mb)
}

func statErrorMessage(path string, err error) string {
	switch {
	case os.IsNotExist(err):
		return "File does not exist: " + path
	case os.IsPermission(err):
		return "Permission denied: " + path
	}
	return "Failed to read file: " + err.Error()
}

func openErrorMessage(path string, err error) string {
	switch {
	case os.IsPermission(err):
		return "Permission denied: " + path
	case os.IsNotExist(err):
		return "File does not exist: " + path
	}
	return "Failed to read file: " + err.Error()
}
