package engine

import "fmt"

// UnsupportedFormatError is returned when no renderer is registered for the
// declared MIME type.
type UnsupportedFormatError struct {
	MIMEType string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("no renderer for MIME type %q", e.MIMEType)
}

// MissingDependencyError reports a format the engine recognizes but has no
// parsing backend wired for (OCR for images, speech-to-text for audio,
// OLE2 extraction for legacy Office formats).
type MissingDependencyError struct {
	MIMEType string
	Hint     string
}

func (e *MissingDependencyError) Error() string {
	return e.Hint
}

// MissingDependency marks the error class for callers that classify
// failures behaviorally.
func (e *MissingDependencyError) MissingDependency() bool { return true }
