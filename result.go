package docreader

// ConversionResult is the structured payload returned by every conversion
// operation. Exactly one of Markdown and Error is populated; callers check
// Success rather than a Go error.
type ConversionResult struct {
	Success   bool   `json:"success"`
	Markdown  string `json:"markdown,omitempty"`
	Error     string `json:"error,omitempty"`
	MIMEType  string `json:"mime_type,omitempty"`
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"size_bytes,omitempty"`
	// FilePath is the normalized path actually used, set by the file-based
	// entry points.
	FilePath string `json:"file_path,omitempty"`
}

func failureResult(mimeType, filename, msg string) ConversionResult {
	return ConversionResult{
		Success:  false,
		Error:    msg,
		MIMEType: mimeType,
		Filename: filename,
	}
}
