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
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvMaxDocumentSizeMB = "MAX_DOCUMENT_SIZE_MB"
	EnvConversionTimeout = "DOCUMENT_CONVERSION_TIMEOUT"
	EnvConverterDebug    = "DOCUMENT_CONVERTER_DEBUG"
)

const (
	// DefaultMaxFileSizeMB is the default document size ceiling.
	DefaultMaxFileSizeMB = 50
	// DefaultTimeout is the default per-conversion deadline applied by the
	// context-aware entry points.
	DefaultTimeout = 30 * time.Second
)

// Config holds the conversion service settings. A Config is immutable once
// constructed; build one explicitly for tests or use ConfigFromEnv at startup.
type Config struct {
	// MaxFileSizeMB is the size ceiling for any converted document.
	MaxFileSizeMB int
	// Timeout bounds a single conversion in the context-aware entry points.
	// The plain synchronous entry points do not enforce it.
	Timeout time.Duration
	// Debug enables verbose per-call logging.
	Debug bool
}

// DefaultConfig returns a Config with all defaults applied.
func DefaultConfig() Config {
	return Config{
		MaxFileSizeMB: DefaultMaxFileSizeMB,
		Timeout:       DefaultTimeout,
	}
}

// ConfigFromEnv builds a Config from process environment variables.
// Unset, unparseable, or non-positive values fall back to the defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv(EnvMaxDocumentSizeMB); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxFileSizeMB = n
		}
	}
	if v := os.Getenv(EnvConversionTimeout); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Timeout = time.Duration(n) * time.Second
		}
	}
	cfg.Debug = isTruthy(os.Getenv(EnvConverterDebug))

	return cfg
}

// maxFileSizeBytes returns the ceiling in bytes.
func (c Config) maxFileSizeBytes() int64 {
	return int64(c.MaxFileSizeMB) * 1024 * 1024
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
