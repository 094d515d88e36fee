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

package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	docreader "github.com/nicholasgasior/docreader-go"
	"github.com/nicholasgasior/docreader-go/engine"
	"github.com/nicholasgasior/docreader-go/mcpserver"
)

var version = "dev"

func main() {
	var (
		output      string
		extension   string
		mimeType    string
		asJSON      bool
		serve       bool
		showVersion bool
	)

	flag.StringVar(&output, "o", "", "Output file (default: stdout)")
	flag.StringVar(&output, "output", "", "Output file (default: stdout)")
	flag.StringVar(&extension, "x", "", "File extension hint (for stdin input)")
	flag.StringVar(&extension, "extension", "", "File extension hint (for stdin input)")
	flag.StringVar(&mimeType, "m", "", "MIME type hint")
	flag.StringVar(&mimeType, "mime-type", "", "MIME type hint")
	flag.BoolVar(&asJSON, "json", false, "Emit the full conversion result as JSON")
	flag.BoolVar(&serve, "serve", false, "Run as an MCP server on stdin/stdout")
	flag.BoolVar(&showVersion, "v", false, "Show version")
	flag.BoolVar(&showVersion, "version", false, "Show version")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: docreader [flags] [source]\n\n")
		fmt.Fprintf(os.Stderr, "Convert documents to Markdown.\n\n")
		fmt.Fprintf(os.Stderr, "Arguments:\n")
		fmt.Fprintf(os.Stderr, "  source    File path to convert (reads stdin if omitted)\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("docreader %s\n", version)
		os.Exit(0)
	}

	cfg := docreader.ConfigFromEnv()

	level := slog.LevelWarn
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	svc := docreader.NewService(cfg, engine.New(), docreader.WithLogger(logger))

	if serve {
		srv := mcpserver.New(svc, docreader.NewPathGuard(), version, mcpserver.WithLogger(logger))
		if err := srv.ServeStdio(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	var result docreader.ConversionResult

	args := flag.Args()
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
			os.Exit(1)
		}
		if mimeType == "" {
			mimeType = svc.Detector().DetectFromExtension(normalizeExt(extension))
		}
		if mimeType == docreader.MIMEOctetStream {
			mimeType = svc.Detector().DetectFromContent(bytes.NewReader(data))
		}
		result = svc.ConvertToMarkdown(docreader.BytesSource(data), mimeType, "stdin")
	} else {
		result = svc.ConvertFile(args[0])
	}

	if !result.Success {
		fmt.Fprintf(os.Stderr, "Error: %s\n", result.Error)
		os.Exit(1)
	}

	var text string
	if asJSON {
		b, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		text = string(b)
	} else {
		text = result.Markdown
	}

	if output != "" {
		dir := filepath.Dir(output)
		if dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		if err := os.WriteFile(output, []byte(text+"\n"), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			os.Exit(1)
		}
	} else {
		fmt.Println(text)
	}
}

func normalizeExt(ext string) string {
	if ext == "" {
		return ""
	}
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
