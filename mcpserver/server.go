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

// Package mcpserver exposes the document conversion service as an MCP server
// over stdio. Every tool returns a JSON payload; handler faults of any kind,
// including panics, are boxed into an error payload so the protocol loop
// never sees a failed call.
package mcpserver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	docreader "github.com/nicholasgasior/docreader-go"
)

// Server wires conversion tools onto an MCP stdio server.
type Server struct {
	svc   *docreader.Service
	guard *docreader.PathGuard
	mcp   *server.MCPServer
	log   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for request logging.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// New builds a Server around an existing conversion service and path guard.
func New(svc *docreader.Service, guard *docreader.PathGuard, version string, opts ...Option) *Server {
	s := &Server{
		svc:   svc,
		guard: guard,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mcp = server.NewMCPServer(
		"docreader",
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	s.registerTools()
	return s
}

// ServeStdio blocks serving MCP requests on stdin and stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) registerTools() {
	readFile := mcp.NewTool("read_file",
		mcp.WithDescription("Read a document from disk and convert its content to markdown. "+
			"Relative paths resolve against the working directory; absolute paths must point "+
			"into an allowed directory."),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Path to the document to read"),
		),
	)
	s.mcp.AddTool(readFile, s.guarded("read_file", s.handleReadFile))

	convert := mcp.NewTool("convert_document",
		mcp.WithDescription("Convert base64-encoded document content to markdown."),
		mcp.WithString("content_base64",
			mcp.Required(),
			mcp.Description("Document bytes, base64-encoded"),
		),
		mcp.WithString("mime_type",
			mcp.Required(),
			mcp.Description("MIME type of the document"),
		),
		mcp.WithString("filename",
			mcp.Description("Original filename, used in the result"),
		),
	)
	s.mcp.AddTool(convert, s.guarded("convert_document", s.handleConvertDocument))

	formats := mcp.NewTool("list_supported_formats",
		mcp.WithDescription("List the MIME types and file extensions the conversion service accepts."),
	)
	s.mcp.AddTool(formats, s.guarded("list_supported_formats", s.handleListFormats))
}

// guarded wraps a tool handler so that any fault, returned error or panic,
// becomes a structured error payload in the tool result. The dispatch loop
// never receives a Go error from a tool call.
func (s *Server) guarded(tool string, h server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (res *mcp.CallToolResult, err error) {
		defer func() {
			if r := recover(); r != nil {
				s.log.Error("tool panicked", "tool", tool, "panic", r)
				res = s.errorResult(tool, req, fmt.Sprintf("panic: %v", r))
				err = nil
			}
		}()

		res, err = h(ctx, req)
		if err != nil {
			s.log.Error("tool failed", "tool", tool, "error", err)
			return s.errorResult(tool, req, err.Error()), nil
		}
		return res, nil
	}
}

// errorResult boxes a fault into the error payload shape clients expect:
// the message, the tool name, and the arguments the call carried.
func (s *Server) errorResult(tool string, req mcp.CallToolRequest, msg string) *mcp.CallToolResult {
	payload := map[string]any{
		"error":     msg,
		"tool":      tool,
		"arguments": req.GetArguments(),
	}
	return jsonResult(payload)
}

func (s *Server) handleReadFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("file_path")
	if err != nil {
		return nil, err
	}

	normalized, err := s.guard.ValidatePath(path)
	if err != nil {
		s.log.Warn("path rejected", "path", path, "error", err)
		return jsonResult(docreader.ConversionResult{
			Success:  false,
			Error:    err.Error(),
			Filename: filepath.Base(path),
			FilePath: path,
		}), nil
	}

	res := s.svc.ConvertFileContext(ctx, normalized)
	res.FilePath = normalized
	return jsonResult(res), nil
}

func (s *Server) handleConvertDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	encoded, err := req.RequireString("content_base64")
	if err != nil {
		return nil, err
	}
	mimeType, err := req.RequireString("mime_type")
	if err != nil {
		return nil, err
	}
	filename := req.GetString("filename", "document")

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 content: %w", err)
	}

	res := s.svc.ConvertToMarkdownContext(ctx, docreader.BytesSource(data), mimeType, filename)
	return jsonResult(res), nil
}

func (s *Server) handleListFormats(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(map[string]any{
		"available":  s.svc.IsAvailable(),
		"mime_types": s.svc.SupportedFormats(),
		"extensions": s.svc.SupportedExtensions(),
	}), nil
}

func jsonResult(v any) *mcp.CallToolResult {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err))
	}
	return mcp.NewToolResultText(string(b))
}
