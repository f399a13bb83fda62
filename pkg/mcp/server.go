// Package mcp exposes JSX extraction as Model Context Protocol tools over
// stdio.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/jsxextract/pkg/extract"
	"github.com/gnana997/jsxextract/pkg/mcplog"
	"github.com/gnana997/jsxextract/pkg/workspace"
)

const serverName = "jsxextract"

// Version is reported to MCP clients. It is overridden at build time.
var Version = "0.1.0-dev"

// Defaults are the project's component style settings, used when a tool call
// does not pass its own.
type Defaults struct {
	Class         bool
	BaseComponent string
}

// Server implements the MCP server for jsxextract.
type Server struct {
	mcpServer  *server.MCPServer
	extractor  *extract.Extractor
	refactorer *workspace.Refactorer // nil disables extract_jsx_file
	callLog    *mcplog.Logger        // nil disables call logging
	defaults   Defaults
	cache      *responseCache
	logger     *slog.Logger
}

// NewServer creates a server backed by ex. The refactorer and call log are
// optional.
func NewServer(ex *extract.Extractor, r *workspace.Refactorer, callLog *mcplog.Logger, defaults Defaults, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		extractor:  ex,
		refactorer: r,
		callLog:    callLog,
		defaults:   defaults,
		cache:      newResponseCache(defaultCacheSize, logger),
		logger:     logger,
	}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if callLog != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}
	s.mcpServer = server.NewMCPServer(serverName, Version, opts...)

	tools := []server.ServerTool{
		{Tool: extractJSXTool(), Handler: s.handleExtractJSX},
		{Tool: checkSelectionTool(), Handler: s.handleCheckSelection},
	}
	if r != nil {
		tools = append(tools, server.ServerTool{Tool: extractJSXFileTool(), Handler: s.handleExtractJSXFile})
	}
	s.mcpServer.AddTools(tools...)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	s.logger.Info("MCP server listening on stdio", "version", Version, "file_tool", s.refactorer != nil)
	err := server.ServeStdio(s.mcpServer)
	stats := s.cache.stats()
	s.logger.Info("MCP server stopped", "cache_entries", stats.Entries, "cache_hits", stats.Hits, "cache_misses", stats.Misses)
	return err
}
