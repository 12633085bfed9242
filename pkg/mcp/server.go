// Package mcp exposes the resolution engine over the Model Context
// Protocol on stdio. Tools map one-to-one onto the service surface:
// single-item resolve/typings/analyze plus the batch conveniences.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/modgraph/pkg/mcplog"
	"github.com/gnana997/modgraph/pkg/service"
)

const serverVersion = "0.1.0-dev"

// Server is the MCP stdio server for modgraph.
type Server struct {
	mcpServer *server.MCPServer
	service   *service.Service
	logger    *mcplog.Logger // may be nil; nil disables tool-call logging
}

// NewServer creates an MCP server backed by svc. logger may be nil to
// disable JSONL tool-call logging.
func NewServer(svc *service.Service, logger *mcplog.Logger) *Server {
	s := &Server{service: svc, logger: logger}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if logger != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}

	s.mcpServer = server.NewMCPServer("modgraph", serverVersion, opts...)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: resolveModuleTool(), Handler: s.handleResolveModule},
		server.ServerTool{Tool: discoverTypingsTool(), Handler: s.handleDiscoverTypings},
		server.ServerTool{Tool: analyzeModuleTool(), Handler: s.handleAnalyzeModule},
		server.ServerTool{Tool: batchDiscoverTypingsTool(), Handler: s.handleBatchDiscoverTypings},
		server.ServerTool{Tool: countTypeFilesTool(), Handler: s.handleCountTypeFiles},
		server.ServerTool{Tool: readFilesTool(), Handler: s.handleReadFiles},
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
