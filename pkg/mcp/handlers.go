package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/modgraph/pkg/resolver"
	"github.com/gnana997/modgraph/pkg/service"
)

// jsonResult marshals v as the tool result's text content.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleResolveModule(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	specifier, err := req.RequireString("specifier")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	importer, err := req.RequireString("importer")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := service.BuildOptions(
		req.GetStringSlice("conditions", nil),
		req.GetStringSlice("extensions", nil),
		req.GetBool("prefer_cjs", false),
	)
	resp, err := s.service.Resolve(resolver.Request{
		Specifier:   specifier,
		Importer:    importer,
		ProjectRoot: req.GetString("project_root", ""),
	}, opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(resp)
}

func (s *Server) handleDiscoverTypings(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	packageName, err := req.RequireString("package_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	projectRoot, err := req.RequireString("project_root")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.service.DiscoverTypings(packageName, projectRoot))
}

func (s *Server) handleAnalyzeModule(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	resp, err := s.service.Analyze(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(resp)
}

func (s *Server) handleBatchDiscoverTypings(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names := req.GetStringSlice("package_names", nil)
	if len(names) == 0 {
		return mcp.NewToolResultError("package_names is required"), nil
	}
	projectRoot, err := req.RequireString("project_root")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.service.BatchDiscoverTypings(names, projectRoot))
}

func (s *Server) handleCountTypeFiles(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names := req.GetStringSlice("package_names", nil)
	if len(names) == 0 {
		return mcp.NewToolResultError("package_names is required"), nil
	}
	projectRoot, err := req.RequireString("project_root")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]int{"count": s.service.CountTypeFiles(names, projectRoot)})
}

func (s *Server) handleReadFiles(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	paths := req.GetStringSlice("paths", nil)

	// Glob selection extends any explicit path list.
	if root := req.GetString("root", ""); root != "" {
		matched, err := s.service.MatchFiles(root,
			req.GetStringSlice("include", nil),
			req.GetStringSlice("exclude", nil))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		paths = append(paths, matched...)
	}
	if len(paths) == 0 {
		return mcp.NewToolResultError("either paths or root is required"), nil
	}
	return jsonResult(s.service.BatchReadFiles(paths))
}
