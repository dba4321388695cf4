// Package server exposes the trends provider as MCP tools. It is thin
// dispatch plumbing: each tool decodes its arguments, calls the provider or
// the export layer, and returns the result as a JSON text payload.
package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/damionrashford/google-trends/pkg/logging"
	"github.com/damionrashford/google-trends/pkg/trends"
)

// Config configures the tool server.
type Config struct {
	Provider trends.Provider
	Logger   logging.Logger

	// ExportDir and DBDir receive generated export files and SQLite
	// databases.
	ExportDir string
	DBDir     string
}

// Server registers and serves the trends MCP tools.
type Server struct {
	provider  trends.Provider
	logger    logging.Logger
	exportDir string
	dbDir     string
}

// New creates a Server around the given provider.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewLogger()
	}
	return &Server{
		provider:  cfg.Provider,
		logger:    logger,
		exportDir: cfg.ExportDir,
		dbDir:     cfg.DBDir,
	}
}

// Implementation identifies this server to MCP clients.
var Implementation = &mcp.Implementation{
	Name:    "google-trends",
	Version: "1.0.0",
}

// Run serves the tools over stdio until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := mcp.NewServer(Implementation, nil)
	s.Register(srv)
	s.logger.Info("serving trends tools over stdio")
	return srv.Run(ctx, &mcp.StdioTransport{})
}

// inputSchema assembles a JSON schema object for a tool.
func inputSchema(properties map[string]any, required []string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// registerTool wires a typed handler into the MCP server. Decode failures
// and handler errors become tool errors; successful results are marshaled
// into a single JSON text content.
func registerTool[Req any](srv *mcp.Server, tool *mcp.Tool, handler func(context.Context, *Req) (any, error)) {
	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args Req
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				var res mcp.CallToolResult
				res.SetError(fmt.Errorf("invalid arguments: %w", err))
				return &res, nil
			}
		}

		resp, err := handler(ctx, &args)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(err)
			return &res, nil
		}

		data, err := json.Marshal(resp)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("marshal result: %w", err))
			return &res, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	})
}
