// Package mcp exposes the intent resolution pipeline as MCP tools for AI
// agents over stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/uire/internal/clarify"
	"github.com/ziadkadry99/uire/internal/detect"
	"github.com/ziadkadry99/uire/internal/resolve"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the pipeline stages as tools.
type Server struct {
	detector  *detect.Detector
	clarifier clarify.Policy
	resolver  *resolve.Resolver
	mcp       *server.MCPServer
}

// NewServer creates a new MCP server with the given pipeline components.
func NewServer(detector *detect.Detector, clarifier clarify.Policy, resolver *resolve.Resolver) *Server {
	s := &Server{
		detector:  detector,
		clarifier: clarifier,
		resolver:  resolver,
	}

	s.mcp = server.NewMCPServer(
		"uire",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(detectAmbiguityTool, s.handleDetectAmbiguity)
	s.mcp.AddTool(generateClarificationsTool, s.handleGenerateClarifications)
	s.mcp.AddTool(resolveIntentTool, s.handleResolveIntent)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
