package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/uire/internal/detect"
)

// decode unmarshals MCP request arguments into a typed struct.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var result T
	args := req.GetArguments()
	b, err := json.Marshal(args)
	if err != nil {
		return result, fmt.Errorf("marshal args: %w", err)
	}
	if err := json.Unmarshal(b, &result); err != nil {
		return result, fmt.Errorf("unmarshal args: %w", err)
	}
	return result, nil
}

func toolJSON(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

func (s *Server) handleDetectAmbiguity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	return toolJSON(s.detector.Detect(query))
}

type clarifyArgs struct {
	Query   string   `json:"query"`
	Factors []string `json:"factors"`
}

func (s *Server) handleGenerateClarifications(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[clarifyArgs](request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if args.Query == "" {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	factors := make([]detect.Factor, len(args.Factors))
	for i, f := range args.Factors {
		factors[i] = detect.Factor(f)
	}

	qs := s.clarifier.Generate(args.Query, factors)
	return toolJSON(map[string]any{
		"questions":     qs,
		"max_questions": 2,
	})
}

type resolveArgs struct {
	Query   string            `json:"query"`
	Answers map[string]string `json:"answers"`
}

func (s *Server) handleResolveIntent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[resolveArgs](request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if args.Query == "" {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	// The MCP surface is anonymous; no stored preferences apply here.
	return toolJSON(s.resolver.Resolve(args.Query, args.Answers, nil))
}
