package mcp

import "github.com/mark3labs/mcp-go/mcp"

// detectAmbiguityTool defines the detect_ambiguity MCP tool.
var detectAmbiguityTool = mcp.NewTool("detect_ambiguity",
	mcp.WithDescription("Score a natural-language query for ambiguity. Returns whether it is underspecified, a score in [0,1], and the list of ambiguity factors."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("The natural-language request to analyze"),
	),
)

// generateClarificationsTool defines the generate_clarifications MCP tool.
var generateClarificationsTool = mcp.NewTool("generate_clarifications",
	mcp.WithDescription("Turn detected ambiguity factors into at most two single-choice clarification questions, each with options and a safe default."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("The original query"),
	),
	mcp.WithArray("factors",
		mcp.Description("Ambiguity factors from detect_ambiguity, in order"),
		mcp.Items(map[string]any{"type": "string"}),
	),
)

// resolveIntentTool defines the resolve_intent MCP tool.
var resolveIntentTool = mcp.NewTool("resolve_intent",
	mcp.WithDescription("Merge clarification answers into a structured intent (task type, slots, risk tier) and render the final prompt."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("The original query"),
	),
	mcp.WithObject("answers",
		mcp.Description("Answer map from slot or question key to chosen value"),
	),
)
