// ABOUTME: MCP tool definitions and registration for the CDT coding server
// ABOUTME: Defines JSON schemas for the coding, verification, topic, catalog and history tools
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/harper/cdt-coder/internal/core"
)

// RegisterTools registers all MCP tools with the server. history may be nil.
func RegisterTools(server *mcpserver.MCPServer, coder *core.Coder, history History, defaults core.RunOptions, logger zerolog.Logger) *Handlers {
	handlers := NewHandlers(coder, history, defaults, logger)

	// 1. code_scenario - Run the full coding pipeline
	server.AddTool(mcp.Tool{
		Name:        "code_scenario",
		Description: "Suggest ADA CDT procedure codes for a dental clinical scenario. Classifies the scenario into CDT categories, extracts candidate codes per category and optionally reviews them.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"scenario": map[string]interface{}{
					"type":        "string",
					"description": "Clinical note or scenario describing the visit",
				},
				"inspect": map[string]interface{}{
					"type":        "boolean",
					"description": "Run the final review step that selects and rejects candidate codes",
				},
				"questions": map[string]interface{}{
					"type":        "boolean",
					"description": "Generate clarifying questions for missing documentation",
				},
				"answers": map[string]interface{}{
					"type":        "string",
					"description": "Answers to earlier clarifying questions, passed to the review step",
				},
				"save": map[string]interface{}{
					"type":        "boolean",
					"description": "Save the analysis to local history",
				},
			},
			Required: []string{"scenario"},
		},
	}, handlers.CodeScenario)

	// 2. verify_codes - Check supplied codes against a scenario
	server.AddTool(mcp.Tool{
		Name:        "verify_codes",
		Description: "Check whether CDT codes you already have apply to a dental clinical scenario. Returns an applicable, not_applicable or unknown verdict with a reason for each code.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"scenario": map[string]interface{}{
					"type":        "string",
					"description": "Clinical note or scenario describing the visit",
				},
				"codes": map[string]interface{}{
					"type":        "string",
					"description": "Comma-separated CDT codes to check, for example 'D0120, D1110'",
				},
				"save": map[string]interface{}{
					"type":        "boolean",
					"description": "Save the check to local history",
				},
			},
			Required: []string{"scenario", "codes"},
		},
	}, handlers.VerifyCodes)

	// 3. activate_topic - Run one topic's classifier and fan-out
	server.AddTool(mcp.Tool{
		Name:        "activate_topic",
		Description: "Run a single CDT category (for example 'endodontics' or 'D3000-D3999') against a scenario and return the activated code ranges and codes.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"topic": map[string]interface{}{
					"type":        "string",
					"description": "Category slug, name or code range",
				},
				"scenario": map[string]interface{}{
					"type":        "string",
					"description": "Clinical note or scenario describing the visit",
				},
			},
			Required: []string{"topic", "scenario"},
		},
	}, handlers.ActivateTopic)

	// 4. list_topics - List the CDT category catalog
	server.AddTool(mcp.Tool{
		Name:        "list_topics",
		Description: "List the CDT categories and the code-range buckets within each.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListTopics)

	// 5. get_analysis - Fetch a saved analysis
	server.AddTool(mcp.Tool{
		Name:        "get_analysis",
		Description: "Get a saved analysis by ID, unique ID prefix, or 'latest'.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "string",
					"description": "Analysis ID, ID prefix or 'latest'",
				},
			},
			Required: []string{"id"},
		},
	}, handlers.GetAnalysis)

	return handlers
}
