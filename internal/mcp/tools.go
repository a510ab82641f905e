package mcp

import (
	"context"
	"encoding/json"
	"errors"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

var sessionIDProperty = map[string]any{
	"type":        "string",
	"description": "Explorer session ID (omit to use the caller's MCP session)",
}

func projectActionSchema(verb string) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"session_id": sessionIDProperty,
			"id": map[string]any{
				"type":        "string",
				"description": "Project ID to " + verb,
			},
		},
		"required": []string{"id"},
	}
}

func sessionOnlySchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"session_id": sessionIDProperty,
		},
	}
}

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	return []ToolDefinition{
		// Catalog
		{
			Name:        "list_projects",
			Description: "List every restoration project in catalog order with its status style",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Name:        "get_project",
			Description: "Get full details and geometry for one project",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": map[string]any{
						"type":        "string",
						"description": "Project ID",
					},
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "get_legend",
			Description: "Get the status color legend shown beside the map",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},

		// Explorer
		{
			Name:        "get_explorer_state",
			Description: "Render the list and map views for an explorer session, opening it if needed",
			InputSchema: sessionOnlySchema(),
		},
		{
			Name:        "click_card",
			Description: "Click a project card in the list; selects it and moves the map camera",
			InputSchema: projectActionSchema("click"),
		},
		{
			Name:        "click_overlay",
			Description: "Click a project's overlay on the map; only projects with drawable geometry have one",
			InputSchema: projectActionSchema("click"),
		},
		{
			Name:        "select_project",
			Description: "Select a project programmatically; unknown ids leave the selection unchanged",
			InputSchema: projectActionSchema("select"),
		},
		{
			Name:        "clear_selection",
			Description: "Clear the selection; the map camera stays where it is",
			InputSchema: sessionOnlySchema(),
		},
		{
			Name:        "scroll_list",
			Description: "Scroll the project list to an offset in pixels",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"session_id": sessionIDProperty,
					"scroll_top": map[string]any{
						"type":        "number",
						"description": "Scroll offset in pixels from the top of the list",
					},
				},
				"required": []string{"scroll_top"},
			},
		},
		{
			Name:        "close_session",
			Description: "Close an explorer session",
			InputSchema: sessionOnlySchema(),
		},

		// History
		{
			Name:        "get_recent_activity",
			Description: "List recent explorer activity, newest first",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"session_id": map[string]any{
						"type":        "string",
						"description": "Only activity from this session",
					},
					"project_id": map[string]any{
						"type":        "string",
						"description": "Only activity about this project",
					},
					"type": map[string]any{
						"type":        "string",
						"description": "Activity type",
						"enum":        []string{"catalog_imported", "catalog_reloaded", "session_opened", "session_closed", "project_selected", "selection_cleared"},
					},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum entries (default 50)",
					},
				},
			},
		},

		// Admin
		{
			Name:        "reload_projects",
			Description: "Rebuild the explorer snapshot from the stored catalog (admin)",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
			Admin: true,
		},
	}
}

var toolIndex = func() map[string]ToolDefinition {
	index := map[string]ToolDefinition{}
	for _, def := range buildToolCatalog() {
		index[def.Name] = def
	}
	return index
}()

func toolByName(name string) (ToolDefinition, bool) {
	def, ok := toolIndex[name]
	return def, ok
}

// registerTools adds every catalog tool to server, dispatching through h.
func registerTools(server *sdkmcp.Server, h *Handler) {
	for _, def := range buildToolCatalog() {
		def := def
		server.AddTool(&sdkmcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		}, func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
			var args json.RawMessage
			if req != nil && req.Params != nil {
				args = req.Params.Arguments
			}
			result, err := h.Handle(ctx, getSessionID(ctx), def.Name, args)
			if err != nil {
				return toolError(err), nil
			}
			return toolResult(result)
		})
	}
}

func toolResult(result any) (*sdkmcp.CallToolResult, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil
}

func toolError(err error) *sdkmcp.CallToolResult {
	payload := any(map[string]string{"code": "INTERNAL", "message": err.Error()})
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		payload = apiErr
	}
	data, _ := json.Marshal(payload)
	return &sdkmcp.CallToolResult{
		IsError: true,
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}
}
