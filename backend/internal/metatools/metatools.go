// Package metatools exposes the five fixed MCP operations that front the
// tool catalog. An agent discovers Discord operations through
// list_categories, list_tools, search_tools and get_tool_schema, then runs
// them through execute_tool, so the protocol layer carries five tool
// definitions instead of one per Discord operation.
package metatools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"discord-mcp/backend/internal/registry"
	apperrors "discord-mcp/backend/pkg/errors"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// MetaTools dispatches the five discovery/execution operations against a
// shared registry. It is stateless apart from that registry reference.
type MetaTools struct {
	catalog *registry.Registry
	logger  *zap.Logger
}

// New creates the meta-tool dispatcher
func New(catalog *registry.Registry, logger *zap.Logger) *MetaTools {
	return &MetaTools{catalog: catalog, logger: logger}
}

type categoriesPayload struct {
	Categories []registry.CategoryInfo `json:"categories"`
}

type toolsPayload struct {
	Category string                 `json:"category"`
	Tools    []registry.ToolSummary `json:"tools"`
}

type searchPayload struct {
	Query string                 `json:"query"`
	Tools []registry.ToolSummary `json:"tools"`
}

type schemaPayload struct {
	Name            string                 `json:"name"`
	Category        string                 `json:"category"`
	Title           string                 `json:"title"`
	Description     string                 `json:"description"`
	ParameterSchema map[string]interface{} `json:"parameterSchema"`
	ResultSchema    map[string]interface{} `json:"resultSchema"`
}

// Install registers the five meta-tools with the MCP server. These are the
// only tools the protocol layer ever sees; execute_tool deliberately
// declares no output schema because its payload shape varies per invoked
// tool.
func (m *MetaTools) Install(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("List the available Discord tool categories. Call this first to see what kinds of operations exist."),
		mcp.WithOutputSchema[categoriesPayload](),
	), m.ListCategories)

	s.AddTool(mcp.NewTool("list_tools",
		mcp.WithDescription("List the tools in one category. Use list_categories to find valid category names."),
		mcp.WithString("category",
			mcp.Required(),
			mcp.Description("Category name, e.g. 'messaging' or 'moderation'"),
		),
		mcp.WithOutputSchema[toolsPayload](),
	), m.ListTools)

	s.AddTool(mcp.NewTool("search_tools",
		mcp.WithDescription("Search all tools by keyword across name, title and description. Returns the best matches first."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Keyword to search for, e.g. 'ban' or 'webhook'"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default 20)"),
		),
		mcp.WithOutputSchema[searchPayload](),
	), m.SearchTools)

	s.AddTool(mcp.NewTool("get_tool_schema",
		mcp.WithDescription("Get the full parameter and result schema for one tool. Call this before execute_tool."),
		mcp.WithString("toolName",
			mcp.Required(),
			mcp.Description("Exact tool name as returned by list_tools or search_tools"),
		),
		mcp.WithOutputSchema[schemaPayload](),
	), m.GetToolSchema)

	s.AddTool(mcp.NewTool("execute_tool",
		mcp.WithDescription("Execute a tool by name with the parameters described by get_tool_schema."),
		mcp.WithString("toolName",
			mcp.Required(),
			mcp.Description("Exact tool name to execute"),
		),
		mcp.WithObject("parameters",
			mcp.Description("Tool parameters matching the tool's parameter schema"),
		),
	), m.ExecuteTool)
}

// ListCategories handles the list_categories meta-tool. An empty catalog
// is a valid, non-error result.
func (m *MetaTools) ListCategories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	categories := m.catalog.Categories()

	var b strings.Builder
	b.WriteString("Available tool categories:\n")
	for _, c := range categories {
		fmt.Fprintf(&b, "- %s: %s (%d tools)\n", c.Name, c.Description, c.ToolCount)
	}
	b.WriteString("\nUse list_tools with a category name to see its tools.")

	return &mcp.CallToolResult{
		Content:           []mcp.Content{mcp.TextContent{Type: "text", Text: b.String()}},
		StructuredContent: categoriesPayload{Categories: categories},
	}, nil
}

// ListTools handles the list_tools meta-tool. An unknown category is a
// caller error: the response is error-flagged and enumerates the valid
// category names so the agent can self-correct.
func (m *MetaTools) ListTools(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, err := req.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	tools := m.catalog.ToolsByCategory(category)
	if len(tools) == 0 {
		var valid []string
		for _, c := range m.catalog.Categories() {
			valid = append(valid, c.Name)
		}
		msg := fmt.Sprintf("No tools found in category %q. Valid categories: %s",
			category, strings.Join(valid, ", "))
		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.TextContent{Type: "text", Text: msg}},
			IsError: true,
		}, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Tools in category %q:\n", strings.ToLower(category))
	for _, t := range tools {
		fmt.Fprintf(&b, "- %s: %s\n", t.Name, t.Description)
	}
	b.WriteString("\nUse get_tool_schema with a tool name to see its parameters.")

	return &mcp.CallToolResult{
		Content:           []mcp.Content{mcp.TextContent{Type: "text", Text: b.String()}},
		StructuredContent: toolsPayload{Category: strings.ToLower(category), Tools: tools},
	}, nil
}

// SearchTools handles the search_tools meta-tool. No matches is a benign
// outcome, not an error: a fuzzy query that finds nothing is different
// from asking for a category that does not exist.
func (m *MetaTools) SearchTools(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := req.GetInt("limit", registry.DefaultSearchLimit)

	tools := m.catalog.Search(query, limit)

	var b strings.Builder
	if len(tools) == 0 {
		fmt.Fprintf(&b, "No tools matched %q. Try a broader keyword, or use list_categories to browse.", query)
	} else {
		fmt.Fprintf(&b, "Tools matching %q:\n", query)
		for _, t := range tools {
			fmt.Fprintf(&b, "- %s: %s\n", t.Name, t.Description)
		}
	}

	return &mcp.CallToolResult{
		Content:           []mcp.Content{mcp.TextContent{Type: "text", Text: b.String()}},
		StructuredContent: searchPayload{Query: query, Tools: tools},
	}, nil
}

// GetToolSchema handles the get_tool_schema meta-tool
func (m *MetaTools) GetToolSchema(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("toolName")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	entry, ok := m.catalog.Tool(name)
	if !ok {
		msg := fmt.Sprintf("Unknown tool %q. Use search_tools or list_tools to find available tools.", name)
		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.TextContent{Type: "text", Text: msg}},
			IsError: true,
		}, nil
	}

	params := registry.SerializeSchemas(entry.Params)
	result := registry.SerializeSchemas(entry.Result)

	paramsJSON, _ := json.MarshalIndent(params, "", "  ")
	resultJSON, _ := json.MarshalIndent(result, "", "  ")

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", entry.Name)
	fmt.Fprintf(&b, "**Category:** %s\n\n", entry.Category)
	fmt.Fprintf(&b, "%s\n\n", entry.Description)
	fmt.Fprintf(&b, "## Parameters\n\n```json\n%s\n```\n\n", paramsJSON)
	fmt.Fprintf(&b, "## Result\n\n```json\n%s\n```\n", resultJSON)

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: b.String()}},
		StructuredContent: schemaPayload{
			Name:            entry.Name,
			Category:        entry.Category,
			Title:           entry.Title,
			Description:     entry.Description,
			ParameterSchema: params,
			ResultSchema:    result,
		},
	}, nil
}

// ExecuteTool handles the execute_tool meta-tool. The handler's own result
// passes through verbatim, success or business failure alike. A fault
// escaping a handler (error return or panic) is caught here, logged with
// the tool name and an invocation ID, and converted to a generic
// error-flagged result. This is the single failure boundary for every
// downstream Discord operation.
func (m *MetaTools) ExecuteTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("toolName")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	params, _ := req.GetArguments()["parameters"].(map[string]interface{})
	if params == nil {
		params = map[string]interface{}{}
	}

	handler, ok := m.catalog.Handler(name)
	if !ok {
		msg := fmt.Sprintf("Unknown tool %q. Use search_tools or list_tools to find available tools.", name)
		return &mcp.CallToolResult{
			Content:           []mcp.Content{mcp.TextContent{Type: "text", Text: msg}},
			StructuredContent: map[string]interface{}{"success": false, "error": msg},
			IsError:           true,
		}, nil
	}

	invocationID := uuid.NewString()
	m.logger.Debug("executing tool",
		zap.String("tool", name),
		zap.String("invocation_id", invocationID),
	)

	result, err := m.invoke(ctx, handler, params)
	if err != nil {
		ferr := apperrors.NewToolExecutionFailed(name, err)
		m.logger.Error("tool execution failed",
			zap.String("tool", name),
			zap.String("invocation_id", invocationID),
			zap.Any("parameters", params),
			zap.Error(ferr),
		)
		msg := fmt.Sprintf("Tool %q failed: %v", name, err)
		return &mcp.CallToolResult{
			Content:           []mcp.Content{mcp.TextContent{Type: "text", Text: msg}},
			StructuredContent: map[string]interface{}{"success": false, "error": msg},
			IsError:           true,
		}, nil
	}

	return toCallToolResult(result), nil
}

// invoke runs a handler with panic containment so a programming error in
// one operation cannot take down the server. A nil result with a nil
// error is also a programming error and is reported as a fault rather
// than handed to the result conversion.
func (m *MetaTools) invoke(ctx context.Context, h registry.Handler, params map[string]interface{}) (result *registry.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("handler panicked: %v", r)
		}
	}()
	result, err = h(ctx, params)
	if result == nil && err == nil {
		err = fmt.Errorf("handler returned no result")
	}
	return result, err
}

// toCallToolResult converts a registry result to the protocol shape
// without touching its payload
func toCallToolResult(res *registry.Result) *mcp.CallToolResult {
	out := &mcp.CallToolResult{IsError: res.IsError}
	for _, block := range res.Content {
		out.Content = append(out.Content, mcp.TextContent{Type: "text", Text: block.Text})
	}
	if res.Structured != nil {
		out.StructuredContent = res.Structured
	}
	return out
}
