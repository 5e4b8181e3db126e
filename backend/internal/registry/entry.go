package registry

import "context"

// Handler is the executable implementation of one tool. It receives the
// caller-supplied parameter bag and returns a structured Result. Business
// failures (remote permission denied, missing channel) should be reported
// as an error-flagged Result; a returned error means the handler itself
// faulted and is converted to a generic failure by the dispatch layer.
type Handler func(ctx context.Context, args map[string]interface{}) (*Result, error)

// ContentBlock is one human-readable piece of a tool result
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Result is the normalized shape every handler returns: human-readable
// content blocks plus an optional machine-readable payload. The registry
// and dispatch layer pass it through without inspecting its internals.
type Result struct {
	Content    []ContentBlock         `json:"content"`
	Structured map[string]interface{} `json:"structuredContent,omitempty"`
	IsError    bool                   `json:"isError,omitempty"`
}

// TextResult builds a successful result with one text block and an
// optional structured payload
func TextResult(text string, structured map[string]interface{}) *Result {
	return &Result{
		Content:    []ContentBlock{{Type: "text", Text: text}},
		Structured: structured,
	}
}

// ErrorResult builds an error-flagged result with a {success:false, error}
// structured payload
func ErrorResult(message string) *Result {
	return &Result{
		Content:    []ContentBlock{{Type: "text", Text: message}},
		Structured: map[string]interface{}{"success": false, "error": message},
		IsError:    true,
	}
}

// ToolConfig bundles the metadata a domain module supplies when
// registering a tool
type ToolConfig struct {
	Title       string
	Description string
	Params      map[string]*Schema
	Result      map[string]*Schema
}

// Entry is one tool as known to the registry: identity, category,
// human-readable metadata, parameter/result contracts, and the handler.
// Entries are created once at startup registration and never mutated.
type Entry struct {
	Name        string
	Category    string
	Title       string
	Description string
	Params      map[string]*Schema
	Result      map[string]*Schema

	handler Handler
}

// ToolSummary is the discovery-facing view of a tool
type ToolSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
