package registry

import (
	"sort"
	"strings"
	"sync"

	apperrors "discord-mcp/backend/pkg/errors"
)

// DefaultSearchLimit caps search results when the caller does not supply a limit
const DefaultSearchLimit = 20

// CategoryDef declares one category at registry construction
type CategoryDef struct {
	Name        string
	Description string
}

// CategoryInfo is the discovery-facing view of a category
type CategoryInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ToolCount   int    `json:"toolCount"`
}

// Registry is the in-memory tool catalog. Categories are fixed at
// construction; tools are registered once at startup before any request
// traffic. The lock exists because the status HTTP endpoint reads the
// tables concurrently with dispatch traffic.
type Registry struct {
	mu         sync.RWMutex
	categories []CategoryDef       // declaration order, names lowercase
	byCategory map[string][]string // category name -> tool names, registration order
	tools      map[string]*Entry
	order      []string // global registration order, keeps search deterministic
}

// New creates a registry over the given fixed category set. Category names
// are normalized to lowercase so lookups are case-insensitive regardless
// of how callers spell them.
func New(categories []CategoryDef) *Registry {
	r := &Registry{
		byCategory: make(map[string][]string),
		tools:      make(map[string]*Entry),
	}
	for _, c := range categories {
		name := strings.ToLower(c.Name)
		r.categories = append(r.categories, CategoryDef{Name: name, Description: c.Description})
		r.byCategory[name] = nil
	}
	return r
}

// Register adds a tool to the catalog. A duplicate name or an undeclared
// category is rejected with an error so a miswired domain module fails
// fast at startup instead of silently corrupting the category counts.
func (r *Registry) Register(name, category string, cfg ToolConfig, h Handler) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.NewInvalidToolName(name)
	}

	cat := strings.ToLower(category)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tools[name]; ok {
		return apperrors.NewDuplicateTool(name)
	}
	if _, ok := r.byCategory[cat]; !ok {
		return apperrors.NewUnknownCategory(category, name)
	}

	r.tools[name] = &Entry{
		Name:        name,
		Category:    cat,
		Title:       cfg.Title,
		Description: cfg.Description,
		Params:      cfg.Params,
		Result:      cfg.Result,
		handler:     h,
	}
	r.byCategory[cat] = append(r.byCategory[cat], name)
	r.order = append(r.order, name)
	return nil
}

// Categories returns the declared categories that have at least one tool,
// in declaration order. Empty categories exist internally but are
// invisible to discovery.
func (r *Registry) Categories() []CategoryInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]CategoryInfo, 0, len(r.categories))
	for _, c := range r.categories {
		count := len(r.byCategory[c.Name])
		if count == 0 {
			continue
		}
		out = append(out, CategoryInfo{
			Name:        c.Name,
			Description: c.Description,
			ToolCount:   count,
		})
	}
	return out
}

// ToolsByCategory returns the tools registered under a category, in
// registration order. The category match is case-insensitive. An unknown
// category yields an empty slice, not an error.
func (r *Registry) ToolsByCategory(category string) []ToolSummary {
	cat := strings.ToLower(category)

	r.mu.RLock()
	defer r.mu.RUnlock()

	names := r.byCategory[cat]
	out := make([]ToolSummary, 0, len(names))
	for _, name := range names {
		entry := r.tools[name]
		out = append(out, ToolSummary{Name: entry.Name, Description: entry.Description})
	}
	return out
}

// Search scans every registered tool and ranks it by a simple additive
// relevance score: +3 for a name match, +2 for a title match, +1 for a
// description match, all case-insensitive substring checks. Zero-score
// tools are dropped, the rest sorted descending by score with a stable
// sort so repeated queries are deterministic, then truncated to limit.
// Linear per query, which is fine at catalog sizes in the low hundreds.
func (r *Registry) Search(query string, limit int) []ToolSummary {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	q := strings.ToLower(query)

	r.mu.RLock()
	defer r.mu.RUnlock()

	type scored struct {
		summary ToolSummary
		score   int
	}

	var matches []scored
	for _, name := range r.order {
		entry := r.tools[name]
		score := 0
		if strings.Contains(strings.ToLower(entry.Name), q) {
			score += 3
		}
		if strings.Contains(strings.ToLower(entry.Title), q) {
			score += 2
		}
		if strings.Contains(strings.ToLower(entry.Description), q) {
			score += 1
		}
		if score == 0 {
			continue
		}
		matches = append(matches, scored{
			summary: ToolSummary{Name: entry.Name, Description: entry.Description},
			score:   score,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]ToolSummary, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.summary)
	}
	return out
}

// Tool returns the full catalog entry for an exact, case-sensitive name.
// The handler is not part of the introspection surface; callers that need
// to execute go through Handler.
func (r *Registry) Tool(name string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.tools[name]
	return entry, ok
}

// Handler returns the registered handler for a tool name. Used only by
// the execute dispatch path.
func (r *Registry) Handler(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.tools[name]
	if !ok {
		return nil, false
	}
	return entry.handler, true
}

// ToolCount returns the total number of registered tools
func (r *Registry) ToolCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// CategoryNames returns all declared category names in declaration order,
// including empty ones. The list_tools meta-tool uses the visible subset
// for its guidance text; the status endpoint shows everything.
func (r *Registry) CategoryNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.categories))
	for _, c := range r.categories {
		names = append(names, c.Name)
	}
	return names
}
