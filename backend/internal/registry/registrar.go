package registry

// ToolRegistrar is the registration surface handed to each domain module.
// Both the registry-backed category adapter below and any direct
// protocol-layer registrar satisfy it, so a domain module never needs to
// know whether its tools go into the catalog or straight onto the wire.
type ToolRegistrar interface {
	RegisterTool(name string, cfg ToolConfig, h Handler) error
}

// CategoryRegistrar binds a fixed category to the registry's Register
// call. Handing one of these to each domain module is what lets
// progressive disclosure be layered onto independently-authored modules
// without touching their registration call sites.
type CategoryRegistrar struct {
	registry *Registry
	category string
}

// ForCategory returns a registrar that files every registration under the
// given category
func (r *Registry) ForCategory(category string) *CategoryRegistrar {
	return &CategoryRegistrar{registry: r, category: category}
}

// RegisterTool implements ToolRegistrar
func (c *CategoryRegistrar) RegisterTool(name string, cfg ToolConfig, h Handler) error {
	return c.registry.Register(name, c.category, cfg, h)
}
