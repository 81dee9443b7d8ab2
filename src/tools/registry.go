// Package tools exposes the compoder lookups as MCP tools.
package tools

import "github.com/mark3labs/mcp-go/mcp"

const (
	ToolCodegenList     = "codegen-list"
	ToolComponentList   = "component-list"
	ToolComponentDetail = "component-detail"
)

// Registry holds the fixed tool descriptors. It is built once and never
// changes afterwards.
type Registry struct {
	tools []mcp.Tool
}

// NewRegistry returns the registry of the three compoder tools.
func NewRegistry() *Registry {
	return &Registry{tools: []mcp.Tool{
		{
			Name:        ToolCodegenList,
			Description: "Get a list of all available codegens with their titles and descriptions",
			InputSchema: mcp.ToolInputSchema{
				Type:       "object",
				Properties: map[string]interface{}{},
				Required:   []string{},
			},
		},
		{
			Name:        ToolComponentList,
			Description: "Get a list of all components for a specified codegen in markdown format",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"codegenName": map[string]interface{}{
						"type":        "string",
						"description": "Name of the codegen to get components for",
					},
				},
				Required: []string{"codegenName"},
			},
		},
		{
			Name:        ToolComponentDetail,
			Description: "Get detailed API documentation for specific components",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"codegenName": map[string]interface{}{
						"type":        "string",
						"description": "Name of the codegen",
					},
					"libraryName": map[string]interface{}{
						"type":        "string",
						"description": "Name of the component library",
					},
					"componentNames": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Array of component names to get details for",
					},
				},
				Required: []string{"codegenName", "libraryName", "componentNames"},
			},
		},
	}}
}

// Descriptors returns a copy of the registered tools in registration order.
func (r *Registry) Descriptors() []mcp.Tool {
	out := make([]mcp.Tool, len(r.tools))
	copy(out, r.tools)
	return out
}

// Lookup finds a descriptor by name.
func (r *Registry) Lookup(name string) (mcp.Tool, bool) {
	for _, t := range r.tools {
		if t.Name == name {
			return t, true
		}
	}
	return mcp.Tool{}, false
}
