package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/Protocol-Lattice/compoder/src/api"
)

// Backend is the part of the API client the tools need.
type Backend interface {
	CodegenList(ctx context.Context) (*api.CodegenListResponse, error)
	ComponentList(ctx context.Context, codegenName string) (*api.ComponentListResponse, error)
	ComponentDetail(ctx context.Context, codegenName, libraryName string, componentNames []string) (*api.ComponentDetailResponse, error)
}

// Options configures a Dispatcher.
type Options struct {
	// BoundCodegen, when set, replaces any codegenName the caller sends.
	BoundCodegen string
	Logger       *zap.Logger
}

type handlerFunc func(ctx context.Context, args map[string]any) *mcp.CallToolResult

// Dispatcher routes tool calls to their handlers. Calls share no mutable
// state and may run concurrently.
type Dispatcher struct {
	registry *Registry
	backend  Backend
	bound    string
	log      *zap.Logger
	handlers map[string]handlerFunc
}

// NewDispatcher wires the registry's tools to backend.
func NewDispatcher(backend Backend, opts Options) *Dispatcher {
	d := &Dispatcher{
		registry: NewRegistry(),
		backend:  backend,
		bound:    opts.BoundCodegen,
		log:      opts.Logger,
	}
	if d.log == nil {
		d.log = zap.NewNop()
	}
	d.handlers = map[string]handlerFunc{
		ToolCodegenList:     d.codegenList,
		ToolComponentList:   d.componentList,
		ToolComponentDetail: d.componentDetail,
	}
	return d
}

// Registry returns the descriptors served by this dispatcher.
func (d *Dispatcher) Registry() *Registry { return d.registry }

// Call runs the named tool. Failures never escape as Go errors: unknown
// tools, bad input, backend errors and panics all come back as results
// flagged IsError.
func (d *Dispatcher) Call(ctx context.Context, name string, args map[string]any) (res *mcp.CallToolResult) {
	h, ok := d.handlers[name]
	if !ok {
		d.log.Warn("unknown tool", zap.String("tool", name))
		return mcp.NewToolResultError(fmt.Sprintf("Error executing tool %s: unknown tool", name))
	}

	defer func() {
		if r := recover(); r != nil {
			d.log.Error("tool panicked", zap.String("tool", name), zap.Any("panic", r))
			res = mcp.NewToolResultError(fmt.Sprintf("Error executing tool %s: %v", name, r))
		}
	}()

	d.log.Debug("tool call", zap.String("tool", name))
	return h(ctx, d.bind(args))
}

// Handle adapts Call to mcp-go's tool handler signature.
func (d *Dispatcher) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return d.Call(ctx, req.Params.Name, req.GetArguments()), nil
}

func (d *Dispatcher) bind(args map[string]any) map[string]any {
	out := make(map[string]any, len(args)+1)
	for k, v := range args {
		out[k] = v
	}
	if d.bound != "" {
		out["codegenName"] = d.bound
	}
	return out
}

func (d *Dispatcher) codegenList(ctx context.Context, _ map[string]any) *mcp.CallToolResult {
	resp, err := d.backend.CodegenList(ctx)
	if err != nil {
		return d.failure(ToolCodegenList, err, "Failed to retrieve codegen list")
	}
	d.log.Debug("codegens found", zap.Int("count", len(resp.Codegens)))
	return mcp.NewToolResultText(resp.Markdown)
}

func (d *Dispatcher) componentList(ctx context.Context, args map[string]any) *mcp.CallToolResult {
	const fallback = "Failed to retrieve component list"

	codegen := stringArg(args, "codegenName")
	if !ValidCodegenName(codegen) {
		return d.failure(ToolComponentList, invalid("Invalid codegen name format"), fallback)
	}

	resp, err := d.backend.ComponentList(ctx, codegen)
	if err != nil {
		return d.failure(ToolComponentList, err, fallback)
	}
	d.log.Debug("component libraries found", zap.Int("count", len(resp.Components)))
	return mcp.NewToolResultText(resp.Markdown)
}

func (d *Dispatcher) componentDetail(ctx context.Context, args map[string]any) *mcp.CallToolResult {
	const fallback = "Failed to retrieve component details"

	codegen := stringArg(args, "codegenName")
	library := stringArg(args, "libraryName")
	if !ValidCodegenName(codegen) {
		return d.failure(ToolComponentDetail, invalid("Invalid codegen name format"), fallback)
	}
	if strings.TrimSpace(library) == "" {
		return d.failure(ToolComponentDetail, invalid("Library name is required"), fallback)
	}
	names, err := componentNames(args["componentNames"])
	if err != nil {
		return d.failure(ToolComponentDetail, err, fallback)
	}
	if len(names) == 0 {
		return d.failure(ToolComponentDetail, invalid("At least one component name is required"), fallback)
	}
	for _, n := range names {
		if !ValidComponentName(n) {
			return d.failure(ToolComponentDetail, invalid("Invalid component name format: %s", n), fallback)
		}
	}

	resp, err := d.backend.ComponentDetail(ctx, codegen, library, names)
	if err != nil {
		return d.failure(ToolComponentDetail, err, fallback)
	}
	return mcp.NewToolResultText(FormatComponentDetail(library, resp))
}

// failure turns err into an error result. Validation and API errors carry
// their own message; anything else is replaced by fallback.
func (d *Dispatcher) failure(tool string, err error, fallback string) *mcp.CallToolResult {
	d.log.Error("tool call failed", zap.String("tool", tool), zap.Error(err))

	msg := fallback
	var verr *ValidationError
	if errors.As(err, &verr) {
		msg = verr.Message
	} else if apiErr, ok := api.AsError(err); ok {
		msg = apiErr.Message
	}
	return mcp.NewToolResultError("Error: " + msg)
}
