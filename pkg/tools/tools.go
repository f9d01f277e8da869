// Package tools implements the function-calling surface the language
// model can invoke during a conversation. Execution is total: every
// call produces a text result, including unknown tools and handler
// failures, so the conversation can always continue.
package tools

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/voxline/voxline/pkg/inference"
)

// Tool represents a function the model can invoke during conversation.
type Tool struct {
	// Name is the unique identifier for the tool (e.g., "get_weather").
	Name string

	// Description explains what the tool does, helping the model decide
	// when to use it.
	Description string

	// Parameters defines the JSON schema for the tool's arguments.
	Parameters map[string]any

	// Handler is called when the model invokes this tool with arguments
	// already validated against Parameters. It returns a result string to
	// feed back into the conversation; an error becomes a textual failure
	// message rather than aborting the turn.
	Handler func(ctx context.Context, args Args) (string, error)
}

// Registry holds the tools available to a session.
type Registry struct {
	tools  map[string]Tool
	logger *slog.Logger
}

// NewRegistry creates a registry with the given tools.
func NewRegistry(logger *slog.Logger, tools ...Tool) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		tools:  make(map[string]Tool, len(tools)),
		logger: logger.With("component", "tools.registry"),
	}
	for _, t := range tools {
		r.tools[t.Name] = t
	}
	return r
}

// Declarations returns the tool definitions in the chat-completions
// format, sorted by name for stable ordering.
func (r *Registry) Declarations() []inference.Tool {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	decls := make([]inference.Tool, 0, len(names))
	for _, name := range names {
		t := r.tools[name]
		decls = append(decls, inference.Tool{
			Type: "function",
			Function: inference.ToolFunction{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return decls
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.tools)
}

// Execute runs the named tool with raw JSON arguments and returns the
// textual result. It never returns an error: unknown tools, malformed
// arguments, and handler failures all render as text for the model.
func (r *Registry) Execute(ctx context.Context, name, rawArgs string) string {
	tool, ok := r.tools[name]
	if !ok {
		r.logger.Warn("unknown tool requested", "tool", name)
		return fmt.Sprintf("Unknown tool: %s", name)
	}

	args, err := ParseArgs(tool.Parameters, rawArgs)
	if err != nil {
		r.logger.Warn("invalid tool arguments", "tool", name, "error", err)
		return fmt.Sprintf("Invalid arguments for tool %s: %v", name, err)
	}

	r.logger.Info("executing tool", "tool", name, "args", rawArgs)

	result, err := tool.Handler(ctx, args)
	if err != nil {
		r.logger.Error("tool execution failed", "tool", name, "error", err)
		return fmt.Sprintf("Tool %s failed: %v", name, err)
	}
	return result
}
