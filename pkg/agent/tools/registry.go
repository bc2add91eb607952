package tools

import (
	"context"
	"fmt"

	"lingua-workbench-be/pkg/llm"
)

// Handler executes one tool call. Failures are reported as plain text
// so the model can read them and recover; an error return is reserved
// for infrastructure faults that should abort the turn.
type Handler func(ctx context.Context, args []byte) string

type Tool struct {
	Schema  llm.ToolSchema
	Execute Handler
}

// Registry holds the tools exposed to the script editor agent.
type Registry struct {
	tools map[string]*Tool
	order []string
}

func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]*Tool),
	}
}

func (r *Registry) Register(t *Tool) {
	if _, exists := r.tools[t.Schema.Name]; !exists {
		r.order = append(r.order, t.Schema.Name)
	}
	r.tools[t.Schema.Name] = t
}

// Schemas returns the tool schemas in registration order, for the
// provider's tool declaration payload.
func (r *Registry) Schemas() []llm.ToolSchema {
	schemas := make([]llm.ToolSchema, 0, len(r.order))
	for _, name := range r.order {
		schemas = append(schemas, r.tools[name].Schema)
	}
	return schemas
}

// Execute dispatches one model-issued tool call and returns the textual
// result to feed back into the conversation.
func (r *Registry) Execute(ctx context.Context, call llm.ToolCall) string {
	t, ok := r.tools[call.Name]
	if !ok {
		return fmt.Sprintf("Error: unknown tool '%s'.", call.Name)
	}
	return t.Execute(ctx, call.Arguments)
}
