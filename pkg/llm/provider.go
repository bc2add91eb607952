package llm

import (
	"context"
	"encoding/json"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system", "tool"
	Content string

	// ToolCalls is set on assistant messages that request tool execution
	ToolCalls []ToolCall

	// ToolName is set on "tool" role messages carrying an execution result
	ToolName string
}

// ToolCall is a structured request to invoke a named tool
type ToolCall struct {
	Name      string
	Arguments json.RawMessage
}

// ToolSchema describes a callable tool to the model
type ToolSchema struct {
	Name        string
	Description string
	Parameters  json.RawMessage // JSON Schema for the arguments object
}

// HasToolCalls reports whether the message carries pending tool calls
func (m Message) HasToolCalls() bool {
	return len(m.ToolCalls) > 0
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(maxTokens int) Option {
	return func(o *Options) {
		o.MaxTokens = maxTokens
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// TokenFunc receives incremental content tokens during a streaming chat.
// Returning an error aborts the stream.
type TokenFunc func(token string) error

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// ChatStream sends a chat history and delivers the response token by
	// token through onToken. Cancelling ctx aborts the in-flight call.
	ChatStream(ctx context.Context, history []Message, onToken TokenFunc, options ...Option) error

	// ChatWithTools sends a chat history plus tool schemas. The returned
	// message may carry pending tool calls instead of (or alongside) text.
	ChatWithTools(ctx context.Context, history []Message, tools []ToolSchema, options ...Option) (*Message, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}
