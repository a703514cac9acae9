package ai

import (
	"context"
	"errors"
)

// ErrUnavailable marks provider failures where the model API could not be
// reached, or kept refusing after retries. Wrapped errors carry it so callers
// can tell "temporarily unavailable" apart from other failures via errors.Is.
var ErrUnavailable = errors.New("model provider unavailable")

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message represents a chat message in the conversation log.
type Message struct {
	Role    string
	Content string
	// ToolCalls is set on assistant messages that request tool execution.
	ToolCalls []ToolCall
	// ToolCallID and Name are set on tool messages carrying a tool result.
	ToolCallID string
	Name       string
}

// ToolCall is a model-requested tool invocation.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// ToolDescriptor describes a tool exposed to the model.
type ToolDescriptor struct {
	Name        string
	Description string
	// Parameters is a JSON Schema object.
	Parameters map[string]any
}

// ChatResponse is the model's reply for a single reasoning step: free text,
// tool calls, or both.
type ChatResponse struct {
	Content   string
	ToolCalls []ToolCall
}

// LLMService abstracts the model provider.
type LLMService interface {
	// Chat performs a plain chat completion.
	Chat(ctx context.Context, messages []Message) (string, error)

	// ChatWithTools performs a chat completion with tools available.
	ChatWithTools(ctx context.Context, messages []Message, tools []ToolDescriptor) (*ChatResponse, error)

	// ChatStreamWithTools streams a chat completion with tools available.
	// onDelta is called for each content token as it arrives; tool calls are
	// accumulated and returned in the final response. A non-nil error from
	// onDelta aborts the stream.
	ChatStreamWithTools(ctx context.Context, messages []Message, tools []ToolDescriptor, onDelta func(token string) error) (*ChatResponse, error)
}
