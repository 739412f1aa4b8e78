package ai

import (
	"context"
)

// Provider is the base interface for all conversational model providers
type Provider interface {
	// Chat produces the next assistant turn for the given instructions,
	// history and tool set. The response carries either content, tool
	// calls, or both.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

	// IsAvailable checks if the provider is available/configured
	IsAvailable() bool

	// Name returns the provider name
	Name() string
}

// Role values for conversation messages.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one turn of conversation history.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolName   string     `json:"tool_name,omitempty"`
}

// ToolSchema describes a tool the model may invoke. Parameters is a JSON
// schema object.
type ToolSchema struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
}

// ToolCall is a model-requested tool invocation with decoded arguments.
type ToolCall struct {
	ID        string
	Name      string
	Arguments map[string]interface{}
}

// ChatRequest represents a conversation request
type ChatRequest struct {
	Instructions string
	History      []Message
	Tools        []ToolSchema
	Temperature  float64
	MaxTokens    int
}

// ChatResponse represents a model response
type ChatResponse struct {
	Content   string
	ToolCalls []ToolCall
	Provider  string
}
