// Package agent implements the conversational policies (master, math,
// weather), the tools they may invoke, and the engine that drives one
// utterance through the model and back. Policies hand off to each
// other by returning the next policy alongside a narration; the engine
// performs the baton pass atomically.
package agent

import (
	"context"

	"github.com/Rishabh510/ai-concierge/internal/call"
	"github.com/Rishabh510/ai-concierge/pkg/ai"
)

// ToolResult is the outcome of one tool invocation. Exactly one of
// the terminal fields matters to the engine: Next switches the active
// policy, EndCall finishes the session, otherwise Payload is fed back
// to the model for a final completion.
type ToolResult struct {
	// Narration is spoken to the customer directly, bypassing a
	// second model round trip.
	Narration string

	// Payload is returned to the model as the tool's output.
	Payload map[string]interface{}

	// Next, when set, receives conversational control.
	Next *Policy

	// EndCall signals the session should terminate after narration.
	EndCall bool
}

// ToolHandler executes a named tool. A returned error is the distinct
// "tool error" outcome: the engine reports it to the model instead of
// failing the turn.
type ToolHandler func(ctx context.Context, args map[string]interface{}) (*ToolResult, error)

// Tool couples a model-visible schema with its handler.
type Tool struct {
	Schema  ai.ToolSchema
	Handler ToolHandler
}

// Policy is one scripted conversational agent: its instructions, its
// synthesis voice, its capability set, and how it greets when it takes
// the call.
type Policy struct {
	Name         string
	Instructions string
	VoiceID      string
	Tools        []Tool
	Greeting     func(meta *call.Metadata) string
}

// Schemas returns the model-visible tool declarations.
func (p *Policy) Schemas() []ai.ToolSchema {
	schemas := make([]ai.ToolSchema, 0, len(p.Tools))
	for _, t := range p.Tools {
		schemas = append(schemas, t.Schema)
	}
	return schemas
}

// tool looks up a tool by name.
func (p *Policy) tool(name string) (Tool, bool) {
	for _, t := range p.Tools {
		if t.Schema.Name == name {
			return t, true
		}
	}
	return Tool{}, false
}
