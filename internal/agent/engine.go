package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/Rishabh510/ai-concierge/internal/call"
	"github.com/Rishabh510/ai-concierge/pkg/ai"
)

// maxToolRounds bounds how many model round trips one utterance may
// trigger. Prevents runaway tool loops.
const maxToolRounds = 4

// Reply is what the session speaks back after one utterance.
type Reply struct {
	Text    string
	VoiceID string
	EndCall bool
}

// Engine drives one call's conversation: it owns the shared history
// and the single active policy, and performs hand-offs atomically.
// A call has exactly one Engine and the session goroutine is its only
// caller, so no locking is needed.
type Engine struct {
	manager *ai.Manager
	history *History
	meta    *call.Metadata
	active  *Policy
	log     *zap.Logger
}

// NewEngine builds the conversation engine with its initial policy.
func NewEngine(manager *ai.Manager, meta *call.Metadata, initial *Policy, logger *zap.Logger) *Engine {
	return &Engine{
		manager: manager,
		history: NewHistory(),
		meta:    meta,
		active:  initial,
		log:     logger,
	}
}

// Active returns the policy currently holding the call.
func (e *Engine) Active() *Policy {
	return e.active
}

// History returns the shared conversation history.
func (e *Engine) History() *History {
	return e.history
}

// Greet produces the opening line and records it as the first
// assistant turn.
func (e *Engine) Greet() *Reply {
	greeting := e.active.Greeting(e.meta)
	e.history.Append(ai.Message{Role: ai.RoleAssistant, Content: greeting})
	return &Reply{Text: greeting, VoiceID: e.active.VoiceID}
}

// HandleUtterance runs one customer turn through the model, executing
// any tool calls it requests, and returns the spoken reply.
func (e *Engine) HandleUtterance(ctx context.Context, text string) (*Reply, error) {
	e.history.Append(ai.Message{Role: ai.RoleUser, Content: text})

	for round := 0; round < maxToolRounds; round++ {
		resp, err := e.manager.Chat(ctx, &ai.ChatRequest{
			Instructions: e.active.Instructions,
			History:      e.history.Messages(),
			Tools:        e.active.Schemas(),
		})
		if err != nil {
			return nil, fmt.Errorf("model turn failed: %w", err)
		}

		if len(resp.ToolCalls) == 0 {
			e.history.Append(ai.Message{Role: ai.RoleAssistant, Content: resp.Content})
			return &Reply{Text: resp.Content, VoiceID: e.active.VoiceID}, nil
		}

		e.history.Append(ai.Message{
			Role:      ai.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		for _, tc := range resp.ToolCalls {
			if reply := e.executeTool(ctx, tc); reply != nil {
				return reply, nil
			}
		}
	}

	e.log.Warn("Tool round limit reached", zap.String("policy", e.active.Name))
	fallback := "I'm sorry, could you say that again?"
	e.history.Append(ai.Message{Role: ai.RoleAssistant, Content: fallback})
	return &Reply{Text: fallback, VoiceID: e.active.VoiceID}, nil
}

// executeTool runs one requested tool. A non-nil reply short-circuits
// the turn (hand-off or call end); nil means the result was appended
// to history and the model gets another round.
func (e *Engine) executeTool(ctx context.Context, tc ai.ToolCall) *Reply {
	tool, ok := e.active.tool(tc.Name)
	if !ok {
		e.log.Warn("Model requested unknown tool",
			zap.String("tool", tc.Name),
			zap.String("policy", e.active.Name),
		)
		e.appendToolResult(tc, map[string]interface{}{"error": fmt.Sprintf("unknown tool: %s", tc.Name)})
		return nil
	}

	result, err := tool.Handler(ctx, tc.Arguments)
	if err != nil {
		e.log.Warn("Tool returned an error",
			zap.String("tool", tc.Name),
			zap.Error(err),
		)
		e.appendToolResult(tc, map[string]interface{}{"error": err.Error()})
		return nil
	}

	if result.Next != nil {
		return e.handOff(tc, result)
	}

	if result.EndCall {
		text := result.Narration
		if text == "" {
			text = "Thank you for calling. Goodbye!"
		}
		e.history.Append(ai.Message{Role: ai.RoleAssistant, Content: text})
		return &Reply{Text: text, VoiceID: e.active.VoiceID, EndCall: true}
	}

	if result.Narration != "" {
		e.appendToolResult(tc, result.Payload)
		e.history.Append(ai.Message{Role: ai.RoleAssistant, Content: result.Narration})
		return &Reply{Text: result.Narration, VoiceID: e.active.VoiceID}
	}

	e.appendToolResult(tc, result.Payload)
	return nil
}

// handOff passes the baton: the next policy takes the shared history
// and control in one step, then greets.
func (e *Engine) handOff(tc ai.ToolCall, result *ToolResult) *Reply {
	previous := e.active.Name
	e.active = result.Next

	e.log.Info("Conversational control handed off",
		zap.String("from", previous),
		zap.String("to", e.active.Name),
	)

	e.appendToolResult(tc, map[string]interface{}{"handoff": e.active.Name})

	text := result.Narration
	greeting := e.active.Greeting(e.meta)
	if text == "" {
		text = greeting
	} else {
		text = text + " " + greeting
	}
	e.history.Append(ai.Message{Role: ai.RoleAssistant, Content: text})

	return &Reply{Text: text, VoiceID: e.active.VoiceID}
}

func (e *Engine) appendToolResult(tc ai.ToolCall, payload map[string]interface{}) {
	content := "{}"
	if payload != nil {
		if encoded, err := json.Marshal(payload); err == nil {
			content = string(encoded)
		}
	}
	e.history.Append(ai.Message{
		Role:       ai.RoleTool,
		ToolCallID: tc.ID,
		ToolName:   tc.Name,
		Content:    content,
	})
}
