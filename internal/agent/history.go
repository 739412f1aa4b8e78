package agent

import "github.com/Rishabh510/ai-concierge/pkg/ai"

// History is the ordered conversation shared across hand-offs. The
// outgoing and incoming policies reference the same instance, so
// nothing is lost when control moves.
type History struct {
	turns []ai.Message
}

// NewHistory returns an empty conversation history.
func NewHistory() *History {
	return &History{}
}

// Append adds a turn to the conversation.
func (h *History) Append(msg ai.Message) {
	h.turns = append(h.turns, msg)
}

// Messages returns the ordered turns.
func (h *History) Messages() []ai.Message {
	return h.turns
}

// Len returns the number of turns.
func (h *History) Len() int {
	return len(h.turns)
}

// UserTurns counts turns spoken by the customer.
func (h *History) UserTurns() int {
	n := 0
	for _, t := range h.turns {
		if t.Role == ai.RoleUser {
			n++
		}
	}
	return n
}
