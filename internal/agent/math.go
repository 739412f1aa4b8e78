package agent

import "github.com/Rishabh510/ai-concierge/internal/call"

// NewMathPolicy builds the math specialist policy.
func NewMathPolicy(deps *Deps) *Policy {
	return &Policy{
		Name:         "math",
		Instructions: mathPrompt,
		VoiceID:      mathVoiceID,
		Greeting: func(meta *call.Metadata) string {
			return "Hi, I'm the math specialist. What calculation can I help you with?"
		},
		Tools: []Tool{
			calculatorTool(),
			returnTool(deps),
		},
	}
}

// returnTool hands control back to the master policy.
func returnTool(deps *Deps) Tool {
	return handoffTool("return_to_main_agent",
		"Return control back to the main assistant. Use this when the user wants to go back to general assistance or needs help with something other than this specialty.",
		"I'll transfer you back to our main assistant who can help with other topics.",
		func() *Policy { return NewMasterPolicy(deps) },
	)
}
