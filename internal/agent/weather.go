package agent

import "github.com/Rishabh510/ai-concierge/internal/call"

// NewWeatherPolicy builds the weather specialist policy.
func NewWeatherPolicy(deps *Deps) *Policy {
	return &Policy{
		Name:         "weather",
		Instructions: weatherPrompt,
		VoiceID:      weatherVoiceID,
		Greeting: func(meta *call.Metadata) string {
			return "Hi, I'm the weather specialist. Which location's weather can I help you with?"
		},
		Tools: []Tool{
			weatherTool(),
			returnTool(deps),
		},
	}
}
