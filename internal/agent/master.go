package agent

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Rishabh510/ai-concierge/internal/call"
	"github.com/Rishabh510/ai-concierge/pkg/budget"
	"github.com/Rishabh510/ai-concierge/pkg/search"
)

// Deps are the collaborators shared by all policies of one call.
type Deps struct {
	Meta       *call.Metadata
	Transferer *call.Transferer
	Terminator *call.Terminator
	Search     *search.Client
	Logger     *zap.Logger
}

// NewMasterPolicy builds the primary sales-qualification policy.
func NewMasterPolicy(deps *Deps) *Policy {
	instructions := masterPrompt
	instructions = strings.ReplaceAll(instructions, "{customer_name}", orDefault(deps.Meta.CustomerName, "there"))
	instructions = strings.ReplaceAll(instructions, "{city}", orDefault(deps.Meta.City, "your city"))

	return &Policy{
		Name:         "master",
		Instructions: instructions,
		VoiceID:      masterVoiceID,
		Greeting: func(meta *call.Metadata) string {
			greeting := fmt.Sprintf("Good %s", orDefault(meta.GreetingTime, "evening"))
			name := strings.TrimSpace(meta.Salutation + " " + meta.CustomerName)
			if name != "" {
				greeting += ", " + name
			}
			return greeting + ". How can I help you?"
		},
		Tools: []Tool{
			budgetTool(deps),
			webSearchTool(deps),
			handoffTool("handoff_to_math_agent",
				"Transfer the user to a specialized math agent for calculations. Use this when the user needs mathematical calculations, arithmetic operations, or any computational tasks.",
				"I'll transfer you to our math specialist who can help with calculations.",
				func() *Policy { return NewMathPolicy(deps) },
			),
			handoffTool("handoff_to_weather_agent",
				"Transfer the user to a specialized weather agent for weather information. Use this when the user asks about weather, temperature, climate, or weather conditions for any location.",
				"I'll transfer you to our weather specialist who can provide weather information.",
				func() *Policy { return NewWeatherPolicy(deps) },
			),
			transferTool(deps),
			endCallTool(deps),
		},
	}
}

// budgetTool wires the wedding budget estimator.
func budgetTool(deps *Deps) Tool {
	return Tool{
		Schema: toolSchema("budget_calculator",
			"Calculate wedding service budget based on events, people count, and location. Use this when customers ask about costs, pricing, or budget estimates.",
			map[string]interface{}{
				"number_of_events": integerParam("Number of wedding events (wedding, reception, etc.)"),
				"number_of_people": integerParam("Total number of guests across all events"),
				"location":         stringParam("City/location for the wedding"),
			},
			[]string{"number_of_events", "number_of_people", "location"},
		),
		Handler: func(ctx context.Context, args map[string]interface{}) (*ToolResult, error) {
			events, ok1 := intArg(args, "number_of_events")
			guests, ok2 := intArg(args, "number_of_people")
			location, ok3 := stringArg(args, "location")
			if !ok1 || !ok2 || !ok3 {
				return nil, fmt.Errorf("budget_calculator requires number_of_events, number_of_people and location")
			}

			deps.Logger.Info("Calculating budget",
				zap.Int("events", events),
				zap.Int("guests", guests),
				zap.String("location", location),
			)

			breakdown := budget.Calculate(events, guests, location)
			return &ToolResult{
				Payload: map[string]interface{}{
					"budget_breakdown":   breakdown,
					"formatted_response": budget.FormatForSpeech(breakdown),
					"total_budget_lakhs": breakdown.TotalLakhs,
				},
			}, nil
		},
	}
}

// webSearchTool wires the Serper search client.
func webSearchTool(deps *Deps) Tool {
	return Tool{
		Schema: toolSchema("web_search",
			"Search the web for information. Use this when the user specifically asks to search the web for information.",
			map[string]interface{}{
				"query":       stringParam("The search query to find relevant web content"),
				"num_results": integerParam("Number of search results to return (default: 3, max: 10)"),
			},
			[]string{"query"},
		),
		Handler: func(ctx context.Context, args map[string]interface{}) (*ToolResult, error) {
			query, ok := stringArg(args, "query")
			if !ok || query == "" {
				return nil, fmt.Errorf("web_search requires a query")
			}
			numResults, ok := intArg(args, "num_results")
			if !ok || numResults <= 0 {
				numResults = 3
			}

			if deps.Search == nil || !deps.Search.IsAvailable() {
				return nil, fmt.Errorf("web search is not configured")
			}

			results, err := deps.Search.Search(ctx, query, numResults)
			if err != nil {
				return nil, fmt.Errorf("web search failed: %w", err)
			}

			return &ToolResult{
				Payload: map[string]interface{}{
					"results_count":     len(results),
					"formatted_results": search.FormatForSpeech(results),
				},
			}, nil
		},
	}
}

// transferTool runs the transfer-to-human state machine and maps each
// outcome to the narration the customer hears.
func transferTool(deps *Deps) Tool {
	return Tool{
		Schema: toolSchema("transfer_to_human",
			"Transfer the call to a human operator when requested. Use this when the user explicitly asks to speak with a human, has complex issues that require human intervention, or when the conversation needs to be escalated.",
			map[string]interface{}{
				"reason": stringParam("Why the customer wants a human operator"),
			},
			[]string{},
		),
		Handler: func(ctx context.Context, args map[string]interface{}) (*ToolResult, error) {
			reason, _ := stringArg(args, "reason")
			if reason == "" {
				reason = "Customer requested human assistance"
			}

			outcome := deps.Transferer.Request(ctx, reason)
			switch outcome {
			case call.Transferred:
				return &ToolResult{
					Narration: "I understand you'd like to speak with a human representative. Let me transfer you to one of our wedding experts who can assist you better.",
					Payload:   map[string]interface{}{"outcome": outcome.String()},
					EndCall:   true,
				}, nil
			case call.TransferLimitExceeded:
				return &ToolResult{
					Narration: "I understand you'd like to speak with a human, but I'm unable to transfer you at the moment. Let me help you with your wedding planning needs instead.",
					Payload:   map[string]interface{}{"outcome": outcome.String()},
				}, nil
			case call.TransferNotConfigured:
				return &ToolResult{
					Narration: "I apologize, but I'm unable to transfer you to a human operator at the moment. Let me help you with your wedding planning needs instead.",
					Payload:   map[string]interface{}{"outcome": outcome.String()},
				}, nil
			case call.TransferInvalidNumber:
				return &ToolResult{
					Narration: "I apologize, but there's an issue with the transfer system. Let me help you with your wedding planning needs instead.",
					Payload:   map[string]interface{}{"outcome": outcome.String()},
				}, nil
			default:
				return &ToolResult{
					Narration: "I apologize, but I'm having trouble connecting you to a human operator right now. Let me continue helping you with your wedding planning needs.",
					Payload:   map[string]interface{}{"outcome": outcome.String()},
				}, nil
			}
		},
	}
}

// endCallTool gracefully terminates the call.
func endCallTool(deps *Deps) Tool {
	return Tool{
		Schema: toolSchema("end_call",
			"End the current call when the user requests to hang up or end the conversation. Use this when the user says goodbye, wants to hang up, end the call, or indicates they are done with the conversation.",
			map[string]interface{}{},
			[]string{},
		),
		Handler: func(ctx context.Context, args map[string]interface{}) (*ToolResult, error) {
			deps.Terminator.End(ctx, "User requested call end")
			return &ToolResult{
				Narration: "Thank you for calling. Have a great day!",
				EndCall:   true,
			}, nil
		},
	}
}

// handoffTool produces a tool that passes the baton to another policy.
func handoffTool(name, description, narration string, next func() *Policy) Tool {
	return Tool{
		Schema: toolSchema(name, description, map[string]interface{}{}, []string{}),
		Handler: func(ctx context.Context, args map[string]interface{}) (*ToolResult, error) {
			return &ToolResult{
				Narration: narration,
				Next:      next(),
			}, nil
		},
	}
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
