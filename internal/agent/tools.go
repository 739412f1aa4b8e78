package agent

import (
	"context"
	"fmt"

	"github.com/Rishabh510/ai-concierge/pkg/ai"
)

// calculatorTool performs basic arithmetic. Divide-by-zero and unknown
// operators surface as tool errors, not session failures.
func calculatorTool() Tool {
	return Tool{
		Schema: toolSchema("calculator",
			"Perform basic arithmetic calculations.",
			map[string]interface{}{
				"num1":     numberParam("First number for the calculation"),
				"num2":     numberParam("Second number for the calculation"),
				"operator": stringParam("Mathematical operator: + for addition, - for subtraction, * for multiplication, / for division"),
			},
			[]string{"num1", "num2", "operator"},
		),
		Handler: func(ctx context.Context, args map[string]interface{}) (*ToolResult, error) {
			num1, ok1 := floatArg(args, "num1")
			num2, ok2 := floatArg(args, "num2")
			operator, ok3 := stringArg(args, "operator")
			if !ok1 || !ok2 || !ok3 {
				return nil, fmt.Errorf("calculator requires num1, num2 and operator")
			}

			var result float64
			switch operator {
			case "+":
				result = num1 + num2
			case "-":
				result = num1 - num2
			case "*":
				result = num1 * num2
			case "/":
				if num2 == 0 {
					return nil, fmt.Errorf("cannot divide by zero")
				}
				result = num1 / num2
			default:
				return nil, fmt.Errorf("unsupported operator: %s", operator)
			}

			return &ToolResult{Payload: map[string]interface{}{"result": result}}, nil
		},
	}
}

// weatherTool returns canned weather data. A real deployment would
// call a weather API here.
func weatherTool() Tool {
	return Tool{
		Schema: toolSchema("weather_lookup",
			"Look up weather information for a given location.",
			map[string]interface{}{
				"location": stringParam("The location to look up weather information for"),
			},
			[]string{"location"},
		),
		Handler: func(ctx context.Context, args map[string]interface{}) (*ToolResult, error) {
			location, ok := stringArg(args, "location")
			if !ok || location == "" {
				return nil, fmt.Errorf("weather_lookup requires a location")
			}
			return &ToolResult{Payload: map[string]interface{}{
				"weather":     "sunny",
				"temperature": "72°F",
				"location":    location,
			}}, nil
		},
	}
}

// Schema construction helpers.

func toolSchema(name, description string, properties map[string]interface{}, required []string) ai.ToolSchema {
	return ai.ToolSchema{
		Name:        name,
		Description: description,
		Parameters: map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}

func stringParam(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

func numberParam(description string) map[string]interface{} {
	return map[string]interface{}{"type": "number", "description": description}
}

func integerParam(description string) map[string]interface{} {
	return map[string]interface{}{"type": "integer", "description": description}
}

func floatArg(args map[string]interface{}, key string) (float64, bool) {
	v, ok := args[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func intArg(args map[string]interface{}, key string) (int, bool) {
	f, ok := floatArg(args, key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func stringArg(args map[string]interface{}, key string) (string, bool) {
	v, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
