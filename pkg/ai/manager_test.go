package ai

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

// MockProvider is a mock implementation of Provider for testing
type MockProvider struct {
	name      string
	available bool
	shouldErr bool
	reply     string
	toolCalls []ToolCall
}

func (m *MockProvider) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	if m.shouldErr {
		return nil, errors.New("mock error")
	}
	reply := m.reply
	if reply == "" && len(m.toolCalls) == 0 {
		reply = "Test response"
	}
	return &ChatResponse{
		Content:   reply,
		ToolCalls: m.toolCalls,
		Provider:  m.name,
	}, nil
}

func (m *MockProvider) IsAvailable() bool {
	return m.available
}

func (m *MockProvider) Name() string {
	return m.name
}

func TestManager_GetAvailableProvider(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name      string
		providers []Provider
		want      string
		wantNil   bool
	}{
		{
			name: "returns first available provider",
			providers: []Provider{
				&MockProvider{name: "provider1", available: true},
				&MockProvider{name: "provider2", available: true},
			},
			want: "provider1",
		},
		{
			name: "returns nil when no providers available",
			providers: []Provider{
				&MockProvider{name: "provider1", available: false},
				&MockProvider{name: "provider2", available: false},
			},
			wantNil: true,
		},
		{
			name: "skips unavailable providers",
			providers: []Provider{
				&MockProvider{name: "provider1", available: false},
				&MockProvider{name: "provider2", available: true},
			},
			want: "provider2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(tt.providers, logger)
			got := m.GetAvailableProvider()

			if tt.wantNil {
				if got != nil {
					t.Errorf("Manager.GetAvailableProvider() = %v, want nil", got)
				}
			} else {
				if got == nil {
					t.Errorf("Manager.GetAvailableProvider() = nil, want %v", tt.want)
				} else if got.Name() != tt.want {
					t.Errorf("Manager.GetAvailableProvider() = %v, want %v", got.Name(), tt.want)
				}
			}
		})
	}
}

func TestManager_Chat_WithFallback(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name         string
		providers    []Provider
		wantErr      bool
		wantProvider string
	}{
		{
			name: "succeeds with first provider",
			providers: []Provider{
				&MockProvider{name: "provider1", available: true},
				&MockProvider{name: "provider2", available: true},
			},
			wantProvider: "provider1",
		},
		{
			name: "falls back to second provider when first fails",
			providers: []Provider{
				&MockProvider{name: "provider1", available: true, shouldErr: true},
				&MockProvider{name: "provider2", available: true},
			},
			wantProvider: "provider2",
		},
		{
			name: "errors when all providers fail",
			providers: []Provider{
				&MockProvider{name: "provider1", available: true, shouldErr: true},
				&MockProvider{name: "provider2", available: true, shouldErr: true},
			},
			wantErr: true,
		},
		{
			name:      "errors with no providers",
			providers: nil,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(tt.providers, logger)
			resp, err := m.Chat(context.Background(), &ChatRequest{Instructions: "hi"})

			if tt.wantErr {
				if err == nil {
					t.Fatal("Manager.Chat() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Manager.Chat() error = %v", err)
			}
			if resp.Provider != tt.wantProvider {
				t.Errorf("Manager.Chat() provider = %v, want %v", resp.Provider, tt.wantProvider)
			}
		})
	}
}

func TestManager_Chat_ToolCallsPassThrough(t *testing.T) {
	m := NewManager([]Provider{
		&MockProvider{
			name:      "provider1",
			available: true,
			toolCalls: []ToolCall{{ID: "1", Name: "budget_calculator", Arguments: map[string]interface{}{"number_of_events": 2.0}}},
		},
	}, zap.NewNop())

	resp, err := m.Chat(context.Background(), &ChatRequest{})
	if err != nil {
		t.Fatalf("Manager.Chat() error = %v", err)
	}
	if len(resp.ToolCalls) != 1 || resp.ToolCalls[0].Name != "budget_calculator" {
		t.Errorf("Manager.Chat() tool calls = %+v", resp.ToolCalls)
	}
}
