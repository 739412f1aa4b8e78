package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Rishabh510/ai-concierge/pkg/env"
	"github.com/Rishabh510/ai-concierge/pkg/livekit"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newPlatformStub answers every platform RPC with an empty success so
// handler tests never hang on the real service.
func newPlatformStub(t *testing.T) *livekit.Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"AD_test","room":"test"}`))
	}))
	t.Cleanup(server.Close)
	return livekit.NewClient(server.URL, "api-key", "api-secret")
}

func newTestHandler(t *testing.T) *Handler {
	cfg := &env.Config{
		AgentIdentity:         "concierge-agent",
		SIPOutboundTrunkID:    "ST_trunk",
		ParticipantTimeoutSec: 0,
	}
	return NewHandler(cfg, nil, nil, newPlatformStub(t), nil, nil, nil, nil, nil)
}

func postDispatch(t *testing.T, h *Handler, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/calls/dispatch", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")

	h.DispatchCall(c)
	return w
}

func TestDispatchCall_Accepted(t *testing.T) {
	h := newTestHandler(t)

	w := postDispatch(t, h, DispatchRequest{
		PhoneNumber:  "+919876543210",
		CustomerName: "Priya",
		City:         "Bangalore",
		TransferTo:   "+919000000000",
	})

	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected 202, got %d: %s", w.Code, w.Body.String())
	}

	var resp DispatchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid response body: %v", err)
	}
	if resp.CallID == "" {
		t.Error("Expected a call_id")
	}
	if resp.Status != "dispatched" {
		t.Errorf("Expected dispatched status, got %s", resp.Status)
	}
	if resp.Warning != "" {
		t.Errorf("Unexpected warning with trunk configured: %s", resp.Warning)
	}
}

func TestDispatchCall_WarnsWithoutTrunk(t *testing.T) {
	h := newTestHandler(t)
	h.cfg.SIPOutboundTrunkID = ""

	w := postDispatch(t, h, DispatchRequest{PhoneNumber: "+919876543210"})

	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected 202, got %d", w.Code)
	}
	var resp DispatchResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Warning == "" {
		t.Error("Expected a trunk warning")
	}
}

func TestDispatchCall_NormalizesBareIndianNumber(t *testing.T) {
	h := newTestHandler(t)

	w := postDispatch(t, h, DispatchRequest{PhoneNumber: "9876543210"})

	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected 202, got %d: %s", w.Code, w.Body.String())
	}
	var resp DispatchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid response body: %v", err)
	}
	if !strings.HasPrefix(resp.Room, "outbound_919876543210_") {
		t.Errorf("Room = %q, want normalized 919876543210 prefix", resp.Room)
	}
}

func TestDispatchCall_Validation(t *testing.T) {
	longName := make([]byte, 101)
	longCity := make([]byte, 51)
	for i := range longName {
		longName[i] = 'a'
	}
	for i := range longCity {
		longCity[i] = 'b'
	}

	tests := []struct {
		name string
		req  DispatchRequest
	}{
		{"missing phone", DispatchRequest{}},
		{"too short to normalize", DispatchRequest{PhoneNumber: "12345"}},
		{"leading zero", DispatchRequest{PhoneNumber: "+0123456789"}},
		{"bad transfer number", DispatchRequest{PhoneNumber: "+919876543210", TransferTo: "12345"}},
		{"customer name too long", DispatchRequest{PhoneNumber: "+919876543210", CustomerName: string(longName)}},
		{"city too long", DispatchRequest{PhoneNumber: "+919876543210", City: string(longCity)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t)
			w := postDispatch(t, h, tt.req)
			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/problem+json" {
				t.Errorf("Expected problem+json, got %s", ct)
			}
		})
	}
}

func TestInboundCall_Accepted(t *testing.T) {
	h := newTestHandler(t)

	payload, _ := json.Marshal(InboundRequest{Room: "inbound_room_42"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/calls/inbound", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")

	h.InboundCall(c)

	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected 202, got %d", w.Code)
	}
	var resp InboundResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Room != "inbound_room_42" || resp.CallID == "" {
		t.Errorf("Unexpected response %+v", resp)
	}
}

func TestInboundCall_RequiresRoom(t *testing.T) {
	h := newTestHandler(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/calls/inbound", bytes.NewReader([]byte(`{}`)))
	c.Request.Header.Set("Content-Type", "application/json")

	h.InboundCall(c)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}
