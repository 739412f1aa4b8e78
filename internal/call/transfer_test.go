package call

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Rishabh510/ai-concierge/pkg/livekit"
)

type mockTelephony struct {
	dialCalls   int
	dialReq     livekit.SIPParticipantRequest
	dialErr     error
	removeCalls int
	removeErr   error
	deleteCalls int
	deleteErr   error
}

func (m *mockTelephony) CreateSIPParticipant(ctx context.Context, req livekit.SIPParticipantRequest) (*livekit.SIPParticipantInfo, error) {
	m.dialCalls++
	m.dialReq = req
	if m.dialErr != nil {
		return nil, m.dialErr
	}
	return &livekit.SIPParticipantInfo{ParticipantIdentity: req.ParticipantIdentity}, nil
}

func (m *mockTelephony) RemoveParticipant(ctx context.Context, room, identity string) error {
	m.removeCalls++
	return m.removeErr
}

func (m *mockTelephony) DeleteRoom(ctx context.Context, room string) error {
	m.deleteCalls++
	return m.deleteErr
}

func newTestTransferer(tel Telephony, meta *Metadata) *Transferer {
	return NewTransferer(tel, "call_test", "agent", "ST_trunk", 3, meta, time.Now())
}

func TestRequest_Success(t *testing.T) {
	tel := &mockTelephony{}
	tr := newTestTransferer(tel, &Metadata{
		TransferTo:   "+919000000000",
		CustomerName: "Priya",
		PhoneNumber:  "+919876543210",
		City:         "Mumbai",
	})

	outcome := tr.Request(context.Background(), "customer asked for a human")

	if outcome != Transferred {
		t.Fatalf("Expected Transferred, got %s", outcome)
	}
	if tel.dialCalls != 1 {
		t.Errorf("Expected 1 dial, got %d", tel.dialCalls)
	}
	if tel.removeCalls != 1 {
		t.Errorf("Expected agent removed once, got %d", tel.removeCalls)
	}
	if tel.dialReq.SIPCallTo != "+919000000000" {
		t.Errorf("Dialed wrong number %s", tel.dialReq.SIPCallTo)
	}
	if !tel.dialReq.WaitUntilAnswered {
		t.Error("Expected dial to wait until answered")
	}

	attrs := tel.dialReq.Attributes
	if attrs["customer_name"] != "Priya" {
		t.Errorf("Snapshot missing customer name: %v", attrs)
	}
	if attrs["reason"] != "customer asked for a human" {
		t.Errorf("Snapshot missing reason: %v", attrs)
	}
	if attrs["call_duration"] == "" || attrs["transferred_at"] == "" {
		t.Errorf("Snapshot missing duration or timestamp: %v", attrs)
	}
}

func TestRequest_NotConfigured(t *testing.T) {
	tel := &mockTelephony{}
	tr := newTestTransferer(tel, &Metadata{})

	outcome := tr.Request(context.Background(), "help")

	if outcome != TransferNotConfigured {
		t.Fatalf("Expected TransferNotConfigured, got %s", outcome)
	}
	if tel.dialCalls != 0 {
		t.Errorf("Expected no external calls, got %d", tel.dialCalls)
	}
	if tr.Attempts() != 1 {
		t.Errorf("Refused request must still burn an attempt, got %d", tr.Attempts())
	}
}

func TestRequest_InvalidNumber(t *testing.T) {
	tests := []string{"9000000000", "+0123456789", "not-a-number", "+91 90000"}

	for _, target := range tests {
		tel := &mockTelephony{}
		tr := newTestTransferer(tel, &Metadata{TransferTo: target})

		outcome := tr.Request(context.Background(), "help")

		if outcome != TransferInvalidNumber {
			t.Errorf("TransferTo %q: expected TransferInvalidNumber, got %s", target, outcome)
		}
		if tel.dialCalls != 0 {
			t.Errorf("TransferTo %q: expected no external calls, got %d", target, tel.dialCalls)
		}
	}
}

func TestRequest_DialFailureIsAbsorbed(t *testing.T) {
	tel := &mockTelephony{dialErr: errors.New("sip trunk unreachable")}
	tr := newTestTransferer(tel, &Metadata{TransferTo: "+919000000000"})

	outcome := tr.Request(context.Background(), "help")

	if outcome != TransferDialFailed {
		t.Fatalf("Expected TransferDialFailed, got %s", outcome)
	}
	if tel.removeCalls != 0 {
		t.Error("Agent must not be removed when the dial fails")
	}
}

func TestRequest_AttemptLimit(t *testing.T) {
	tel := &mockTelephony{dialErr: errors.New("busy")}
	tr := newTestTransferer(tel, &Metadata{TransferTo: "+919000000000"})

	// Three attempts reach the telephony API and fail.
	for i := 0; i < 3; i++ {
		if outcome := tr.Request(context.Background(), "help"); outcome != TransferDialFailed {
			t.Fatalf("Attempt %d: expected TransferDialFailed, got %s", i+1, outcome)
		}
	}
	if tel.dialCalls != 3 {
		t.Fatalf("Expected 3 dials, got %d", tel.dialCalls)
	}

	// Every request past the cap is refused without touching the API.
	for i := 0; i < 5; i++ {
		if outcome := tr.Request(context.Background(), "help"); outcome != TransferLimitExceeded {
			t.Fatalf("Expected TransferLimitExceeded, got %s", outcome)
		}
	}
	if tel.dialCalls != 3 {
		t.Errorf("Refused requests made external calls: %d dials", tel.dialCalls)
	}
	if tr.Attempts() != 8 {
		t.Errorf("Expected 8 attempts recorded, got %d", tr.Attempts())
	}
}

func TestRequest_RefusalsCountTowardLimit(t *testing.T) {
	// First three requests are refused for a missing target; once the
	// target shows up the cap has already been consumed.
	tel := &mockTelephony{}
	meta := &Metadata{}
	tr := newTestTransferer(tel, meta)

	for i := 0; i < 3; i++ {
		if outcome := tr.Request(context.Background(), "help"); outcome != TransferNotConfigured {
			t.Fatalf("Expected TransferNotConfigured, got %s", outcome)
		}
	}

	meta.TransferTo = "+919000000000"
	if outcome := tr.Request(context.Background(), "help"); outcome != TransferLimitExceeded {
		t.Fatalf("Expected TransferLimitExceeded, got %s", outcome)
	}
	if tel.dialCalls != 0 {
		t.Errorf("Expected no external calls, got %d", tel.dialCalls)
	}
}

func TestRequest_RemoveParticipantFailureStillTransferred(t *testing.T) {
	tel := &mockTelephony{removeErr: errors.New("participant gone")}
	tr := newTestTransferer(tel, &Metadata{TransferTo: "+919000000000"})

	if outcome := tr.Request(context.Background(), "help"); outcome != Transferred {
		t.Fatalf("Expected Transferred despite remove failure, got %s", outcome)
	}
}

func TestOutcomeString(t *testing.T) {
	tests := []struct {
		outcome TransferOutcome
		want    string
	}{
		{Transferred, "transferred"},
		{TransferLimitExceeded, "limit_exceeded"},
		{TransferNotConfigured, "not_configured"},
		{TransferInvalidNumber, "invalid_number"},
		{TransferDialFailed, "dial_failed"},
		{TransferOutcome(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.outcome.String(); got != tt.want {
			t.Errorf("Expected %s, got %s", tt.want, got)
		}
	}
}
