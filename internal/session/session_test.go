package session

import (
	"context"
	"encoding/base64"
	"io"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Rishabh510/ai-concierge/internal/agent"
	"github.com/Rishabh510/ai-concierge/internal/call"
	"github.com/Rishabh510/ai-concierge/pkg/ai"
	"github.com/Rishabh510/ai-concierge/pkg/env"
	"github.com/Rishabh510/ai-concierge/pkg/livekit"
)

// fakeStream replays scripted media events.
type fakeStream struct {
	events []*livekit.StreamEvent
	writes int
	closed bool
}

func (f *fakeStream) ReadEvent() (*livekit.StreamEvent, error) {
	if len(f.events) == 0 {
		return nil, io.EOF
	}
	ev := f.events[0]
	f.events = f.events[1:]
	return ev, nil
}

func (f *fakeStream) WriteAudio(audio []byte) error {
	f.writes++
	return nil
}

func (f *fakeStream) Close() error {
	f.closed = true
	return nil
}

func mediaEvent(audio []byte) *livekit.StreamEvent {
	ev := &livekit.StreamEvent{Event: livekit.EventMedia}
	ev.Media.Payload = base64.StdEncoding.EncodeToString(audio)
	return ev
}

func newTestSession(meta *call.Metadata, responses ...*ai.ChatResponse) (*Session, *fakeTranscriber, *fakeSynthesizer) {
	tel := fakeTelephony{}
	startedAt := time.Now()
	transferer := call.NewTransferer(tel, "call_test", "agent", "ST_trunk", 3, meta, startedAt)
	terminator := call.NewTerminator(tel, "call_test")
	deps := &agent.Deps{
		Meta:       meta,
		Transferer: transferer,
		Terminator: terminator,
		Logger:     zap.NewNop(),
	}
	manager := ai.NewManager([]ai.Provider{&scriptedProvider{responses: responses}}, zap.NewNop())
	engine := agent.NewEngine(manager, meta, agent.NewMasterPolicy(deps), zap.NewNop())

	transcriber := &fakeTranscriber{text: "hello"}
	synth := &fakeSynthesizer{}

	return &Session{
		p: Params{
			Config:      &env.Config{STTLanguage: "en", ParticipantTimeoutSec: 30},
			Transcriber: transcriber,
			Synthesizer: synth,
			CallID:      "test-call",
			Room:        "call_test",
		},
		meta:       meta,
		transferer: transferer,
		terminator: terminator,
		engine:     engine,
		startedAt:  startedAt,
		log:        zap.NewNop(),
		outcome:    "failed",
	}, transcriber, synth
}

func TestConverse_GreetsFirst(t *testing.T) {
	sess, _, synth := newTestSession(&call.Metadata{CustomerName: "Priya", GreetingTime: "morning"})
	stream := &fakeStream{}

	if err := sess.converse(context.Background(), stream); err != nil {
		t.Fatalf("converse failed: %v", err)
	}

	if len(synth.spoken) == 0 {
		t.Fatal("Expected a greeting to be synthesized")
	}
	if synth.spoken[0] != "Good morning, Priya. How can I help you?" {
		t.Errorf("Unexpected greeting %q", synth.spoken[0])
	}
	if stream.writes != 1 {
		t.Errorf("Expected greeting written to stream, got %d writes", stream.writes)
	}
}

func TestConverse_TurnAndStop(t *testing.T) {
	sess, transcriber, synth := newTestSession(
		&call.Metadata{CustomerName: "Priya"},
		&ai.ChatResponse{Content: "Happy to help with your wedding."},
	)
	transcriber.text = "Tell me about your services"

	// One full second of audio forces a turn, then the platform stops
	// the stream.
	stream := &fakeStream{events: []*livekit.StreamEvent{
		mediaEvent(make([]byte, turnBufferBytes)),
		{Event: livekit.EventStop},
	}}

	if err := sess.converse(context.Background(), stream); err != nil {
		t.Fatalf("converse failed: %v", err)
	}

	if transcriber.calls != 1 {
		t.Errorf("Expected 1 transcription, got %d", transcriber.calls)
	}
	if len(synth.spoken) != 2 {
		t.Fatalf("Expected greeting plus one reply, got %v", synth.spoken)
	}
	if synth.spoken[1] != "Happy to help with your wedding." {
		t.Errorf("Unexpected reply %q", synth.spoken[1])
	}
	if sess.outcome != "completed" {
		t.Errorf("Expected completed outcome, got %s", sess.outcome)
	}
}

func TestConverse_EndCallStopsSession(t *testing.T) {
	sess, transcriber, _ := newTestSession(
		&call.Metadata{CustomerName: "Priya"},
		&ai.ChatResponse{ToolCalls: []ai.ToolCall{{ID: "tc_1", Name: "end_call"}}},
	)
	transcriber.text = "Goodbye"

	stream := &fakeStream{events: []*livekit.StreamEvent{
		mediaEvent(make([]byte, turnBufferBytes)),
		// Never reached: the end_call reply exits the loop first.
		mediaEvent(make([]byte, turnBufferBytes)),
	}}

	if err := sess.converse(context.Background(), stream); err != nil {
		t.Fatalf("converse failed: %v", err)
	}

	if sess.outcome != "completed" {
		t.Errorf("Expected completed outcome, got %s", sess.outcome)
	}
	if !sess.terminator.Ended() {
		t.Error("end_call must terminate the call")
	}
	if len(stream.events) != 1 {
		t.Error("Loop must exit on EndCall reply")
	}
}

func TestConverse_TransferOutcome(t *testing.T) {
	meta := &call.Metadata{CustomerName: "Priya", TransferTo: "+919000000000"}
	sess, transcriber, _ := newTestSession(meta,
		&ai.ChatResponse{ToolCalls: []ai.ToolCall{{ID: "tc_1", Name: "transfer_to_human"}}},
	)
	transcriber.text = "I want to speak to a human"

	stream := &fakeStream{events: []*livekit.StreamEvent{
		mediaEvent(make([]byte, turnBufferBytes)),
	}}

	if err := sess.converse(context.Background(), stream); err != nil {
		t.Fatalf("converse failed: %v", err)
	}

	if sess.outcome != "transferred" {
		t.Errorf("Expected transferred outcome, got %s", sess.outcome)
	}
	if sess.terminator.Ended() {
		t.Error("Transfer must leave the room alive for the bridged humans")
	}
}

func TestConverse_ParticipantLeft(t *testing.T) {
	sess, _, _ := newTestSession(&call.Metadata{})

	stream := &fakeStream{events: []*livekit.StreamEvent{
		{Event: livekit.EventParticipantLeft, Participant: "customer"},
	}}

	if err := sess.converse(context.Background(), stream); err != nil {
		t.Fatalf("converse failed: %v", err)
	}

	if sess.outcome != "completed" {
		t.Errorf("Expected completed outcome, got %s", sess.outcome)
	}
	if !sess.terminator.Ended() {
		t.Error("Hang-up must release the room")
	}
}

func TestConverse_CancelledContext(t *testing.T) {
	sess, _, _ := newTestSession(&call.Metadata{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stream := &fakeStream{events: []*livekit.StreamEvent{
		mediaEvent([]byte{1, 2, 3}),
	}}

	if err := sess.converse(ctx, stream); err == nil {
		t.Fatal("Expected context error")
	}
	if sess.outcome != "cancelled" {
		t.Errorf("Expected cancelled outcome, got %s", sess.outcome)
	}
}

func TestDialCustomer_RequiresTrunk(t *testing.T) {
	sess, _, _ := newTestSession(&call.Metadata{
		PhoneNumber: "+919876543210",
		CallType:    call.TypeOutbound,
	})
	sess.p.Config.SIPOutboundTrunkID = ""

	if err := sess.dialCustomer(context.Background()); err == nil {
		t.Error("Outbound dial without a trunk must fail")
	}
}

func TestDialCustomer_RejectsInvalidNumber(t *testing.T) {
	sess, _, _ := newTestSession(&call.Metadata{
		PhoneNumber: "9876543210",
		CallType:    call.TypeOutbound,
	})
	sess.p.Config.SIPOutboundTrunkID = "ST_trunk"

	if err := sess.dialCustomer(context.Background()); err == nil {
		t.Error("Outbound dial with a non-E.164 number must fail")
	}
}
