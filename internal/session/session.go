// Package session runs one voice call end to end: dialing (for
// outbound calls), waiting for the customer, streaming audio through
// the speech pipeline, and unconditional teardown.
package session

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Rishabh510/ai-concierge/internal/agent"
	"github.com/Rishabh510/ai-concierge/internal/call"
	"github.com/Rishabh510/ai-concierge/internal/store"
	"github.com/Rishabh510/ai-concierge/pkg/ai"
	"github.com/Rishabh510/ai-concierge/pkg/env"
	"github.com/Rishabh510/ai-concierge/pkg/livekit"
	"github.com/Rishabh510/ai-concierge/pkg/logger"
	"github.com/Rishabh510/ai-concierge/pkg/metrics"
	"github.com/Rishabh510/ai-concierge/pkg/recording"
	"github.com/Rishabh510/ai-concierge/pkg/search"
	"github.com/Rishabh510/ai-concierge/pkg/validation"
)

// one second of PCM16 audio at 16kHz
const turnBufferBytes = 32000

// EventStream is the duplex media connection for one call.
type EventStream interface {
	ReadEvent() (*livekit.StreamEvent, error)
	WriteAudio(audio []byte) error
	Close() error
}

// Params carries everything a session needs. The HTTP layer fills it
// and runs the session on its own goroutine.
type Params struct {
	Config      *env.Config
	Platform    *livekit.Client
	AIManager   *ai.Manager
	Transcriber Transcriber
	Synthesizer Synthesizer
	Search      *search.Client
	Store       *store.CallStore

	CallID      string
	Room        string
	RawMetadata string
}

// Session is the state for one live call.
type Session struct {
	p          Params
	meta       *call.Metadata
	transferer *call.Transferer
	terminator *call.Terminator
	engine     *agent.Engine
	recorder   *recording.Service
	startedAt  time.Time
	log        *zap.Logger

	outcome string
}

// New builds a session from dispatch parameters.
func New(p Params) *Session {
	meta := call.ParseMetadata(p.RawMetadata)
	startedAt := time.Now()

	log := logger.Log.With(
		zap.String("call_id", p.CallID),
		zap.String("room", p.Room),
		zap.String("call_type", meta.CallType),
	)

	transferer := call.NewTransferer(
		p.Platform, p.Room, p.Config.AgentIdentity, p.Config.SIPOutboundTrunkID,
		p.Config.MaxTransferAttempts, meta, startedAt,
	)
	terminator := call.NewTerminator(p.Platform, p.Room)

	deps := &agent.Deps{
		Meta:       meta,
		Transferer: transferer,
		Terminator: terminator,
		Search:     p.Search,
		Logger:     log,
	}
	engine := agent.NewEngine(p.AIManager, meta, agent.NewMasterPolicy(deps), log)

	return &Session{
		p:          p,
		meta:       meta,
		transferer: transferer,
		terminator: terminator,
		engine:     engine,
		startedAt:  startedAt,
		log:        log,
		outcome:    "failed",
	}
}

// Run executes the call. Cleanup (recording stop, room release, call
// record persistence) runs unconditionally, wherever the session
// errors.
func (s *Session) Run(ctx context.Context) error {
	metrics.CallStarted()
	defer s.teardown()

	s.log.Info("Call session starting", logger.SafeFields(map[string]interface{}{
		"phone_number":  s.meta.PhoneNumber,
		"customer_name": s.meta.CustomerName,
		"city":          s.meta.City,
		"call_type":     s.meta.CallType,
	})...)

	if s.meta.IsOutbound() {
		if err := s.dialCustomer(ctx); err != nil {
			return err
		}
	}

	timeout := time.Duration(s.p.Config.ParticipantTimeoutSec) * time.Second
	participant, err := s.p.Platform.WaitForParticipant(ctx, s.p.Room, s.p.Config.AgentIdentity, timeout)
	if err != nil {
		s.outcome = "abandoned"
		return fmt.Errorf("no participant joined: %w", err)
	}
	s.log.Info("Participant joined", zap.String("identity", participant.Identity))

	stream, err := s.p.Platform.ConnectMediaStream(ctx, s.p.Room, s.p.Config.AgentIdentity)
	if err != nil {
		return fmt.Errorf("failed to connect media stream: %w", err)
	}
	defer stream.Close()

	s.recorder = recording.New(ctx, recording.Config{
		Enabled:    s.p.Config.RecordingEnabled,
		S3Bucket:   s.p.Config.S3RecordingBucket,
		S3Region:   s.p.Config.S3RecordingRegion,
		AccessKey:  s.p.Config.AWSAccessKeyID,
		SecretKey:  s.p.Config.AWSSecretAccessKey,
		FileFormat: s.p.Config.RecordingFormat,
		AudioOnly:  s.p.Config.RecordingAudioOnly,
	}, s.p.Platform, s.log)
	if s.recorder != nil {
		s.recorder.Start(ctx, s.p.Room)
	}

	return s.converse(ctx, stream)
}

// dialCustomer places the outbound SIP leg. An outbound call without
// a configured trunk cannot proceed.
func (s *Session) dialCustomer(ctx context.Context) error {
	if s.p.Config.SIPOutboundTrunkID == "" {
		return fmt.Errorf("outbound call requires a SIP trunk")
	}
	if err := validation.ValidateE164(s.meta.PhoneNumber); err != nil {
		return fmt.Errorf("invalid customer number: %w", err)
	}

	s.log.Info("Dialing customer",
		logger.MaskPhoneIfPresent("phone_number", s.meta.PhoneNumber),
	)

	_, err := s.p.Platform.CreateSIPParticipant(ctx, livekit.SIPParticipantRequest{
		RoomName:            s.p.Room,
		SIPTrunkID:          s.p.Config.SIPOutboundTrunkID,
		SIPCallTo:           s.meta.PhoneNumber,
		ParticipantIdentity: "customer",
		ParticipantName:     s.meta.CustomerName,
		WaitUntilAnswered:   true,
	})
	if err != nil {
		return fmt.Errorf("outbound dial failed: %w", err)
	}
	return nil
}

// converse greets and then pumps media events through the pipeline
// until the call ends.
func (s *Session) converse(ctx context.Context, stream EventStream) error {
	buffer := NewAudioBuffer(turnBufferBytes, 16000)
	pipeline := NewPipeline(s.p.Transcriber, s.p.Synthesizer, s.engine, stream, buffer, s.p.Config.STTLanguage, s.log)

	if err := pipeline.Speak(ctx, s.engine.Greet()); err != nil {
		s.log.Warn("Failed to speak greeting", zap.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			s.outcome = "cancelled"
			return ctx.Err()
		default:
		}

		event, err := stream.ReadEvent()
		if err != nil {
			// The platform closes the stream when the room goes away.
			s.outcome = "completed"
			return nil
		}

		switch event.Event {
		case livekit.EventMedia:
			audio, err := event.Audio()
			if err != nil {
				s.log.Warn("Undecodable media payload", zap.Error(err))
				continue
			}
			buffer.Append(audio)

			if !buffer.IsReady() {
				continue
			}
			reply, err := pipeline.ProcessTurn(ctx)
			if err != nil {
				s.log.Error("Turn processing failed", zap.Error(err))
				continue
			}
			if reply != nil && reply.EndCall {
				// end_call has already released the room via the
				// terminator; a successful transfer has not, and must
				// leave the room alive for the bridged humans.
				if s.terminator.Ended() {
					s.outcome = "completed"
				} else {
					s.outcome = "transferred"
				}
				return nil
			}

		case livekit.EventParticipantLeft:
			s.log.Info("Participant left", zap.String("identity", event.Participant))
			s.outcome = "completed"
			s.terminator.End(ctx, "customer hung up")
			return nil

		case livekit.EventStop:
			s.outcome = "completed"
			return nil
		}
	}
}

// teardown runs unconditionally when the session exits.
func (s *Session) teardown() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if s.recorder != nil {
		if err := s.recorder.Stop(ctx); err != nil {
			s.log.Warn("Failed to stop recording", zap.Error(err))
		}
	}

	// A transferred call's room stays alive for the bridged humans;
	// every other exit path releases it here.
	if s.outcome != "transferred" {
		s.terminator.End(ctx, "session cleanup")
	}

	ended := time.Now()
	s.p.Store.SaveAnalytics(ctx, &call.Analytics{
		CallID:           s.p.CallID,
		Room:             s.p.Room,
		PhoneNumber:      s.meta.PhoneNumber,
		CustomerName:     s.meta.CustomerName,
		City:             s.meta.City,
		CallType:         s.meta.CallType,
		Outcome:          s.outcome,
		TransferAttempts: s.transferer.Attempts(),
		Turns:            s.engine.History().UserTurns(),
		StartedAt:        s.startedAt,
		EndedAt:          ended,
		Duration:         call.FormatCallDuration(ended.Sub(s.startedAt)),
	})

	metrics.CallEnded(s.outcome)
	s.log.Info("Call session finished",
		zap.String("outcome", s.outcome),
		zap.String("duration", call.FormatCallDuration(ended.Sub(s.startedAt))),
	)
}
