package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Rishabh510/ai-concierge/internal/agent"
	"github.com/Rishabh510/ai-concierge/pkg/metrics"
	"github.com/Rishabh510/ai-concierge/pkg/stt"
	"github.com/Rishabh510/ai-concierge/pkg/tts"
)

// Transcriber converts buffered speech audio to text.
type Transcriber interface {
	Transcribe(ctx context.Context, req *stt.Request) (*stt.Response, error)
	IsAvailable() bool
}

// Synthesizer converts agent text to speech audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, req *tts.Request) ([]byte, error)
	IsAvailable() bool
}

// AudioWriter publishes synthesized audio back to the call.
type AudioWriter interface {
	WriteAudio(audio []byte) error
}

// AudioBuffer accumulates inbound audio chunks until a turn is ready
// for transcription. A turn is ready when the buffer fills or when
// 1.5 seconds pass without processing (treated as end of speech).
type AudioBuffer struct {
	mu          sync.Mutex
	chunks      [][]byte
	totalSize   int
	maxSize     int
	lastProcess time.Time
	sampleRate  int
}

// NewAudioBuffer creates an audio buffer. maxSize is in bytes; one
// second of PCM16 at 16kHz is 32000 bytes.
func NewAudioBuffer(maxSize, sampleRate int) *AudioBuffer {
	if sampleRate == 0 {
		sampleRate = 16000
	}
	return &AudioBuffer{
		chunks:      make([][]byte, 0),
		maxSize:     maxSize,
		lastProcess: time.Now(),
		sampleRate:  sampleRate,
	}
}

// Append adds an audio chunk to the buffer.
func (ab *AudioBuffer) Append(chunk []byte) {
	ab.mu.Lock()
	defer ab.mu.Unlock()
	ab.chunks = append(ab.chunks, chunk)
	ab.totalSize += len(chunk)
}

// Data returns all buffered audio.
func (ab *AudioBuffer) Data() []byte {
	ab.mu.Lock()
	defer ab.mu.Unlock()
	result := make([]byte, 0, ab.totalSize)
	for _, chunk := range ab.chunks {
		result = append(result, chunk...)
	}
	return result
}

// Size returns the buffered byte count.
func (ab *AudioBuffer) Size() int {
	ab.mu.Lock()
	defer ab.mu.Unlock()
	return ab.totalSize
}

// IsReady reports whether a turn should be processed: buffer full or
// 1.5 seconds since the last turn.
func (ab *AudioBuffer) IsReady() bool {
	ab.mu.Lock()
	defer ab.mu.Unlock()
	return ab.totalSize >= ab.maxSize || time.Since(ab.lastProcess) >= 1500*time.Millisecond
}

// Clear resets the buffer for the next turn.
func (ab *AudioBuffer) Clear() {
	ab.mu.Lock()
	defer ab.mu.Unlock()
	ab.chunks = ab.chunks[:0]
	ab.totalSize = 0
	ab.lastProcess = time.Now()
}

// Pipeline runs one customer turn end to end: buffered audio through
// speech recognition, the conversation engine, and speech synthesis
// back onto the call.
type Pipeline struct {
	stt      Transcriber
	tts      Synthesizer
	engine   *agent.Engine
	writer   AudioWriter
	buffer   *AudioBuffer
	language string
	log      *zap.Logger

	// serializes turns so overlapping IsReady ticks cannot process
	// the same audio twice
	processingMu sync.Mutex
}

// NewPipeline wires the speech pipeline for one call session.
func NewPipeline(transcriber Transcriber, synthesizer Synthesizer, engine *agent.Engine, writer AudioWriter, buffer *AudioBuffer, language string, log *zap.Logger) *Pipeline {
	return &Pipeline{
		stt:      transcriber,
		tts:      synthesizer,
		engine:   engine,
		writer:   writer,
		buffer:   buffer,
		language: language,
		log:      log,
	}
}

// ProcessTurn drains the audio buffer and runs one conversational
// turn. Returns the engine reply (nil when the audio carried no
// recognizable speech).
func (p *Pipeline) ProcessTurn(ctx context.Context) (*agent.Reply, error) {
	p.processingMu.Lock()
	defer p.processingMu.Unlock()

	audio := p.buffer.Data()
	p.buffer.Clear()
	if len(audio) == 0 {
		return nil, nil
	}

	start := time.Now()
	transcript, err := p.stt.Transcribe(ctx, &stt.Request{
		AudioData:  audio,
		SampleRate: p.buffer.sampleRate,
		Language:   p.language,
		Punctuate:  true,
	})
	metrics.RecordServiceCall("deepgram", err == nil, time.Since(start))
	if err != nil {
		return nil, err
	}
	if transcript.Text == "" {
		return nil, nil
	}

	p.log.Debug("Customer turn transcribed", zap.String("text", transcript.Text))

	start = time.Now()
	reply, err := p.engine.HandleUtterance(ctx, transcript.Text)
	metrics.RecordServiceCall("llm", err == nil, time.Since(start))
	if err != nil {
		return nil, err
	}

	if err := p.Speak(ctx, reply); err != nil {
		return reply, err
	}
	return reply, nil
}

// Speak synthesizes a reply and writes it to the call.
func (p *Pipeline) Speak(ctx context.Context, reply *agent.Reply) error {
	if reply == nil || reply.Text == "" {
		return nil
	}

	start := time.Now()
	audio, err := p.tts.Synthesize(ctx, &tts.Request{
		Text:    reply.Text,
		VoiceID: reply.VoiceID,
	})
	metrics.RecordServiceCall("elevenlabs", err == nil, time.Since(start))
	if err != nil {
		return err
	}

	return p.writer.WriteAudio(audio)
}
