package livekit

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Media stream event types.
const (
	EventStart             = "start"
	EventMedia             = "media"
	EventParticipantJoined = "participant_joined"
	EventParticipantLeft   = "participant_left"
	EventStop              = "stop"
)

// StreamEvent is one message on the per-call media stream.
type StreamEvent struct {
	Event       string `json:"event"`
	Room        string `json:"room,omitempty"`
	Participant string `json:"participant,omitempty"`
	SampleRate  int    `json:"sample_rate,omitempty"`
	Media       struct {
		Payload string `json:"payload"` // Base64-encoded PCM16 audio
	} `json:"media,omitempty"`
}

// Audio decodes the media payload of a media event.
func (e *StreamEvent) Audio() ([]byte, error) {
	if e.Event != EventMedia {
		return nil, fmt.Errorf("not a media event: %s", e.Event)
	}
	return base64.StdEncoding.DecodeString(e.Media.Payload)
}

// MediaStream is the full-duplex audio connection for one call. Reads
// deliver platform events; writes publish synthesized agent audio.
type MediaStream struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	room    string
}

// ConnectMediaStream dials the room's media websocket with a fresh
// access token.
func (c *Client) ConnectMediaStream(ctx context.Context, room, identity string) (*MediaStream, error) {
	token, err := AccessToken(c.apiKey, c.apiSecret, identity, VideoGrant{
		Room:         room,
		RoomJoin:     true,
		CanSubscribe: true,
		CanPublish:   true,
	}, time.Hour)
	if err != nil {
		return nil, err
	}

	wsURL := c.baseURL
	if strings.HasPrefix(wsURL, "https://") {
		wsURL = "wss://" + strings.TrimPrefix(wsURL, "https://")
	} else if strings.HasPrefix(wsURL, "http://") {
		wsURL = "ws://" + strings.TrimPrefix(wsURL, "http://")
	}
	wsURL = fmt.Sprintf("%s/rtc?room=%s", wsURL, room)

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, wsURL, header)
	if err != nil {
		return nil, fmt.Errorf("failed to connect media stream: %w", err)
	}

	return &MediaStream{conn: conn, room: room}, nil
}

// ReadEvent blocks until the next stream event arrives. Returns an error
// when the stream closes.
func (s *MediaStream) ReadEvent() (*StreamEvent, error) {
	var ev StreamEvent
	if err := s.conn.ReadJSON(&ev); err != nil {
		return nil, fmt.Errorf("media stream read failed: %w", err)
	}
	return &ev, nil
}

// WriteAudio publishes raw PCM16 audio into the room.
func (s *MediaStream) WriteAudio(audio []byte) error {
	ev := StreamEvent{Event: EventMedia, Room: s.room}
	ev.Media.Payload = base64.StdEncoding.EncodeToString(audio)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(&ev); err != nil {
		return fmt.Errorf("media stream write failed: %w", err)
	}
	return nil
}

// Close tears down the websocket connection.
func (s *MediaStream) Close() error {
	s.writeMu.Lock()
	_ = s.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	s.writeMu.Unlock()
	return s.conn.Close()
}
