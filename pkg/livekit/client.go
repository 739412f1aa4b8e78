// Package livekit is a thin REST/WebSocket client for the managed
// media/agent platform: rooms, SIP participants, recording egress and
// the per-call media stream. Only the operations the call orchestration
// consumes are implemented.
package livekit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	baseURL    string
	apiKey     string
	apiSecret  string
	httpClient *http.Client
}

// normalizeURL strips a websocket scheme so the REST endpoints can be
// derived from the same PLATFORM_URL setting.
func normalizeURL(raw string) string {
	raw = strings.TrimRight(raw, "/")
	if strings.HasPrefix(raw, "wss://") {
		return "https://" + strings.TrimPrefix(raw, "wss://")
	}
	if strings.HasPrefix(raw, "ws://") {
		return "http://" + strings.TrimPrefix(raw, "ws://")
	}
	return raw
}

func NewClient(baseURL, apiKey, apiSecret string) *Client {
	return &Client{
		baseURL:    normalizeURL(baseURL),
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// post performs an authenticated JSON POST against a platform service
// endpoint and decodes the response into out (when non-nil).
func (c *Client) post(ctx context.Context, service, method string, payload, out interface{}) error {
	endpoint := fmt.Sprintf("%s/twirp/%s/%s", c.baseURL, service, method)

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	token, err := AccessToken(c.apiKey, c.apiSecret, "service", VideoGrant{RoomAdmin: true, RoomCreate: true}, 10*time.Minute)
	if err != nil {
		return err
	}

	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("platform API error: %s (status %d)", string(body), resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

// SIPParticipantRequest dials a phone number into a room as a SIP leg.
type SIPParticipantRequest struct {
	RoomName            string `json:"room_name"`
	SIPTrunkID          string `json:"sip_trunk_id"`
	SIPCallTo           string `json:"sip_call_to"`
	ParticipantIdentity string `json:"participant_identity"`
	ParticipantName     string `json:"participant_name,omitempty"`
	WaitUntilAnswered   bool   `json:"wait_until_answered"`
	// Attributes travel with the participant; used for transfer context.
	Attributes map[string]string `json:"attributes,omitempty"`
}

// SIPParticipantInfo describes a dialed SIP leg.
type SIPParticipantInfo struct {
	ParticipantID       string `json:"participant_id"`
	ParticipantIdentity string `json:"participant_identity"`
	SIPCallID           string `json:"sip_call_id"`
}

// CreateSIPParticipant dials an outbound SIP leg into the room. With
// WaitUntilAnswered set, the call returns only after the remote side
// picks up (or errors).
func (c *Client) CreateSIPParticipant(ctx context.Context, req SIPParticipantRequest) (*SIPParticipantInfo, error) {
	if req.SIPTrunkID == "" {
		return nil, fmt.Errorf("sip trunk id is required")
	}

	var info SIPParticipantInfo
	if err := c.post(ctx, "platform.SIP", "CreateSIPParticipant", req, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// ParticipantInfo describes a room participant.
type ParticipantInfo struct {
	Identity string `json:"identity"`
	Name     string `json:"name"`
	State    string `json:"state"`
}

// ListParticipants lists the current participants of a room.
func (c *Client) ListParticipants(ctx context.Context, room string) ([]ParticipantInfo, error) {
	var resp struct {
		Participants []ParticipantInfo `json:"participants"`
	}
	payload := map[string]string{"room": room}
	if err := c.post(ctx, "platform.RoomService", "ListParticipants", payload, &resp); err != nil {
		return nil, err
	}
	return resp.Participants, nil
}

// RemoveParticipant disconnects one participant from the room.
func (c *Client) RemoveParticipant(ctx context.Context, room, identity string) error {
	payload := map[string]string{"room": room, "identity": identity}
	return c.post(ctx, "platform.RoomService", "RemoveParticipant", payload, nil)
}

// DeleteRoom ends the call for every participant and releases the room.
func (c *Client) DeleteRoom(ctx context.Context, room string) error {
	payload := map[string]string{"room": room}
	return c.post(ctx, "platform.RoomService", "DeleteRoom", payload, nil)
}

// DispatchRequest asks the platform to start an agent in a room.
type DispatchRequest struct {
	AgentName string `json:"agent_name"`
	Room      string `json:"room"`
	Metadata  string `json:"metadata"`
}

// DispatchInfo identifies a created dispatch.
type DispatchInfo struct {
	ID   string `json:"id"`
	Room string `json:"room"`
}

// CreateAgentDispatch assigns an agent to a room with serialized call
// metadata.
func (c *Client) CreateAgentDispatch(ctx context.Context, req DispatchRequest) (*DispatchInfo, error) {
	var info DispatchInfo
	if err := c.post(ctx, "platform.AgentDispatchService", "CreateDispatch", req, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// WaitForParticipant polls the room until a participant other than
// ignoreIdentity is present, or the timeout elapses.
func (c *Client) WaitForParticipant(ctx context.Context, room, ignoreIdentity string, timeout time.Duration) (*ParticipantInfo, error) {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		participants, err := c.ListParticipants(ctx, room)
		if err == nil {
			for i := range participants {
				if participants[i].Identity != ignoreIdentity {
					return &participants[i], nil
				}
			}
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("no participant joined room %s within %s", room, timeout)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
