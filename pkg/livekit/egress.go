package livekit

import (
	"context"
	"fmt"
)

// Recording file formats supported by the egress service.
const (
	FileFormatOGG  = "ogg"
	FileFormatMP4  = "mp4"
	FileFormatWebM = "webm"
)

// S3Upload configures the egress destination bucket.
type S3Upload struct {
	Bucket    string `json:"bucket"`
	Region    string `json:"region"`
	AccessKey string `json:"access_key"`
	Secret    string `json:"secret"`
}

// EncodedFileOutput describes one recording artifact.
type EncodedFileOutput struct {
	FileType string   `json:"file_type"`
	Filepath string   `json:"filepath"`
	S3       S3Upload `json:"s3"`
}

// RoomCompositeEgressRequest starts a mixed recording of the whole room.
type RoomCompositeEgressRequest struct {
	RoomName    string              `json:"room_name"`
	AudioOnly   bool                `json:"audio_only"`
	FileOutputs []EncodedFileOutput `json:"file_outputs"`
}

// EgressInfo reports the state of a recording job.
type EgressInfo struct {
	EgressID  string `json:"egress_id"`
	Status    string `json:"status"`
	StartedAt int64  `json:"started_at"`
	EndedAt   int64  `json:"ended_at"`
	Error     string `json:"error"`
}

// StartRoomCompositeEgress starts recording a room and returns the job
// handle.
func (c *Client) StartRoomCompositeEgress(ctx context.Context, req RoomCompositeEgressRequest) (*EgressInfo, error) {
	if len(req.FileOutputs) == 0 {
		return nil, fmt.Errorf("at least one file output is required")
	}

	var info EgressInfo
	if err := c.post(ctx, "platform.Egress", "StartRoomCompositeEgress", req, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// StopEgress stops a running recording job.
func (c *Client) StopEgress(ctx context.Context, egressID string) error {
	payload := map[string]string{"egress_id": egressID}
	return c.post(ctx, "platform.Egress", "StopEgress", payload, nil)
}

// GetEgress fetches the status of a recording job.
func (c *Client) GetEgress(ctx context.Context, egressID string) (*EgressInfo, error) {
	var info EgressInfo
	payload := map[string]string{"egress_id": egressID}
	if err := c.post(ctx, "platform.Egress", "GetEgress", payload, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
