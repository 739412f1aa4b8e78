// Package recording manages audio egress to S3 for call sessions.
// Recording is strictly best-effort: a misconfigured or failing recorder
// never blocks a call.
package recording

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/Rishabh510/ai-concierge/pkg/livekit"
	"github.com/Rishabh510/ai-concierge/pkg/retry"
)

// Config for audio recording.
type Config struct {
	Enabled    bool
	S3Bucket   string
	S3Region   string
	AccessKey  string
	SecretKey  string
	FileFormat string // ogg, mp4, webm
	AudioOnly  bool
}

// Egress is the subset of the platform client the recorder uses.
type Egress interface {
	StartRoomCompositeEgress(ctx context.Context, req livekit.RoomCompositeEgressRequest) (*livekit.EgressInfo, error)
	StopEgress(ctx context.Context, egressID string) error
	GetEgress(ctx context.Context, egressID string) (*livekit.EgressInfo, error)
}

// Service manages the recording lifecycle for one call.
type Service struct {
	cfg    Config
	egress Egress
	logger *zap.Logger

	mu       sync.Mutex
	egressID string
	started  bool
}

// Status reports the state of a recording job.
type Status struct {
	EgressID  string
	Status    string
	StartedAt int64
	EndedAt   int64
	Error     string
}

// New validates the configuration and builds a recorder. Returns nil
// (not an error) when recording is disabled or the S3 destination is
// incomplete or unreachable, in which case the session runs unrecorded.
func New(ctx context.Context, cfg Config, egress Egress, logger *zap.Logger) *Service {
	if !cfg.Enabled {
		logger.Info("Audio recording is disabled")
		return nil
	}

	if cfg.S3Bucket == "" || cfg.AccessKey == "" || cfg.SecretKey == "" {
		logger.Warn("S3 recording configuration incomplete, recording disabled")
		return nil
	}

	if err := checkBucket(ctx, cfg); err != nil {
		logger.Warn("Recording bucket is not accessible, recording disabled",
			zap.String("bucket", cfg.S3Bucket),
			zap.Error(err),
		)
		return nil
	}

	return &Service{cfg: cfg, egress: egress, logger: logger}
}

// checkBucket verifies the destination bucket exists and the supplied
// credentials can reach it before any call depends on it.
func checkBucket(ctx context.Context, cfg Config) error {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(cfg.S3Bucket),
	}); err != nil {
		return fmt.Errorf("head bucket %s: %w", cfg.S3Bucket, err)
	}

	return nil
}

// Start begins recording the room. Returns false when the egress could
// not be started; the call proceeds either way.
func (s *Service) Start(ctx context.Context, room string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return true
	}

	format := s.cfg.FileFormat
	switch format {
	case livekit.FileFormatOGG, livekit.FileFormatMP4, livekit.FileFormatWebM:
	default:
		format = livekit.FileFormatOGG
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("recordings/%s_%s.%s", room, timestamp, format)

	var info *livekit.EgressInfo
	err := retry.Do(ctx, retry.DefaultPolicy(), func(attempt int) error {
		var err error
		info, err = s.egress.StartRoomCompositeEgress(ctx, livekit.RoomCompositeEgressRequest{
			RoomName:  room,
			AudioOnly: s.cfg.AudioOnly,
			FileOutputs: []livekit.EncodedFileOutput{{
				FileType: format,
				Filepath: filename,
				S3: livekit.S3Upload{
					Bucket:    s.cfg.S3Bucket,
					Region:    s.cfg.S3Region,
					AccessKey: s.cfg.AccessKey,
					Secret:    s.cfg.SecretKey,
				},
			}},
		})
		return err
	})
	if err != nil {
		s.logger.Error("Failed to start recording", zap.String("room", room), zap.Error(err))
		return false
	}

	s.egressID = info.EgressID
	s.started = true

	s.logger.Info("Recording started",
		zap.String("room", room),
		zap.String("egress_id", s.egressID),
		zap.String("destination", fmt.Sprintf("s3://%s/%s", s.cfg.S3Bucket, filename)),
	)

	return true
}

// Stop ends the current recording. Safe to call when nothing was
// started.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started || s.egressID == "" {
		return nil
	}

	if err := s.egress.StopEgress(ctx, s.egressID); err != nil {
		return fmt.Errorf("failed to stop recording %s: %w", s.egressID, err)
	}

	s.logger.Info("Recording stopped", zap.String("egress_id", s.egressID))
	s.egressID = ""
	s.started = false
	return nil
}

// GetStatus fetches the recording job status, or nil when no recording
// is active.
func (s *Service) GetStatus(ctx context.Context) (*Status, error) {
	s.mu.Lock()
	egressID := s.egressID
	s.mu.Unlock()

	if egressID == "" {
		return nil, nil
	}

	info, err := s.egress.GetEgress(ctx, egressID)
	if err != nil {
		return nil, err
	}

	return &Status{
		EgressID:  info.EgressID,
		Status:    info.Status,
		StartedAt: info.StartedAt,
		EndedAt:   info.EndedAt,
		Error:     info.Error,
	}, nil
}
