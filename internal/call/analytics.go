package call

import (
	"fmt"
	"time"
)

// Analytics is the summary persisted when a call ends.
type Analytics struct {
	CallID           string    `bson:"call_id" json:"call_id"`
	Room             string    `bson:"room" json:"room"`
	PhoneNumber      string    `bson:"phone_number,omitempty" json:"phone_number,omitempty"`
	CustomerName     string    `bson:"customer_name,omitempty" json:"customer_name,omitempty"`
	City             string    `bson:"city,omitempty" json:"city,omitempty"`
	CallType         string    `bson:"call_type" json:"call_type"`
	Outcome          string    `bson:"outcome" json:"outcome"`
	EndReason        string    `bson:"end_reason,omitempty" json:"end_reason,omitempty"`
	TransferAttempts int       `bson:"transfer_attempts" json:"transfer_attempts"`
	Turns            int       `bson:"turns" json:"turns"`
	StartedAt        time.Time `bson:"started_at" json:"started_at"`
	EndedAt          time.Time `bson:"ended_at" json:"ended_at"`
	Duration         string    `bson:"duration" json:"duration"`
}

// FormatCallDuration renders a duration for operators and speech.
// Under a minute: "45 seconds". Under an hour: "3m 10s". Longer:
// "1h 5m".
func FormatCallDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	seconds := int(d.Seconds())
	switch {
	case seconds < 60:
		return fmt.Sprintf("%d seconds", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
	default:
		return fmt.Sprintf("%dh %dm", seconds/3600, (seconds%3600)/60)
	}
}
