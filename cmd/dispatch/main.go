// Command dispatch places an outbound call from the command line.
//
// Usage: dispatch <phone_number> [customer_name] [city] [transfer_to]
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/Rishabh510/ai-concierge/pkg/env"
	"github.com/Rishabh510/ai-concierge/pkg/livekit"
	"github.com/Rishabh510/ai-concierge/pkg/validation"
)

// callRequest holds the parsed command-line arguments.
type callRequest struct {
	PhoneNumber  string
	CustomerName string
	City         string
	TransferTo   string
	Ignored      []string
}

// parseArgs maps positional arguments (everything after the program
// name) onto a callRequest. Arguments past the fourth are collected in
// Ignored rather than rejected.
func parseArgs(args []string) callRequest {
	req := callRequest{PhoneNumber: args[0]}
	rest := args[1:]
	if len(rest) > 0 {
		req.CustomerName = rest[0]
	}
	if len(rest) > 1 {
		req.City = rest[1]
	}
	if len(rest) > 2 {
		req.TransferTo = rest[2]
	}
	if len(rest) > 3 {
		req.Ignored = rest[3:]
	}
	return req
}

// normalize validates the request in place. Phone numbers are brought
// to E.164 form, with bare 10-digit Indian numbers gaining a +91 prefix.
func (r *callRequest) normalize() error {
	phone, err := validation.NormalizeE164(r.PhoneNumber)
	if err != nil {
		return fmt.Errorf("invalid phone number, must include country code (e.g., +919876543210)")
	}
	r.PhoneNumber = phone

	r.CustomerName = strings.TrimSpace(r.CustomerName)
	if len(r.CustomerName) > 100 {
		return fmt.Errorf("customer name must be at most 100 characters")
	}
	r.City = strings.TrimSpace(r.City)
	if len(r.City) > 50 {
		return fmt.Errorf("city must be at most 50 characters")
	}

	r.TransferTo = strings.TrimSpace(r.TransferTo)
	if r.TransferTo != "" {
		target, err := validation.NormalizeE164(r.TransferTo)
		if err != nil {
			return fmt.Errorf("invalid transfer number format")
		}
		r.TransferTo = target
	}
	return nil
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: dispatch <phone_number> [customer_name] [city] [transfer_to]")
		fmt.Println("Example: dispatch +919876543210 'Priya Sharma' 'Bangalore'")
		fmt.Println("Example: dispatch +919876543210 'Priya Sharma' 'Bangalore' +918860932771")
		os.Exit(1)
	}

	req := parseArgs(os.Args[1:])
	for _, extra := range req.Ignored {
		fmt.Printf("Warning: ignoring extra argument: %s\n", extra)
	}
	if err := req.normalize(); err != nil {
		log.Fatalf("%v", err)
	}

	cfg, err := env.Load(".env")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.PlatformURL == "" || cfg.PlatformAPIKey == "" || cfg.PlatformAPISecret == "" {
		log.Fatalf("Missing required environment variables: PLATFORM_URL, PLATFORM_API_KEY, PLATFORM_API_SECRET")
	}
	if cfg.SIPOutboundTrunkID == "" {
		fmt.Println("Warning: SIP trunk not configured - outbound calling may not work")
	}

	now := time.Now()
	metadata := map[string]string{
		"phone_number":       req.PhoneNumber,
		"call_id":            fmt.Sprintf("call_%d", now.Unix()),
		"dispatch_timestamp": now.Format(time.RFC3339),
	}
	if req.CustomerName != "" {
		metadata["customer_name"] = req.CustomerName
	}
	if req.City != "" {
		metadata["city"] = req.City
	}
	if req.TransferTo != "" {
		metadata["transfer_to"] = req.TransferTo
	}
	rawMetadata, _ := json.Marshal(metadata)

	room := fmt.Sprintf("outbound_%s_%d", strings.TrimPrefix(req.PhoneNumber, "+"), now.Unix())

	platform := livekit.NewClient(cfg.PlatformURL, cfg.PlatformAPIKey, cfg.PlatformAPISecret)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Printf("Dispatching outbound call to %s\n", validation.MaskPhoneNumber(req.PhoneNumber))
	dispatch, err := platform.CreateAgentDispatch(ctx, livekit.DispatchRequest{
		AgentName: cfg.AgentIdentity,
		Room:      room,
		Metadata:  string(rawMetadata),
	})
	if err != nil {
		log.Fatalf("Failed to dispatch call: %v", err)
	}

	fmt.Println("Call dispatched successfully!")
	fmt.Printf("Dispatch ID: %s\n", dispatch.ID)
	fmt.Printf("Room: %s\n", room)
}
