// Package call holds the per-call session state: metadata captured at
// dispatch and during the conversation, the transfer-to-human state
// machine, and call termination. Each call owns its own instances, so
// no locking is needed across calls.
package call

import (
	"encoding/json"
	"strings"
)

// Call types.
const (
	TypeInbound  = "inbound"
	TypeOutbound = "outbound"
)

// Metadata is the mutable record attached to one call. Fields are only
// ever added or overwritten with non-empty values; later merges never
// clear previously captured data.
type Metadata struct {
	PhoneNumber  string `json:"phone_number,omitempty"`
	CustomerName string `json:"customer_name,omitempty"`
	City         string `json:"city,omitempty"`
	TransferTo   string `json:"transfer_to,omitempty"`
	CallType     string `json:"call_type,omitempty"`
	Salutation   string `json:"salutation,omitempty"`
	GreetingTime string `json:"greeting_time,omitempty"`
}

// ParseMetadata builds call metadata from raw dispatch metadata.
// Missing or malformed metadata means an inbound call; presence of a
// phone number marks the call outbound.
func ParseMetadata(raw string) *Metadata {
	meta := &Metadata{CallType: TypeInbound}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return meta
	}

	var incoming Metadata
	if err := json.Unmarshal([]byte(raw), &incoming); err != nil {
		return meta
	}

	meta.Merge(&incoming)
	if meta.PhoneNumber != "" {
		meta.CallType = TypeOutbound
	}
	return meta
}

// Merge overwrites fields with non-empty incoming values. Empty
// incoming fields never erase existing data.
func (m *Metadata) Merge(incoming *Metadata) {
	if incoming == nil {
		return
	}
	if incoming.PhoneNumber != "" {
		m.PhoneNumber = incoming.PhoneNumber
	}
	if incoming.CustomerName != "" {
		m.CustomerName = incoming.CustomerName
	}
	if incoming.City != "" {
		m.City = incoming.City
	}
	if incoming.TransferTo != "" {
		m.TransferTo = incoming.TransferTo
	}
	if incoming.CallType != "" {
		m.CallType = incoming.CallType
	}
	if incoming.Salutation != "" {
		m.Salutation = incoming.Salutation
	}
	if incoming.GreetingTime != "" {
		m.GreetingTime = incoming.GreetingTime
	}
}

// IsOutbound reports whether this call was dispatched to dial out.
func (m *Metadata) IsOutbound() bool {
	return m.CallType == TypeOutbound
}
