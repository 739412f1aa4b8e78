package call

import "testing"

func TestParseMetadata_EmptyIsInbound(t *testing.T) {
	for _, raw := range []string{"", "   ", "not json", "[1,2]"} {
		meta := ParseMetadata(raw)
		if meta.CallType != TypeInbound {
			t.Errorf("ParseMetadata(%q): expected inbound, got %s", raw, meta.CallType)
		}
		if meta.IsOutbound() {
			t.Errorf("ParseMetadata(%q): expected IsOutbound false", raw)
		}
	}
}

func TestParseMetadata_PhoneNumberMarksOutbound(t *testing.T) {
	meta := ParseMetadata(`{"phone_number":"+919876543210","customer_name":"Priya","city":"Mumbai"}`)

	if meta.CallType != TypeOutbound {
		t.Errorf("Expected outbound, got %s", meta.CallType)
	}
	if meta.PhoneNumber != "+919876543210" {
		t.Errorf("Unexpected phone number %s", meta.PhoneNumber)
	}
	if meta.CustomerName != "Priya" || meta.City != "Mumbai" {
		t.Errorf("Customer fields not parsed: %+v", meta)
	}
}

func TestParseMetadata_NoPhoneIsInbound(t *testing.T) {
	meta := ParseMetadata(`{"customer_name":"Priya"}`)
	if meta.CallType != TypeInbound {
		t.Errorf("Expected inbound, got %s", meta.CallType)
	}
}

func TestMerge_NonEmptyOverwrites(t *testing.T) {
	meta := &Metadata{CustomerName: "Priya", City: "Mumbai"}
	meta.Merge(&Metadata{City: "Pune", TransferTo: "+919000000000"})

	if meta.City != "Pune" {
		t.Errorf("Expected city overwritten to Pune, got %s", meta.City)
	}
	if meta.TransferTo != "+919000000000" {
		t.Errorf("Expected transfer target set, got %s", meta.TransferTo)
	}
	if meta.CustomerName != "Priya" {
		t.Errorf("Customer name should be untouched, got %s", meta.CustomerName)
	}
}

func TestMerge_EmptyNeverErases(t *testing.T) {
	meta := &Metadata{
		PhoneNumber:  "+919876543210",
		CustomerName: "Priya",
		City:         "Mumbai",
		TransferTo:   "+919000000000",
		CallType:     TypeOutbound,
		Salutation:   "Ms.",
		GreetingTime: "morning",
	}
	before := *meta

	meta.Merge(&Metadata{})
	meta.Merge(nil)

	if *meta != before {
		t.Errorf("Merging empty metadata changed fields: before %+v after %+v", before, *meta)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	meta := &Metadata{}
	incoming := &Metadata{CustomerName: "Priya", City: "Goa"}

	meta.Merge(incoming)
	first := *meta
	meta.Merge(incoming)

	if *meta != first {
		t.Errorf("Repeated merge changed fields: %+v vs %+v", first, *meta)
	}
}
