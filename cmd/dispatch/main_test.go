package main

import "testing"

func TestParseArgs_MinimalInvocation(t *testing.T) {
	req := parseArgs([]string{"+919876543210"})

	if req.PhoneNumber != "+919876543210" {
		t.Errorf("PhoneNumber = %q, want +919876543210", req.PhoneNumber)
	}
	if req.CustomerName != "" || req.City != "" || req.TransferTo != "" {
		t.Errorf("optional fields not empty: %+v", req)
	}
	if len(req.Ignored) != 0 {
		t.Errorf("Ignored = %v, want none", req.Ignored)
	}
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    callRequest
		ignored int
	}{
		{
			name: "name and city",
			args: []string{"+919876543210", "Priya Sharma", "Bangalore"},
			want: callRequest{
				PhoneNumber:  "+919876543210",
				CustomerName: "Priya Sharma",
				City:         "Bangalore",
			},
		},
		{
			name: "with transfer target",
			args: []string{"+919876543210", "Priya Sharma", "Bangalore", "+918860932771"},
			want: callRequest{
				PhoneNumber:  "+919876543210",
				CustomerName: "Priya Sharma",
				City:         "Bangalore",
				TransferTo:   "+918860932771",
			},
		},
		{
			name:    "extra arguments ignored",
			args:    []string{"+919876543210", "Priya", "Goa", "+918860932771", "surplus", "trailing"},
			want:    callRequest{PhoneNumber: "+919876543210", CustomerName: "Priya", City: "Goa", TransferTo: "+918860932771"},
			ignored: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseArgs(tt.args)
			if got.PhoneNumber != tt.want.PhoneNumber ||
				got.CustomerName != tt.want.CustomerName ||
				got.City != tt.want.City ||
				got.TransferTo != tt.want.TransferTo {
				t.Errorf("parseArgs(%v) = %+v, want %+v", tt.args, got, tt.want)
			}
			if len(got.Ignored) != tt.ignored {
				t.Errorf("len(Ignored) = %d, want %d", len(got.Ignored), tt.ignored)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		req       callRequest
		wantPhone string
		wantErr   bool
	}{
		{
			name:      "already E.164",
			req:       callRequest{PhoneNumber: "+919876543210"},
			wantPhone: "+919876543210",
		},
		{
			name:      "bare ten digit Indian number",
			req:       callRequest{PhoneNumber: "9876543210"},
			wantPhone: "+919876543210",
		},
		{
			name:      "country code without plus",
			req:       callRequest{PhoneNumber: "919876543210"},
			wantPhone: "+919876543210",
		},
		{
			name:    "unparseable number",
			req:     callRequest{PhoneNumber: "12345"},
			wantErr: true,
		},
		{
			name:    "invalid transfer target",
			req:     callRequest{PhoneNumber: "+919876543210", TransferTo: "not-a-number"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.normalize()
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("normalize returned error: %v", err)
			}
			if tt.req.PhoneNumber != tt.wantPhone {
				t.Errorf("PhoneNumber = %q, want %q", tt.req.PhoneNumber, tt.wantPhone)
			}
		})
	}
}

func TestNormalize_TransferTarget(t *testing.T) {
	req := callRequest{PhoneNumber: "+919876543210", TransferTo: "8860932771"}
	if err := req.normalize(); err != nil {
		t.Fatalf("normalize returned error: %v", err)
	}
	if req.TransferTo != "+918860932771" {
		t.Errorf("TransferTo = %q, want +918860932771", req.TransferTo)
	}
}
