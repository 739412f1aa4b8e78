package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestClient_IsAvailable(t *testing.T) {
	logger := zap.NewNop()

	if NewClient("", time.Second, logger).IsAvailable() {
		t.Error("IsAvailable() = true, want false without API key")
	}
	if !NewClient("key", time.Second, logger).IsAvailable() {
		t.Error("IsAvailable() = false, want true with API key")
	}
}

func TestClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-KEY") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"organic":[
			{"title":"Wedding venues","link":"https://example.com/a","snippet":"Top venues"},
			{"title":"Wedding costs","link":"https://example.com/b","snippet":"Cost guide"},
			{"title":"More","link":"https://example.com/c","snippet":"More info"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", time.Second, zap.NewNop())
	c.baseURL = srv.URL

	results, err := c.Search(context.Background(), "wedding venues bangalore", 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Search() returned %d results, want 2", len(results))
	}
	if results[0].Title != "Wedding venues" {
		t.Errorf("results[0].Title = %q", results[0].Title)
	}
}

func TestClient_Search_NotConfigured(t *testing.T) {
	c := NewClient("", time.Second, zap.NewNop())
	if _, err := c.Search(context.Background(), "anything", 3); err == nil {
		t.Error("Search() error = nil, want error without API key")
	}
}

func TestFormatForSpeech(t *testing.T) {
	if got := FormatForSpeech(nil); !strings.Contains(got, "couldn't find") {
		t.Errorf("FormatForSpeech(nil) = %q", got)
	}

	got := FormatForSpeech([]Result{
		{Title: "A", Link: "https://a", Snippet: "first"},
		{Title: "B", Link: "https://b", Snippet: "second"},
	})
	for _, want := range []string{"1. A", "first", "2. B", "Source: https://b"} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatForSpeech() missing %q in %q", want, got)
		}
	}
}
