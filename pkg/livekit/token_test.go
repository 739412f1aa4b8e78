package livekit

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestAccessToken(t *testing.T) {
	signed, err := AccessToken("api-key", "api-secret", "wedding-concierge", VideoGrant{
		Room:     "outbound_test",
		RoomJoin: true,
	}, 5*time.Minute)
	if err != nil {
		t.Fatalf("AccessToken() error = %v", err)
	}

	var claims accessClaims
	token, err := jwt.ParseWithClaims(signed, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte("api-secret"), nil
	})
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if !token.Valid {
		t.Fatal("token is not valid")
	}

	if claims.Issuer != "api-key" {
		t.Errorf("issuer = %q, want api-key", claims.Issuer)
	}
	if claims.Subject != "wedding-concierge" {
		t.Errorf("subject = %q", claims.Subject)
	}
	if claims.Video.Room != "outbound_test" || !claims.Video.RoomJoin {
		t.Errorf("video grant = %+v", claims.Video)
	}
}

func TestAccessToken_RequiresCredentials(t *testing.T) {
	if _, err := AccessToken("", "secret", "id", VideoGrant{}, time.Minute); err == nil {
		t.Error("AccessToken() with empty key: error = nil, want error")
	}
	if _, err := AccessToken("key", "", "id", VideoGrant{}, time.Minute); err == nil {
		t.Error("AccessToken() with empty secret: error = nil, want error")
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"wss://platform.example.com", "https://platform.example.com"},
		{"ws://localhost:7880", "http://localhost:7880"},
		{"https://platform.example.com/", "https://platform.example.com"},
	}
	for _, tt := range tests {
		if got := normalizeURL(tt.in); got != tt.want {
			t.Errorf("normalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
