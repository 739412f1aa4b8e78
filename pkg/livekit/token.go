package livekit

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// VideoGrant describes the room permissions embedded in an access token.
type VideoGrant struct {
	Room         string `json:"room,omitempty"`
	RoomJoin     bool   `json:"roomJoin,omitempty"`
	RoomAdmin    bool   `json:"roomAdmin,omitempty"`
	RoomCreate   bool   `json:"roomCreate,omitempty"`
	CanSubscribe bool   `json:"canSubscribe,omitempty"`
	CanPublish   bool   `json:"canPublish,omitempty"`
}

type accessClaims struct {
	jwt.RegisteredClaims
	Video VideoGrant `json:"video"`
}

// AccessToken mints a short-lived HS256 token for the media platform.
func AccessToken(apiKey, apiSecret, identity string, grant VideoGrant, ttl time.Duration) (string, error) {
	if apiKey == "" || apiSecret == "" {
		return "", fmt.Errorf("platform API key and secret are required")
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	now := time.Now()
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    apiKey,
			Subject:   identity,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Video: grant,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(apiSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return signed, nil
}
