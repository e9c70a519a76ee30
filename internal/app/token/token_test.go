package token

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAPIKey    = "APIabcdef123456"
	testAPISecret = "secret-material-long-enough-for-hs256"
)

func parseClaims(t *testing.T, signed string) *Claims {
	t.Helper()
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(signed, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(testAPISecret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	return claims
}

func TestIdentityTag(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	t.Run("all fields present", func(t *testing.T) {
		tag := IdentityTag("u123", "ios", "dev-9", "sess-4", now)
		assert.Equal(t, "u_u123:ios:dev-9:sess-4", tag)
	})

	t.Run("defaults fill absent fields", func(t *testing.T) {
		tag := IdentityTag("u123", "", "", "", now)
		assert.Equal(t, "u_u123:web:unknown:1700000000000", tag)
	})
}

func TestSignProducesSingleRoomGrant(t *testing.T) {
	s := NewHMACSigner(testAPIKey, testAPISecret)
	fixed := time.Now().Truncate(time.Second)
	s.now = func() time.Time { return fixed }

	signed, err := s.Sign(context.Background(), MintRequest{
		UserID:       "u123",
		Room:         "live_central",
		DisplayName:  "Brad",
		CanPublish:   true,
		CanSubscribe: true,
		DeviceType:   "web",
		DeviceID:     "dev-1",
		SessionID:    "sess-1",
	})
	require.NoError(t, err)

	claims := parseClaims(t, signed)
	assert.Equal(t, testAPIKey, claims.Issuer)
	assert.Equal(t, "u_u123:web:dev-1:sess-1", claims.Subject)
	assert.Equal(t, "Brad", claims.Name)
	assert.Equal(t, "live_central", claims.Video.Room)
	assert.True(t, claims.Video.RoomJoin)
	assert.True(t, claims.Video.CanPublish)
	assert.True(t, claims.Video.CanSubscribe)
	assert.True(t, claims.Video.CanPublishData)
	assert.True(t, claims.Video.CanUpdateOwnMetadata)

	// Fixed fifteen-minute lifetime.
	assert.Equal(t, fixed.Unix(), claims.IssuedAt)
	assert.Equal(t, fixed.Add(CredentialTTL).Unix(), claims.ExpiresAt)
	assert.Equal(t, int64(15*60), claims.ExpiresAt-claims.IssuedAt)
}

func TestSignViewerGrant(t *testing.T) {
	s := NewHMACSigner(testAPIKey, testAPISecret)

	signed, err := s.Sign(context.Background(), MintRequest{
		UserID:       "u123",
		Room:         "live-central",
		DisplayName:  "Viewer",
		CanPublish:   false,
		CanSubscribe: true,
	})
	require.NoError(t, err)

	claims := parseClaims(t, signed)
	assert.False(t, claims.Video.CanPublish)
	assert.True(t, claims.Video.CanSubscribe)
	assert.Equal(t, "live-central", claims.Video.Room)
}

func TestSignMetadataClaim(t *testing.T) {
	s := NewHMACSigner(testAPIKey, testAPISecret)

	metadata, err := SerializeMetadata(map[string]string{"mood": "hype"})
	require.NoError(t, err)

	signed, err := s.Sign(context.Background(), MintRequest{
		UserID:      "u123",
		Room:        "live_central",
		DisplayName: "Brad",
		Metadata:    metadata,
	})
	require.NoError(t, err)

	claims := parseClaims(t, signed)
	assert.JSONEq(t, `{"mood":"hype"}`, claims.Metadata)
}

func TestSerializeMetadataNil(t *testing.T) {
	metadata, err := SerializeMetadata(nil)
	require.NoError(t, err)
	assert.Empty(t, metadata)
}

func TestNormalizeEndpoint(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://example.com", "wss://example.com"},
		{"example.com", "wss://example.com"},
		{"wss://example.com", "wss://example.com"},
		{"ws://localhost:7880", "ws://localhost:7880"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeEndpoint(tc.in), "endpoint %q", tc.in)
	}
}
