/*
Package token mints short-lived media session credentials.

A credential is an HS256-signed JWT binding a device-scoped participant identity
to a single-room capability grant. Credentials live for fifteen minutes, are
returned to the caller once, and are never stored server-side.
*/
package token

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
)

const (
	// CredentialTTL is the fixed lifetime of every minted credential.
	CredentialTTL = 15 * time.Minute

	defaultDeviceType = "web"
	defaultDeviceID   = "unknown"
)

// MintRequest carries everything needed to mint one credential.
type MintRequest struct {
	// UserID is the authenticated identity's stable id.
	UserID string

	// Room is the validated room the credential is scoped to.
	Room string

	// DisplayName is the participant name shown in the room UI.
	DisplayName string

	// Metadata is the caller-supplied opaque metadata, already serialized.
	// Empty means no metadata claim.
	Metadata string

	// CanPublish and CanSubscribe are the final, resolved capabilities.
	CanPublish   bool
	CanSubscribe bool

	// DeviceType, DeviceID, and SessionID scope the identity tag so the same
	// user on multiple devices does not collide. Absent values get defaults.
	DeviceType string
	DeviceID   string
	SessionID  string
}

// Signer produces a signed credential string from a mint request.
// The token route depends on this interface so tests can substitute a fake.
type Signer interface {
	Sign(ctx context.Context, req MintRequest) (string, error)
}

// IdentityTag composes the device-scoped participant identity:
//
//	u_<userID>:<deviceType>:<deviceID>:<sessionID>
//
// Display names never appear in the identity. When the client sends no session
// id, the current timestamp stands in, which keeps reconnect attempts distinct.
func IdentityTag(userID, deviceType, deviceID, sessionID string, now time.Time) string {
	if deviceType == "" {
		deviceType = defaultDeviceType
	}
	if deviceID == "" {
		deviceID = defaultDeviceID
	}
	if sessionID == "" {
		sessionID = strconv.FormatInt(now.UnixMilli(), 10)
	}
	return fmt.Sprintf("u_%s:%s:%s:%s", userID, deviceType, deviceID, sessionID)
}

// SerializeMetadata renders an opaque JSON value for the metadata claim.
// Nil input yields the empty string (no claim).
func SerializeMetadata(metadata any) (string, error) {
	if metadata == nil {
		return "", nil
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("token: serialize metadata: %w", err)
	}
	return string(b), nil
}

// NormalizeEndpoint converts the configured media endpoint into the WebSocket
// URL handed to clients: https becomes wss, a bare host gets a wss prefix, and
// ws/wss endpoints pass through unchanged.
func NormalizeEndpoint(endpoint string) string {
	switch {
	case strings.HasPrefix(endpoint, "wss://"), strings.HasPrefix(endpoint, "ws://"):
		return endpoint
	case strings.HasPrefix(endpoint, "https://"):
		return "wss://" + strings.TrimPrefix(endpoint, "https://")
	default:
		return "wss://" + endpoint
	}
}

// HMACSigner signs credentials with the media server's API key pair (HS256).
type HMACSigner struct {
	apiKey    string
	apiSecret string

	// now is the clock source, overridable in tests.
	now func() time.Time
}

// NewHMACSigner constructs a signer for the given key id and secret.
func NewHMACSigner(apiKey, apiSecret string) *HMACSigner {
	return &HMACSigner{apiKey: apiKey, apiSecret: apiSecret, now: time.Now}
}

// Sign implements Signer. It builds the claim set, including the device-scoped
// identity tag and single-room grant, and signs it with the configured secret.
func (s *HMACSigner) Sign(ctx context.Context, req MintRequest) (string, error) {
	now := s.now()

	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    s.apiKey,
			Subject:   IdentityTag(req.UserID, req.DeviceType, req.DeviceID, req.SessionID, now),
			IssuedAt:  now.Unix(),
			NotBefore: now.Unix(),
			ExpiresAt: now.Add(CredentialTTL).Unix(),
		},
		Name:     req.DisplayName,
		Metadata: req.Metadata,
		Video: VideoGrant{
			Room:                 req.Room,
			RoomJoin:             true,
			CanPublish:           req.CanPublish,
			CanSubscribe:         req.CanSubscribe,
			CanPublishData:       true,
			CanUpdateOwnMetadata: true,
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := t.SignedString([]byte(s.apiSecret))
	if err != nil {
		return "", fmt.Errorf("token: sign credential: %w", err)
	}
	return signed, nil
}
