package token

import "github.com/golang-jwt/jwt"

// VideoGrant is the room-scoped capability set embedded in a media session
// credential. One credential grants access to exactly one room.
type VideoGrant struct {
	// Room is the single room this credential is valid for.
	Room string `json:"room"`

	// RoomJoin permits joining the room. Always true on minted credentials.
	RoomJoin bool `json:"roomJoin"`

	// CanPublish permits publishing audio/video tracks.
	CanPublish bool `json:"canPublish"`

	// CanSubscribe permits subscribing to other participants' tracks.
	CanSubscribe bool `json:"canSubscribe"`

	// CanPublishData permits sending data channel messages (chat, reactions).
	CanPublishData bool `json:"canPublishData"`

	// CanUpdateOwnMetadata permits the participant to update its own metadata.
	CanUpdateOwnMetadata bool `json:"canUpdateOwnMetadata"`
}

// Claims defines the JWT claim set of a media session credential.
// The media server expects the signing key id in the issuer claim, the
// participant identity in the subject claim, and the grant under "video".
type Claims struct {
	jwt.StandardClaims

	// Name is the participant display name shown in the room UI.
	Name string `json:"name,omitempty"`

	// Metadata is an opaque serialized JSON blob attached to the participant.
	Metadata string `json:"metadata,omitempty"`

	// Video is the room grant.
	Video VideoGrant `json:"video"`
}
