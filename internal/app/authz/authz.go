/*
Package authz decides whether an authenticated identity may publish into a room.

The decision is an ordered chain of resolver strategies with a guaranteed
terminal deny. Each strategy either declines (not applicable, try the next one)
or produces the final grant. Any store error anywhere in the chain degrades to a
plain deny: authorization ambiguity never surfaces to the caller as an error
distinct from "no".
*/
package authz

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/LiveStak-Brad/mylivelinks-sub010/internal/app/identity"
)

// The two accepted spellings of the launch-mode room. Matching is exact and
// case-sensitive; widening it would widen the launch gate.
const (
	MainRoomUnderscore = "live_central"
	MainRoomHyphen     = "live-central"
)

// TeamRoomPrefix marks rooms owned by a team; the remainder is the team slug.
const TeamRoomPrefix = "team-"

// privilegedTeamRoles are the membership roles allowed to publish in a team room.
var privilegedTeamRoles = map[string]struct{}{
	"team_admin": {},
	"owner":      {},
	"admin":      {},
	"moderator":  {},
}

// Path identifies which branch of the resolver produced the grant.
type Path string

const (
	PathMainRoomGate          Path = "main_room_gate"
	PathRoomConfigPermissions Path = "room_config_permissions"
	PathTeamMembershipRole    Path = "team_membership_role"
	PathOwnerOrTesterFallback Path = "owner_or_tester_fallback"
	PathDenied                Path = "denied"
)

// Decision is the resolver's output for one request.
type Decision struct {
	// CanPublish is the final grant, after combining the caller's request with
	// the resolved permission. It is never true unless publish was requested
	// AND a branch explicitly granted it.
	CanPublish bool

	// Path records the branch that settled the decision.
	Path Path
}

// RoomConfig is a room's stored permission configuration.
type RoomConfig struct {
	// CanPublish, when non-nil, overrides the publish decision for the room.
	CanPublish *bool
}

// CapabilityStore answers per-identity boolean capability queries.
type CapabilityStore interface {
	CanHostMainRoom(ctx context.Context, userID, email string) (bool, error)
	IsPlatformOwner(ctx context.Context, userID string) (bool, error)
	IsLiveTester(ctx context.Context, userID string) (bool, error)
}

// RoomStore looks up room permission configs. A nil config with nil error means
// the room has no stored configuration.
type RoomStore interface {
	RoomConfig(ctx context.Context, slug string) (*RoomConfig, error)
}

// TeamStore resolves teams and approved memberships. Empty results with nil
// error mean "not found" rather than a failure.
type TeamStore interface {
	TeamIDBySlug(ctx context.Context, slug string) (string, error)
	ApprovedMemberRole(ctx context.Context, teamID, userID string) (string, error)
}

// RoomAllowed reports whether the room name passes the launch-mode gate.
// This runs before the resolver and is the single authority on room names;
// nothing downstream re-derives main-room membership by substring.
func RoomAllowed(room string) bool {
	return room == MainRoomUnderscore || room == MainRoomHyphen
}

// Resolver computes publish grants over the external capability, room, and team stores.
type Resolver struct {
	caps  CapabilityStore
	rooms RoomStore
	teams TeamStore
}

// NewResolver constructs a Resolver over the given stores.
func NewResolver(caps CapabilityStore, rooms RoomStore, teams TeamStore) *Resolver {
	return &Resolver{caps: caps, rooms: rooms, teams: teams}
}

// strategy is one branch of the decision chain. applicable=false means
// "not my room shape, try the next branch"; once a branch is applicable its
// granted value is final.
type strategy struct {
	path    Path
	resolve func(ctx context.Context, id *identity.Identity, room string) (granted bool, applicable bool, err error)
}

// Resolve decides publish permission for (identity, room, wantsPublish).
//
// A caller who did not request publish is never granted it, regardless of what
// the chain would have said; the chain is not even consulted in that case, so
// plain viewers cost no store round-trips.
func (r *Resolver) Resolve(ctx context.Context, log *zerolog.Logger, id *identity.Identity, room string, wantsPublish bool) Decision {
	if !wantsPublish {
		return Decision{CanPublish: false, Path: PathDenied}
	}

	chain := []strategy{
		{path: PathMainRoomGate, resolve: r.mainRoom},
		{path: PathRoomConfigPermissions, resolve: r.roomConfig},
		{path: PathTeamMembershipRole, resolve: r.teamMembership},
		{path: PathOwnerOrTesterFallback, resolve: r.ownerOrTester},
	}

	for _, s := range chain {
		granted, applicable, err := s.resolve(ctx, id, room)
		if err != nil {
			// Fail closed. The caller still gets a clean non-grant, never a 500.
			log.Warn().Err(err).Str("path", string(s.path)).Str("room", room).
				Msg("authorization lookup failed, denying publish")
			return Decision{CanPublish: false, Path: PathDenied}
		}
		if applicable {
			path := s.path
			if !granted {
				path = PathDenied
			}
			return Decision{CanPublish: granted, Path: path}
		}
	}

	return Decision{CanPublish: false, Path: PathDenied}
}

// mainRoom delegates the launch room to the host allowlist check.
func (r *Resolver) mainRoom(ctx context.Context, id *identity.Identity, room string) (bool, bool, error) {
	if !RoomAllowed(room) {
		return false, false, nil
	}
	granted, err := r.caps.CanHostMainRoom(ctx, id.ID, id.Email)
	if err != nil {
		return false, true, err
	}
	return granted, true, nil
}

// roomConfig consults the room's stored permission config, when one exists and
// it actually specifies a publish policy.
func (r *Resolver) roomConfig(ctx context.Context, id *identity.Identity, room string) (bool, bool, error) {
	cfg, err := r.rooms.RoomConfig(ctx, room)
	if err != nil {
		return false, true, err
	}
	if cfg == nil || cfg.CanPublish == nil {
		return false, false, nil
	}
	return *cfg.CanPublish, true, nil
}

// teamMembership grants publish in team rooms to approved members holding a
// privileged role. A missing team or missing/unapproved membership denies.
func (r *Resolver) teamMembership(ctx context.Context, id *identity.Identity, room string) (bool, bool, error) {
	if !strings.HasPrefix(room, TeamRoomPrefix) {
		return false, false, nil
	}
	slug := strings.TrimPrefix(room, TeamRoomPrefix)

	teamID, err := r.teams.TeamIDBySlug(ctx, slug)
	if err != nil {
		return false, true, err
	}
	if teamID == "" {
		return false, true, nil
	}

	role, err := r.teams.ApprovedMemberRole(ctx, teamID, id.ID)
	if err != nil {
		return false, true, err
	}
	_, privileged := privilegedTeamRoles[role]
	return privileged, true, nil
}

// ownerOrTester races the platform-owner and live-tester checks; either one
// being true is sufficient. An error in one check counts as false for that
// check rather than failing the pair.
func (r *Resolver) ownerOrTester(ctx context.Context, id *identity.Identity, room string) (bool, bool, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan bool, 2)
	for _, check := range []func(context.Context, string) (bool, error){
		r.caps.IsPlatformOwner,
		r.caps.IsLiveTester,
	} {
		go func(check func(context.Context, string) (bool, error)) {
			ok, err := check(ctx, id.ID)
			results <- err == nil && ok
		}(check)
	}

	for i := 0; i < 2; i++ {
		if <-results {
			return true, true, nil
		}
	}
	return false, true, nil
}
