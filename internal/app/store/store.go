/*
Package store implements the capability, room, team, and profile lookups over
PostgreSQL. It is the pgx-backed realization of the interfaces the authorization
resolver and token handler consume; "not found" is an empty/nil result, never an
error, so absence and failure stay distinguishable upstream.
*/
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/LiveStak-Brad/mylivelinks-sub010/internal/app/authz"
)

// Store runs the authorization and profile queries against the database pool.
type Store struct {
	pool *pgxpool.Pool
}

// New constructs a Store over the given pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Profile is the subset of a user profile used for credential metadata.
type Profile struct {
	ID          string
	Username    string
	DisplayName string
	AvatarURL   string
}

// CanHostMainRoom reports whether the identity is on the main-room host
// allowlist, matched by user id or email.
func (s *Store) CanHostMainRoom(ctx context.Context, userID, email string) (bool, error) {
	var allowed bool
	err := s.pool.QueryRow(ctx,
		`SELECT can_host_main FROM live_permissions WHERE user_id = $1 OR (email IS NOT NULL AND email = $2) LIMIT 1`,
		userID, email,
	).Scan(&allowed)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("store: can_host_main lookup: %w", err)
	}
	return allowed, nil
}

// IsPlatformOwner reports whether the identity is the platform owner.
func (s *Store) IsPlatformOwner(ctx context.Context, userID string) (bool, error) {
	return s.boolCapability(ctx, "is_platform_owner", userID)
}

// IsLiveTester reports whether the identity is a designated live tester.
func (s *Store) IsLiveTester(ctx context.Context, userID string) (bool, error) {
	return s.boolCapability(ctx, "is_live_tester", userID)
}

func (s *Store) boolCapability(ctx context.Context, column, userID string) (bool, error) {
	var granted bool
	// column is one of two compile-time constants, never caller input.
	query := fmt.Sprintf(`SELECT %s FROM live_permissions WHERE user_id = $1`, column)
	err := s.pool.QueryRow(ctx, query, userID).Scan(&granted)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("store: %s lookup: %w", column, err)
	}
	return granted, nil
}

// RoomConfig returns the room's stored permission config, or nil when the room
// has no configuration row.
func (s *Store) RoomConfig(ctx context.Context, slug string) (*authz.RoomConfig, error) {
	var canPublish *bool
	err := s.pool.QueryRow(ctx,
		`SELECT can_publish FROM room_configs WHERE slug = $1`,
		slug,
	).Scan(&canPublish)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: room config lookup: %w", err)
	}
	return &authz.RoomConfig{CanPublish: canPublish}, nil
}

// TeamIDBySlug resolves a team slug to its id; empty when no such team exists.
func (s *Store) TeamIDBySlug(ctx context.Context, slug string) (string, error) {
	var id string
	err := s.pool.QueryRow(ctx, `SELECT id FROM teams WHERE slug = $1`, slug).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("store: team lookup: %w", err)
	}
	return id, nil
}

// ApprovedMemberRole returns the caller's role in the team, restricted to
// approved memberships; empty when there is no approved membership row.
func (s *Store) ApprovedMemberRole(ctx context.Context, teamID, userID string) (string, error) {
	var role string
	err := s.pool.QueryRow(ctx,
		`SELECT role FROM team_members WHERE team_id = $1 AND user_id = $2 AND status = 'approved'`,
		teamID, userID,
	).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("store: membership lookup: %w", err)
	}
	return role, nil
}

// ProfileByID returns the user's profile, or nil when none exists.
func (s *Store) ProfileByID(ctx context.Context, userID string) (*Profile, error) {
	p := Profile{ID: userID}
	var displayName, avatarURL *string
	err := s.pool.QueryRow(ctx,
		`SELECT username, display_name, avatar_url FROM profiles WHERE id = $1`,
		userID,
	).Scan(&p.Username, &displayName, &avatarURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: profile lookup: %w", err)
	}
	if displayName != nil {
		p.DisplayName = *displayName
	}
	if avatarURL != nil {
		p.AvatarURL = *avatarURL
	}
	return &p, nil
}
