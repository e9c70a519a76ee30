package handler

import (
	"context"

	"github.com/LiveStak-Brad/mylivelinks-sub010/internal/app/authz"
	"github.com/LiveStak-Brad/mylivelinks-sub010/internal/app/identity"
	"github.com/LiveStak-Brad/mylivelinks-sub010/internal/app/store"
	"github.com/LiveStak-Brad/mylivelinks-sub010/internal/app/token"
	"github.com/LiveStak-Brad/mylivelinks-sub010/internal/configs"
)

// ProfileStore looks up profiles for credential metadata. Nil profile with nil
// error means the user has no profile row.
type ProfileStore interface {
	ProfileByID(ctx context.Context, userID string) (*store.Profile, error)
}

// AppDeps bundles the collaborators the handlers need. Everything is injected;
// handlers read no ambient state.
type AppDeps struct {
	Config   *configs.AppConfig
	Identity identity.Provider
	Resolver *authz.Resolver
	Signer   token.Signer
	Caps     authz.CapabilityStore
	Profiles ProfileStore
}
