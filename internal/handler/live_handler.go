/*
Package handler provides HTTP handlers for live-session capability checks.

The eligibility endpoint backs the web client's "Go Live" button: it reports the
signed-in user's live capabilities without minting anything.
*/
package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/LiveStak-Brad/mylivelinks-sub010/internal/pkg/errs"
	"github.com/LiveStak-Brad/mylivelinks-sub010/internal/pkg/resp"
)

// LiveEligibility is the response body of the eligibility endpoint.
type LiveEligibility struct {
	CanHostMainRoom bool `json:"canHostMainRoom"`
	IsPlatformOwner bool `json:"isPlatformOwner"`
	IsLiveTester    bool `json:"isLiveTester"`
}

// HandleLiveEligibility reports the cookie-authenticated caller's live
// capabilities. Capability lookup failures read as false rather than erroring,
// matching the fail-closed policy of the token route.
func HandleLiveEligibility(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := zerolog.Ctx(r.Context())

		caller, err := deps.Identity.Exchange(r.Context(), r)
		if err != nil || caller == nil || caller.ID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var out LiveEligibility

		if granted, err := deps.Caps.CanHostMainRoom(r.Context(), caller.ID, caller.Email); err != nil {
			log.Warn().Err(err).Msg("eligibility: main-room host lookup failed")
		} else {
			out.CanHostMainRoom = granted
		}

		if granted, err := deps.Caps.IsPlatformOwner(r.Context(), caller.ID); err != nil {
			log.Warn().Err(err).Msg("eligibility: platform owner lookup failed")
		} else {
			out.IsPlatformOwner = granted
		}

		if granted, err := deps.Caps.IsLiveTester(r.Context(), caller.ID); err != nil {
			log.Warn().Err(err).Msg("eligibility: live tester lookup failed")
		} else {
			out.IsLiveTester = granted
		}

		resp.RespondSuccess(w, r, out)
	}
}
