/*
Package handler provides the HTTP handlers and routing setup for the live token service.

This file implements the live-session token route: a five-stage pipeline (origin gate,
credential extraction, identity verification, publish authorization, credential minting)
where every stage runs under its own budget and the whole request races a hard deadline.
All rejections fail closed and every response carries the same CORS and correlation
headers.
*/
package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/LiveStak-Brad/mylivelinks-sub010/internal/app/authz"
	"github.com/LiveStak-Brad/mylivelinks-sub010/internal/app/identity"
	"github.com/LiveStak-Brad/mylivelinks-sub010/internal/app/pipeline"
	"github.com/LiveStak-Brad/mylivelinks-sub010/internal/app/token"
	"github.com/LiveStak-Brad/mylivelinks-sub010/internal/pkg/errs"
	"github.com/LiveStak-Brad/mylivelinks-sub010/internal/pkg/req"
)

// TokenInput is the POST body of a token request. Unknown extra fields from
// mobile clients are tolerated by the binder.
type TokenInput struct {
	RoomName            string `json:"roomName"`
	ParticipantName     string `json:"participantName"`
	ParticipantMetadata any    `json:"participantMetadata,omitempty"`
	CanPublish          bool   `json:"canPublish,omitempty"`
	CanSubscribe        *bool  `json:"canSubscribe,omitempty"`
	Role                string `json:"role,omitempty"`
	DeviceType          string `json:"deviceType,omitempty"`
	DeviceID            string `json:"deviceId,omitempty"`
	SessionID           string `json:"sessionId,omitempty"`
}

// wantsPublish derives the caller's publish intent.
func (in *TokenInput) wantsPublish() bool {
	return in.CanPublish || in.Role == "publisher"
}

// wantsSubscribe defaults to true unless the caller explicitly opted out.
func (in *TokenInput) wantsSubscribe() bool {
	return in.CanSubscribe == nil || *in.CanSubscribe
}

// TokenSuccess is the success response body: the signed credential plus the
// WebSocket endpoint to connect it to.
type TokenSuccess struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

// resolveOrigin matches the request's Origin header against the allowlist,
// case-folded. It returns the header value to advertise on the response (the
// matched origin, or the configured default — never a reflected arbitrary
// origin) and whether the origin passed the gate.
func resolveOrigin(deps *AppDeps, origin string) (string, bool) {
	for _, allowed := range deps.Config.AllowedOrigins {
		if strings.EqualFold(origin, allowed) {
			return allowed, true
		}
	}
	return deps.Config.DefaultOrigin, false
}

func requestID(r *http.Request) string {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return id
	}
	return uuid.NewString()
}

// HandleTokenPreflight answers CORS preflight for the token route: 200, empty
// body, the uniform header set only.
func HandleTokenPreflight(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		allowOrigin, _ := resolveOrigin(deps, r.Header.Get("Origin"))
		em := pipeline.NewEmitter(w, zerolog.Ctx(r.Context()), requestID(r), allowOrigin)
		em.SendPreflight()
	}
}

// HandleIssueToken processes a live-session token request through the staged
// pipeline. Exactly one response is emitted per request, even when a stage
// outlives the hard deadline and resolves later.
func HandleIssueToken(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := zerolog.Ctx(r.Context())
		allowOrigin, originOK := resolveOrigin(deps, r.Header.Get("Origin"))
		em := pipeline.NewEmitter(w, log, requestID(r), allowOrigin)

		// Stage: cors. Binary accept/reject, no collaborator involved.
		if !originOK {
			em.SendError(errs.NewError(errs.ErrOriginNotAllowed))
			return
		}

		// Stage: auth_verify, part one. This surface is cookie-session only;
		// a bearer header marks a disallowed client class and is rejected
		// before any value parsing.
		if strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			em.SendError(errs.NewError(errs.ErrBearerNotAllowed))
			return
		}

		// Signing misconfiguration fails every request up front, before any
		// external call is spent on a credential we could never sign.
		if !deps.Config.SigningConfigured() {
			log.Error().Msg("livekit signing credentials are not configured")
			em.SendError(errs.NewError(errs.ErrSigningNotConfigured))
			return
		}

		pipeline.WithHardDeadline(r.Context(), pipeline.HardDeadline, em, func(ctx context.Context) {
			runner := pipeline.NewRunner(log)

			// Stage: auth_verify, part two. Cookie-to-identity exchange.
			caller, stageErr := pipeline.RunStage(ctx, runner, errs.StageAuthVerify, pipeline.VerifyBudget,
				func(ctx context.Context) (*identity.Identity, *errs.CustomError) {
					id, err := deps.Identity.Exchange(ctx, r)
					if err != nil || id == nil || id.ID == "" {
						log.Warn().Err(err).Msg("session exchange failed")
						return nil, errs.NewError(errs.ErrUnauthorized)
					}
					return id, nil
				})
			if stageErr != nil {
				em.SendError(stageErr)
				return
			}

			// Stage: parse. Runs inline because it reads the request body and
			// the binder touches the response writer; neither may be used by
			// an abandoned goroutine after the handler returns.
			input, stageErr := pipeline.RunInline(ctx, runner, errs.StageParse, pipeline.ParseBudget,
				func(ctx context.Context) (*TokenInput, *errs.CustomError) {
					var in TokenInput
					if bindErr := req.BindJSON(w, r, &in); bindErr != nil {
						return nil, bindErr
					}
					if strings.TrimSpace(in.RoomName) == "" || strings.TrimSpace(in.ParticipantName) == "" {
						return nil, errs.NewError(errs.ErrMissingFields)
					}
					return &in, nil
				})
			if stageErr != nil {
				em.SendError(stageErr)
				return
			}

			// Stage: room_gate. Launch mode restricts all traffic to the single
			// launch room; this is a product constraint, not a lookup failure.
			if !authz.RoomAllowed(input.RoomName) {
				log.Warn().Str("room", input.RoomName).Msg("room outside launch allowlist")
				em.SendError(errs.NewError(errs.ErrRoomNotAllowed))
				return
			}

			// Stage: authorize. Never fails — errors inside degrade to deny.
			decision, stageErr := pipeline.RunStage(ctx, runner, errs.StageAuthorize, pipeline.AuthorizeBudget,
				func(ctx context.Context) (authz.Decision, *errs.CustomError) {
					return deps.Resolver.Resolve(ctx, log, caller, input.RoomName, input.wantsPublish()), nil
				})
			if stageErr != nil {
				em.SendError(stageErr)
				return
			}

			log.Info().
				Str("room", input.RoomName).
				Bool("can_publish", decision.CanPublish).
				Str("path", string(decision.Path)).
				Msg("publish authorization resolved")

			// Stage: token_sign.
			signed, stageErr := pipeline.RunStage(ctx, runner, errs.StageTokenSign, pipeline.SignBudget,
				func(ctx context.Context) (string, *errs.CustomError) {
					metadata, err := credentialMetadata(ctx, deps, caller, input)
					if err != nil {
						log.Error().Err(err).Msg("failed to serialize participant metadata")
						return "", errs.NewError(errs.ErrSigningFailed)
					}

					s, err := deps.Signer.Sign(ctx, token.MintRequest{
						UserID:       caller.ID,
						Room:         input.RoomName,
						DisplayName:  input.ParticipantName,
						Metadata:     metadata,
						CanPublish:   decision.CanPublish,
						CanSubscribe: input.wantsSubscribe(),
						DeviceType:   input.DeviceType,
						DeviceID:     input.DeviceID,
						SessionID:    input.SessionID,
					})
					if err != nil {
						log.Error().Err(err).Msg("credential signing failed")
						return "", errs.NewError(errs.ErrSigningFailed)
					}
					return s, nil
				})
			if stageErr != nil {
				em.SendError(stageErr)
				return
			}

			em.Send(http.StatusOK, TokenSuccess{
				Token: signed,
				URL:   token.NormalizeEndpoint(deps.Config.LiveKitURL),
			}, "")
		})
	}
}

// credentialMetadata serializes the caller-supplied metadata, falling back to a
// profile-derived blob when none was sent. A failed profile lookup only costs
// the fallback metadata, never the credential.
func credentialMetadata(ctx context.Context, deps *AppDeps, caller *identity.Identity, input *TokenInput) (string, error) {
	if input.ParticipantMetadata != nil {
		return token.SerializeMetadata(input.ParticipantMetadata)
	}

	profile, err := deps.Profiles.ProfileByID(ctx, caller.ID)
	if err != nil || profile == nil {
		return "", nil
	}
	return token.SerializeMetadata(map[string]string{
		"profile_id":   profile.ID,
		"username":     profile.Username,
		"display_name": profile.DisplayName,
		"avatar_url":   profile.AvatarURL,
	})
}
