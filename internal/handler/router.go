/*
Package handler provides the HTTP handlers and routing setup for the live token service.

This file defines the main Router, applying logging, request-id, and recovery middleware
before delegating to the token pipeline and the supporting API endpoints. The token route
manages its own CORS headers (every response advertises the matched or default origin);
the rest of the API uses the shared CORS middleware.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/LiveStak-Brad/mylivelinks-sub010/internal/pkg/limiter"
	"github.com/LiveStak-Brad/mylivelinks-sub010/internal/pkg/logx"
	"github.com/LiveStak-Brad/mylivelinks-sub010/internal/pkg/resp"
)

const (
	// TokenRate and TokenBurst bound per-IP token minting. Minting is the
	// service's only credential-producing surface, so it gets its own budget.
	TokenRate  = 1.0
	TokenBurst = 5
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
func Router(deps *AppDeps) http.Handler {
	tokenLimiter := limiter.NewIPRateLimiter(rate.Limit(TokenRate), TokenBurst)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	// The token route sets its own CORS headers through the response emitter,
	// including on rejections, so it sits outside the shared CORS middleware.
	r.Options("/api/livekit/token", HandleTokenPreflight(deps))
	r.Method(http.MethodPost, "/api/livekit/token",
		tokenLimiter.Middleware(HandleIssueToken(deps)))

	c := cors.New(cors.Options{
		AllowedOrigins:   deps.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	r.Group(func(api chi.Router) {
		api.Use(c.Handler)

		api.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			resp.RespondSuccess(w, r, map[string]string{
				"status":  "ok",
				"service": "LiveLinks Token Service",
			})
		})

		api.Get("/api/live/eligibility", HandleLiveEligibility(deps))
	})

	return r
}
