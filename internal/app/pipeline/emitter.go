package pipeline

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/LiveStak-Brad/mylivelinks-sub010/internal/pkg/errs"
	"github.com/LiveStak-Brad/mylivelinks-sub010/internal/pkg/resp"
)

// RouteVersion tags every token-route response so clients and logs can
// correlate behavior with the deployed revision of this route.
const RouteVersion = "v2"

// Emitter delivers exactly one response per request.
//
// Every response, success or failure, carries the same CORS and correlation
// headers. The sync.Once latch makes concurrent emission attempts (pipeline
// result vs. hard-deadline timer) safe: the winner writes, the loser's call
// blocks until that write completes and then becomes a no-op. No write to the
// ResponseWriter ever happens after the handler has returned.
type Emitter struct {
	w           http.ResponseWriter
	log         *zerolog.Logger
	requestID   string
	allowOrigin string
	start       time.Time
	once        sync.Once
}

// NewEmitter creates an Emitter for one request. allowOrigin must be the
// matched allowlisted origin or the configured default, never a reflected
// arbitrary origin.
func NewEmitter(w http.ResponseWriter, log *zerolog.Logger, requestID, allowOrigin string) *Emitter {
	return &Emitter{
		w:           w,
		log:         log,
		requestID:   requestID,
		allowOrigin: allowOrigin,
		start:       time.Now(),
	}
}

// writeHeaders applies the uniform security and correlation header set.
func (e *Emitter) writeHeaders() {
	h := e.w.Header()
	h.Set("Access-Control-Allow-Origin", e.allowOrigin)
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	h.Set("Vary", "Origin")
	h.Set("X-Route-Version", RouteVersion)
	h.Set("X-Request-Id", e.requestID)
}

// Send emits the response exactly once. Later calls are ignored.
// stage is recorded in the response_sent log line; for successes it is empty.
func (e *Emitter) Send(status int, payload any, stage string) {
	e.once.Do(func() {
		e.writeHeaders()
		e.w.Header().Set("Content-Type", "application/json")
		e.w.Header().Set("X-Content-Type-Options", "nosniff")

		body, err := json.Marshal(payload)
		if err != nil {
			e.log.Error().Err(err).Msg("failed to encode response payload")
			status = http.StatusInternalServerError
			body = []byte(`{"error":"Something went wrong. Please try again.","stage":"internal"}`)
		}

		e.w.WriteHeader(status)
		e.w.Write(body)

		e.log.Info().
			Int("status", status).
			Str("stage", stage).
			Int64("elapsed_ms", time.Since(e.start).Milliseconds()).
			Msg("response_sent")
	})
}

// SendError emits the {error, stage} failure envelope for the given error.
func (e *Emitter) SendError(customErr *errs.CustomError) {
	if customErr == nil {
		customErr = errs.NewError(errs.ErrUnknown)
	}
	e.Send(customErr.Status, resp.ErrorBody{Error: customErr.Message, Stage: customErr.Stage}, customErr.Stage)
}

// SendPreflight answers an OPTIONS request: 200, no body, headers only.
func (e *Emitter) SendPreflight() {
	e.once.Do(func() {
		e.writeHeaders()
		e.w.WriteHeader(http.StatusOK)

		e.log.Info().
			Int("status", http.StatusOK).
			Str("stage", "preflight").
			Int64("elapsed_ms", time.Since(e.start).Milliseconds()).
			Msg("response_sent")
	})
}
