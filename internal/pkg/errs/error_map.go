/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses and internal error handling. The Stage field is the machine-readable tag
clients branch on; Message is prose and carries no contract.
*/
package errs

import "net/http"

// Pipeline stage tags reported in error responses. Stage names are part of the
// wire contract: clients branch on them without parsing prose.
const (
	StageCors        = "cors"
	StageAuthVerify  = "auth_verify"
	StageParse       = "parse"
	StageRoomGate    = "room_gate"
	StageAuthorize   = "authorize"
	StageTokenSign   = "token_sign"
	StageHardTimeout = "hard_timeout"
	StageRateLimit   = "rate_limit"
	StageInternal    = "internal"
)

// errorMap stores the detailed CustomError struct corresponding to every application error
// code. The key is the error code (int); the value carries the user message, HTTP status
// code, and originating pipeline stage.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusBadRequest, Stage: StageParse},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "Request body is not valid JSON.", Status: http.StatusBadRequest, Stage: StageParse},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Message: "Request contains unexpected data.", Status: http.StatusBadRequest, Stage: StageParse},
	ErrMissingFields:        {Code: ErrMissingFields, Message: "roomName and participantName are required.", Status: http.StatusBadRequest, Stage: StageParse},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests, Stage: StageRateLimit},

	// 3xxx: Authentication and Policy Errors
	ErrOriginNotAllowed: {Code: ErrOriginNotAllowed, Message: "Origin not allowed.", Status: http.StatusForbidden, Stage: StageCors},
	ErrBearerNotAllowed: {Code: ErrBearerNotAllowed, Message: "Bearer authentication is not accepted on this route.", Status: http.StatusForbidden, Stage: StageAuthVerify},
	ErrUnauthorized:     {Code: ErrUnauthorized, Message: "Invalid or expired session. Please sign in again.", Status: http.StatusUnauthorized, Stage: StageAuthVerify},
	ErrRoomNotAllowed:   {Code: ErrRoomNotAllowed, Message: "Room is not available.", Status: http.StatusForbidden, Stage: StageRoomGate},

	// 4xxx: Deadline Errors
	ErrStageTimeout: {Code: ErrStageTimeout, Message: "Request stage timed out.", Status: http.StatusGatewayTimeout},
	ErrHardTimeout:  {Code: ErrHardTimeout, Message: "Request deadline exceeded.", Status: http.StatusGatewayTimeout, Stage: StageHardTimeout},

	// 5xxx: Internal System Errors
	ErrSigningNotConfigured: {Code: ErrSigningNotConfigured, Message: "Media signing service is not configured.", Status: http.StatusInternalServerError, Stage: StageTokenSign},
	ErrSigningFailed:        {Code: ErrSigningFailed, Message: "Failed to generate media token.", Status: http.StatusInternalServerError, Stage: StageTokenSign},
	ErrUnknown:              {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError, Stage: StageInternal},
}
