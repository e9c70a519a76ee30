/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific request-handling, policy, and system failures
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrMissingFields indicates that a required request field (roomName, participantName) is absent.
	ErrMissingFields = 1005

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007
)

// 3xxx: Authentication and Policy Errors
const (
	// ErrOriginNotAllowed indicates the request's Origin header is absent or not on the allowlist.
	ErrOriginNotAllowed = 3101

	// ErrBearerNotAllowed indicates the request carried a Bearer authorization header.
	// The token route is cookie-session only; bearer clients are a disallowed class
	// in the current launch phase, not a parse failure.
	ErrBearerNotAllowed = 3102

	// ErrUnauthorized indicates the session cookie exchange failed or yielded no identity.
	ErrUnauthorized = 3103

	// ErrRoomNotAllowed indicates the requested room is outside the launch-mode allowlist.
	ErrRoomNotAllowed = 3104
)

// 4xxx: Deadline Errors
const (
	// ErrStageTimeout indicates a single pipeline stage exceeded its budget.
	ErrStageTimeout = 4001

	// ErrHardTimeout indicates the whole-request deadline was exceeded.
	ErrHardTimeout = 4002
)

// 5xxx: Internal System Errors
const (
	// ErrSigningNotConfigured indicates the LiveKit endpoint, key id, or secret is missing.
	ErrSigningNotConfigured = 5101

	// ErrSigningFailed indicates the credential signing call itself failed.
	ErrSigningFailed = 5102

	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
