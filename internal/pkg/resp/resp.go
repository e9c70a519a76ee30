/*
Package resp provides helper functions for constructing and sending standardized HTTP JSON responses.

Every failure response has the shape {"error": ..., "stage": ...} so clients can branch
on the stage tag without parsing prose; success responses carry the payload directly.
*/
package resp

import (
	"encoding/json"
	"net/http"

	"github.com/LiveStak-Brad/mylivelinks-sub010/internal/pkg/errs"
	"github.com/LiveStak-Brad/mylivelinks-sub010/internal/pkg/logx"
)

// ErrorBody is the uniform JSON failure envelope.
type ErrorBody struct {
	// Error is the user-facing error description.
	Error string `json:"error"`

	// Stage is the machine-readable pipeline stage tag.
	Stage string `json:"stage"`
}

// RespondJSON sets the Content-Type and sends the JSON payload with the given status.
func RespondJSON(w http.ResponseWriter, r *http.Request, httpStatus int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	response, err := json.Marshal(payload)
	if err != nil {
		logx.Error(
			err,
			"Error encoding JSON response",
			"http_status", httpStatus,
		)

		http.Error(w, "Error encoding JSON response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(httpStatus)
	w.Write(response)
}

// RespondSuccess sends a successful HTTP response (HTTP 200 OK) with the given payload.
func RespondSuccess(w http.ResponseWriter, r *http.Request, data any) {
	RespondJSON(w, r, http.StatusOK, data)
}

// RespondError sends the {error, stage} failure envelope for the given custom error.
func RespondError(w http.ResponseWriter, r *http.Request, customErr *errs.CustomError) {
	if customErr == nil {
		customErr = errs.NewError(errs.ErrUnknown)
	}

	RespondJSON(w, r, customErr.Status, ErrorBody{
		Error: customErr.Message,
		Stage: customErr.Stage,
	})
}
