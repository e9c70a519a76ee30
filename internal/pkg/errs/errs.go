/*
Package errs provides custom error types and application-level error code constants.

This file defines the CustomError struct, which implements the standard Go error interface
and includes a business code, a user-facing message, an HTTP status code, and the pipeline
stage that produced the error. Stage information travels on the error value rather than
through panic/recover, so it is visible at every call site.
*/
package errs

import (
	"fmt"
	"net/http"

	"github.com/LiveStak-Brad/mylivelinks-sub010/internal/pkg/logx"
)

// CustomError is the custom error structure used throughout the application.
// It wraps the Go error interface, adding a business code, HTTP status code,
// and the pipeline stage tag reported to clients.
type CustomError struct {
	// Code is the business error code (see constants definition).
	Code int

	// Message is the user-facing error description.
	Message string

	// Status is the standard HTTP status code corresponding to this error.
	Status int

	// Stage identifies the pipeline stage the error originated from
	// (see the Stage* constants).
	Stage string
}

// Error implements the standard Go error interface.
func (e CustomError) Error() string {
	return fmt.Sprintf("Error Code %d (HTTP %d, stage %s): %s", e.Code, e.Status, e.Stage, e.Message)
}

// NewError constructs and returns a new *CustomError instance based on a predefined error
// code. If an unknown code is provided, it defaults to returning ErrUnknown.
func NewError(code int) *CustomError {
	templateErr, ok := errorMap[code]

	if !ok {
		logx.Error(
			fmt.Errorf("attempted to create an error with an unknown code in errorMap"),
			"Unknown error code requested",
			"requested_code", code,
		)

		unknownErr := errorMap[ErrUnknown]
		return &unknownErr
	}

	customErr := templateErr

	if customErr.Status == 0 {
		customErr.Status = http.StatusOK
	}

	return &customErr
}

// NewStageTimeout constructs the ErrStageTimeout error tagged with the stage
// whose budget was exceeded.
func NewStageTimeout(stage string) *CustomError {
	customErr := NewError(ErrStageTimeout)
	customErr.Stage = stage
	return customErr
}
