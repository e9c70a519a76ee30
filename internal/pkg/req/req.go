/*
Package req provides helper functions for HTTP request parsing and data binding.

It encapsulates the logic for parsing JSON request bodies, with size limits and
strict decoding, and maps failures onto the application's stage-tagged errors.
*/
package req

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/LiveStak-Brad/mylivelinks-sub010/internal/pkg/errs"
)

// MaxBodySize is the maximum allowed size (64 KB) for a JSON request body.
// Token requests are small; anything larger is hostile or broken.
const MaxBodySize int64 = 64 << 10

// BindJSON attempts to bind the JSON data from the HTTP request body to the destination
// struct dst. Unknown fields are tolerated (mobile clients send extra telemetry fields),
// but trailing content after the JSON document is rejected.
func BindJSON(w http.ResponseWriter, r *http.Request, dst any) *errs.CustomError {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)

	decoder := json.NewDecoder(r.Body)

	if err := decoder.Decode(dst); err != nil {
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return nil
}
