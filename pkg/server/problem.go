package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/recolor/pkg/errors"
)

// Problem is an RFC 7807 Problem Details response.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Code     string `json:"code,omitempty"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// problemBase prefixes problem type URIs. The error code is appended.
const problemBase = "https://recolor.dev/problems/"

// WriteProblem writes an RFC 7807 Problem Details JSON response.
func WriteProblem(w http.ResponseWriter, p Problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// WriteError writes err as a problem response, choosing the status from its
// error code. Internal errors are reported without their cause.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := StatusFor(code)
	detail := errors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		detail = "an unexpected error occurred"
	}
	WriteProblem(w, Problem{
		Type:     problemBase + string(code),
		Title:    http.StatusText(status),
		Status:   status,
		Code:     string(code),
		Detail:   detail,
		Instance: r.URL.Path,
	})
}

// StatusFor maps an error code to an HTTP status.
func StatusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidColor,
		errors.ErrCodeInvalidPalette,
		errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeInvalidTheme, errors.ErrCodeInvalidImage:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound,
		errors.ErrCodeThemeNotFound,
		errors.ErrCodeFileNotFound,
		errors.ErrCodeBundleNotFound:
		return http.StatusNotFound
	case errors.ErrCodeCache, errors.ErrCodeStorage:
		return http.StatusServiceUnavailable
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
