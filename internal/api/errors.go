package api

import "net/http"

// Canonical error codes. Every failure mode of the embeddings pipeline maps
// to exactly one of these.
const (
	CodeInvalidRequest  = "invalid_request"
	CodeUpstreamError   = "upstream_error"
	CodeUpstreamTimeout = "upstream_timeout"
	CodeInternal        = "internal"
)

// defaultMessages are the fixed client-safe descriptions per code. Internal
// detail never reaches the client; it is logged separately.
var defaultMessages = map[string]string{
	CodeInvalidRequest:  "The request is invalid.",
	CodeUpstreamError:   "Embedding backend is unavailable.",
	CodeUpstreamTimeout: "Embedding backend timed out.",
	CodeInternal:        "Embedding generation failed.",
}

// Error is a canonical pipeline error carrying a code and a client-safe
// message.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

// NewError builds an Error; an empty message falls back to the fixed default
// for the code.
func NewError(code, message string) *Error {
	if message == "" {
		message = defaultMessages[code]
	}
	return &Error{Code: code, Message: message}
}

// ErrorResponse is the canonical error envelope.
type ErrorResponse struct {
	Error Error `json:"error"`
}

// StatusFor maps an error code to its HTTP status.
func StatusFor(code string) int {
	switch code {
	case CodeInvalidRequest:
		return http.StatusBadRequest
	case CodeUpstreamError:
		return http.StatusServiceUnavailable
	case CodeUpstreamTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
