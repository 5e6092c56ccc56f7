// Package scanerr defines the stable, flat error taxonomy exposed by the
// scan API. Every pipeline stage maps its failure to exactly one Kind; no
// nested causes ever reach the caller.
package scanerr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is a machine-readable error code.
type Kind string

const (
	KindInvalidJSON            Kind = "INVALID_JSON"
	KindInvalidURL             Kind = "INVALID_URL"
	KindUnsupportedScheme      Kind = "UNSUPPORTED_SCHEME"
	KindPrivateAddress         Kind = "PRIVATE_ADDRESS"
	KindRobotsDisallow         Kind = "ROBOTS_DISALLOW"
	KindMethodNotAllowed       Kind = "METHOD_NOT_ALLOWED"
	KindBodyTooLarge           Kind = "BODY_TOO_LARGE"
	KindUnsupportedContentType Kind = "UNSUPPORTED_CONTENT_TYPE"
	KindRateLimited            Kind = "RATE_LIMITED"
	KindAnalysisError          Kind = "ANALYSIS_ERROR"
	KindFetchFailed            Kind = "FETCH_FAILED"
	KindTimeout                Kind = "TIMEOUT"
)

// HTTPStatus returns the response status code for the kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidJSON, KindInvalidURL, KindUnsupportedScheme, KindPrivateAddress:
		return http.StatusBadRequest
	case KindRobotsDisallow:
		return http.StatusForbidden
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case KindBodyTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindUnsupportedContentType:
		return http.StatusUnsupportedMediaType
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindFetchFailed:
		return http.StatusBadGateway
	case KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a Kind, a human-readable message and an optional wrapped
// cause. The cause is for logs only and is never serialized to the caller.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates an Error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an Error that records cause for logging.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// WithDetails attaches extra fields to be merged into the error envelope.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// From extracts the *Error from err. Anything that is not a scanerr.Error
// is reported as ANALYSIS_ERROR so internal details never leak.
func From(err error) *Error {
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	return &Error{Kind: KindAnalysisError, Message: "analysis failed", cause: err}
}
