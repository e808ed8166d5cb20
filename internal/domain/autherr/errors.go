// Package autherr defines the failure taxonomy shared by the auth use cases,
// the repository and the remote data source. Every failure leaving the core
// is an *Error, so callers can branch on Kind and show Message to the user.
package autherr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies where a failure originated.
type Kind int

const (
	// KindValidation is a local input check that failed before any I/O.
	KindValidation Kind = iota + 1
	// KindAPI is a non-2xx response from the backend.
	KindAPI
	// KindTransport is a network or serialization failure below HTTP.
	KindTransport
	// KindState is a local precondition failure or a malformed 2xx payload.
	KindState
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindAPI:
		return "api_error"
	case KindTransport:
		return "transport_error"
	case KindState:
		return "state_error"
	default:
		return "unknown_error"
	}
}

// GenericMessage is shown to users for failures whose own message is not
// meant for them.
const GenericMessage = "Something went wrong, please try again."

// Error is the single error type returned by the auth core.
type Error struct {
	Kind Kind

	// Code is the HTTP status for KindAPI, zero otherwise.
	Code int

	// Message is safe to show to the user for every kind but KindTransport.
	Message string

	// Internal holds the underlying cause for logging.
	Internal error
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Code, e.Message)
	}
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Internal
}

// Is matches another *Error with the same kind and message, so sentinels
// work with errors.Is even after being re-wrapped.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message && (t.Code == 0 || e.Code == t.Code)
}

// Validation creates a failure for rejected caller input.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// API creates a failure for a non-2xx response. An empty message falls back
// to the status text.
func API(code int, message string) *Error {
	if message == "" {
		message = http.StatusText(code)
	}
	if message == "" {
		message = "Unknown error"
	}
	return &Error{Kind: KindAPI, Code: code, Message: message}
}

// Transport wraps a network, I/O or decoding failure.
func Transport(err error) *Error {
	msg := "request failed"
	if err != nil {
		msg = err.Error()
	}
	return &Error{Kind: KindTransport, Message: msg, Internal: err}
}

// State creates a local precondition failure.
func State(message string) *Error {
	return &Error{Kind: KindState, Message: message}
}

// StateWrap is State with an underlying cause.
func StateWrap(message string, err error) *Error {
	return &Error{Kind: KindState, Message: message, Internal: err}
}

// Sentinel state failures.
var (
	ErrNoAuthToken         = State("No auth token found")
	ErrNoUserID            = State("No user id found")
	ErrInvalidResponse     = State("Invalid response from server")
	ErrOperationInProgress = State("Operation already in progress")
)

// From converts any error into an *Error. Foreign errors become transport
// failures.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Transport(err)
}

func kindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsValidation(err error) bool { return kindOf(err) == KindValidation }
func IsAPI(err error) bool        { return kindOf(err) == KindAPI }
func IsTransport(err error) bool  { return kindOf(err) == KindTransport }
func IsState(err error) bool      { return kindOf(err) == KindState }

// StatusCode returns the HTTP status carried by an API failure, or 0.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindAPI {
		return e.Code
	}
	return 0
}

// UserMessage returns the text to show the end user. Transport failures and
// foreign errors get GenericMessage because their text may leak internals.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) || e.Kind == KindTransport || e.Message == "" {
		return GenericMessage
	}
	return e.Message
}
