package domain

import (
	"errors"
	"fmt"
)

// ErrNotSupported is returned by collection sources for operations the
// backend does not expose (e.g. creating users from the console).
var ErrNotSupported = errors.New("operation not supported for this collection")

// ValidationError is a client-side precondition failure. It never reaches
// the network and is surfaced directly to the initiating form.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// TransportError wraps a network-level failure. The underlying cause is kept
// for logging but collapsed to a generic message for display.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Message returns the display form. Timeouts, DNS failures and refused
// connections are deliberately not distinguished.
func (e *TransportError) Message() string {
	return "network error, please try again"
}

// AuthorizationError indicates the session is invalid, expired or carries an
// insufficient role. Receiving one must drop the session guard back to
// anonymous.
type AuthorizationError struct {
	StatusCode int
	Msg        string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("authorization failed (%d): %s", e.StatusCode, e.Msg)
}

func (e *AuthorizationError) Message() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "session expired, please log in again"
}

// RemoteError is any other non-2xx response. Msg carries the server's
// message field verbatim when present.
type RemoteError struct {
	StatusCode int
	Msg        string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote error (%d): %s", e.StatusCode, e.Msg)
}

func (e *RemoteError) Message() string { return e.Msg }

// Normalize collapses any error into the human-readable string stored on a
// collection's error field. fallback is the per-operation default used when
// the error carries no usable message.
func Normalize(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	var te *TransportError
	if errors.As(err, &te) {
		return te.Message()
	}
	var ae *AuthorizationError
	if errors.As(err, &ae) {
		return ae.Message()
	}
	var re *RemoteError
	if errors.As(err, &re) && re.Msg != "" {
		return re.Msg
	}
	return fallback
}

// IsAuthorization reports whether err is (or wraps) an AuthorizationError.
func IsAuthorization(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
