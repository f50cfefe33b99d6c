package scratchsdk

import (
	"errors"
	"fmt"
)

// ============================================================================
// Error Kinds
// ============================================================================

var (
	// ErrCredentialRejected is returned when the login endpoint did not hand
	// out the expected session cookie (bad username/password, or the service
	// changed its cookie layout), or when SessionLogin is given no cookie.
	ErrCredentialRejected = errors.New("credential rejected")

	// ErrNetworkFailure wraps transport-level failures on any call.
	ErrNetworkFailure = errors.New("network failure")

	// ErrMalformedResponse is returned when the session endpoint answers with
	// a body that is missing the fields needed to build an identity.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrAcquisitionTimeout is returned by Wait when the extended token was
	// not acquired before the deadline.
	ErrAcquisitionTimeout = errors.New("acquisition timed out")

	// ErrAcquisitionFailed is returned by Wait when the background fetch of
	// the extended token failed. The underlying cause is wrapped alongside it
	// and is also available from Session.LastError.
	ErrAcquisitionFailed = errors.New("acquisition failed")

	// ErrNotAuthenticated is returned when an authenticated call is made on a
	// session that holds no session cookie, in which case no request is
	// sent, and by Wait when Logout or Reset abandons the acquisition it
	// was waiting on.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// ============================================================================
// SessionError
// ============================================================================

// SessionError describes a failed session operation. Kind is one of the
// sentinel errors above so callers can match with errors.Is; Err carries the
// underlying cause when there is one.
type SessionError struct {
	// Op is the operation that failed (e.g. "login", "fetch extended token")
	Op string

	// Kind is the error class, one of the Err* sentinels in this package
	Kind error

	// Err is the underlying cause, may be nil
	Err error
}

// Error implements the error interface.
func (e *SessionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("session error: %s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("session error: %s: %v: %v", e.Op, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *SessionError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newSessionError(op string, kind, err error) *SessionError {
	return &SessionError{Op: op, Kind: kind, Err: err}
}

// StatusError is the cause attached to a SessionError when the service
// answered with an unexpected HTTP status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}
