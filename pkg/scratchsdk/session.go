package scratchsdk

import (
	"context"
	"net/http"
	"sync"
)

// ============================================================================
// States
// ============================================================================

// LifecycleState is the coarse state of a Session.
type LifecycleState int

const (
	// StateUnauthenticated is the state of a new or reset session.
	StateUnauthenticated LifecycleState = iota

	// StateAuthenticating means a session cookie is held and the extended
	// token is being fetched.
	StateAuthenticating

	// StateAuthenticated means the extended token and identity are known.
	StateAuthenticated

	// StateDegraded means a session cookie is held but the extended token
	// fetch failed. Cookie-only calls still work; Reacquire can recover.
	StateDegraded

	// StateLoggedOutKeepData is reached by Logout with keepIdentity set.
	// Identity is readable but no authenticated call is allowed.
	StateLoggedOutKeepData
)

func (s LifecycleState) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateDegraded:
		return "degraded"
	case StateLoggedOutKeepData:
		return "logged_out_keep_data"
	default:
		return "unknown"
	}
}

// AcquisitionState tracks the extended token fetch.
type AcquisitionState int

const (
	// AcquisitionIdle means no fetch has been started for the current
	// credentials, or the last one was abandoned by Logout or Reset.
	AcquisitionIdle AcquisitionState = iota

	// AcquisitionPending means a fetch is in flight.
	AcquisitionPending

	// AcquisitionComplete means the extended token and identity are held.
	AcquisitionComplete

	// AcquisitionFailed means the last fetch failed; see Session.LastError.
	AcquisitionFailed
)

func (s AcquisitionState) String() string {
	switch s {
	case AcquisitionIdle:
		return "idle"
	case AcquisitionPending:
		return "pending"
	case AcquisitionComplete:
		return "complete"
	case AcquisitionFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ============================================================================
// Session
// ============================================================================

// Session holds the credential chain of one user: session cookie and CSRF
// token, then the extended token and identity fetched with them. Each
// Session owns its own header set; nothing is shared between sessions.
//
// All methods are safe for concurrent use.
type Session struct {
	client *Client

	mu          sync.RWMutex
	creds       Credentials
	username    string // as claimed at login, before the service confirms it
	identity    Identity
	acquisition AcquisitionState
	state       LifecycleState
	lastErr     error
	headers     http.Header // derived from creds; rebuilt on every write

	// gen is bumped whenever the credentials an acquisition was started
	// for stop being current. It survives Reset.
	gen    uint64
	cancel context.CancelFunc
	gate   gate
}

// SessionState is a point-in-time copy of a session's fields.
type SessionState struct {
	Credentials Credentials
	Username    string
	Identity    Identity
	Acquisition AcquisitionState
	State       LifecycleState
	LastError   error
	Headers     http.Header
}

func newSession(client *Client) *Session {
	s := &Session{client: client, gate: newGate()}
	s.rebuildHeadersLocked()
	return s
}

// Snapshot returns a copy of every observable field, taken under one lock.
func (s *Session) Snapshot() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return SessionState{
		Credentials: s.creds,
		Username:    s.username,
		Identity:    s.identity,
		Acquisition: s.acquisition,
		State:       s.state,
		LastError:   s.lastErr,
		Headers:     s.headers.Clone(),
	}
}

// Credentials returns the current credential material.
func (s *Session) Credentials() Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds
}

// XToken returns the extended token, or "" until acquisition completes.
func (s *Session) XToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.XToken
}

// Identity returns the identity reported by the service. It is the zero
// value until acquisition has completed.
func (s *Session) Identity() Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// Username returns the service-reported username when known, otherwise the
// username given at login.
func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity.Username != "" {
		return s.identity.Username
	}
	return s.username
}

// State returns the coarse lifecycle state.
func (s *Session) State() LifecycleState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// AcquisitionState returns the state of the extended token fetch.
func (s *Session) AcquisitionState() AcquisitionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.acquisition
}

// LastError returns the cause of the last failed acquisition, or nil.
func (s *Session) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Headers returns a copy of the headers authenticated calls are sent with.
func (s *Session) Headers() http.Header {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.headers.Clone()
}

// Reset restores the session to the state of a newly created one. Any
// in-flight acquisition is cancelled and its result discarded; waiters on
// it return ErrNotAuthenticated. Reset is idempotent.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

// ============================================================================
// Locked helpers
// ============================================================================

func (s *Session) resetLocked() {
	s.abandonAcquisitionLocked()
	s.creds = Credentials{}
	s.username = ""
	s.identity = Identity{}
	s.state = StateUnauthenticated
	s.lastErr = nil
	s.rebuildHeadersLocked()
	s.setAcquisitionLocked(AcquisitionIdle)
}

// abandonAcquisitionLocked cancels any in-flight fetch and makes sure its
// result, should it still arrive, is ignored.
func (s *Session) abandonAcquisitionLocked() {
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Session) setAcquisitionLocked(state AcquisitionState) {
	s.acquisition = state
	s.gate.signal()
}

func (s *Session) rebuildHeadersLocked() {
	s.headers = s.client.headers(s.creds)
}
