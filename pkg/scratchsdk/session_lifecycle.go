package scratchsdk

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// Login authenticates with a username and password and waits, bounded by
// Client.LoginWaitTimeout, for the extended token.
//
// If the password login itself fails the error is returned and the session
// is left untouched: a new session stays Unauthenticated, and one already
// logged in keeps its cookie, token and identity. Otherwise the session holds a valid cookie and the
// result of the wait is returned: nil once Authenticated, an
// ErrAcquisitionFailed or ErrAcquisitionTimeout error otherwise. In the
// latter case the session is still usable for cookie-only calls.
func (s *Session) Login(ctx context.Context, username, password string) error {
	creds, err := s.client.PasswordLogin(ctx, username, password)
	if err != nil {
		return err
	}

	gen, err := s.sessionLogin(ctx, creds.SessionCookie, username, creds.CSRFToken)
	if err != nil {
		return err
	}

	return s.wait(ctx, s.client.loginWaitTimeout(), gen, true)
}

// SessionLogin adopts a session cookie obtained elsewhere, for example one
// cached from an earlier Login. An empty csrfToken falls back to the
// client's default. Identity and extended token of any previous login are
// dropped.
//
// The extended token is fetched in the background; SessionLogin returns as
// soon as the fetch has started. Use Wait to block on its outcome.
func (s *Session) SessionLogin(ctx context.Context, sessionCookie, username, csrfToken string) error {
	_, err := s.sessionLogin(ctx, sessionCookie, username, csrfToken)
	return err
}

// sessionLogin returns the generation of the acquisition it started.
func (s *Session) sessionLogin(ctx context.Context, sessionCookie, username, csrfToken string) (uint64, error) {
	sessionCookie = strings.TrimSpace(sessionCookie)
	if sessionCookie == "" {
		return 0, newSessionError("session login", ErrCredentialRejected, errors.New("empty session cookie"))
	}
	if csrfToken == "" {
		csrfToken = s.client.csrfToken()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.abandonAcquisitionLocked()
	s.creds = Credentials{SessionCookie: sessionCookie, CSRFToken: csrfToken}
	s.username = username
	s.identity = Identity{}
	s.lastErr = nil
	s.state = StateAuthenticating
	s.rebuildHeadersLocked()
	s.startAcquisitionLocked(ctx)

	return s.gen, nil
}

// Reacquire retries the extended token fetch for the current session cookie
// and waits for it, bounded by ctx and Client.LoginWaitTimeout. A fetch
// that is already pending is joined rather than duplicated, and a session
// that already holds its token returns nil at once.
func (s *Session) Reacquire(ctx context.Context) error {
	s.mu.Lock()
	switch {
	case !s.creds.HasSession():
		s.mu.Unlock()
		return newSessionError("reacquire", ErrNotAuthenticated, nil)
	case s.acquisition == AcquisitionComplete:
		s.mu.Unlock()
		return nil
	case s.acquisition != AcquisitionPending:
		s.lastErr = nil
		s.state = StateAuthenticating
		s.startAcquisitionLocked(ctx)
	}
	gen := s.gen
	s.mu.Unlock()

	return s.wait(ctx, s.client.loginWaitTimeout(), gen, true)
}

// Logout invalidates the session on the service and clears the local
// credentials whatever the outcome. With keepIdentity the identity stays
// readable in StateLoggedOutKeepData; otherwise the session is Reset.
//
// It reports whether the service confirmed the logout with a 200. A
// session without a cookie sends nothing and reports false.
func (s *Session) Logout(ctx context.Context, keepIdentity bool) bool {
	s.mu.Lock()
	hasSession := s.creds.HasSession()
	headers := s.headers.Clone()
	username := s.username
	if s.identity.Username != "" {
		username = s.identity.Username
	}
	if keepIdentity && hasSession {
		s.abandonAcquisitionLocked()
		s.creds = Credentials{}
		s.state = StateLoggedOutKeepData
		s.lastErr = nil
		s.rebuildHeadersLocked()
		s.setAcquisitionLocked(AcquisitionIdle)
	} else if !keepIdentity {
		s.resetLocked()
	}
	s.mu.Unlock()

	if !hasSession {
		return false
	}

	logger := s.client.logger().With("username", username)

	resp, err := s.client.doRequest(ctx, http.MethodPost, s.client.BaseURL+"/accounts/logout/", nil, headers)
	if err != nil {
		logger.Warn("logout request failed; local session cleared", "error", err)
		return false
	}
	drain(resp)

	if resp.StatusCode != http.StatusOK {
		logger.Warn("logout not confirmed by service; local session cleared", "status", resp.StatusCode)
		return false
	}
	return true
}

// ============================================================================
// Acquisition
// ============================================================================

// startAcquisitionLocked launches a detached extended token fetch for the
// current credentials. It outlives ctx's cancellation but not
// Client.AcquireTimeout, Logout or Reset.
func (s *Session) startAcquisitionLocked(ctx context.Context) {
	if s.cancel != nil {
		s.cancel()
	}

	fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.client.acquireTimeout())
	s.cancel = cancel
	s.setAcquisitionLocked(AcquisitionPending)

	go s.acquire(fetchCtx, cancel, s.gen, s.creds)
}

func (s *Session) acquire(ctx context.Context, cancel context.CancelFunc, gen uint64, creds Credentials) {
	defer cancel()

	info, err := s.client.FetchExtendedToken(ctx, creds)
	s.finishAcquisition(gen, info, err)
}

func (s *Session) finishAcquisition(gen uint64, info *SessionInfo, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger := s.client.logger().With("username", s.username)

	if gen != s.gen {
		logger.Debug("discarding stale extended token result", "error", err)
		return
	}
	s.cancel = nil

	if err != nil {
		s.lastErr = err
		s.state = StateDegraded
		s.setAcquisitionLocked(AcquisitionFailed)
		logger.Warn("extended token unavailable; session degraded", "error", err)
		return
	}

	s.creds.XToken = info.XToken
	s.identity = info.Identity
	s.lastErr = nil
	s.state = StateAuthenticated
	s.rebuildHeadersLocked()
	s.setAcquisitionLocked(AcquisitionComplete)
	logger.Debug("extended token acquired", "user_id", info.Identity.ID)
}
