package scratchsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ============================================================================
// Password Login
// ============================================================================

// PasswordLogin exchanges a username and password for session credentials.
// It does not touch any Session; use Session.Login for the full flow.
//
// The service answers a bad password with a 200 and no session cookie, so
// the cookie's presence is the only success signal. When the response sets
// no CSRF cookie the client's default token is kept.
func (c *Client) PasswordLogin(ctx context.Context, username, password string) (Credentials, error) {
	const op = "password login"

	body, err := json.Marshal(loginRequest{Username: username, Password: password})
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	anon := Credentials{CSRFToken: c.csrfToken()}
	headers := c.headers(anon)
	headers.Set("Content-Type", "application/json")

	resp, err := c.doRequest(ctx, http.MethodPost, c.BaseURL+"/login/", bytes.NewReader(body), headers)
	if err != nil {
		return Credentials{}, newSessionError(op, ErrNetworkFailure, err)
	}
	head := drain(resp)

	sessionCookie, csrfToken := parseLoginCookies(resp.Header)
	if sessionCookie == "" {
		var cause error = errors.New("no session cookie in response")
		if resp.StatusCode != http.StatusOK {
			cause = statusError(resp.StatusCode, head)
		}
		return Credentials{}, newSessionError(op, ErrCredentialRejected, cause)
	}
	if csrfToken == "" {
		csrfToken = anon.CSRFToken
	}

	return Credentials{SessionCookie: sessionCookie, CSRFToken: csrfToken}, nil
}

// ============================================================================
// Extended Token
// ============================================================================

// FetchExtendedToken asks the session endpoint for the extended token and
// identity belonging to creds. Any XToken already in creds is ignored.
func (c *Client) FetchExtendedToken(ctx context.Context, creds Credentials) (*SessionInfo, error) {
	const op = "fetch extended token"

	if !creds.HasSession() {
		return nil, newSessionError(op, ErrNotAuthenticated, nil)
	}
	creds.XToken = ""

	resp, err := c.doRequest(ctx, http.MethodPost, c.BaseURL+"/session/", nil, c.headers(creds))
	if err != nil {
		return nil, newSessionError(op, ErrNetworkFailure, err)
	}

	var body sessionResponse
	if err := decodeJSON(resp, &body, http.StatusOK); err != nil {
		return nil, newSessionError(op, ErrMalformedResponse, err)
	}

	info, missing := body.toSessionInfo()
	if info == nil {
		return nil, newSessionError(op, ErrMalformedResponse, fmt.Errorf("missing field %q", missing))
	}

	return info, nil
}
