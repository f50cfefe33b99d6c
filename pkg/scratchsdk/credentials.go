package scratchsdk

import (
	"net/http"
	"regexp"
	"strings"
)

const (
	cookieSession  = "scratchsessionsid"
	cookieCSRF     = "scratchcsrftoken"
	cookieLanguage = "scratchlanguage"

	headerCookie    = "Cookie"
	headerCSRFToken = "X-CSRFToken"
	headerXToken    = "X-Token"
)

// The session cookie is matched with its surrounding quotes: the service
// issues it quoted and expects it back in exactly that form.
var (
	sessionCookiePattern = regexp.MustCompile(`scratchsessionsid=("[^"]+"|[^";,\s]+)`)
	csrfCookiePattern    = regexp.MustCompile(`scratchcsrftoken=([^";,\s]+)`)
)

// Credentials is the credential material of a session at one point in time.
// It is a plain value: sessions copy it under their lock and never share it.
type Credentials struct {
	// SessionCookie is the opaque scratchsessionsid value, kept verbatim
	SessionCookie string

	// CSRFToken is sent both as the scratchcsrftoken cookie and X-CSRFToken
	CSRFToken string

	// XToken is the extended token, empty until acquisition completes
	XToken string
}

// HasSession reports whether the credentials carry a session cookie.
func (c Credentials) HasSession() bool {
	return c.SessionCookie != ""
}

// WithoutSession returns the unauthenticated form of c: the CSRF token only.
// Calling it on credentials that never had a session is a no-op.
func (c Credentials) WithoutSession() Credentials {
	return Credentials{CSRFToken: c.CSRFToken}
}

// CookieHeader renders the Cookie header value for c, or "" when there is
// nothing to send.
//
//	scratchsessionsid=<cookie>;scratchcsrftoken=<csrf>;scratchlanguage=en;
func (c Credentials) CookieHeader() string {
	if c.SessionCookie == "" && c.CSRFToken == "" {
		return ""
	}

	var b strings.Builder
	if c.SessionCookie != "" {
		b.WriteString(cookieSession + "=" + c.SessionCookie + ";")
	}
	if c.CSRFToken != "" {
		b.WriteString(cookieCSRF + "=" + c.CSRFToken + ";")
	}
	b.WriteString(cookieLanguage + "=en;")
	return b.String()
}

// Headers derives the outgoing request headers from c. It is a pure
// function; every call returns a fresh header map.
//
// Without a session cookie this is the unauthenticated set used by the login
// call. With one it is the authenticated set, including X-Token once the
// extended token is known.
func (c Credentials) Headers(userAgent, referer string) http.Header {
	h := make(http.Header)
	h.Set("User-Agent", userAgent)
	h.Set("X-Requested-With", "XMLHttpRequest")
	h.Set("Referer", referer)

	if c.CSRFToken != "" {
		h.Set(headerCSRFToken, c.CSRFToken)
	}
	if cookie := c.CookieHeader(); cookie != "" {
		h.Set(headerCookie, cookie)
	}
	if c.HasSession() && c.XToken != "" {
		h.Set(headerXToken, c.XToken)
	}

	return h
}

// parseLoginCookies extracts the session cookie and CSRF token from the
// Set-Cookie headers of a login response. Either return value may be empty.
func parseLoginCookies(header http.Header) (sessionCookie, csrfToken string) {
	raw := strings.Join(header.Values("Set-Cookie"), "\n")

	if m := sessionCookiePattern.FindStringSubmatch(raw); m != nil {
		sessionCookie = m[1]
	}
	if m := csrfCookiePattern.FindStringSubmatch(raw); m != nil {
		csrfToken = m[1]
	}
	return sessionCookie, csrfToken
}
