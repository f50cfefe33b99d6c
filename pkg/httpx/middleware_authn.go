package httpx

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/aussiebroadwan/scratchcloud/pkg/jwtx"
	"github.com/aussiebroadwan/scratchcloud/pkg/slogx"
)

// SessionResolver looks up the principal owning a session id.
type SessionResolver func(ctx context.Context, sessionID string) (Principal, bool)

// CookieAuthConfig names the cookies and header used by CookieAuthMiddleware.
type CookieAuthConfig struct {
	SessionCookie string // e.g. "scratchsessionsid"
	CSRFCookie    string // e.g. "scratchcsrftoken"
	CSRFHeader    string // e.g. "X-CSRFToken"
}

// CookieAuthMiddleware authenticates requests by session cookie using the
// double-submit CSRF check: the CSRF cookie and header must both be present
// and equal. Unknown sessions get a 401, CSRF failures a 403.
func CookieAuthMiddleware(cfg CookieAuthConfig, resolve SessionResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			sid, err := r.Cookie(cfg.SessionCookie)
			if err != nil || sid.Value == "" {
				WriteError(w, http.StatusUnauthorized, "unauthorized", "missing session cookie")
				return
			}

			csrfCookie, err := r.Cookie(cfg.CSRFCookie)
			csrfHeader := r.Header.Get(cfg.CSRFHeader)
			if err != nil || csrfHeader == "" ||
				subtle.ConstantTimeCompare([]byte(csrfCookie.Value), []byte(csrfHeader)) != 1 {
				log.Warn("csrf check failed")
				WriteError(w, http.StatusForbidden, "csrf_failed", "CSRF token missing or incorrect")
				return
			}

			p, ok := resolve(ctx, sid.Value)
			if !ok {
				WriteError(w, http.StatusUnauthorized, "unauthorized", "unknown session")
				return
			}

			ctx = slogx.WithContext(ctx, log.With("username", p.Username))
			next.ServeHTTP(w, r.WithContext(contextWithPrincipal(ctx, p)))
		})
	}
}

// XTokenMiddleware checks the extended token in header against v. It must
// run after CookieAuthMiddleware: the token has to belong to the same
// session as the cookie. When required is false a missing header is
// accepted but a present, invalid one is not.
func XTokenMiddleware(v jwtx.Verifier, header string, required bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(header)
			if raw == "" {
				if required {
					WriteError(w, http.StatusUnauthorized, "unauthorized", "missing extended token")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				slogx.FromContext(r.Context()).Warn("xtoken verify failed", "err", err)
				WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid extended token")
				return
			}

			p, ok := PrincipalFromContext(r.Context())
			if !ok || p.SessionID != claims.SID {
				WriteError(w, http.StatusUnauthorized, "unauthorized", "extended token does not match session")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
