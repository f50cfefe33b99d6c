package http

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/aussiebroadwan/scratchcloud/internal/scratchstub/service"
	"github.com/aussiebroadwan/scratchcloud/pkg/httpx"
	"github.com/aussiebroadwan/scratchcloud/pkg/slogx"
)

// LoginHandler serves POST /login/. The CSRF check is the same double
// submit the session endpoints use, except that any matching token is
// accepted since the caller has no session yet.
type LoginHandler struct {
	SessionService *service.SessionService
	SecureCookies  bool
}

// ServeHTTP godoc
//
//	@Summary		Password login
//	@Description	Verifies a username and password and opens a cookie session.
//	@Description	On success the scratchsessionsid (quoted) and scratchcsrftoken cookies are set.
//	@Description	On failure no cookies are set.
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Param			X-CSRFToken	header		string			true	"Must equal the scratchcsrftoken cookie"
//	@Param			body		body		LoginRequest	true	"Credentials"
//	@Success		200			{array}		LoginResult		"Login succeeded"
//	@Failure		400			{object}	httpx.ErrorBody	"Malformed body"
//	@Failure		401			{array}		LoginResult		"Incorrect username or password"
//	@Failure		403			{object}	httpx.ErrorBody	"CSRF check failed"
//	@Failure		429			{object}	httpx.ErrorBody	"Rate limited"
//	@Router			/login/ [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	csrf, err := r.Cookie(CookieCSRF)
	header := r.Header.Get(HeaderCSRF)
	if err != nil || header == "" || subtle.ConstantTimeCompare([]byte(csrf.Value), []byte(header)) != 1 {
		httpx.WriteError(w, http.StatusForbidden, "csrf_failed", "CSRF token missing or incorrect")
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "body must be a JSON object")
		return
	}

	sess, err := h.SessionService.Login(ctx, req.Username, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		httpx.WriteJSON(w, http.StatusUnauthorized, []LoginResult{{
			Username: req.Username,
			NumTries: 1,
			Msg:      "Incorrect username or password.",
			Messages: []string{},
		}})
		return
	}
	if err != nil {
		log.Error("login failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieCSRF,
		Value:    sess.CSRFToken,
		Path:     "/",
		MaxAge:   int((364 * 24 * time.Hour).Seconds()),
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     CookieSession,
		Value:    sess.ID,
		Quoted:   true,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	httpx.WriteJSON(w, http.StatusOK, []LoginResult{{
		Username: sess.Username,
		Success:  1,
		Messages: []string{},
		ID:       sess.UserID,
	}})
}
