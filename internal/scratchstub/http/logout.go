package http

import (
	"net/http"

	"github.com/aussiebroadwan/scratchcloud/internal/scratchstub/service"
	"github.com/aussiebroadwan/scratchcloud/pkg/httpx"
	"github.com/aussiebroadwan/scratchcloud/pkg/slogx"
)

type LogoutHandler struct {
	SessionService *service.SessionService
}

// ServeHTTP godoc
//
//	@Summary		Log out
//	@Description	Ends the session behind the cookie and expires the session cookie.
//	@Description	An X-Token header is optional but must belong to the same session when sent.
//	@Tags			Session
//	@Security		SessionCookie
//	@Param			X-CSRFToken	header	string	true	"Must equal the scratchcsrftoken cookie"
//	@Param			X-Token		header	string	false	"Extended token of the session"
//	@Success		200			"Session ended"
//	@Failure		401			{object}	httpx.ErrorBody	"Missing or unknown session, or mismatched extended token"
//	@Failure		403			{object}	httpx.ErrorBody	"CSRF check failed"
//	@Router			/accounts/logout/ [post].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p, ok := httpx.PrincipalFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	if err := h.SessionService.Logout(ctx, p.SessionID); err != nil {
		slogx.FromContext(ctx).Error("logout failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		return
	}

	http.SetCookie(w, &http.Cookie{Name: CookieSession, Value: "", Path: "/", MaxAge: -1})
	httpx.NoCache(w)
	w.WriteHeader(http.StatusOK)
}
