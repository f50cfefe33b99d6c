package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/scratchcloud/internal/scratchstub/service"
	"github.com/aussiebroadwan/scratchcloud/pkg/httpx"
	"github.com/aussiebroadwan/scratchcloud/pkg/slogx"
)

type SessionHandler struct {
	SessionService *service.SessionService
}

// ServeHTTP godoc
//
//	@Summary		Session information
//	@Description	Returns the identity behind the session cookie together with a freshly minted extended token (user.token).
//	@Tags			Session
//	@Security		SessionCookie
//	@Produce		json
//	@Param			X-CSRFToken	header		string			true	"Must equal the scratchcsrftoken cookie"
//	@Success		200			{object}	SessionResponse	"Identity and extended token"
//	@Failure		401			{object}	httpx.ErrorBody	"Missing or unknown session"
//	@Failure		403			{object}	httpx.ErrorBody	"CSRF check failed"
//	@Router			/session/ [post].
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	p, ok := httpx.PrincipalFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	info, err := h.SessionService.Info(ctx, p.SessionID)
	switch {
	case errors.Is(err, service.ErrUnknownSession):
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "unknown session")
		return
	case ctx.Err() != nil:
		log.Info("session request abandoned by client")
		return
	case err != nil:
		log.Error("session info failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newSessionResponse(info))
}
