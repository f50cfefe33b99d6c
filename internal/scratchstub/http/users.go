package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/scratchcloud/internal/scratchstub/service"
	"github.com/aussiebroadwan/scratchcloud/internal/scratchstub/store"
	"github.com/aussiebroadwan/scratchcloud/pkg/httpx"
	"github.com/aussiebroadwan/scratchcloud/pkg/slogx"
)

type ProfileHandler struct {
	UserService *service.UserService
}

// ServeHTTP godoc
//
//	@Summary		Public profile
//	@Description	Returns the public profile of a user. Usernames match case-insensitively.
//	@Tags			Users
//	@Produce		json
//	@Param			username	path		string			true	"Username"
//	@Success		200			{object}	ProfileResponse	"Profile"
//	@Failure		404			{object}	httpx.ErrorBody	"No such user"
//	@Router			/users/{username} [get].
func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	u, err := h.UserService.GetProfile(ctx, r.PathValue("username"))
	if errors.Is(err, service.ErrUserNotFound) {
		httpx.WriteError(w, http.StatusNotFound, "NotFound", "")
		return
	}
	if err != nil {
		slogx.FromContext(ctx).Error("profile lookup failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newProfileResponse(u))
}

type ProjectsHandler struct {
	UserService *service.UserService
}

// ServeHTTP godoc
//
//	@Summary		My projects
//	@Description	Lists one page of the caller's own projects.
//	@Tags			Users
//	@Security		SessionCookie
//	@Produce		json
//	@Param			filter		path		string			true	"Listing"	Enums(all, shared, notshared, trashed)
//	@Param			page		query		int				false	"1-based page"
//	@Param			ascsort		query		string			false	"Ascending sort key"
//	@Param			descsort	query		string			false	"Descending sort key, wins over ascsort"
//	@Param			X-CSRFToken	header		string			true	"Must equal the scratchcsrftoken cookie"
//	@Success		200			{array}		ProjectItem		"Projects"
//	@Failure		400			{object}	httpx.ErrorBody	"Bad page or sort key"
//	@Failure		401			{object}	httpx.ErrorBody	"Missing or unknown session"
//	@Failure		404			{object}	httpx.ErrorBody	"Unknown listing"
//	@Router			/site-api/projects/{filter}/ [get].
func (h *ProjectsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p, ok := httpx.PrincipalFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	q := r.URL.Query()
	query := service.ProjectQuery{
		Filter:   store.ProjectFilter(r.PathValue("filter")),
		AscSort:  q.Get("ascsort"),
		DescSort: q.Get("descsort"),
		Page:     1,
	}
	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "page must be a positive integer")
			return
		}
		query.Page = page
	}

	projects, err := h.UserService.ListProjects(ctx, p.UserID, query)
	switch {
	case errors.Is(err, service.ErrInvalidFilter):
		httpx.WriteError(w, http.StatusNotFound, "NotFound", "")
		return
	case errors.Is(err, service.ErrInvalidSort):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "unknown sort key")
		return
	case err != nil:
		slogx.FromContext(ctx).Error("project listing failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newProjectItems(p.Username, projects))
}
