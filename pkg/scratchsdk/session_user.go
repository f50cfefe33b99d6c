package scratchsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// GetUserProfile fetches the public profile of username. No credentials
// are sent.
func (c *Client) GetUserProfile(ctx context.Context, username string) (*UserProfile, error) {
	rawURL := c.APIURL + "/users/" + url.PathEscape(username)

	resp, err := c.doRequest(ctx, http.MethodGet, rawURL, nil, c.headers(Credentials{}))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetworkFailure, err)
	}

	var profile UserProfile
	if err := decodeJSON(resp, &profile, http.StatusOK); err != nil {
		return nil, fmt.Errorf("failed to get profile of %q: %w", username, err)
	}

	return &profile, nil
}

// GetMyStuffProjects lists one page of the session user's own projects as
// raw JSON items. Only the session cookie is needed, so this also works on a
// Degraded session.
func (s *Session) GetMyStuffProjects(ctx context.Context, q MyStuffQuery) ([]json.RawMessage, error) {
	const op = "get my stuff projects"

	filter := q.Filter
	if filter == "" {
		filter = "all"
	}
	page := max(q.Page, 1)

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	if q.Descending {
		params.Set("ascsort", "")
		params.Set("descsort", q.SortBy)
	} else {
		params.Set("ascsort", q.SortBy)
		params.Set("descsort", "")
	}

	rawURL := s.client.BaseURL + "/site-api/projects/" + url.PathEscape(filter) + "/?" + params.Encode()

	resp, err := s.doAuthRequest(ctx, op, http.MethodGet, rawURL)
	if err != nil {
		return nil, err
	}

	var items []json.RawMessage
	if err := decodeJSON(resp, &items, http.StatusOK); err != nil {
		return nil, fmt.Errorf("failed to list %s projects: %w", filter, err)
	}

	return items, nil
}
