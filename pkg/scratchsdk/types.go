package scratchsdk

import (
	"encoding/json"
	"strings"
)

// ============================================================================
// Identity Types
// ============================================================================

// Roles are the permission flags the service reports for a user.
type Roles struct {
	NewMember      bool
	Admin          bool
	VerifiedMember bool
	Educator       bool
	Student        bool
}

// Identity describes the user behind a session. It is only populated after
// the extended token has been acquired; before that it is the zero value.
type Identity struct {
	ID           int64
	Username     string
	DateJoined   string // e.g. 2004-11-27T12:36:03
	ThumbnailURL string // protocol-relative prefix stripped
	Banned       bool
	Roles        Roles

	// MuteStatus is the raw permissions.mute_status object, if any
	MuteStatus json.RawMessage
}

// SessionInfo is the result of a successful extended token fetch.
type SessionInfo struct {
	XToken   string
	Identity Identity
}

// ============================================================================
// Wire Types
// ============================================================================

// loginRequest is the JSON body of the password login call.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// sessionResponse is the body returned by the session endpoint. Pointer
// fields let decodeSessionInfo tell a missing field from a zero one.
type sessionResponse struct {
	User *struct {
		Token        *string `json:"token"`
		ID           *int64  `json:"id"`
		Banned       bool    `json:"banned"`
		Username     string  `json:"username"`
		DateJoined   string  `json:"dateJoined"`
		ThumbnailURL string  `json:"thumbnailUrl"`
	} `json:"user"`

	Permissions struct {
		MuteStatus   json.RawMessage `json:"mute_status"`
		NewScratcher bool            `json:"new_scratcher"`
		Admin        bool            `json:"admin"`
		Scratcher    bool            `json:"scratcher"`
		Educator     bool            `json:"educator"`
		Student      bool            `json:"student"`
	} `json:"permissions"`
}

// toSessionInfo validates the response and maps it to a SessionInfo.
// The returned string names the first missing field, if any.
func (r *sessionResponse) toSessionInfo() (*SessionInfo, string) {
	switch {
	case r.User == nil:
		return nil, "user"
	case r.User.Token == nil || *r.User.Token == "":
		return nil, "user.token"
	case r.User.ID == nil:
		return nil, "user.id"
	}

	info := &SessionInfo{
		XToken: *r.User.Token,
		Identity: Identity{
			ID:           *r.User.ID,
			Username:     r.User.Username,
			DateJoined:   r.User.DateJoined,
			ThumbnailURL: strings.TrimPrefix(r.User.ThumbnailURL, "//"),
			Banned:       r.User.Banned,
			Roles: Roles{
				NewMember:      r.Permissions.NewScratcher,
				Admin:          r.Permissions.Admin,
				VerifiedMember: r.Permissions.Scratcher,
				Educator:       r.Permissions.Educator,
				Student:        r.Permissions.Student,
			},
		},
	}
	if len(r.Permissions.MuteStatus) > 0 && string(r.Permissions.MuteStatus) != "null" {
		info.Identity.MuteStatus = r.Permissions.MuteStatus
	}

	return info, ""
}

// ============================================================================
// Collaborator Types
// ============================================================================

// UserProfile is the public profile of a user. Only the fields this SDK
// consumes are decoded.
type UserProfile struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	ScratchTeam bool   `json:"scratchteam"`
	Profile     struct {
		Status  string `json:"status"`
		Bio     string `json:"bio"`
		Country string `json:"country"`
	} `json:"profile"`
}

// MyStuffQuery selects a page of the authenticated user's own projects.
type MyStuffQuery struct {
	// Page is 1-based; values below 1 are treated as 1
	Page int

	// SortBy is the sort key, e.g. "love_count", "view_count", "title"
	SortBy string

	// Filter is the listing to read, e.g. "all", "shared", "notshared", "trashed"
	Filter string

	// Descending sorts by SortBy in descending order
	Descending bool
}
