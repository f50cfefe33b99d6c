package http

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/aussiebroadwan/scratchcloud/internal/scratchstub/domain"
	"github.com/aussiebroadwan/scratchcloud/internal/scratchstub/service"
)

const (
	CookieSession  = "scratchsessionsid"
	CookieCSRF     = "scratchcsrftoken"
	HeaderCSRF     = "X-CSRFToken"
	HeaderXToken   = "X-Token"
	dateJoinedForm = "2006-01-02T15:04:05"
)

// ============================================================================
// Login
// ============================================================================

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is one element of the login response array.
type LoginResult struct {
	Username string   `json:"username"`
	Token    string   `json:"token"`
	NumTries int      `json:"num_tries"`
	Success  int      `json:"success"`
	Msg      string   `json:"msg"`
	Messages []string `json:"messages"`
	ID       int64    `json:"id,omitempty"`
}

// ============================================================================
// Session
// ============================================================================

type SessionResponse struct {
	User        SessionUser        `json:"user"`
	Permissions SessionPermissions `json:"permissions"`
	Flags       map[string]bool    `json:"flags"`
}

type SessionUser struct {
	ID           int64  `json:"id"`
	Banned       bool   `json:"banned"`
	Username     string `json:"username"`
	Token        string `json:"token"`
	ThumbnailURL string `json:"thumbnailUrl"`
	DateJoined   string `json:"dateJoined"`
	Email        string `json:"email"`
}

type SessionPermissions struct {
	Admin           bool            `json:"admin"`
	Scratcher       bool            `json:"scratcher"`
	NewScratcher    bool            `json:"new_scratcher"`
	Social          bool            `json:"social"`
	Educator        bool            `json:"educator"`
	EducatorInvitee bool            `json:"educator_invitee"`
	Student         bool            `json:"student"`
	MuteStatus      json.RawMessage `json:"mute_status" swaggertype:"object"`
}

func newSessionResponse(info service.SessionInfo) SessionResponse {
	u := info.User
	return SessionResponse{
		User: SessionUser{
			ID:           u.ID,
			Banned:       u.Banned,
			Username:     u.Username,
			Token:        info.XToken,
			ThumbnailURL: thumbnailURL(u.ID),
			DateJoined:   u.DateJoined.UTC().Format(dateJoinedForm),
		},
		Permissions: SessionPermissions{
			Admin:        u.Permissions.Admin,
			Scratcher:    u.Permissions.Scratcher,
			NewScratcher: u.Permissions.NewScratcher,
			Social:       !u.Banned,
			Educator:     u.Permissions.Educator,
			Student:      u.Permissions.Student,
			MuteStatus:   json.RawMessage(`{}`),
		},
		Flags: map[string]bool{},
	}
}

func thumbnailURL(userID int64) string {
	return fmt.Sprintf("//cdn2.scratch.mit.edu/get_image/user/%d_32x32.png", userID)
}

// ============================================================================
// Profiles and projects
// ============================================================================

type ProfileResponse struct {
	ID          int64          `json:"id"`
	Username    string         `json:"username"`
	ScratchTeam bool           `json:"scratchteam"`
	History     ProfileHistory `json:"history"`
	Profile     ProfileDetails `json:"profile"`
}

type ProfileHistory struct {
	Joined string `json:"joined"`
}

type ProfileDetails struct {
	ID      int64  `json:"id"`
	Status  string `json:"status"`
	Bio     string `json:"bio"`
	Country string `json:"country"`
}

func newProfileResponse(u domain.User) ProfileResponse {
	return ProfileResponse{
		ID:          u.ID,
		Username:    u.Username,
		ScratchTeam: u.Permissions.ScratchTeam,
		History:     ProfileHistory{Joined: u.DateJoined.UTC().Format("2006-01-02T15:04:05.000Z")},
		Profile: ProfileDetails{
			ID:      u.Profile.ID,
			Status:  u.Profile.Status,
			Bio:     u.Profile.Bio,
			Country: u.Profile.Country,
		},
	}
}

// ProjectItem is one entry of a "my stuff" listing.
type ProjectItem struct {
	Fields ProjectFields `json:"fields"`
	Model  string        `json:"model"`
	PK     int64         `json:"pk"`
}

type ProjectFields struct {
	Title            string         `json:"title"`
	LoveCount        int            `json:"love_count"`
	FavoriteCount    int            `json:"favorite_count"`
	ViewCount        int            `json:"view_count"`
	RemixersCount    int            `json:"remixers_count"`
	IsPublished      bool           `json:"isPublished"`
	Visibility       string         `json:"visibility"`
	DatetimeCreated  string         `json:"datetime_created"`
	DatetimeModified string         `json:"datetime_modified"`
	Creator          ProjectCreator `json:"creator"`
}

type ProjectCreator struct {
	Username string `json:"username"`
	PK       int64  `json:"pk"`
}

func newProjectItems(owner string, projects []domain.Project) []ProjectItem {
	items := make([]ProjectItem, 0, len(projects))
	for _, p := range projects {
		visibility := "visible"
		if p.Trashed {
			visibility = "trshbyusr"
		}
		items = append(items, ProjectItem{
			Model: "projects.project",
			PK:    p.ID,
			Fields: ProjectFields{
				Title:            p.Title,
				LoveCount:        p.LoveCount,
				FavoriteCount:    p.FavoriteCount,
				ViewCount:        p.ViewCount,
				RemixersCount:    p.RemixCount,
				IsPublished:      p.Shared,
				Visibility:       visibility,
				DatetimeCreated:  p.Created.UTC().Format(dateJoinedForm),
				DatetimeModified: p.Modified.UTC().Format(dateJoinedForm),
				Creator:          ProjectCreator{Username: owner, PK: p.OwnerID},
			},
		})
	}
	return items
}

// ============================================================================
// System
// ============================================================================

type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}

func uptime(since time.Time) string {
	return time.Since(since).Round(time.Second).String()
}
