package domain

import "time"

// Session is a cookie session created by a password login.
type Session struct {
	ID        string // value of the session cookie, without quotes
	TokenHash string // deterministic fingerprint of ID
	CSRFToken string
	UserID    int64
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer usable at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
