// Package credstore caches session credentials between CLI invocations so a
// later command can resume a session without the password.
package credstore

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("credstore: not found")

// Record is one cached login. Usernames are matched case-insensitively.
type Record struct {
	Username      string
	SessionCookie string // verbatim, quotes included
	CSRFToken     string
	UpdatedAt     time.Time
}

// Store persists Records. Drivers live under drivers/.
type Store interface {
	// Save inserts or replaces the record for r.Username.
	Save(ctx context.Context, r Record) error

	// Get returns the record for username or ErrNotFound.
	Get(ctx context.Context, username string) (Record, error)

	// Delete removes the record; deleting a missing one is not an error.
	Delete(ctx context.Context, username string) error

	// Latest returns the most recently saved record or ErrNotFound.
	Latest(ctx context.Context) (Record, error)

	ApplyMigrations() error
	Close() error
}
