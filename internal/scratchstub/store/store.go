package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/scratchcloud/internal/scratchstub/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface of the stub service. It exposes
// sub-repositories so handlers and services only see what they use.
type Store interface {
	Users() Users
	Sessions() Sessions
	Projects() Projects

	// ApplyMigrations brings the schema up to date.
	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id int64) (domain.User, error)

	// GetUserByUsername matches usernames case-insensitively.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user. A zero ID is assigned by the store.
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)
}

type Sessions interface {
	// CreateSession stores a new session keyed by its token hash.
	CreateSession(ctx context.Context, s domain.Session) error

	// GetSessionByHash returns a session that has not expired.
	GetSessionByHash(ctx context.Context, hash string) (domain.Session, error)

	// DeleteSession removes a session; deleting an unknown one is not an error.
	DeleteSession(ctx context.Context, hash string) error

	// DeleteExpiredSessions returns how many sessions were removed.
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error)
}

// ProjectFilter selects one of the "my stuff" listings.
type ProjectFilter string

const (
	FilterAll       ProjectFilter = "all"
	FilterShared    ProjectFilter = "shared"
	FilterNotShared ProjectFilter = "notshared"
	FilterTrashed   ProjectFilter = "trashed"
)

// Valid reports whether f names a known listing.
func (f ProjectFilter) Valid() bool {
	switch f {
	case FilterAll, FilterShared, FilterNotShared, FilterTrashed:
		return true
	}
	return false
}

type Projects interface {
	// CreateProject inserts a project. A zero ID is assigned by the store.
	CreateProject(ctx context.Context, p domain.Project) (domain.Project, error)

	// ListProjectsByOwner returns every project of owner matching filter,
	// in insertion order.
	ListProjectsByOwner(ctx context.Context, ownerID int64, filter ProjectFilter) ([]domain.Project, error)
}
