package domain

import "time"

type User struct {
	ID           int64
	Username     string
	PasswordHash string // argon2 encoded
	DateJoined   time.Time
	Banned       bool
	Permissions  Permissions
	Profile      Profile
}

// Permissions mirrors the flags reported under "permissions" by the
// session endpoint.
type Permissions struct {
	Admin        bool
	Scratcher    bool
	NewScratcher bool
	Educator     bool
	Student      bool
	ScratchTeam  bool
}

type Profile struct {
	ID      int64
	Status  string
	Bio     string
	Country string
}
