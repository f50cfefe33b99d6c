package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/scratchcloud/internal/scratchstub/domain"
	"github.com/aussiebroadwan/scratchcloud/internal/scratchstub/store"
	"github.com/aussiebroadwan/scratchcloud/pkg/cryptox"
)

// UserSeed is a user the stub starts with.
type UserSeed struct {
	Username string
	Password string
}

// ParseUserSeeds parses a comma separated list of name:password pairs.
// The password may itself contain colons.
func ParseUserSeeds(raw string) ([]UserSeed, error) {
	var seeds []UserSeed
	for part := range strings.SplitSeq(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, password, ok := strings.Cut(part, ":")
		if !ok || name == "" || password == "" {
			return nil, fmt.Errorf("invalid user seed %q: want name:password", part)
		}
		seeds = append(seeds, UserSeed{Username: name, Password: password})
	}
	return seeds, nil
}

// SeedService loads the initial users and their sample projects.
type SeedService struct {
	Store store.Store
}

// Seed creates every user in seeds with a handful of projects. Users already
// in the store are left as they are, so a persistent database can be seeded
// on every boot. Naming the same user twice in seeds is an error.
func (s *SeedService) Seed(ctx context.Context, seeds []UserSeed) error {
	joined := time.Date(2014, 2, 27, 14, 18, 13, 0, time.UTC)
	seen := make(map[string]bool, len(seeds))

	for i, seed := range seeds {
		key := strings.ToLower(seed.Username)
		if seen[key] {
			return fmt.Errorf("duplicate user seed %q", seed.Username)
		}
		seen[key] = true

		_, err := s.Store.Users().GetUserByUsername(ctx, seed.Username)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		hash, err := cryptox.HashPassword(seed.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password of %q: %w", seed.Username, err)
		}

		u, err := s.Store.Users().CreateUser(ctx, domain.User{
			Username:     seed.Username,
			PasswordHash: hash,
			DateJoined:   joined.AddDate(0, i, 0),
			Permissions:  domain.Permissions{Scratcher: true},
			Profile: domain.Profile{
				Status:  "Testing things",
				Country: "Australia",
			},
		})
		if errors.Is(err, store.ErrAlreadyExists) {
			return fmt.Errorf("duplicate user seed %q", seed.Username)
		}
		if err != nil {
			return err
		}

		if err := s.seedProjects(ctx, u); err != nil {
			return err
		}
	}
	return nil
}

func (s *SeedService) seedProjects(ctx context.Context, u domain.User) error {
	base := u.DateJoined
	samples := []domain.Project{
		{Title: "Platformer", Shared: true, LoveCount: 120, FavoriteCount: 80, ViewCount: 2400, RemixCount: 12},
		{Title: "Cloud Chat", Shared: true, LoveCount: 45, FavoriteCount: 30, ViewCount: 900, RemixCount: 3},
		{Title: "Untitled", LoveCount: 0, ViewCount: 2},
		{Title: "Old Experiment", Shared: true, Trashed: true, LoveCount: 5, ViewCount: 70},
	}

	for i, p := range samples {
		p.OwnerID = u.ID
		p.Created = base.AddDate(0, 0, 7*i)
		p.Modified = p.Created.Add(time.Duration(i+1) * time.Hour)
		if _, err := s.Store.Projects().CreateProject(ctx, p); err != nil {
			return fmt.Errorf("failed to seed project %q: %w", p.Title, err)
		}
	}
	return nil
}
