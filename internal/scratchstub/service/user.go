package service

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/aussiebroadwan/scratchcloud/internal/scratchstub/domain"
	"github.com/aussiebroadwan/scratchcloud/internal/scratchstub/store"
)

// ProjectsPageSize is the number of projects returned per "my stuff" page.
const ProjectsPageSize = 40

var (
	ErrUserNotFound  = errors.New("user_not_found")
	ErrInvalidFilter = errors.New("invalid_filter")
	ErrInvalidSort   = errors.New("invalid_sort")
)

// ProjectQuery selects a page of a user's own projects. At most one of
// AscSort and DescSort should be set; DescSort wins when both are.
type ProjectQuery struct {
	Filter   store.ProjectFilter
	Page     int
	AscSort  string
	DescSort string
}

type UserService struct {
	Store store.Store
}

// GetProfile fetches a user by username.
func (s *UserService) GetProfile(ctx context.Context, username string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	return u, err
}

// ListProjects returns one page of the owner's projects. Pages past the end
// are empty.
func (s *UserService) ListProjects(ctx context.Context, ownerID int64, q ProjectQuery) ([]domain.Project, error) {
	if q.Filter == "" {
		q.Filter = store.FilterAll
	}
	if !q.Filter.Valid() {
		return nil, ErrInvalidFilter
	}

	key, desc := q.AscSort, false
	if q.DescSort != "" {
		key, desc = q.DescSort, true
	}
	compare, ok := projectOrder[key]
	if !ok {
		return nil, ErrInvalidSort
	}

	projects, err := s.Store.Projects().ListProjectsByOwner(ctx, ownerID, q.Filter)
	if err != nil {
		return nil, err
	}

	if compare != nil {
		slices.SortStableFunc(projects, func(a, b domain.Project) int {
			if desc {
				return compare(b, a)
			}
			return compare(a, b)
		})
	}

	page := max(q.Page, 1)
	start := (page - 1) * ProjectsPageSize
	if start >= len(projects) {
		return []domain.Project{}, nil
	}
	end := min(start+ProjectsPageSize, len(projects))
	return projects[start:end], nil
}

// projectOrder maps sort keys to comparators. The empty key keeps store
// order.
var projectOrder = map[string]func(a, b domain.Project) int{
	"": nil,
	"title": func(a, b domain.Project) int {
		return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	},
	"love_count":     func(a, b domain.Project) int { return cmp.Compare(a.LoveCount, b.LoveCount) },
	"favorite_count": func(a, b domain.Project) int { return cmp.Compare(a.FavoriteCount, b.FavoriteCount) },
	"view_count":     func(a, b domain.Project) int { return cmp.Compare(a.ViewCount, b.ViewCount) },
	"remixers_count": func(a, b domain.Project) int { return cmp.Compare(a.RemixCount, b.RemixCount) },
	"date_created":   func(a, b domain.Project) int { return a.Created.Compare(b.Created) },
	"date_modified":  func(a, b domain.Project) int { return a.Modified.Compare(b.Modified) },
}
