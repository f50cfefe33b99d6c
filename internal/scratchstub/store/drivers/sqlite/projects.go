package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/scratchcloud/internal/scratchstub/domain"
	"github.com/aussiebroadwan/scratchcloud/internal/scratchstub/store"
)

type projectsRepo struct {
	db *sql.DB
}

// filterClauses maps each listing to its WHERE fragment.
var filterClauses = map[store.ProjectFilter]string{
	store.FilterAll:       `trashed = 0`,
	store.FilterShared:    `shared = 1 AND trashed = 0`,
	store.FilterNotShared: `shared = 0 AND trashed = 0`,
	store.FilterTrashed:   `trashed = 1`,
}

// CreateProject maps the owner foreign key violation to store.ErrNotFound.
func (r *projectsRepo) CreateProject(ctx context.Context, p domain.Project) (domain.Project, error) {
	var id any
	if p.ID != 0 {
		id = p.ID
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO projects (id, owner_id, title, shared, trashed,
			love_count, favorite_count, view_count, remix_count, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, p.OwnerID, p.Title, p.Shared, p.Trashed,
		p.LoveCount, p.FavoriteCount, p.ViewCount, p.RemixCount,
		p.Created.UnixNano(), p.Modified.UnixNano(),
	)
	if isConstraint(err) {
		return domain.Project{}, store.ErrNotFound
	}
	if err != nil {
		return domain.Project{}, err
	}

	if p.ID == 0 {
		if p.ID, err = res.LastInsertId(); err != nil {
			return domain.Project{}, err
		}
	}
	return p, nil
}

func (r *projectsRepo) ListProjectsByOwner(
	ctx context.Context,
	ownerID int64,
	filter store.ProjectFilter,
) ([]domain.Project, error) {
	clause, ok := filterClauses[filter]
	if !ok {
		clause = filterClauses[store.FilterAll]
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, title, shared, trashed,
			love_count, favorite_count, view_count, remix_count, created_at, modified_at
		FROM projects WHERE owner_id = ? AND `+clause+` ORDER BY id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Project
	for rows.Next() {
		var (
			p                 domain.Project
			created, modified int64
		)
		if err := rows.Scan(
			&p.ID, &p.OwnerID, &p.Title, &p.Shared, &p.Trashed,
			&p.LoveCount, &p.FavoriteCount, &p.ViewCount, &p.RemixCount, &created, &modified,
		); err != nil {
			return nil, err
		}
		p.Created = fromUnixNano(created)
		p.Modified = fromUnixNano(modified)
		out = append(out, p)
	}
	return out, rows.Err()
}
