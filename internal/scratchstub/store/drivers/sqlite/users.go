package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/scratchcloud/internal/scratchstub/domain"
	"github.com/aussiebroadwan/scratchcloud/internal/scratchstub/store"
)

const userColumns = `id, username, password_hash, date_joined, banned,
	perm_admin, perm_scratcher, perm_new_scratcher, perm_educator, perm_student, perm_scratch_team,
	profile_id, profile_status, profile_bio, profile_country`

type usersRepo struct {
	db *sql.DB
}

func (r *usersRepo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByUsername relies on the column's NOCASE collation.
func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	var id any
	if u.ID != 0 {
		id = u.ID
	}

	p, pr := u.Permissions, u.Profile
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, u.Username, u.PasswordHash, u.DateJoined.UnixNano(), u.Banned,
		p.Admin, p.Scratcher, p.NewScratcher, p.Educator, p.Student, p.ScratchTeam,
		pr.ID, pr.Status, pr.Bio, pr.Country,
	)
	if isConstraint(err) {
		return domain.User{}, store.ErrAlreadyExists
	}
	if err != nil {
		return domain.User{}, err
	}

	if u.ID == 0 {
		if u.ID, err = res.LastInsertId(); err != nil {
			return domain.User{}, err
		}
	}
	return u, nil
}

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		u      domain.User
		joined int64
	)
	p, pr := &u.Permissions, &u.Profile
	err := row.Scan(
		&u.ID, &u.Username, &u.PasswordHash, &joined, &u.Banned,
		&p.Admin, &p.Scratcher, &p.NewScratcher, &p.Educator, &p.Student, &p.ScratchTeam,
		&pr.ID, &pr.Status, &pr.Bio, &pr.Country,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.DateJoined = fromUnixNano(joined)
	return u, nil
}
