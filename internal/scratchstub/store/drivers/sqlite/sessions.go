package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/scratchcloud/internal/scratchstub/domain"
	"github.com/aussiebroadwan/scratchcloud/internal/scratchstub/store"
)

type sessionsRepo struct {
	db  *sql.DB
	now func() time.Time
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (token_hash, id, csrf_token, user_id, username, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.TokenHash, s.ID, s.CSRFToken, s.UserID, s.Username,
		s.CreatedAt.UnixNano(), s.ExpiresAt.UnixNano(),
	)
	if isConstraint(err) {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *sessionsRepo) GetSessionByHash(ctx context.Context, hash string) (domain.Session, error) {
	var (
		s                  domain.Session
		created, expiresAt int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT token_hash, id, csrf_token, user_id, username, created_at, expires_at
		FROM sessions WHERE token_hash = ? AND expires_at > ?`,
		hash, r.now().UnixNano(),
	).Scan(&s.TokenHash, &s.ID, &s.CSRFToken, &s.UserID, &s.Username, &created, &expiresAt)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}

	s.CreatedAt = fromUnixNano(created)
	s.ExpiresAt = fromUnixNano(expiresAt)
	return s, nil
}

func (r *sessionsRepo) DeleteSession(ctx context.Context, hash string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token_hash = ?`, hash)
	return err
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, now.UnixNano())
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
