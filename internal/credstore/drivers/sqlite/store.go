package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aussiebroadwan/scratchcloud/internal/credstore"
	_ "modernc.org/sqlite"
)

type Store struct {
	db  *sql.DB
	dsn string
}

var _ credstore.Store = (*Store)(nil)

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// one writer; the CLI is short-lived
	db.SetMaxOpenConns(1)

	return &Store{db: db, dsn: dsn}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Save(ctx context.Context, r credstore.Record) error {
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credentials (username, session_cookie, csrf_token, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (username) DO UPDATE SET
			username       = excluded.username,
			session_cookie = excluded.session_cookie,
			csrf_token     = excluded.csrf_token,
			updated_at     = excluded.updated_at`,
		r.Username, r.SessionCookie, r.CSRFToken, r.UpdatedAt.UnixNano(),
	)
	return err
}

func (s *Store) Get(ctx context.Context, username string) (credstore.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT username, session_cookie, csrf_token, updated_at
		FROM credentials WHERE username = ?`, username)
	return scanRecord(row)
}

func (s *Store) Delete(ctx context.Context, username string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM credentials WHERE username = ?`, username)
	return err
}

func (s *Store) Latest(ctx context.Context) (credstore.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT username, session_cookie, csrf_token, updated_at
		FROM credentials ORDER BY updated_at DESC LIMIT 1`)
	return scanRecord(row)
}

func scanRecord(row *sql.Row) (credstore.Record, error) {
	var (
		r       credstore.Record
		updated int64
	)
	err := row.Scan(&r.Username, &r.SessionCookie, &r.CSRFToken, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return credstore.Record{}, credstore.ErrNotFound
	}
	if err != nil {
		return credstore.Record{}, err
	}
	r.UpdatedAt = time.Unix(0, updated)
	return r, nil
}
