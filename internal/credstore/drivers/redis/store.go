package redis

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/scratchcloud/internal/credstore"
	"github.com/redis/go-redis/v9"
)

// Store keeps one hash per user plus a sorted set ordering users by
// UpdatedAt, all under a common key prefix.
type Store struct {
	rdb    *redis.Client
	prefix string
}

var _ credstore.Store = (*Store)(nil)

// NewStore wraps rdb. Close closes rdb.
func NewStore(rdb *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = "scratchcloud"
	}
	return &Store{rdb: rdb, prefix: prefix}
}

// Connect parses a redis:// URL and pings the server.
func Connect(ctx context.Context, rawURL, prefix string) (*Store, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return NewStore(rdb, prefix), nil
}

func (s *Store) recordKey(username string) string {
	return s.prefix + ":cred:" + strings.ToLower(username)
}

func (s *Store) recentKey() string {
	return s.prefix + ":cred:recent"
}

// ApplyMigrations is a no-op; redis needs no schema.
func (s *Store) ApplyMigrations() error { return nil }

func (s *Store) Close() error { return s.rdb.Close() }

func (s *Store) Save(ctx context.Context, r credstore.Record) error {
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = time.Now()
	}
	nanos := r.UpdatedAt.UnixNano()

	_, err := s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, s.recordKey(r.Username), map[string]any{
			"username":       r.Username,
			"session_cookie": r.SessionCookie,
			"csrf_token":     r.CSRFToken,
			"updated_at":     strconv.FormatInt(nanos, 10),
		})
		p.ZAdd(ctx, s.recentKey(), redis.Z{Score: float64(nanos), Member: strings.ToLower(r.Username)})
		return nil
	})
	return err
}

func (s *Store) Get(ctx context.Context, username string) (credstore.Record, error) {
	fields, err := s.rdb.HGetAll(ctx, s.recordKey(username)).Result()
	if err != nil {
		return credstore.Record{}, err
	}
	if len(fields) == 0 {
		return credstore.Record{}, credstore.ErrNotFound
	}

	nanos, err := strconv.ParseInt(fields["updated_at"], 10, 64)
	if err != nil {
		return credstore.Record{}, errors.New("credstore: corrupt updated_at for " + username)
	}
	return credstore.Record{
		Username:      fields["username"],
		SessionCookie: fields["session_cookie"],
		CSRFToken:     fields["csrf_token"],
		UpdatedAt:     time.Unix(0, nanos),
	}, nil
}

func (s *Store) Delete(ctx context.Context, username string) error {
	_, err := s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, s.recordKey(username))
		p.ZRem(ctx, s.recentKey(), strings.ToLower(username))
		return nil
	})
	return err
}

func (s *Store) Latest(ctx context.Context) (credstore.Record, error) {
	members, err := s.rdb.ZRevRange(ctx, s.recentKey(), 0, 0).Result()
	if err != nil {
		return credstore.Record{}, err
	}
	if len(members) == 0 {
		return credstore.Record{}, credstore.ErrNotFound
	}
	return s.Get(ctx, members[0])
}
