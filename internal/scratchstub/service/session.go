package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aussiebroadwan/scratchcloud/internal/scratchstub/domain"
	"github.com/aussiebroadwan/scratchcloud/internal/scratchstub/store"
	"github.com/aussiebroadwan/scratchcloud/pkg/cryptox"
	"github.com/aussiebroadwan/scratchcloud/pkg/jwtx"
	"github.com/aussiebroadwan/scratchcloud/pkg/slogx"
)

const DefaultSessionTTL = 14 * 24 * time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrUnknownSession     = errors.New("unknown_session")
)

// SessionInfo is what the session endpoint reports for a live session.
type SessionInfo struct {
	User   domain.User
	XToken string
}

type SessionService struct {
	Store      store.Store
	Signer     jwtx.Signer
	Issuer     string
	SessionTTL time.Duration
	XTokenTTL  time.Duration

	// Delay is added before every session lookup so clients can be tested
	// against a slow extended token fetch.
	Delay time.Duration
}

// Login verifies a username and password and opens a new cookie session.
func (s *SessionService) Login(ctx context.Context, username, password string) (domain.Session, error) {
	l := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		// keep timing close to a real mismatch
		_ = cryptox.VerifyPassword(password, dummyHash())
		return domain.Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("failed to load user: %w", err)
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		l.Info("password mismatch", "username", user.Username)
		return domain.Session{}, ErrInvalidCredentials
	}

	id, err := cryptox.NewSessionID()
	if err != nil {
		return domain.Session{}, err
	}
	csrf, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return domain.Session{}, err
	}

	now := time.Now()
	sess := domain.Session{
		ID:        id,
		TokenHash: cryptox.FingerprintToken(id),
		CSRFToken: csrf,
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL()),
	}
	if err := s.Store.Sessions().CreateSession(ctx, sess); err != nil {
		return domain.Session{}, fmt.Errorf("failed to store session: %w", err)
	}

	l.Info("session created", "username", user.Username, "sid", sess.TokenHash)
	return sess, nil
}

// Resolve looks up the live session behind a raw session cookie value.
func (s *SessionService) Resolve(ctx context.Context, sessionID string) (domain.Session, error) {
	sess, err := s.Store.Sessions().GetSessionByHash(ctx, cryptox.FingerprintToken(sessionID))
	if errors.Is(err, store.ErrNotFound) {
		return domain.Session{}, ErrUnknownSession
	}
	return sess, err
}

// Info mints a fresh extended token for the session identified by its token
// hash. It honours Delay before doing any work.
func (s *SessionService) Info(ctx context.Context, tokenHash string) (SessionInfo, error) {
	if s.Delay > 0 {
		t := time.NewTimer(s.Delay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return SessionInfo{}, ctx.Err()
		}
	}

	sess, err := s.Store.Sessions().GetSessionByHash(ctx, tokenHash)
	if errors.Is(err, store.ErrNotFound) {
		return SessionInfo{}, ErrUnknownSession
	}
	if err != nil {
		return SessionInfo{}, err
	}

	user, err := s.Store.Users().GetUserByID(ctx, sess.UserID)
	if err != nil {
		return SessionInfo{}, fmt.Errorf("failed to load session user: %w", err)
	}

	claims := jwtx.NewXTokenClaims(user.ID, user.Username, sess.TokenHash, s.Issuer, s.xtokenTTL(), time.Now())
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return SessionInfo{}, fmt.Errorf("failed to sign extended token: %w", err)
	}

	return SessionInfo{User: user, XToken: token}, nil
}

// Logout ends the session. Ending an unknown session is not an error.
func (s *SessionService) Logout(ctx context.Context, tokenHash string) error {
	if err := s.Store.Sessions().DeleteSession(ctx, tokenHash); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	slogx.FromContext(ctx).Info("session ended", "sid", tokenHash)
	return nil
}

func (s *SessionService) sessionTTL() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return DefaultSessionTTL
}

func (s *SessionService) xtokenTTL() time.Duration {
	if s.XTokenTTL > 0 {
		return s.XTokenTTL
	}
	return jwtx.DefaultXTokenTTL
}

var dummyHash = sync.OnceValue(func() string {
	h, _ := cryptox.HashPassword("not-a-real-password")
	return h
})
