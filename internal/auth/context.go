package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_portal/internal/utils"
)

// Context is the credential view of one browser session. It is the only
// place that knows the lookup order: persistent slot first, then session slot.
type Context struct {
	sessionID  string
	persistent Slot
	session    Slot
}

// SessionID returns the session this context belongs to.
func (c Context) SessionID() string {
	return c.sessionID
}

// Token returns the bearer token for the session. A missing or empty token
// in both slots means "not authenticated". Slot read failures are logged and
// treated as absent.
func (c Context) Token(ctx context.Context) (string, bool) {
	if c.sessionID == "" {
		return "", false
	}
	for _, slot := range []struct {
		name string
		s    Slot
	}{{"persistent", c.persistent}, {"session", c.session}} {
		if slot.s == nil {
			continue
		}
		tok, err := slot.s.Get(ctx, c.sessionID)
		if err != nil {
			log.Warn().Err(err).Str("slot", slot.name).Msg("credential slot read failed")
			continue
		}
		if tok != "" {
			return tok, true
		}
	}
	return "", false
}

// Store pairs the persistent and session slots.
type Store struct {
	persistent  Slot
	session     Slot
	sessionTTL  time.Duration
	rememberTTL time.Duration
	now         func() time.Time
}

// NewStore constructs a Store. persistent may be nil when Redis is not
// available; "remember me" then degrades to the session slot.
func NewStore(persistent, session Slot, sessionTTL, rememberTTL time.Duration) *Store {
	return &Store{
		persistent:  persistent,
		session:     session,
		sessionTTL:  sessionTTL,
		rememberTTL: rememberTTL,
		now:         time.Now,
	}
}

// Context returns the credential context for sessionID.
func (s *Store) Context(sessionID string) Context {
	return Context{sessionID: sessionID, persistent: s.persistent, session: s.session}
}

// Save validates token and stores it for sessionID. remember selects the
// persistent slot. The other slot is cleared so the newest login wins.
func (s *Store) Save(ctx context.Context, sessionID, token string, remember bool) error {
	exp, err := s.expiry(token)
	if err != nil {
		return err
	}

	if remember && s.persistent != nil {
		ttl := capTTL(s.rememberTTL, exp, s.now())
		if err := s.persistent.Set(ctx, sessionID, token, ttl); err != nil {
			return fmt.Errorf("failed to store remembered token: %w", err)
		}
		return s.session.Delete(ctx, sessionID)
	}

	if err := s.session.Set(ctx, sessionID, token, capTTL(s.sessionTTL, exp, s.now())); err != nil {
		return fmt.Errorf("failed to store session token: %w", err)
	}
	if s.persistent != nil {
		if err := s.persistent.Delete(ctx, sessionID); err != nil {
			log.Warn().Err(err).Msg("failed to clear remembered token")
		}
	}
	return nil
}

// Clear removes the token from both slots.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	var firstErr error
	if s.persistent != nil {
		firstErr = s.persistent.Delete(ctx, sessionID)
	}
	if err := s.session.Delete(ctx, sessionID); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// expiry checks that token is a structurally valid JWT that has not expired
// and returns its exp claim (zero when absent). The signature is not checked;
// the backend is the authority on that.
func (s *Store) expiry(token string) (time.Time, error) {
	return ValidateTokenFormat(token, s.now())
}

// ValidateTokenFormat parses token without verifying its signature.
func ValidateTokenFormat(token string, now time.Time) (time.Time, error) {
	if token == "" {
		return time.Time{}, utils.ErrInvalidToken
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", utils.ErrInvalidToken, err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, nil
	}
	exp := claims.ExpiresAt.Time
	if !now.Before(exp) {
		return time.Time{}, utils.ErrTokenExpired
	}
	return exp, nil
}

func capTTL(limit time.Duration, exp, now time.Time) time.Duration {
	if exp.IsZero() {
		return limit
	}
	left := exp.Sub(now)
	if limit <= 0 || left < limit {
		return left
	}
	return limit
}
