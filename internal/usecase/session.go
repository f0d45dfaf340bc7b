package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/CodyErekson/kitchenKiosk/internal/core/domain"
	"github.com/CodyErekson/kitchenKiosk/internal/core/port"
	"github.com/CodyErekson/kitchenKiosk/internal/infra/security"
)

// DefaultSessionTTL is the lifetime granted to new and renewed sessions.
const DefaultSessionTTL = time.Hour

// SessionService owns the lifecycle of session tokens.
type SessionService struct {
	sessions port.SessionRepository
	now      func() time.Time
}

// NewSessionService constructs a SessionService.
func NewSessionService(sessions port.SessionRepository) *SessionService {
	return &SessionService{
		sessions: sessions,
		now:      time.Now,
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *SessionService) WithClock(now func() time.Time) *SessionService {
	s.now = now
	return s
}

// Create issues a fresh session token for the user. The repository purges the
// user's expired rows and inserts the new one in a single transaction.
func (s *SessionService) Create(ctx context.Context, userID int64, ip string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	token, err := security.GenerateSessionToken()
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	session := domain.Session{
		UserID:    userID,
		IP:        ip,
		Token:     token,
		ExpiresAt: s.now().UTC().Add(ttl),
	}

	if err := s.sessions.Insert(ctx, session); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	return token, nil
}

// Renew extends the session identified by token. It reports false when no
// such session exists.
func (s *SessionService) Renew(ctx context.Context, token string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	ok, err := s.sessions.UpdateExpiry(ctx, token, s.now().UTC().Add(ttl))
	if err != nil {
		return false, fmt.Errorf("renew session: %w", err)
	}

	return ok, nil
}

// Validate reports whether exactly one unexpired session matches the given
// username and token pair. An absent and an expired session are
// indistinguishable to the caller.
func (s *SessionService) Validate(ctx context.Context, username, token string) (bool, error) {
	if username == "" || token == "" {
		return false, nil
	}

	count, err := s.sessions.CountActive(ctx, username, token, s.now().UTC())
	if err != nil {
		return false, fmt.Errorf("validate session: %w", err)
	}

	return count == 1, nil
}

// PurgeExpired drops expired sessions, optionally scoped to one user.
func (s *SessionService) PurgeExpired(ctx context.Context, userID *int64) (int64, error) {
	count, err := s.sessions.DeleteExpired(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("purge expired sessions: %w", err)
	}
	return count, nil
}

// PurgeByUsername drops every session owned by the named user.
func (s *SessionService) PurgeByUsername(ctx context.Context, username string) (int64, error) {
	count, err := s.sessions.DeleteByUsername(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return count, nil
}
