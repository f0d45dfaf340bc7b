package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/CodyErekson/kitchenKiosk/internal/core/domain"
	"github.com/CodyErekson/kitchenKiosk/internal/core/port"
	"github.com/CodyErekson/kitchenKiosk/internal/infra/security"
)

// RememberService manages single-use remember-me cookies.
type RememberService struct {
	cookies port.RememberCookieRepository
}

// NewRememberService constructs a RememberService.
func NewRememberService(cookies port.RememberCookieRepository) *RememberService {
	return &RememberService{cookies: cookies}
}

// Issue mints a fresh remember cookie for the user and returns the value the
// browser stores, in the form username:token.
func (s *RememberService) Issue(ctx context.Context, userID int64, username string) (string, error) {
	token, err := security.GenerateSessionToken()
	if err != nil {
		return "", fmt.Errorf("issue remember cookie: %w", err)
	}

	cookie := domain.RememberCookie{UserID: userID, Value: token}
	if err := s.cookies.Insert(ctx, cookie); err != nil {
		return "", fmt.Errorf("issue remember cookie: %w", err)
	}

	return username + ":" + token, nil
}

// Redeem consumes the stored record matching the username and token and
// returns the owning user id. Each record redeems at most once; the caller
// is expected to issue a replacement.
func (s *RememberService) Redeem(ctx context.Context, username, token string) (int64, error) {
	userID, err := s.cookies.DeleteAndReturn(ctx, username, token)
	if err != nil {
		return 0, err
	}
	return userID, nil
}

// Purge drops every remember cookie owned by the named user.
func (s *RememberService) Purge(ctx context.Context, username string) (int64, error) {
	count, err := s.cookies.DeleteByUsername(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("purge remember cookies: %w", err)
	}
	return count, nil
}

// SplitCookie breaks a browser cookie value into its username and token
// halves. The token itself never contains a colon, so the split happens at
// the last separator to tolerate colons in usernames.
func SplitCookie(value string) (username, token string, ok bool) {
	idx := strings.LastIndex(value, ":")
	if idx <= 0 || idx == len(value)-1 {
		return "", "", false
	}
	return value[:idx], value[idx+1:], true
}
