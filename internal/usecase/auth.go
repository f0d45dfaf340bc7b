package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/CodyErekson/kitchenKiosk/internal/core/domain"
	"github.com/CodyErekson/kitchenKiosk/internal/core/port"
	"github.com/CodyErekson/kitchenKiosk/internal/infra/security"
	"github.com/CodyErekson/kitchenKiosk/internal/repository"
)

// LoginResult carries everything a successful login hands back to the caller.
type LoginResult struct {
	Token          string
	Username       string
	RememberCookie string
	Context        domain.AuthContext
}

// AuthService coordinates registration, login, and logout flows.
type AuthService struct {
	credentials port.CredentialRepository
	sessions    *SessionService
	remember    *RememberService
	validator   *security.PasswordValidator
	sessionTTL  time.Duration
	now         func() time.Time
}

// NewAuthService constructs an AuthService. A non-positive sessionTTL falls
// back to DefaultSessionTTL.
func NewAuthService(
	credentials port.CredentialRepository,
	sessions *SessionService,
	remember *RememberService,
	validator *security.PasswordValidator,
	sessionTTL time.Duration,
) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &AuthService{
		credentials: credentials,
		sessions:    sessions,
		remember:    remember,
		validator:   validator,
		sessionTTL:  sessionTTL,
		now:         time.Now,
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// Register creates a credential and immediately logs the new user in.
func (s *AuthService) Register(ctx context.Context, name, username, email, password, confirm string, remember bool, ip string) (*LoginResult, error) {
	name = strings.TrimSpace(name)
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if name == "" || username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: all fields are required", ErrValidation)
	}
	if password != confirm {
		return nil, fmt.Errorf("%w: passwords do not match", ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", ErrValidation)
	}
	if s.validator != nil {
		if err := s.validator.Validate(password); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
		}
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	credential := domain.Credential{
		Name:         capitalizeWords(name),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Enabled:      true,
		CreatedAt:    s.now().UTC(),
	}

	if _, err := s.credentials.Insert(ctx, credential); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAccountUnavailable
		}
		return nil, fmt.Errorf("insert credential: %w", err)
	}

	return s.Login(ctx, username, password, remember, ip)
}

// Login validates the identifier and password pair and establishes a session.
// Unknown users and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, identifier, password string, remember bool, ip string) (*LoginResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, fmt.Errorf("%w: identifier and password are required", ErrValidation)
	}

	credential, err := s.lookup(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup credential: %w", err)
	}

	if !security.VerifyPassword(password, credential.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.establish(ctx, credential, remember, ip)
}

// LoginWithToken resumes a session from an existing token. The pair is
// validated against the store before any renewal happens, so an invalid or
// expired token never gets its lifetime extended.
func (s *AuthService) LoginWithToken(ctx context.Context, username, token string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || token == "" {
		return nil, fmt.Errorf("%w: username and token are required", ErrValidation)
	}

	ok, err := s.sessions.Validate(ctx, username, token)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	renewed, err := s.sessions.Renew(ctx, token, s.sessionTTL)
	if err != nil {
		return nil, err
	}
	if !renewed {
		return nil, ErrInvalidCredentials
	}

	credential, err := s.credentials.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup credential: %w", err)
	}

	return &LoginResult{
		Token:    token,
		Username: credential.Username,
		Context:  s.contextFor(credential, token),
	}, nil
}

// RedeemRememberCookie consumes a remember cookie, establishes a fresh
// session, and issues a replacement cookie. A cookie value redeems at most
// once; replays observe the same failure as a bad password.
func (s *AuthService) RedeemRememberCookie(ctx context.Context, cookie, ip string) (*LoginResult, error) {
	username, token, ok := SplitCookie(cookie)
	if !ok {
		return nil, ErrInvalidCredentials
	}

	userID, err := s.remember.Redeem(ctx, username, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("redeem remember cookie: %w", err)
	}

	credential, err := s.credentials.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup credential: %w", err)
	}
	if !credential.Enabled {
		return nil, ErrInvalidCredentials
	}

	return s.establish(ctx, credential, true, ip)
}

// ChangePassword replaces the stored password record and logs the user in
// with the new password.
func (s *AuthService) ChangePassword(ctx context.Context, identifier, password, confirm, ip string) (*LoginResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, fmt.Errorf("%w: identifier and password are required", ErrValidation)
	}
	if password != confirm {
		return nil, fmt.Errorf("%w: passwords do not match", ErrValidation)
	}
	if s.validator != nil {
		if err := s.validator.Validate(password); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
		}
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := s.credentials.UpdatePassword(ctx, identifier, hash, isEmail(identifier)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("update password: %w", err)
	}

	return s.Login(ctx, identifier, password, false, ip)
}

// Logout purges the user's sessions and remember cookies and returns a
// cleared context for the caller to adopt.
func (s *AuthService) Logout(ctx context.Context, username string) (domain.AuthContext, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.AuthContext{}, fmt.Errorf("%w: username is required", ErrValidation)
	}

	if _, err := s.sessions.PurgeByUsername(ctx, username); err != nil {
		return domain.AuthContext{}, err
	}
	if _, err := s.remember.Purge(ctx, username); err != nil {
		return domain.AuthContext{}, err
	}

	return domain.AuthContext{}, nil
}

func (s *AuthService) establish(ctx context.Context, credential *domain.Credential, remember bool, ip string) (*LoginResult, error) {
	token, err := s.sessions.Create(ctx, credential.ID, ip, s.sessionTTL)
	if err != nil {
		return nil, err
	}

	result := &LoginResult{
		Token:    token,
		Username: credential.Username,
		Context:  s.contextFor(credential, token),
	}

	if remember {
		cookie, err := s.remember.Issue(ctx, credential.ID, credential.Username)
		if err != nil {
			return nil, err
		}
		result.RememberCookie = cookie
	}

	return result, nil
}

func (s *AuthService) lookup(ctx context.Context, identifier string) (*domain.Credential, error) {
	if isEmail(identifier) {
		return s.credentials.GetByEmail(ctx, identifier)
	}
	return s.credentials.GetByUsername(ctx, identifier)
}

func (s *AuthService) contextFor(credential *domain.Credential, token string) domain.AuthContext {
	return domain.AuthContext{
		UserID:        credential.ID,
		Name:          credential.Name,
		Username:      credential.Username,
		Email:         credential.Email,
		Token:         token,
		Authenticated: true,
	}
}

func isEmail(identifier string) bool {
	if !strings.Contains(identifier, "@") {
		return false
	}
	_, err := mail.ParseAddress(identifier)
	return err == nil
}

func capitalizeWords(name string) string {
	words := strings.Fields(name)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
