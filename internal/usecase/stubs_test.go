package usecase

import (
	"context"
	"time"

	"github.com/CodyErekson/kitchenKiosk/internal/core/domain"
	"github.com/CodyErekson/kitchenKiosk/internal/repository"
)

type stubCredentialRepo struct {
	credentials map[int64]*domain.Credential
	nextID      int64
	insertErr   error
}

func newStubCredentialRepo() *stubCredentialRepo {
	return &stubCredentialRepo{credentials: make(map[int64]*domain.Credential), nextID: 1}
}

func (s *stubCredentialRepo) add(credential domain.Credential) *domain.Credential {
	credential.ID = s.nextID
	s.nextID++
	stored := credential
	s.credentials[stored.ID] = &stored
	return &stored
}

func (s *stubCredentialRepo) Insert(_ context.Context, credential domain.Credential) (int64, error) {
	if s.insertErr != nil {
		return 0, s.insertErr
	}
	for _, existing := range s.credentials {
		if existing.Username == credential.Username || existing.Email == credential.Email {
			return 0, repository.ErrDuplicate
		}
	}
	return s.add(credential).ID, nil
}

func (s *stubCredentialRepo) GetByID(_ context.Context, id int64) (*domain.Credential, error) {
	if credential, ok := s.credentials[id]; ok {
		copied := *credential
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (s *stubCredentialRepo) GetByUsername(_ context.Context, username string) (*domain.Credential, error) {
	for _, credential := range s.credentials {
		if credential.Username == username && credential.Enabled {
			copied := *credential
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *stubCredentialRepo) GetByEmail(_ context.Context, email string) (*domain.Credential, error) {
	for _, credential := range s.credentials {
		if credential.Email == email && credential.Enabled {
			copied := *credential
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *stubCredentialRepo) UpdatePassword(_ context.Context, identifier string, passwordHash string, byEmail bool) error {
	for _, credential := range s.credentials {
		if (byEmail && credential.Email == identifier) || (!byEmail && credential.Username == identifier) {
			credential.PasswordHash = passwordHash
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *stubCredentialRepo) ToggleEnabled(_ context.Context, id int64, enabled bool) error {
	if credential, ok := s.credentials[id]; ok {
		credential.Enabled = enabled
		return nil
	}
	return repository.ErrNotFound
}

type stubSessionRepo struct {
	sessions     []domain.Session
	usernames    map[int64]string
	insertErr    error
	renewCalled  bool
	deletedUser  string
	purgedUserID *int64
	purgeCalled  bool
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{usernames: make(map[int64]string)}
}

func (s *stubSessionRepo) Insert(_ context.Context, session domain.Session) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.sessions = append(s.sessions, session)
	return nil
}

func (s *stubSessionRepo) UpdateExpiry(_ context.Context, token string, expiresAt time.Time) (bool, error) {
	s.renewCalled = true
	for i := range s.sessions {
		if s.sessions[i].Token == token {
			s.sessions[i].ExpiresAt = expiresAt
			return true, nil
		}
	}
	return false, nil
}

func (s *stubSessionRepo) CountActive(_ context.Context, username, token string, at time.Time) (int, error) {
	count := 0
	for _, session := range s.sessions {
		if s.usernames[session.UserID] == username && session.Token == token && session.ExpiresAt.After(at) {
			count++
		}
	}
	return count, nil
}

func (s *stubSessionRepo) DeleteExpired(_ context.Context, userID *int64) (int64, error) {
	s.purgeCalled = true
	s.purgedUserID = userID
	var kept []domain.Session
	var dropped int64
	now := time.Now()
	for _, session := range s.sessions {
		expired := !session.ExpiresAt.After(now)
		scoped := userID == nil || session.UserID == *userID
		if expired && scoped {
			dropped++
			continue
		}
		kept = append(kept, session)
	}
	s.sessions = kept
	return dropped, nil
}

func (s *stubSessionRepo) DeleteByUsername(_ context.Context, username string) (int64, error) {
	s.deletedUser = username
	var kept []domain.Session
	var dropped int64
	for _, session := range s.sessions {
		if s.usernames[session.UserID] == username {
			dropped++
			continue
		}
		kept = append(kept, session)
	}
	s.sessions = kept
	return dropped, nil
}

type stubCookieRepo struct {
	cookies     []domain.RememberCookie
	usernames   map[int64]string
	insertErr   error
	deletedUser string
}

func newStubCookieRepo() *stubCookieRepo {
	return &stubCookieRepo{usernames: make(map[int64]string)}
}

func (s *stubCookieRepo) Insert(_ context.Context, cookie domain.RememberCookie) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.cookies = append(s.cookies, cookie)
	return nil
}

func (s *stubCookieRepo) DeleteAndReturn(_ context.Context, username, value string) (int64, error) {
	for i, cookie := range s.cookies {
		if s.usernames[cookie.UserID] == username && cookie.Value == value {
			s.cookies = append(s.cookies[:i], s.cookies[i+1:]...)
			return cookie.UserID, nil
		}
	}
	return 0, repository.ErrNotFound
}

func (s *stubCookieRepo) DeleteByUsername(_ context.Context, username string) (int64, error) {
	s.deletedUser = username
	var kept []domain.RememberCookie
	var dropped int64
	for _, cookie := range s.cookies {
		if s.usernames[cookie.UserID] == username {
			dropped++
			continue
		}
		kept = append(kept, cookie)
	}
	s.cookies = kept
	return dropped, nil
}
