package port

import (
	"context"

	"github.com/CodyErekson/kitchenKiosk/internal/core/domain"
)

// CredentialRepository exposes persistence behavior for user credentials.
// Lookups by username and email only consider enabled credentials.
type CredentialRepository interface {
	Insert(ctx context.Context, credential domain.Credential) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Credential, error)
	GetByUsername(ctx context.Context, username string) (*domain.Credential, error)
	GetByEmail(ctx context.Context, email string) (*domain.Credential, error)
	UpdatePassword(ctx context.Context, identifier string, passwordHash string, byEmail bool) error
	ToggleEnabled(ctx context.Context, id int64, enabled bool) error
}
