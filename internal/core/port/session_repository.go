package port

import (
	"context"
	"time"

	"github.com/CodyErekson/kitchenKiosk/internal/core/domain"
)

// SessionRepository deals with session record storage.
//
// Insert must purge the owning user's expired rows and store the new record
// within a single transaction, so that a concurrent purge for the same user
// cannot drop the freshly created row.
type SessionRepository interface {
	Insert(ctx context.Context, session domain.Session) error
	UpdateExpiry(ctx context.Context, token string, expiresAt time.Time) (bool, error)
	CountActive(ctx context.Context, username, token string, at time.Time) (int, error)
	DeleteExpired(ctx context.Context, userID *int64) (int64, error)
	DeleteByUsername(ctx context.Context, username string) (int64, error)
}
