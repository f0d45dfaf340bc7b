package port

import (
	"context"

	"github.com/CodyErekson/kitchenKiosk/internal/core/domain"
)

// RememberCookieRepository stores single-use remember-me cookie records.
//
// DeleteAndReturn must remove the matching record and report its owner in one
// atomic operation: of two concurrent redeemers of the same value, exactly one
// receives the user id and the other repository.ErrNotFound.
type RememberCookieRepository interface {
	Insert(ctx context.Context, cookie domain.RememberCookie) error
	DeleteAndReturn(ctx context.Context, username, value string) (int64, error)
	DeleteByUsername(ctx context.Context, username string) (int64, error)
}
