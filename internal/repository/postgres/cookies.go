package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/CodyErekson/kitchenKiosk/internal/core/domain"
	"github.com/CodyErekson/kitchenKiosk/internal/core/port"
	"github.com/CodyErekson/kitchenKiosk/internal/repository"
)

// RememberCookieRepository implements port.RememberCookieRepository backed by PostgreSQL.
type RememberCookieRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewRememberCookieRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewRememberCookieRepository(exec pgExecutor) *RememberCookieRepository {
	return &RememberCookieRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Insert stores a remember cookie record.
func (r *RememberCookieRepository) Insert(ctx context.Context, cookie domain.RememberCookie) error {
	stmt, args, err := r.builder.
		Insert("kiosk.remember_cookies").
		Columns("user_id", "value").
		Values(cookie.UserID, cookie.Value).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert cookie sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert remember cookie: %w", err)
	}

	return nil
}

// DeleteAndReturn removes the record matching the named user and cookie value
// and returns the owning user id. The delete and the lookup ride a single
// statement, so concurrent redeemers of the same value cannot both succeed.
func (r *RememberCookieRepository) DeleteAndReturn(ctx context.Context, username, value string) (int64, error) {
	const stmt = `DELETE FROM kiosk.remember_cookies rc
USING kiosk.credentials c
WHERE rc.user_id = c.id AND c.username = $1 AND rc.value = $2
RETURNING rc.user_id`

	var userID int64
	if err := r.exec.QueryRow(ctx, stmt, username, value).Scan(&userID); err != nil {
		if err == pgx.ErrNoRows {
			return 0, repository.ErrNotFound
		}
		return 0, fmt.Errorf("redeem remember cookie: %w", err)
	}

	return userID, nil
}

// DeleteByUsername removes every remember cookie owned by the named user and
// returns the number of rows dropped.
func (r *RememberCookieRepository) DeleteByUsername(ctx context.Context, username string) (int64, error) {
	tag, err := r.exec.Exec(ctx,
		"DELETE FROM kiosk.remember_cookies rc USING kiosk.credentials c WHERE rc.user_id = c.id AND c.username = $1",
		username,
	)
	if err != nil {
		return 0, fmt.Errorf("delete remember cookies by username: %w", err)
	}

	return tag.RowsAffected(), nil
}

var _ port.RememberCookieRepository = (*RememberCookieRepository)(nil)
