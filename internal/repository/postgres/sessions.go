package postgres

import (
	"context"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/CodyErekson/kitchenKiosk/internal/core/domain"
	"github.com/CodyErekson/kitchenKiosk/internal/core/port"
)

// SessionRepository implements port.SessionRepository backed by PostgreSQL.
type SessionRepository struct {
	pool    pgPool
	builder squirrel.StatementBuilderType
}

// NewSessionRepository constructs a repository backed by the provided pool.
func NewSessionRepository(pool pgPool) *SessionRepository {
	return &SessionRepository{
		pool:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Insert stores a new session row. The owning user's expired rows are purged
// in the same transaction so a crash between the two statements cannot leave
// the purge applied without the insert.
func (r *SessionRepository) Insert(ctx context.Context, session domain.Session) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin session insert: %w", err)
	}
	defer tx.Rollback(ctx)

	purgeStmt, purgeArgs, err := r.builder.
		Delete("kiosk.sessions").
		Where(squirrel.Eq{"user_id": session.UserID}).
		Where(squirrel.LtOrEq{"expires_at": time.Now().UTC()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build purge sessions sql: %w", err)
	}

	if _, err := tx.Exec(ctx, purgeStmt, purgeArgs...); err != nil {
		return fmt.Errorf("purge expired sessions: %w", err)
	}

	insertStmt, insertArgs, err := r.builder.
		Insert("kiosk.sessions").
		Columns("user_id", "ip", "token", "expires_at").
		Values(session.UserID, session.IP, session.Token, session.ExpiresAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert session sql: %w", err)
	}

	if _, err := tx.Exec(ctx, insertStmt, insertArgs...); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit session insert: %w", err)
	}

	return nil
}

// UpdateExpiry moves the expiry of the session identified by token. It
// reports whether a row matched.
func (r *SessionRepository) UpdateExpiry(ctx context.Context, token string, expiresAt time.Time) (bool, error) {
	stmt, args, err := r.builder.
		Update("kiosk.sessions").
		Set("expires_at", expiresAt).
		Where(squirrel.Eq{"token": token}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build update expiry sql: %w", err)
	}

	tag, err := r.pool.Exec(ctx, stmt, args...)
	if err != nil {
		return false, fmt.Errorf("update session expiry: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// CountActive returns the number of unexpired sessions matching the given
// username and token pair.
func (r *SessionRepository) CountActive(ctx context.Context, username, token string, at time.Time) (int, error) {
	stmt, args, err := r.builder.
		Select("COUNT(*)").
		From("kiosk.sessions s").
		Join("kiosk.credentials c ON c.id = s.user_id").
		Where(squirrel.Eq{"c.username": username}).
		Where(squirrel.Eq{"s.token": token}).
		Where(squirrel.Gt{"s.expires_at": at}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count sessions sql: %w", err)
	}

	var count int
	if err := r.pool.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count active sessions: %w", err)
	}

	return count, nil
}

// DeleteExpired removes expired session rows, optionally scoped to one user,
// and returns the number of rows dropped.
func (r *SessionRepository) DeleteExpired(ctx context.Context, userID *int64) (int64, error) {
	query := r.builder.
		Delete("kiosk.sessions").
		Where(squirrel.LtOrEq{"expires_at": time.Now().UTC()})
	if userID != nil {
		query = query.Where(squirrel.Eq{"user_id": *userID})
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete expired sql: %w", err)
	}

	tag, err := r.pool.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}

	return tag.RowsAffected(), nil
}

// DeleteByUsername removes every session owned by the named user and returns
// the number of rows dropped.
func (r *SessionRepository) DeleteByUsername(ctx context.Context, username string) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		"DELETE FROM kiosk.sessions s USING kiosk.credentials c WHERE s.user_id = c.id AND c.username = $1",
		username,
	)
	if err != nil {
		return 0, fmt.Errorf("delete sessions by username: %w", err)
	}

	return tag.RowsAffected(), nil
}

var _ port.SessionRepository = (*SessionRepository)(nil)
