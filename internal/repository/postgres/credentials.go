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

// CredentialRepository implements port.CredentialRepository backed by PostgreSQL.
type CredentialRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewCredentialRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewCredentialRepository(exec pgExecutor) *CredentialRepository {
	return &CredentialRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var credentialColumns = []string{
	"id",
	"name",
	"username",
	"email",
	"password_hash",
	"enabled",
	"created_at",
}

// Insert stores a new credential row and returns the assigned identifier.
// A username or email collision surfaces as repository.ErrDuplicate.
func (r *CredentialRepository) Insert(ctx context.Context, credential domain.Credential) (int64, error) {
	sqlStmt, args, err := r.builder.Insert("kiosk.credentials").
		Columns(
			"name",
			"username",
			"email",
			"password_hash",
			"enabled",
			"created_at",
		).
		Values(
			credential.Name,
			credential.Username,
			credential.Email,
			credential.PasswordHash,
			credential.Enabled,
			credential.CreatedAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert credential sql: %w", err)
	}

	var id int64
	if err := r.exec.QueryRow(ctx, sqlStmt, args...).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return 0, repository.ErrDuplicate
		}
		return 0, fmt.Errorf("insert credential: %w", err)
	}

	return id, nil
}

// GetByID retrieves a credential by identifier regardless of enabled state.
func (r *CredentialRepository) GetByID(ctx context.Context, id int64) (*domain.Credential, error) {
	stmt, args, err := r.builder.
		Select(credentialColumns...).
		From("kiosk.credentials").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select credential sql: %w", err)
	}

	return r.scanOne(ctx, stmt, args)
}

// GetByUsername retrieves an enabled credential by username.
func (r *CredentialRepository) GetByUsername(ctx context.Context, username string) (*domain.Credential, error) {
	stmt, args, err := r.builder.
		Select(credentialColumns...).
		From("kiosk.credentials").
		Where(squirrel.Eq{"username": username}).
		Where(squirrel.Eq{"enabled": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select credential sql: %w", err)
	}

	return r.scanOne(ctx, stmt, args)
}

// GetByEmail retrieves an enabled credential by email address.
func (r *CredentialRepository) GetByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	stmt, args, err := r.builder.
		Select(credentialColumns...).
		From("kiosk.credentials").
		Where(squirrel.Eq{"email": email}).
		Where(squirrel.Eq{"enabled": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select credential sql: %w", err)
	}

	return r.scanOne(ctx, stmt, args)
}

// UpdatePassword replaces the stored hash for the credential addressed either
// by username or, when byEmail is set, by email.
func (r *CredentialRepository) UpdatePassword(ctx context.Context, identifier string, passwordHash string, byEmail bool) error {
	where := squirrel.Eq{"username": identifier}
	if byEmail {
		where = squirrel.Eq{"email": identifier}
	}

	stmt, args, err := r.builder.
		Update("kiosk.credentials").
		Set("password_hash", passwordHash).
		Where(where).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update password sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ToggleEnabled flips the enabled flag for a credential.
func (r *CredentialRepository) ToggleEnabled(ctx context.Context, id int64, enabled bool) error {
	stmt, args, err := r.builder.
		Update("kiosk.credentials").
		Set("enabled", enabled).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build toggle enabled sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("toggle enabled: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *CredentialRepository) scanOne(ctx context.Context, stmt string, args []any) (*domain.Credential, error) {
	row := r.exec.QueryRow(ctx, stmt, args...)

	var credential domain.Credential
	if err := row.Scan(
		&credential.ID,
		&credential.Name,
		&credential.Username,
		&credential.Email,
		&credential.PasswordHash,
		&credential.Enabled,
		&credential.CreatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan credential: %w", err)
	}

	return &credential, nil
}

var _ port.CredentialRepository = (*CredentialRepository)(nil)
