package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"paynex/internal/domain/user"
)

const uniqueViolation = "23505"

const credentialsSchema = `
	CREATE TABLE IF NOT EXISTS credentials (
		id            UUID PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		name          TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// CredentialRepository stores login accounts. The credential id is the
// userId shared with the profile document.
type CredentialRepository struct {
	db *DB
}

func NewCredentialRepository(db *DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

var _ user.CredentialRepository = (*CredentialRepository)(nil)

// EnsureSchema creates the credentials table if it does not exist.
func (r *CredentialRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, credentialsSchema); err != nil {
		return fmt.Errorf("failed to create credentials table: %w", err)
	}
	return nil
}

func (r *CredentialRepository) Create(ctx context.Context, email, name, passwordHash string) (*user.Credential, error) {
	query := `
		INSERT INTO credentials (id, email, name, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, name, password_hash, created_at
	`

	var c user.Credential
	err := r.db.QueryRowContext(ctx, query, uuid.NewString(), email, name, passwordHash).Scan(
		&c.ID, &c.Email, &c.Name, &c.PasswordHash, &c.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, user.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create credential: %w", err)
	}

	return &c, nil
}

func (r *CredentialRepository) GetByEmail(ctx context.Context, email string) (*user.Credential, error) {
	query := `
		SELECT id, email, name, password_hash, created_at
		FROM credentials
		WHERE email = $1
	`
	return r.getOne(ctx, query, email)
}

// Delete removes a credential. Deleting a missing credential is not an error.
func (r *CredentialRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM credentials WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return nil
}

func (r *CredentialRepository) getOne(ctx context.Context, query string, arg any) (*user.Credential, error) {
	var c user.Credential
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&c.ID, &c.Email, &c.Name, &c.PasswordHash, &c.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}
	return &c, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
