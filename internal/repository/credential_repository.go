package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/red-heart/auth-service/internal/domain"
)

// ErrNotFound signals that no credential record exists for the lookup key.
var ErrNotFound = errors.New("credential record not found")

// ErrDuplicateEmail signals that an insert hit the per-role unique email
// constraint. This is the authoritative conflict signal; the pre-insert
// existence check in the service only provides a friendlier fast path.
var ErrDuplicateEmail = errors.New("email already registered")

// CredentialRepository defines persistence access for role-partitioned
// credential records.
type CredentialRepository interface {
	GetByEmail(ctx context.Context, role domain.Role, email string) (*domain.Account, error)
	Create(ctx context.Context, role domain.Role, account *domain.Account) error
}

type credentialRepository struct {
	pool *pgxpool.Pool
}

// NewCredentialRepository returns a Postgres-backed implementation.
func NewCredentialRepository(pool *pgxpool.Pool) CredentialRepository {
	return &credentialRepository{pool: pool}
}

// tableFor maps a role partition to its backing table. Roles are validated
// at the transport boundary; an unknown role here is a programming error.
func tableFor(role domain.Role) (string, error) {
	switch role {
	case domain.RolePatient:
		return "patients", nil
	case domain.RoleDoctor:
		return "doctors", nil
	default:
		return "", fmt.Errorf("unknown role %q", role)
	}
}

func (r *credentialRepository) GetByEmail(ctx context.Context, role domain.Role, email string) (*domain.Account, error) {
	table, err := tableFor(role)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
        SELECT id, email, password_hash, created_at
        FROM %s WHERE email=$1`, table)

	var account domain.Account
	if err := r.pool.QueryRow(ctx, query, email).Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *credentialRepository) Create(ctx context.Context, role domain.Role, account *domain.Account) error {
	table, err := tableFor(role)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
        INSERT INTO %s (email, password_hash)
        VALUES ($1, $2)
        RETURNING id, created_at`, table)

	if err := r.pool.QueryRow(ctx, query,
		account.Email,
		account.PasswordHash,
	).Scan(&account.ID, &account.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// isUniqueViolation matches Postgres error class 23505 (unique_violation).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
