package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "notifyhub/internal/common/errors"
	"notifyhub/internal/models"
	"notifyhub/internal/repository"
)

const userColumns = `id, tenant_id, name, email, password_hash,
	reset_token, reset_token_expires_at, status, created_at, updated_at`

// UserRepository persists users in the users table.
type UserRepository struct {
	q repository.Querier
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{q: db}
}

func (r *UserRepository) WithTx(tx repository.Querier) *UserRepository {
	return &UserRepository{q: tx}
}

func (r *UserRepository) FindByID(ctx context.Context, id models.ID) (*models.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE id = $1 AND deleted_at IS NULL`

	u, err := scanUser(r.q.QueryRowContext(ctx, query, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("user", "id="+id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email models.Email, tenant models.TenantID) (*models.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE email = $1 AND tenant_id = $2 AND deleted_at IS NULL`

	u, err := scanUser(r.q.QueryRowContext(ctx, query, email.String(), tenant.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("user", "email="+email.String())
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// Save upserts by identifier. Email uniqueness per tenant is a store
// constraint; violations surface as ConflictError.
func (r *UserRepository) Save(ctx context.Context, u *models.User) (*models.User, error) {
	exists, err := r.Exists(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	if exists {
		query := `UPDATE users SET
			name = $2, email = $3, password_hash = $4,
			reset_token = $5, reset_token_expires_at = $6, status = $7, updated_at = $8
			WHERE id = $1 AND deleted_at IS NULL`
		if _, err := r.q.ExecContext(ctx, query,
			u.ID.String(), u.Name, u.Email.String(), u.PasswordHash,
			nullString(u.ResetToken), nullTime(u.ResetTokenExpiresAt), u.Status.String(), u.UpdatedAt,
		); err != nil {
			if isUniqueViolation(err) {
				return nil, apperrors.NewConflict("user", "email="+u.Email.String(), err)
			}
			return nil, fmt.Errorf("update user: %w", err)
		}
		return u, nil
	}

	query := `INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	if _, err := r.q.ExecContext(ctx, query,
		u.ID.String(), u.TenantID.String(), u.Name, u.Email.String(), u.PasswordHash,
		nullString(u.ResetToken), nullTime(u.ResetTokenExpiresAt), u.Status.String(),
		u.CreatedAt, u.UpdatedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.NewConflict("user", "email="+u.Email.String(), err)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) Delete(ctx context.Context, id models.ID) error {
	query := `UPDATE users SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	res, err := r.q.ExecContext(ctx, query, id.String())
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return apperrors.NewNotFound("user", "id="+id.String())
	}
	return nil
}

func (r *UserRepository) Exists(ctx context.Context, id models.ID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1 AND deleted_at IS NULL)`
	if err := r.q.QueryRowContext(ctx, query, id.String()).Scan(&exists); err != nil {
		return false, fmt.Errorf("user exists: %w", err)
	}
	return exists, nil
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u          models.User
		id, tenant string
		email      string
		resetToken sql.NullString
		expiresAt  sql.NullTime
		status     string
	)

	if err := row.Scan(
		&id, &tenant, &u.Name, &email, &u.PasswordHash,
		&resetToken, &expiresAt, &status, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}

	u.ID = models.ID(id)
	u.TenantID = models.TenantID(tenant)
	u.Email = models.Email(email)
	u.ResetToken = resetToken.String
	u.ResetTokenExpiresAt = timePtr(expiresAt)
	u.Status = models.EntityStatus(status)
	return &u, nil
}
