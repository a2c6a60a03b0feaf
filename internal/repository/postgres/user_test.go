package postgres

import (
	"context"
	"testing"
	"time"

	apperrors "notifyhub/internal/common/errors"
	"notifyhub/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoredUser() *models.User {
	return models.NewUser(models.SystemTenant, "Ana", "ana@x.com", "hashed")
}

func userRows(u *models.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "tenant_id", "name", "email", "password_hash",
		"reset_token", "reset_token_expires_at", "status", "created_at", "updated_at",
	}).AddRow(
		u.ID.String(), u.TenantID.String(), u.Name, u.Email.String(), u.PasswordHash,
		nil, nil, u.Status.String(), u.CreatedAt, u.UpdatedAt,
	)
}

func TestUserFindByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	u := newStoredUser()
	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs(u.Email.String(), u.TenantID.String()).
		WillReturnRows(userRows(u))

	repo := NewUserRepository(db)
	found, err := repo.FindByEmail(context.Background(), u.Email, u.TenantID)

	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)
	assert.Empty(t, found.ResetToken)
	assert.Nil(t, found.ResetTokenExpiresAt)
}

func TestUserFindByEmailNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM users").
		WillReturnRows(sqlmock.NewRows(nil))

	repo := NewUserRepository(db)
	_, err = repo.FindByEmail(context.Background(), "missing@x.com", models.SystemTenant)

	assert.True(t, apperrors.IsNotFound(err))
}

func TestUserSavePersistsResetTokenState(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	u := newStoredUser()
	u.IssueResetToken(30 * time.Minute)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(u.ID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec("UPDATE users SET").
		WithArgs(u.ID.String(), u.Name, u.Email.String(), u.PasswordHash,
			sqlmock.AnyArg(), sqlmock.AnyArg(), u.Status.String(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewUserRepository(db)
	_, err = repo.Save(context.Background(), u)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserSaveMapsDuplicateEmailToConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	u := newStoredUser()
	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pq.Error{Code: uniqueViolation})

	repo := NewUserRepository(db)
	_, err = repo.Save(context.Background(), u)

	assert.True(t, apperrors.IsConflict(err))
}
