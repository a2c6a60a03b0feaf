// Package repository defines the storage-agnostic persistence contracts for
// the aggregates, plus the transaction manager. Implementations live in
// subpackages (postgres).
package repository

import (
	"context"
	"database/sql"

	"notifyhub/internal/models"
)

// Querier is the handle repositories execute statements through. Both
// *sql.DB and *sql.Tx satisfy it; the transaction manager hands out the
// latter. A repository bound to the pool does not participate in any open
// transaction — rebinding through WithTx is the caller's responsibility.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// TxManager executes fn as one atomic unit of work. The handle passed to fn
// is only valid inside fn: commit happens on nil return, rollback on error,
// and the original error is re-raised unchanged.
type TxManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx Querier) error) error
}

// NotificationRepository persists the Notification aggregate.
type NotificationRepository interface {
	FindByID(ctx context.Context, id models.ID) (*models.Notification, error)
	// Save upserts: update when the id already exists, insert otherwise. The
	// existence check and the write are not locked in-process; uniqueness is
	// relied upon from the backing store.
	Save(ctx context.Context, n *models.Notification) (*models.Notification, error)
	// Delete soft-deletes: it stamps the deletion timestamp and all finders
	// exclude the row from then on.
	Delete(ctx context.Context, id models.ID) error
	Exists(ctx context.Context, id models.ID) (bool, error)
}

// TemplateRepository reads templates. Templates are provisioned out of band;
// the core never writes them. The two finders return (nil, nil) when no
// active row matches, so the resolver can fall through.
type TemplateRepository interface {
	FindByID(ctx context.Context, id models.ID) (*models.Template, error)
	FindByContextLanguageAndChannel(ctx context.Context, c models.Context, l models.Language, ch models.Channel, tenant models.TenantID) (*models.Template, error)
	FindDefaultByContextLanguageAndChannel(ctx context.Context, c models.Context, l models.Language, ch models.Channel) (*models.Template, error)
}

// UserRepository persists the User aggregate.
type UserRepository interface {
	FindByID(ctx context.Context, id models.ID) (*models.User, error)
	FindByEmail(ctx context.Context, email models.Email, tenant models.TenantID) (*models.User, error)
	Save(ctx context.Context, u *models.User) (*models.User, error)
	Delete(ctx context.Context, id models.ID) error
	Exists(ctx context.Context, id models.ID) (bool, error)
}
