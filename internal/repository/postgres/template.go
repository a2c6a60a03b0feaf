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

const templateColumns = `id, tenant_id, context, language, channel, subject, body,
	is_default, status, created_at, updated_at`

// TemplateRepository reads templates from the templates table. All queries
// apply the same active predicate: not soft-deleted, status active.
type TemplateRepository struct {
	q repository.Querier
}

func NewTemplateRepository(db *sql.DB) *TemplateRepository {
	return &TemplateRepository{q: db}
}

func (r *TemplateRepository) WithTx(tx repository.Querier) *TemplateRepository {
	return &TemplateRepository{q: tx}
}

func (r *TemplateRepository) FindByID(ctx context.Context, id models.ID) (*models.Template, error) {
	query := `SELECT ` + templateColumns + `
		FROM templates
		WHERE id = $1 AND deleted_at IS NULL AND status = 'active'`

	t, err := scanTemplate(r.q.QueryRowContext(ctx, query, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("template", "id="+id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("find template: %w", err)
	}
	return t, nil
}

// FindByContextLanguageAndChannel looks up the tenant override. When the
// uniqueness invariant is violated and several rows match, the most recently
// updated wins; that is a defensive fallback, the store constraint is what
// enforces uniqueness at write time. Returns (nil, nil) when nothing matches.
func (r *TemplateRepository) FindByContextLanguageAndChannel(ctx context.Context, c models.Context, l models.Language, ch models.Channel, tenant models.TenantID) (*models.Template, error) {
	query := `SELECT ` + templateColumns + `
		FROM templates
		WHERE context = $1 AND language = $2 AND channel = $3 AND tenant_id = $4
			AND is_default = FALSE AND deleted_at IS NULL AND status = 'active'
		ORDER BY updated_at DESC
		LIMIT 1`

	t, err := scanTemplate(r.q.QueryRowContext(ctx, query, c.String(), l.String(), ch.String(), tenant.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tenant template: %w", err)
	}
	return t, nil
}

// FindDefaultByContextLanguageAndChannel looks up the platform-owned global
// default: the tenant-less row flagged is_default. Returns (nil, nil) when
// nothing matches.
func (r *TemplateRepository) FindDefaultByContextLanguageAndChannel(ctx context.Context, c models.Context, l models.Language, ch models.Channel) (*models.Template, error) {
	query := `SELECT ` + templateColumns + `
		FROM templates
		WHERE context = $1 AND language = $2 AND channel = $3
			AND tenant_id IS NULL AND is_default = TRUE
			AND deleted_at IS NULL AND status = 'active'
		LIMIT 1`

	t, err := scanTemplate(r.q.QueryRowContext(ctx, query, c.String(), l.String(), ch.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find default template: %w", err)
	}
	return t, nil
}

func scanTemplate(row rowScanner) (*models.Template, error) {
	var (
		t        models.Template
		id       string
		tenant   sql.NullString
		context  string
		language string
		channel  string
		status   string
	)

	if err := row.Scan(
		&id, &tenant, &context, &language, &channel, &t.Subject, &t.Body,
		&t.IsDefault, &status, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}

	t.ID = models.ID(id)
	t.TenantID = models.TenantID(tenant.String)
	t.Context = models.Context(context)
	t.Language = models.Language(language)
	t.Channel = models.Channel(channel)
	t.Status = models.EntityStatus(status)
	return &t, nil
}
