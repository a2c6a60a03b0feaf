package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	apperrors "notifyhub/internal/common/errors"
	"notifyhub/internal/models"
	"notifyhub/internal/repository"
)

const notificationColumns = `id, template_id, provider, tenant_id, provider_message_id, channel,
	recipient_name, recipient_email, recipient_phone,
	sender_name, sender_email, sender_phone,
	variables, status, sent_at, opened_at, clicked_at, created_at, updated_at`

// NotificationRepository persists notifications in the notifications table.
type NotificationRepository struct {
	q repository.Querier
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{q: db}
}

// WithTx returns a copy bound to the transaction handle, so writes
// participate in the surrounding unit of work.
func (r *NotificationRepository) WithTx(tx repository.Querier) *NotificationRepository {
	return &NotificationRepository{q: tx}
}

func (r *NotificationRepository) FindByID(ctx context.Context, id models.ID) (*models.Notification, error) {
	query := `SELECT ` + notificationColumns + `
		FROM notifications
		WHERE id = $1 AND deleted_at IS NULL`

	n, err := scanNotification(r.q.QueryRowContext(ctx, query, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("notification", "id="+id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("find notification: %w", err)
	}
	return n, nil
}

// Save upserts by identifier. The existence check and the following write are
// two statements; concurrent saves of the same id are arbitrated by the
// primary key constraint, surfaced as a ConflictError.
func (r *NotificationRepository) Save(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	exists, err := r.Exists(ctx, n.ID)
	if err != nil {
		return nil, err
	}

	vars, err := json.Marshal(n.Variables)
	if err != nil {
		return nil, fmt.Errorf("marshal notification variables: %w", err)
	}

	if exists {
		query := `UPDATE notifications SET
			provider_message_id = $2, status = $3, variables = $4,
			sent_at = $5, opened_at = $6, clicked_at = $7, updated_at = $8
			WHERE id = $1 AND deleted_at IS NULL`
		if _, err := r.q.ExecContext(ctx, query,
			n.ID.String(), nullString(n.ProviderMessageID), n.Status.String(), vars,
			nullTime(n.SentAt), nullTime(n.OpenedAt), nullTime(n.ClickedAt), n.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("update notification: %w", err)
		}
		return n, nil
	}

	query := `INSERT INTO notifications (` + notificationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	if _, err := r.q.ExecContext(ctx, query,
		n.ID.String(), n.TemplateID.String(), n.Provider.String(), n.TenantID.String(),
		nullString(n.ProviderMessageID), n.Channel.String(),
		n.Recipient.Name, nullString(n.Recipient.Email.String()), nullString(n.Recipient.Phone.String()),
		n.Sender.Name, nullString(n.Sender.Email.String()), nullString(n.Sender.Phone.String()),
		vars, n.Status.String(), nullTime(n.SentAt), nullTime(n.OpenedAt), nullTime(n.ClickedAt),
		n.CreatedAt, n.UpdatedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.NewConflict("notification", "id="+n.ID.String(), err)
		}
		return nil, fmt.Errorf("insert notification: %w", err)
	}
	return n, nil
}

// Delete soft-deletes by stamping deleted_at; every finder filters on it.
func (r *NotificationRepository) Delete(ctx context.Context, id models.ID) error {
	query := `UPDATE notifications SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	res, err := r.q.ExecContext(ctx, query, id.String())
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return apperrors.NewNotFound("notification", "id="+id.String())
	}
	return nil
}

func (r *NotificationRepository) Exists(ctx context.Context, id models.ID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM notifications WHERE id = $1 AND deleted_at IS NULL)`
	if err := r.q.QueryRowContext(ctx, query, id.String()).Scan(&exists); err != nil {
		return false, fmt.Errorf("notification exists: %w", err)
	}
	return exists, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanNotification(row rowScanner) (*models.Notification, error) {
	var (
		n                                 models.Notification
		id, templateID, provider, tenant  string
		providerMessageID                 sql.NullString
		channel, status                   string
		recipientEmail, recipientPhone    sql.NullString
		senderEmail, senderPhone          sql.NullString
		vars                              []byte
		sentAt, openedAt, clickedAt       sql.NullTime
	)

	if err := row.Scan(
		&id, &templateID, &provider, &tenant, &providerMessageID, &channel,
		&n.Recipient.Name, &recipientEmail, &recipientPhone,
		&n.Sender.Name, &senderEmail, &senderPhone,
		&vars, &status, &sentAt, &openedAt, &clickedAt, &n.CreatedAt, &n.UpdatedAt,
	); err != nil {
		return nil, err
	}

	n.ID = models.ID(id)
	n.TemplateID = models.ID(templateID)
	n.Provider = models.Provider(provider)
	n.TenantID = models.TenantID(tenant)
	n.ProviderMessageID = providerMessageID.String
	n.Channel = models.Channel(channel)
	n.Recipient.Email = models.Email(recipientEmail.String)
	n.Recipient.Phone = models.Phone(recipientPhone.String)
	n.Sender.Email = models.Email(senderEmail.String)
	n.Sender.Phone = models.Phone(senderPhone.String)
	n.Status = models.NotificationStatus(status)
	n.SentAt = timePtr(sentAt)
	n.OpenedAt = timePtr(openedAt)
	n.ClickedAt = timePtr(clickedAt)

	if len(vars) > 0 {
		if err := json.Unmarshal(vars, &n.Variables); err != nil {
			return nil, fmt.Errorf("unmarshal notification variables: %w", err)
		}
	}
	return &n, nil
}
