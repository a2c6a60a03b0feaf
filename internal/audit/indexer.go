// Package audit ships dispatch outcomes to the notification audit index.
// Indexing is best effort: a failure is logged and never propagated, the
// database row stays the source of truth.
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"notifyhub/internal/common/logger"
	"notifyhub/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
)

const defaultIndex = "notifications-audit"

// Document is the flattened audit record written per dispatch attempt.
type Document struct {
	NotificationID    string    `json:"notificationId"`
	TemplateID        string    `json:"templateId"`
	TenantID          string    `json:"tenantId"`
	Channel           string    `json:"channel"`
	Provider          string    `json:"provider"`
	ProviderMessageID string    `json:"providerMessageId,omitempty"`
	Status            string    `json:"status"`
	RecipientName     string    `json:"recipientName"`
	RenderedSubject   string    `json:"renderedSubject"`
	RenderedBody      string    `json:"renderedBody"`
	SentAt            *string   `json:"sentAt,omitempty"`
	IndexedAt         time.Time `json:"indexedAt"`
}

// Indexer writes audit documents to Elasticsearch. A nil client disables
// indexing entirely.
type Indexer struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewIndexer(client *elasticsearch.Client, index string, log logger.Logger) *Indexer {
	if index == "" {
		index = defaultIndex
	}
	return &Indexer{client: client, index: index, logger: log}
}

// Index records the dispatch outcome of n. Errors are logged, never returned.
func (i *Indexer) Index(ctx context.Context, n *models.Notification) {
	if i.client == nil {
		return
	}

	doc := Document{
		NotificationID:    n.ID.String(),
		TemplateID:        n.TemplateID.String(),
		TenantID:          n.TenantID.String(),
		Channel:           n.Channel.String(),
		Provider:          n.Provider.String(),
		ProviderMessageID: n.ProviderMessageID,
		Status:            n.Status.String(),
		RecipientName:     n.Recipient.Name,
		RenderedSubject:   n.RenderedSubject(),
		RenderedBody:      n.RenderedBody(),
		IndexedAt:         time.Now().UTC(),
	}
	if n.SentAt != nil {
		sentAt := n.SentAt.Format(time.RFC3339)
		doc.SentAt = &sentAt
	}

	body, err := json.Marshal(doc)
	if err != nil {
		i.logger.Warn("audit document marshal failed", map[string]interface{}{
			"notificationId": n.ID.String(),
			"error":          err.Error(),
		})
		return
	}

	res, err := i.client.Index(
		i.index,
		bytes.NewReader(body),
		i.client.Index.WithDocumentID(n.ID.String()),
		i.client.Index.WithContext(ctx),
	)
	if err != nil {
		i.logger.Warn("audit index request failed", map[string]interface{}{
			"notificationId": n.ID.String(),
			"error":          err.Error(),
		})
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		i.logger.Warn("audit index rejected document", map[string]interface{}{
			"notificationId": n.ID.String(),
			"status":         res.Status(),
		})
	}
}
