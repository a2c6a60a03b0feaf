// Package notification holds the template resolution and rendering pieces of
// the dispatch pipeline.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	apperrors "notifyhub/internal/common/errors"
	"notifyhub/internal/common/logger"
	"notifyhub/internal/models"
	"notifyhub/internal/repository"

	"github.com/redis/go-redis/v9"
)

// Resolver performs the two-level template lookup: tenant override first,
// global default second, NotFound when neither exists. Resolved templates are
// cached in Redis with a TTL; cache trouble degrades to a repository lookup
// and never fails resolution.
type Resolver struct {
	templates repository.TemplateRepository
	cache     *redis.Client // nil disables caching
	ttl       time.Duration
	logger    logger.Logger
}

func NewResolver(templates repository.TemplateRepository, cache *redis.Client, ttl time.Duration, log logger.Logger) *Resolver {
	return &Resolver{
		templates: templates,
		cache:     cache,
		ttl:       ttl,
		logger:    log,
	}
}

// Resolve returns the active template for (context, language, channel,
// tenant). A system tenant skips straight to the global default.
func (r *Resolver) Resolve(ctx context.Context, c models.Context, l models.Language, ch models.Channel, tenant models.TenantID) (*models.Template, error) {
	key := cacheKey(c, l, ch, tenant)

	if tpl := r.fromCache(ctx, key); tpl != nil {
		return tpl, nil
	}

	tpl, err := r.lookup(ctx, c, l, ch, tenant)
	if err != nil {
		return nil, err
	}

	r.toCache(ctx, key, tpl)
	return tpl, nil
}

// Invalidate drops the cached entry for one tuple, for use after template
// provisioning changes.
func (r *Resolver) Invalidate(ctx context.Context, c models.Context, l models.Language, ch models.Channel, tenant models.TenantID) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Del(ctx, cacheKey(c, l, ch, tenant)).Err(); err != nil {
		r.logger.Warn("template cache invalidation failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (r *Resolver) lookup(ctx context.Context, c models.Context, l models.Language, ch models.Channel, tenant models.TenantID) (*models.Template, error) {
	if !tenant.IsSystem() {
		tpl, err := r.templates.FindByContextLanguageAndChannel(ctx, c, l, ch, tenant)
		if err != nil {
			return nil, err
		}
		if tpl != nil {
			return tpl, nil
		}
	}

	tpl, err := r.templates.FindDefaultByContextLanguageAndChannel(ctx, c, l, ch)
	if err != nil {
		return nil, err
	}
	if tpl == nil {
		return nil, apperrors.NewNotFound("template",
			fmt.Sprintf("context=%s language=%s channel=%s tenant=%s", c, l, ch, tenant))
	}
	return tpl, nil
}

func (r *Resolver) fromCache(ctx context.Context, key string) *models.Template {
	if r.cache == nil {
		return nil
	}

	raw, err := r.cache.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			r.logger.Warn("template cache read failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
		return nil
	}

	var tpl models.Template
	if err := json.Unmarshal([]byte(raw), &tpl); err != nil {
		r.logger.Warn("template cache entry corrupt", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return nil
	}
	return &tpl
}

func (r *Resolver) toCache(ctx context.Context, key string, tpl *models.Template) {
	if r.cache == nil {
		return
	}

	raw, err := json.Marshal(tpl)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, key, raw, r.ttl).Err(); err != nil {
		r.logger.Warn("template cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

func cacheKey(c models.Context, l models.Language, ch models.Channel, tenant models.TenantID) string {
	return fmt.Sprintf("template:%s:%s:%s:%s", c, l, ch, tenant)
}
