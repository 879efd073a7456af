package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-catalog-admin/internal/model"
	"go-catalog-admin/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const taxonomyKeyPrefix = "catalog:taxonomy:"

type cachedTaxonomyRepo struct {
	next TaxonomyRepository
	rdb  *redis.Client
	ttl  time.Duration
}

// NewCachedTaxonomyRepo keeps the three lists in Redis. Writes drop the cached
// list of their kind. A nil client returns next unchanged.
func NewCachedTaxonomyRepo(next TaxonomyRepository, rdb *redis.Client, ttl time.Duration) TaxonomyRepository {
	if rdb == nil {
		return next
	}
	return &cachedTaxonomyRepo{next: next, rdb: rdb, ttl: ttl}
}

func cachedList[T any](ctx context.Context, r *cachedTaxonomyRepo, kind string, load func(context.Context) ([]T, error)) ([]T, error) {
	key := taxonomyKeyPrefix + kind
	raw, err := r.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var out []T
		if json.Unmarshal(raw, &out) == nil {
			return out, nil
		}
	case !errors.Is(err, redis.Nil):
		logger.FromContext(ctx).Warn("taxonomy cache read failed", zap.String("kind", kind), zap.Error(err))
	}

	out, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(out); err == nil {
		if err := r.rdb.Set(ctx, key, raw, r.ttl).Err(); err != nil {
			logger.FromContext(ctx).Warn("taxonomy cache write failed", zap.String("kind", kind), zap.Error(err))
		}
	}
	return out, nil
}

func (r *cachedTaxonomyRepo) Sizes(ctx context.Context) ([]model.Size, error) {
	return cachedList(ctx, r, model.KindSize, r.next.Sizes)
}

func (r *cachedTaxonomyRepo) Colors(ctx context.Context) ([]model.Color, error) {
	return cachedList(ctx, r, model.KindColor, r.next.Colors)
}

func (r *cachedTaxonomyRepo) Categories(ctx context.Context) ([]model.Category, error) {
	return cachedList(ctx, r, model.KindCategory, r.next.Categories)
}

func (r *cachedTaxonomyRepo) Create(ctx context.Context, entry interface{}) error {
	if err := r.next.Create(ctx, entry); err != nil {
		return err
	}
	r.invalidate(ctx, model.KindOf(entry))
	return nil
}

func (r *cachedTaxonomyRepo) Update(ctx context.Context, entry interface{}) error {
	if err := r.next.Update(ctx, entry); err != nil {
		return err
	}
	r.invalidate(ctx, model.KindOf(entry))
	return nil
}

func (r *cachedTaxonomyRepo) Delete(ctx context.Context, kind string, id uint) error {
	if err := r.next.Delete(ctx, kind, id); err != nil {
		return err
	}
	r.invalidate(ctx, kind)
	return nil
}

func (r *cachedTaxonomyRepo) invalidate(ctx context.Context, kind string) {
	if err := r.rdb.Del(ctx, taxonomyKeyPrefix+kind).Err(); err != nil {
		logger.FromContext(ctx).Warn("taxonomy cache invalidation failed", zap.String("kind", kind), zap.Error(err))
	}
}
