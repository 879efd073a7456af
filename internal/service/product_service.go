package service

import (
	"context"
	"errors"
	"slices"

	"go-catalog-admin/internal/events"
	"go-catalog-admin/internal/model"
	"go-catalog-admin/internal/repository"
	"go-catalog-admin/internal/search"
	"go-catalog-admin/internal/storage"
	"go-catalog-admin/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrProductNotFound = errors.New("product not found")

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type ProductQuery struct {
	Q        string
	Category string
	Page     int
	Limit    int
}

type ProductPage struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type ProductService interface {
	List(ctx context.Context, q ProductQuery) (*ProductPage, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Product, error)
	Delete(ctx context.Context, id uuid.UUID, actor *events.Actor) error
}

type productService struct {
	repo  repository.ProductRepository
	index search.Indexer
	store storage.Storage
	pub   events.Publisher
}

func NewProductService(repo repository.ProductRepository, index search.Indexer, store storage.Storage, pub events.Publisher) ProductService {
	if index == nil {
		index = search.Nop{}
	}
	if pub == nil {
		pub = events.Nop{}
	}
	return &productService{repo: repo, index: index, store: store, pub: pub}
}

// List pages through products. A search term goes to the search index first
// and falls back to a database match when the index is unavailable.
func (s *productService) List(ctx context.Context, q ProductQuery) (*ProductPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = DefaultPageSize
	}
	q.Limit = min(q.Limit, MaxPageSize)

	filter := repository.ProductFilter{
		Query:    q.Q,
		Category: q.Category,
		Limit:    q.Limit,
		Offset:   (q.Page - 1) * q.Limit,
	}

	var ranked []string
	if q.Q != "" {
		ids, err := s.index.Search(ctx, q.Q, MaxPageSize*5)
		switch {
		case err == nil:
			if len(ids) == 0 {
				return &ProductPage{Items: []model.Product{}, Page: q.Page, Limit: q.Limit}, nil
			}
			ranked = ids
			for _, raw := range ids {
				if id, err := uuid.Parse(raw); err == nil {
					filter.IDs = append(filter.IDs, id)
				}
			}
			filter.Query = ""
		case !errors.Is(err, search.ErrDisabled):
			logger.FromContext(ctx).Warn("search index failed, using database match", zap.Error(err))
		}
	}

	items, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	if ranked != nil {
		items = byRank(items, ranked)
	}
	if items == nil {
		items = []model.Product{}
	}
	return &ProductPage{Items: items, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

// byRank orders products the way the search index ranked them.
func byRank(items []model.Product, ranked []string) []model.Product {
	pos := make(map[string]int, len(ranked))
	for i, id := range ranked {
		pos[id] = i
	}
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b model.Product) int {
		return pos[a.ID.String()] - pos[b.ID.String()]
	})
	return out
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrProductNotFound) {
		return nil, ErrProductNotFound
	}
	return p, err
}

// Delete soft-deletes the product, then removes its images from storage and
// its search document.
func (s *productService) Delete(ctx context.Context, id uuid.UUID, actor *events.Actor) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id, actorID(actor)); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	log := logger.FromContext(ctx)
	for _, img := range p.Images {
		if img.StorageKey == "" {
			continue
		}
		if err := s.store.Delete(ctx, img.StorageKey); err != nil {
			log.Warn("delete product image failed", zap.String("key", img.StorageKey), zap.Error(err))
		}
	}
	if err := s.index.Delete(ctx, id.String()); err != nil {
		log.Warn("remove product from index failed", zap.String("product_id", id.String()), zap.Error(err))
	}

	data := map[string]interface{}{"id": id, "name": p.Name}
	if err := s.pub.Publish(ctx, events.New(events.TypeProduct, events.ActionDeleted, data, actor, "deleted product '"+p.Name+"'")); err != nil {
		log.Warn("publish product event failed", zap.Error(err))
	}
	return nil
}
