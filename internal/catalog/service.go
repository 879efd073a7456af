// Package catalog serves the size, color and category vocabularies and tells
// open editor sessions when they change.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"go-catalog-admin/internal/events"
	"go-catalog-admin/internal/model"
	"go-catalog-admin/internal/repository"
	"go-catalog-admin/internal/variant"
	"go-catalog-admin/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ChangedChannel is the Redis channel other instances listen on.
const ChangedChannel = "catalog.changed"

type Service struct {
	repo     repository.TaxonomyRepository
	pub      events.Publisher
	rdb      *redis.Client
	instance string

	mu      sync.RWMutex
	current variant.Catalog
	subs    map[int]func(variant.Catalog)
	nextSub int
}

// NewService wires the catalog. pub and rdb may be nil.
func NewService(repo repository.TaxonomyRepository, pub events.Publisher, rdb *redis.Client) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{
		repo:     repo,
		pub:      pub,
		rdb:      rdb,
		instance: uuid.NewString(),
		current:  variant.Catalog{Sizes: []string{}, Colors: []string{}, Categories: []string{}},
		subs:     make(map[int]func(variant.Catalog)),
	}
}

// List loads the three vocabularies concurrently. A list that fails to load
// keeps its last known value; the first failure is returned alongside the
// catalog.
func (s *Service) List(ctx context.Context) (variant.Catalog, error) {
	log := logger.FromContext(ctx)
	s.mu.RLock()
	next := s.current
	s.mu.RUnlock()

	var g errgroup.Group
	g.Go(func() error {
		sizes, err := s.repo.Sizes(ctx)
		if err != nil {
			log.Warn("load sizes failed, keeping previous list", zap.Error(err))
			return fmt.Errorf("load sizes: %w", err)
		}
		next.Sizes = names(sizes, func(v model.Size) string { return v.Name })
		return nil
	})
	g.Go(func() error {
		colors, err := s.repo.Colors(ctx)
		if err != nil {
			log.Warn("load colors failed, keeping previous list", zap.Error(err))
			return fmt.Errorf("load colors: %w", err)
		}
		next.Colors = names(colors, func(v model.Color) string { return v.Name })
		return nil
	})
	g.Go(func() error {
		categories, err := s.repo.Categories(ctx)
		if err != nil {
			log.Warn("load categories failed, keeping previous list", zap.Error(err))
			return fmt.Errorf("load categories: %w", err)
		}
		next.Categories = names(categories, func(v model.Category) string { return v.Name })
		return nil
	})
	err := g.Wait()

	s.mu.Lock()
	s.current = next
	s.mu.Unlock()
	return cloneCatalog(next), err
}

// Current returns the last loaded catalog without touching the database.
func (s *Service) Current() variant.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneCatalog(s.current)
}

// Subscribe registers fn for catalog changes. The returned func removes it.
func (s *Service) Subscribe(fn func(variant.Catalog)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Changed reloads the catalog, notifies local subscribers, live screens and
// other instances.
func (s *Service) Changed(ctx context.Context, kind string, actor *events.Actor) {
	c := s.refresh(ctx)

	log := logger.FromContext(ctx)
	if err := s.pub.Publish(ctx, events.New(events.TypeCatalog, events.ActionChanged, c, actor, kind+" changed")); err != nil {
		log.Warn("publish catalog change failed", zap.Error(err))
	}
	if s.rdb != nil {
		msg, _ := json.Marshal(changeMessage{Instance: s.instance, Kind: kind})
		if err := s.rdb.Publish(ctx, ChangedChannel, msg).Err(); err != nil {
			log.Warn("redis publish failed", zap.String("channel", ChangedChannel), zap.Error(err))
		}
	}
}

type changeMessage struct {
	Instance string `json:"instance"`
	Kind     string `json:"kind"`
}

// Listen applies catalog changes made by other instances until ctx is done.
// It returns at once when Redis is not configured.
func (s *Service) Listen(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	log := logger.GetLogger().Named("catalog")
	sub := s.rdb.Subscribe(ctx, ChangedChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var cm changeMessage
			if err := json.Unmarshal([]byte(msg.Payload), &cm); err != nil {
				log.Warn("bad catalog change message", zap.Error(err))
				continue
			}
			if cm.Instance == s.instance {
				continue
			}
			log.Debug("catalog changed elsewhere", zap.String("kind", cm.Kind))
			s.refresh(ctx)
		}
	}
}

func (s *Service) refresh(ctx context.Context) variant.Catalog {
	c, _ := s.List(ctx)

	s.mu.RLock()
	fns := make([]func(variant.Catalog), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(cloneCatalog(c))
	}
	return c
}

func (s *Service) Sizes(ctx context.Context) ([]model.Size, error) {
	return s.repo.Sizes(ctx)
}

func (s *Service) Colors(ctx context.Context) ([]model.Color, error) {
	return s.repo.Colors(ctx)
}

func (s *Service) Categories(ctx context.Context) ([]model.Category, error) {
	return s.repo.Categories(ctx)
}

// Create stores a new *model.Size, *model.Color or *model.Category.
func (s *Service) Create(ctx context.Context, entry interface{}, actor *events.Actor) error {
	if err := s.repo.Create(ctx, entry); err != nil {
		return err
	}
	s.Changed(ctx, model.KindOf(entry), actor)
	return nil
}

func (s *Service) Update(ctx context.Context, entry interface{}, actor *events.Actor) error {
	if err := s.repo.Update(ctx, entry); err != nil {
		return err
	}
	s.Changed(ctx, model.KindOf(entry), actor)
	return nil
}

func (s *Service) Delete(ctx context.Context, kind string, id uint, actor *events.Actor) error {
	if err := s.repo.Delete(ctx, kind, id); err != nil {
		return err
	}
	s.Changed(ctx, kind, actor)
	return nil
}

func names[T any](items []T, name func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, name(it))
	}
	return out
}

func cloneCatalog(c variant.Catalog) variant.Catalog {
	return variant.Catalog{
		Sizes:      slices.Clone(c.Sizes),
		Colors:     slices.Clone(c.Colors),
		Categories: slices.Clone(c.Categories),
	}
}
