package catalog

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"go-catalog-admin/internal/events"
	"go-catalog-admin/internal/model"
	"go-catalog-admin/internal/variant"
)

type fakeTaxonomy struct {
	mu         sync.Mutex
	sizes      []model.Size
	colors     []model.Color
	categories []model.Category
	sizesErr   error
}

func (f *fakeTaxonomy) Sizes(context.Context) ([]model.Size, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sizes, f.sizesErr
}

func (f *fakeTaxonomy) Colors(context.Context) ([]model.Color, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.colors, nil
}

func (f *fakeTaxonomy) Categories(context.Context) ([]model.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.categories, nil
}

func (f *fakeTaxonomy) Create(_ context.Context, entry interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch v := entry.(type) {
	case *model.Size:
		f.sizes = append(f.sizes, *v)
	case *model.Color:
		f.colors = append(f.colors, *v)
	case *model.Category:
		f.categories = append(f.categories, *v)
	}
	return nil
}

func (f *fakeTaxonomy) Update(context.Context, interface{}) error { return nil }
func (f *fakeTaxonomy) Delete(context.Context, string, uint) error {
	return nil
}

type recorder struct {
	mu  sync.Mutex
	got []events.Event
}

func (r *recorder) Publish(_ context.Context, ev events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, ev)
	return nil
}

func TestListLoadsAllKinds(t *testing.T) {
	repo := &fakeTaxonomy{
		sizes:      []model.Size{{Name: "S"}, {Name: "M"}},
		colors:     []model.Color{{Name: "Red"}},
		categories: []model.Category{{Name: "Shirts"}},
	}
	svc := NewService(repo, nil, nil)

	got, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := variant.Catalog{Sizes: []string{"S", "M"}, Colors: []string{"Red"}, Categories: []string{"Shirts"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("List() = %+v, want %+v", got, want)
	}
}

func TestListKeepsPreviousOnFailure(t *testing.T) {
	repo := &fakeTaxonomy{sizes: []model.Size{{Name: "S"}}, colors: []model.Color{{Name: "Red"}}}
	svc := NewService(repo, nil, nil)
	if _, err := svc.List(context.Background()); err != nil {
		t.Fatalf("first List() error = %v", err)
	}

	boom := errors.New("db down")
	repo.sizesErr = boom
	repo.colors = []model.Color{{Name: "Red"}, {Name: "Blue"}}

	got, err := svc.List(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("List() error = %v, want %v", err, boom)
	}
	if !reflect.DeepEqual(got.Sizes, []string{"S"}) {
		t.Errorf("Sizes = %v, want previous [S]", got.Sizes)
	}
	if !reflect.DeepEqual(got.Colors, []string{"Red", "Blue"}) {
		t.Errorf("Colors = %v, want fresh list", got.Colors)
	}
}

func TestSubscribeAndChanged(t *testing.T) {
	repo := &fakeTaxonomy{}
	pub := &recorder{}
	svc := NewService(repo, pub, nil)

	var calls []variant.Catalog
	unsubscribe := svc.Subscribe(func(c variant.Catalog) { calls = append(calls, c) })

	actor := &events.Actor{ID: "u-1"}
	if err := svc.Create(context.Background(), &model.Size{Name: "XL"}, actor); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(calls) != 1 || !reflect.DeepEqual(calls[0].Sizes, []string{"XL"}) {
		t.Fatalf("subscriber calls = %+v", calls)
	}
	if len(pub.got) != 1 || pub.got[0].RoutingKey() != "catalog.changed" || pub.got[0].User != actor {
		t.Fatalf("published = %+v", pub.got)
	}

	unsubscribe()
	unsubscribe()
	svc.Changed(context.Background(), model.KindSize, nil)
	if len(calls) != 1 {
		t.Fatalf("subscriber called after unsubscribe: %d calls", len(calls))
	}
}

func TestListenWithoutRedisReturns(t *testing.T) {
	svc := NewService(&fakeTaxonomy{}, nil, nil)
	svc.Listen(context.Background())
}
