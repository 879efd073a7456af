package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"go-catalog-admin/internal/events"
	"go-catalog-admin/internal/model"
	"go-catalog-admin/internal/repository"
	"go-catalog-admin/internal/storage"
	"go-catalog-admin/internal/variant"

	"github.com/google/uuid"
)

type fakeProducts struct {
	mu       sync.Mutex
	byID     map[uuid.UUID]*model.Product
	created  int
	updated  int
	failSave error
}

func newFakeProducts(ps ...*model.Product) *fakeProducts {
	f := &fakeProducts{byID: make(map[uuid.UUID]*model.Product)}
	for _, p := range ps {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakeProducts) Create(_ context.Context, p *model.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSave != nil {
		return f.failSave
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.byID[p.ID] = p
	f.created++
	return nil
}

func (f *fakeProducts) Update(_ context.Context, p *model.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSave != nil {
		return f.failSave
	}
	if _, ok := f.byID[p.ID]; !ok {
		return repository.ErrProductNotFound
	}
	f.byID[p.ID] = p
	f.updated++
	return nil
}

func (f *fakeProducts) FindAll(_ context.Context, filter repository.ProductFilter) ([]model.Product, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Product
	if len(filter.IDs) > 0 {
		for _, id := range filter.IDs {
			if p, ok := f.byID[id]; ok {
				out = append(out, *p)
			}
		}
		return out, int64(len(out)), nil
	}
	for _, p := range f.byID {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (f *fakeProducts) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProducts) SlugExists(_ context.Context, slug string, exclude uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, p := range f.byID {
		if id != exclude && p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProducts) Delete(_ context.Context, id uuid.UUID, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeCatalog struct {
	mu      sync.Mutex
	catalog variant.Catalog
	subs    map[int]func(variant.Catalog)
	next    int
}

func newFakeCatalog(c variant.Catalog) *fakeCatalog {
	return &fakeCatalog{catalog: c, subs: make(map[int]func(variant.Catalog))}
}

func (f *fakeCatalog) List(context.Context) (variant.Catalog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.catalog, nil
}

func (f *fakeCatalog) Subscribe(fn func(variant.Catalog)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.next
	f.next++
	f.subs[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs, id)
	}
}

func (f *fakeCatalog) change(c variant.Catalog) {
	f.mu.Lock()
	f.catalog = c
	fns := make([]func(variant.Catalog), 0, len(f.subs))
	for _, fn := range f.subs {
		fns = append(fns, fn)
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn(c)
	}
}

func (f *fakeCatalog) subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// memStore keeps objects in memory; files named in fail are rejected.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	fail    map[string]bool
	n       int
}

func newMemStore(fail ...string) *memStore {
	s := &memStore{objects: make(map[string][]byte), fail: make(map[string]bool)}
	for _, name := range fail {
		s.fail[name] = true
	}
	return s
}

func (s *memStore) Put(_ context.Context, r io.Reader, in storage.PutInput) (storage.PutResult, error) {
	if s.fail[in.Filename] {
		return storage.PutResult{}, errors.New("bucket unavailable")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return storage.PutResult{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	key := fmt.Sprintf("%s/%d-%s", in.Folder, s.n, in.Filename)
	s.objects[key] = data
	return storage.PutResult{Key: key, URL: "https://cdn.test/" + key}, nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
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

type fakeIndex struct {
	mu      sync.Mutex
	indexed []string
	deleted []string
	hits    []string
	err     error
}

func (f *fakeIndex) Index(_ context.Context, p *model.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexed = append(f.indexed, p.ID.String())
	return nil
}

func (f *fakeIndex) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndex) Search(context.Context, string, int) ([]string, error) {
	return f.hits, f.err
}
