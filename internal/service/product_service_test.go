package service

import (
	"context"
	"errors"
	"testing"

	"go-catalog-admin/internal/model"
	"go-catalog-admin/internal/search"

	"github.com/google/uuid"
)

func namedProduct(name string) *model.Product {
	p := &model.Product{Name: name}
	p.ID = uuid.New()
	return p
}

func TestListUsesSearchRanking(t *testing.T) {
	a, b, c := namedProduct("Alpha"), namedProduct("Beta"), namedProduct("Gamma")
	idx := &fakeIndex{hits: []string{c.ID.String(), a.ID.String()}}
	svc := NewProductService(newFakeProducts(a, b, c), idx, newMemStore(), nil)

	page, err := svc.List(context.Background(), ProductQuery{Q: "shirt"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(page.Items) != 2 || page.Items[0].ID != c.ID || page.Items[1].ID != a.ID {
		t.Fatalf("Items = %+v, want Gamma then Alpha", page.Items)
	}
	if page.Page != 1 || page.Limit != DefaultPageSize {
		t.Errorf("Page = %d Limit = %d", page.Page, page.Limit)
	}
}

func TestListNoSearchHits(t *testing.T) {
	svc := NewProductService(newFakeProducts(namedProduct("Alpha")), &fakeIndex{hits: []string{}}, newMemStore(), nil)
	page, err := svc.List(context.Background(), ProductQuery{Q: "zzz"})
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 0 || page.Items == nil {
		t.Fatalf("Items = %#v, want empty slice", page.Items)
	}
}

func TestListFallsBackWhenSearchDisabled(t *testing.T) {
	for _, idx := range []search.Indexer{search.Nop{}, &fakeIndex{err: errors.New("cluster red")}} {
		svc := NewProductService(newFakeProducts(namedProduct("Alpha"), namedProduct("Beta")), idx, newMemStore(), nil)
		page, err := svc.List(context.Background(), ProductQuery{Q: "a", Limit: 500})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if page.Total != 2 || page.Limit != MaxPageSize {
			t.Fatalf("Total = %d Limit = %d", page.Total, page.Limit)
		}
	}
}

func TestDeleteProductCleansUp(t *testing.T) {
	p := namedProduct("Alpha")
	p.Images = []model.ProductImage{{StorageKey: "k1"}, {StorageKey: ""}, {StorageKey: "k2"}}
	store, idx, pub := newMemStore(), &fakeIndex{}, &recorder{}
	svc := NewProductService(newFakeProducts(p), idx, store, pub)

	if err := svc.Delete(context.Background(), p.ID, admin); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(store.deleted) != 2 {
		t.Errorf("deleted objects = %v", store.deleted)
	}
	if len(idx.deleted) != 1 || idx.deleted[0] != p.ID.String() {
		t.Errorf("index deletes = %v", idx.deleted)
	}
	if len(pub.got) != 1 || pub.got[0].RoutingKey() != "product.deleted" {
		t.Errorf("events = %+v", pub.got)
	}
	if err := svc.Delete(context.Background(), p.ID, admin); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("second Delete() error = %v", err)
	}
}
