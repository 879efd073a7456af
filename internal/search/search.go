// Package search keeps a full-text product index next to the database.
package search

import (
	"context"
	"errors"
	"slices"

	"go-catalog-admin/internal/model"
)

// ErrDisabled is returned by Search when no index is configured; callers fall
// back to the database.
var ErrDisabled = errors.New("search index is not configured")

type Indexer interface {
	Index(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id string) error
	// Search returns matching product IDs, best match first.
	Search(ctx context.Context, query string, limit int) ([]string, error)
}

// Document is the indexed form of a product.
type Document struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	OnSale      bool     `json:"on_sale"`
	TotalStock  int      `json:"total_stock"`
	Sizes       []string `json:"sizes"`
	Colors      []string `json:"colors"`
	SKUs        []string `json:"skus"`
}

func NewDocument(p *model.Product) Document {
	doc := Document{
		ID:          p.ID.String(),
		Name:        p.Name,
		Slug:        p.Slug,
		Category:    p.Category,
		Description: p.Description,
		Price:       p.Price,
		OnSale:      p.OnSale,
		TotalStock:  p.TotalStock,
		Sizes:       []string{},
		Colors:      []string{},
		SKUs:        []string{},
	}
	for _, v := range p.Variants {
		if !slices.Contains(doc.Sizes, v.Size) {
			doc.Sizes = append(doc.Sizes, v.Size)
		}
		if !slices.Contains(doc.Colors, v.Color) {
			doc.Colors = append(doc.Colors, v.Color)
		}
		if v.SKU != "" {
			doc.SKUs = append(doc.SKUs, v.SKU)
		}
	}
	return doc
}

// Nop is used when no index is configured.
type Nop struct{}

func (Nop) Index(context.Context, *model.Product) error { return nil }
func (Nop) Delete(context.Context, string) error         { return nil }
func (Nop) Search(context.Context, string, int) ([]string, error) {
	return nil, ErrDisabled
}
