// Package variant keeps the size × color variant matrix of a product being edited
// consistent with its selections and per-color image buckets, and packages the
// result into a persist-ready payload.
package variant

import (
	"slices"
	"strconv"
	"strings"
)

// Variant is one stock-bearing (size, color) combination.
type Variant struct {
	Size   string   `json:"size"`
	Color  string   `json:"color"`
	Stock  int      `json:"stock"`
	Weight *float64 `json:"weight"`
	Price  *float64 `json:"price,omitempty"`
	SKU    string   `json:"sku"`
}

// Catalog holds the admin-managed vocabularies a session picks from.
type Catalog struct {
	Sizes      []string `json:"sizes"`
	Colors     []string `json:"colors"`
	Categories []string `json:"categories"`
}

// Fields are the product-level inputs as typed by the admin. Prices stay raw
// until Finalize coerces them.
type Fields struct {
	Name          string `json:"name"`
	Category      string `json:"category"`
	Description   string `json:"description"`
	OriginalPrice string `json:"original_price"`
	SalePrice     string `json:"sale_price"`
	OnSale        bool   `json:"on_sale"`
}

// FieldPatch names every product field that may be changed in one call. Nil
// members are left alone.
type FieldPatch struct {
	Name          *string `json:"name"`
	Category      *string `json:"category"`
	Description   *string `json:"description"`
	OriginalPrice *string `json:"original_price"`
	SalePrice     *string `json:"sale_price"`
	OnSale        *bool   `json:"on_sale"`
}

// Empty reports whether the patch changes nothing.
func (p FieldPatch) Empty() bool {
	return p.Name == nil && p.Category == nil && p.Description == nil &&
		p.OriginalPrice == nil && p.SalePrice == nil && p.OnSale == nil
}

func (f *Fields) apply(p FieldPatch) {
	if p.Name != nil {
		f.Name = *p.Name
	}
	if p.Category != nil {
		f.Category = *p.Category
	}
	if p.Description != nil {
		f.Description = *p.Description
	}
	if p.OriginalPrice != nil {
		f.OriginalPrice = *p.OriginalPrice
	}
	if p.SalePrice != nil {
		f.SalePrice = *p.SalePrice
	}
	if p.OnSale != nil {
		f.OnSale = *p.OnSale
	}
}

// ParseStock coerces raw cell input to a non-negative integer. Anything that
// is not a whole number, or is negative, becomes 0.
func ParseStock(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// parsePositive returns nil unless raw is a number greater than zero.
func parsePositive(raw string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || f <= 0 {
		return nil
	}
	return &f
}

// labels is an insertion-ordered set of size or color labels.
type labels []string

func (l labels) has(s string) bool { return slices.Contains(l, s) }

func (l labels) without(s string) labels {
	return slices.DeleteFunc(l, func(v string) bool { return v == s })
}

func cleanLabel(s string) string { return strings.TrimSpace(s) }
