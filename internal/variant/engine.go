package variant

import (
	"slices"
	"strconv"

	"go-catalog-admin/internal/model"
)

// Engine holds the editing state of a single product. It is not safe for
// concurrent use; callers serialize access per session.
type Engine struct {
	state     State
	productID string

	fields   Fields
	catalog  Catalog
	sizes    labels
	colors   labels
	variants []Variant

	buckets     map[string][]ImageRef
	bucketOrder labels

	lastErrors map[string]string
}

// New returns an engine for a product that does not exist yet.
func New(catalog Catalog) *Engine {
	return &Engine{
		state:   StateEmpty,
		catalog: catalog,
		buckets: make(map[string][]ImageRef),
	}
}

// Hydrate seeds the engine from a persisted product. Selections follow the
// order in which sizes and colors first appear among the variants; variants are
// taken as stored so that inconsistent records surface at Finalize.
func (e *Engine) Hydrate(p *model.Product) {
	e.reset()
	e.state = StateHydrating
	e.productID = p.ID.String()

	e.fields = Fields{
		Name:          p.Name,
		Category:      p.Category,
		Description:   p.Description,
		OriginalPrice: formatPrice(p.OriginalPrice),
		OnSale:        p.OnSale,
	}
	if p.SalePrice != nil {
		e.fields.SalePrice = formatPrice(*p.SalePrice)
	}

	for _, v := range p.Variants {
		if !e.sizes.has(v.Size) {
			e.sizes = append(e.sizes, v.Size)
		}
		if !e.colors.has(v.Color) {
			e.colors = append(e.colors, v.Color)
		}
		e.variants = append(e.variants, Variant{
			Size:   v.Size,
			Color:  v.Color,
			Stock:  v.Stock,
			Weight: v.Weight,
			Price:  v.Price,
			SKU:    v.SKU,
		})
	}

	images := slices.Clone(p.Images)
	slices.SortStableFunc(images, func(a, b model.ProductImage) int { return a.Position - b.Position })
	for _, img := range images {
		e.appendImage(img.Color, ImageRef{URL: img.URL, Key: img.StorageKey})
	}

	e.state = StateEditing
}

// Discard drops every edit and returns the engine to the empty state.
func (e *Engine) Discard() {
	e.reset()
}

func (e *Engine) reset() {
	e.state = StateEmpty
	e.productID = ""
	e.fields = Fields{}
	e.sizes = nil
	e.colors = nil
	e.variants = nil
	e.buckets = make(map[string][]ImageRef)
	e.bucketOrder = nil
	e.lastErrors = nil
}

// touch moves the session back to Editing after any mutation.
func (e *Engine) touch() {
	e.state = StateEditing
	e.lastErrors = nil
}

// SetCatalog replaces the candidate pools. Selections are left as they are.
func (e *Engine) SetCatalog(c Catalog) {
	e.catalog = c
}

// ApplyPatch updates the named product fields.
func (e *Engine) ApplyPatch(p FieldPatch) {
	if p.Empty() {
		return
	}
	e.touch()
	e.fields.apply(p)
}

// ToggleSize selects or deselects a size. Deselecting removes every variant of
// that size; selecting adds a zero-stock variant for each selected color that
// has none.
func (e *Engine) ToggleSize(size string) {
	size = cleanLabel(size)
	if size == "" {
		return
	}
	e.touch()
	if e.sizes.has(size) {
		e.sizes = e.sizes.without(size)
		e.variants = slices.DeleteFunc(e.variants, func(v Variant) bool { return v.Size == size })
		return
	}
	e.sizes = append(e.sizes, size)
	for _, color := range e.colors {
		e.ensure(size, color)
	}
}

// ToggleColor selects or deselects a color. Deselecting also discards the
// color's image bucket, pending files included; it cannot be recovered.
func (e *Engine) ToggleColor(color string) {
	color = cleanLabel(color)
	if color == "" {
		return
	}
	e.touch()
	if e.colors.has(color) {
		e.colors = e.colors.without(color)
		e.variants = slices.DeleteFunc(e.variants, func(v Variant) bool { return v.Color == color })
		e.dropBucket(color)
		return
	}
	e.colors = append(e.colors, color)
	for _, size := range e.sizes {
		e.ensure(size, color)
	}
}

// SetStock writes one grid cell. A value of 0 (including unparseable or
// negative input) removes the variant: zero-stock cells are not kept as
// records. Cells outside the current selection are ignored and false is
// returned.
func (e *Engine) SetStock(size, color, raw string) bool {
	size, color = cleanLabel(size), cleanLabel(color)
	if !e.selected(size, color) {
		return false
	}
	e.touch()
	stock := ParseStock(raw)
	i := e.indexOf(size, color)
	if stock == 0 {
		if i >= 0 {
			e.variants = slices.Delete(e.variants, i, i+1)
		}
		return true
	}
	if i >= 0 {
		e.variants[i].Stock = stock
		return true
	}
	e.variants = append(e.variants, Variant{Size: size, Color: color, Stock: stock})
	return true
}

// BulkSetStock sets every selected cell to value. It overwrites all per-cell
// stock, weight and price values and cannot be undone; 0 clears the list.
func (e *Engine) BulkSetStock(value int) {
	e.touch()
	if value <= 0 {
		e.variants = nil
		return
	}
	variants := make([]Variant, 0, len(e.sizes)*len(e.colors))
	for _, size := range e.sizes {
		for _, color := range e.colors {
			variants = append(variants, Variant{Size: size, Color: color, Stock: value})
		}
	}
	e.variants = variants
}

// SetWeight sets the optional weight of an existing variant. Input that is not
// a positive number clears it.
func (e *Engine) SetWeight(size, color, raw string) bool {
	size, color = cleanLabel(size), cleanLabel(color)
	i := e.indexOf(size, color)
	if i < 0 || !e.selected(size, color) {
		return false
	}
	e.touch()
	e.variants[i].Weight = parsePositive(raw)
	return true
}

// SetVariantPrice sets or clears the per-variant price override.
func (e *Engine) SetVariantPrice(size, color, raw string) bool {
	size, color = cleanLabel(size), cleanLabel(color)
	i := e.indexOf(size, color)
	if i < 0 || !e.selected(size, color) {
		return false
	}
	e.touch()
	e.variants[i].Price = parsePositive(raw)
	return true
}

// LoadVariants replaces the variant list. Entries whose size or color is not
// selected are dropped; repeated pairs are kept so Finalize can report them.
func (e *Engine) LoadVariants(vs []Variant) {
	e.touch()
	e.variants = make([]Variant, 0, len(vs))
	for _, v := range vs {
		v.Size, v.Color = cleanLabel(v.Size), cleanLabel(v.Color)
		if e.selected(v.Size, v.Color) {
			e.variants = append(e.variants, v)
		}
	}
}

func (e *Engine) State() State { return e.state }
func (e *Engine) ProductID() string { return e.productID }
func (e *Engine) Fields() Fields { return e.fields }
func (e *Engine) Catalog() Catalog { return e.catalog }
func (e *Engine) Sizes() []string { return slices.Clone(e.sizes) }
func (e *Engine) Colors() []string { return slices.Clone(e.colors) }
func (e *Engine) Variants() []Variant { return slices.Clone(e.variants) }
func (e *Engine) Errors() map[string]string { return e.lastErrors }

// TotalStock sums stock over the current variants.
func (e *Engine) TotalStock() int {
	total := 0
	for _, v := range e.variants {
		total += v.Stock
	}
	return total
}

// Variant returns the record for (size, color), if present.
func (e *Engine) Variant(size, color string) (Variant, bool) {
	if i := e.indexOf(size, color); i >= 0 {
		return e.variants[i], true
	}
	return Variant{}, false
}

func (e *Engine) selected(size, color string) bool {
	return e.sizes.has(size) && e.colors.has(color)
}

func (e *Engine) indexOf(size, color string) int {
	return slices.IndexFunc(e.variants, func(v Variant) bool {
		return v.Size == size && v.Color == color
	})
}

func (e *Engine) ensure(size, color string) {
	if e.indexOf(size, color) < 0 {
		e.variants = append(e.variants, Variant{Size: size, Color: color})
	}
}

func formatPrice(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
