package variant

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"go-catalog-admin/internal/model"
	"go-catalog-admin/pkg/validator"
)

// Payload is the validated, persist-ready form of an editing session.
// Files and FileColors are parallel: FileColors[i] owns Files[i].
type Payload struct {
	ProductID     string
	Name          string
	Category      string
	Description   string
	OriginalPrice float64
	SalePrice     *float64
	OnSale        bool
	Price         float64
	Variants      []Variant
	TotalStock    int
	Files         []PendingFile
	FileColors    []string
	Images        []ImageSlot
}

// ImageSlot keeps the position of every image across all buckets. FileIndex
// points into Payload.Files for pending entries and is -1 for stored ones.
type ImageSlot struct {
	Color     string
	URL       string
	Key       string
	FileIndex int
}

// Uploaded is the storage result for one pending file; an empty URL marks a
// failed upload.
type Uploaded struct {
	URL string
	Key string
}

type productRules struct {
	Name          string  `json:"name" validate:"required,min=3"`
	Category      string  `json:"category" validate:"required"`
	Description   string  `json:"description" validate:"required,min=10"`
	OriginalPrice float64 `json:"original_price" validate:"gt=0"`
}

// ResolvePrice coerces the raw price fields. The sale price only counts while
// the product is on sale and the sale price parses to a positive number; in
// every other case the effective price is the original price. Validation
// rejects a sale price that is set but not positive.
func ResolvePrice(f Fields) (original float64, sale *float64, price float64) {
	original, err := strconv.ParseFloat(strings.TrimSpace(f.OriginalPrice), 64)
	if err != nil {
		original = 0
	}
	price = original
	if f.OnSale && strings.TrimSpace(f.SalePrice) != "" {
		if s := parsePositive(f.SalePrice); s != nil {
			sale = s
			price = *s
		}
	}
	return original, sale, price
}

// Validate runs every check Finalize runs and records the outcome in the
// session state. It returns nil when the session is valid.
func (e *Engine) Validate() map[string]string {
	e.state = StateValidating
	original, sale, _ := ResolvePrice(e.fields)
	errs := e.validate(original, sale)
	if len(errs) > 0 {
		e.state = StateInvalid
		e.lastErrors = errs
		return errs
	}
	e.state = StateValid
	e.lastErrors = nil
	return nil
}

// Finalize validates the whole session and, if every check passes, returns the
// payload handed to persistence. identity is the signed-in user; without it
// nothing is validated and the edits stay as they are.
func (e *Engine) Finalize(identity string) (*Payload, error) {
	if strings.TrimSpace(identity) == "" {
		return nil, ErrMissingIdentity
	}
	if errs := e.Validate(); errs != nil {
		return nil, &ValidationError{Fields: errs}
	}

	original, sale, price := ResolvePrice(e.fields)
	p := &Payload{
		ProductID:     e.productID,
		Name:          strings.TrimSpace(e.fields.Name),
		Category:      strings.TrimSpace(e.fields.Category),
		Description:   strings.TrimSpace(e.fields.Description),
		OriginalPrice: original,
		SalePrice:     sale,
		OnSale:        e.fields.OnSale,
		Price:         price,
		Variants:      make([]Variant, len(e.variants)),
	}

	for i, v := range e.variants {
		v.Stock = max(v.Stock, 0)
		if v.Weight != nil {
			if w := *v.Weight; w > 0 {
				v.Weight = &w
			} else {
				v.Weight = nil
			}
		}
		if v.Price != nil {
			pr := *v.Price
			v.Price = &pr
		}
		p.Variants[i] = v
		p.TotalStock += v.Stock
	}
	assignSKUs(p.Name, p.Variants)

	for _, color := range e.imageColors() {
		for _, ref := range e.buckets[color] {
			slot := ImageSlot{Color: color, URL: ref.URL, Key: ref.Key, FileIndex: -1}
			if ref.Pending() {
				slot.FileIndex = len(p.Files)
				p.Files = append(p.Files, *ref.File)
				p.FileColors = append(p.FileColors, color)
			}
			p.Images = append(p.Images, slot)
		}
	}
	return p, nil
}

// ProductImages lays out the final image list once uploads are done. uploaded
// is indexed like Files. Slots whose upload failed are skipped; the first
// remaining image is the primary one.
func (p *Payload) ProductImages(uploaded []Uploaded) []model.ProductImage {
	out := make([]model.ProductImage, 0, len(p.Images))
	for _, slot := range p.Images {
		url, key := slot.URL, slot.Key
		if slot.FileIndex >= 0 {
			if slot.FileIndex >= len(uploaded) || uploaded[slot.FileIndex].URL == "" {
				continue
			}
			url, key = uploaded[slot.FileIndex].URL, uploaded[slot.FileIndex].Key
		}
		out = append(out, model.ProductImage{
			Color:      slot.Color,
			URL:        url,
			StorageKey: key,
			Position:   len(out),
			IsPrimary:  len(out) == 0,
		})
	}
	return out
}

func (e *Engine) validate(original float64, sale *float64) map[string]string {
	errs := validator.FieldErrors(productRules{
		Name:          strings.TrimSpace(e.fields.Name),
		Category:      strings.TrimSpace(e.fields.Category),
		Description:   strings.TrimSpace(e.fields.Description),
		OriginalPrice: original,
	})
	if errs == nil {
		errs = make(map[string]string)
	}

	category := strings.TrimSpace(e.fields.Category)
	if _, failed := errs["category"]; !failed && len(e.catalog.Categories) > 0 &&
		!slices.Contains(e.catalog.Categories, category) {
		errs["category"] = "must be one of the catalog categories"
	}

	switch {
	case e.fields.OnSale && strings.TrimSpace(e.fields.SalePrice) != "" && sale == nil:
		errs["sale_price"] = "must be a number greater than 0"
	case sale != nil && original > 0 && *sale >= original:
		errs["sale_price"] = "must be lower than the original price"
	}

	seen := make(map[[2]string]bool, len(e.variants))
	var dups []string
	for _, v := range e.variants {
		key := [2]string{v.Size, v.Color}
		if seen[key] {
			dups = append(dups, v.Size+"/"+v.Color)
		}
		seen[key] = true
		if !e.selected(v.Size, v.Color) {
			errs["variants."+v.Size+"/"+v.Color] = "not in the current selection"
		} else if v.Stock < 0 {
			errs["variants."+v.Size+"/"+v.Color] = "stock must not be negative"
		}
	}
	if len(dups) > 0 {
		errs["variants"] = "duplicate variants: " + strings.Join(dups, ", ")
	}

	for _, color := range e.bucketOrder {
		var msgs []string
		for _, ref := range e.buckets[color] {
			if !ref.Pending() {
				continue
			}
			if err := CheckImage(*ref.File); err != nil {
				msgs = append(msgs, fmt.Sprintf("%s: %v", ref.File.Filename, err))
			}
		}
		if len(msgs) > 0 {
			errs["images."+color] = strings.Join(msgs, "; ")
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
