package variant

// ImageView describes one bucket entry without its bytes.
type ImageView struct {
	URL      string `json:"url,omitempty"`
	Filename string `json:"filename,omitempty"`
	Size     int64  `json:"size,omitempty"`
	Pending  bool   `json:"pending"`
}

// View is a read-only snapshot of the session for display.
type View struct {
	State      State                  `json:"state"`
	ProductID  string                 `json:"product_id,omitempty"`
	Fields     Fields                 `json:"fields"`
	Catalog    Catalog                `json:"catalog"`
	Sizes      []string               `json:"selected_sizes"`
	Colors     []string               `json:"selected_colors"`
	Variants   []Variant              `json:"variants"`
	TotalStock int                    `json:"total_stock"`
	Images     map[string][]ImageView `json:"images"`
	Errors     map[string]string      `json:"errors,omitempty"`
}

func (e *Engine) View() View {
	images := make(map[string][]ImageView, len(e.buckets))
	for color, bucket := range e.buckets {
		views := make([]ImageView, 0, len(bucket))
		for _, ref := range bucket {
			if ref.Pending() {
				views = append(views, ImageView{Filename: ref.File.Filename, Size: ref.File.Size, Pending: true})
				continue
			}
			views = append(views, ImageView{URL: ref.URL})
		}
		images[color] = views
	}
	sizes, colors, variants := e.Sizes(), e.Colors(), e.Variants()
	if sizes == nil {
		sizes = []string{}
	}
	if colors == nil {
		colors = []string{}
	}
	if variants == nil {
		variants = []Variant{}
	}
	return View{
		State:      e.state,
		ProductID:  e.productID,
		Fields:     e.fields,
		Catalog:    e.catalog,
		Sizes:      sizes,
		Colors:     colors,
		Variants:   variants,
		TotalStock: e.TotalStock(),
		Images:     images,
		Errors:     e.lastErrors,
	}
}
