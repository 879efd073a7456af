package variant

import (
	"strconv"
	"strings"

	"go-catalog-admin/pkg/slug"
)

const (
	nameTokenLen  = 8
	colorTokenLen = 3
)

// SKU derives the stock-keeping code of one variant, e.g. CLASSICT-XL-RED.
func SKU(name, size, color string) string {
	return token(slug.FromName(name), nameTokenLen) + "-" + token(size, 0) + "-" + token(color, colorTokenLen)
}

// assignSKUs fills in SKUs for vs in order. A code already handed out to an
// earlier variant of the same product gets a -2, -3 ... suffix.
func assignSKUs(name string, vs []Variant) {
	seen := make(map[string]int, len(vs))
	for i := range vs {
		base := SKU(name, vs[i].Size, vs[i].Color)
		seen[base]++
		if n := seen[base]; n > 1 {
			vs[i].SKU = base + "-" + strconv.Itoa(n)
			continue
		}
		vs[i].SKU = base
	}
}

func token(s string, max int) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "" {
		out = "X"
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}
