package catalog

import (
	"strings"

	"github.com/cataloguehub/cataloguehub/internal/domain"
)

// CategoryAll is the sentinel meaning "no category restriction".
const CategoryAll = "all"

// Filter is the full filter specification for one query. A zero value for
// any member disables that predicate; predicates are AND-combined.
// Fields maps field id to the raw filter input for that custom field.
type Filter struct {
	Query       string
	Category    string
	PriceMin    float64
	PriceMax    float64
	Tags        []string
	InStockOnly bool
	Fields      map[string]string
	SortBy      string
}

func (f Filter) priceActive() bool {
	return f.PriceMin != 0 || f.PriceMax != 0
}

// Query resolves, filters and sorts products in one pass. The result is
// always a subset of the input; the input slice is never modified.
func Query(products []domain.Product, defs []domain.FieldDefinition, f Filter) []ResolvedProduct {
	resolved := ResolveAll(products, defs)
	out := make([]ResolvedProduct, 0, len(resolved))
	for i := range resolved {
		if matches(&resolved[i], f) {
			out = append(out, resolved[i])
		}
	}
	Sort(out, f.SortBy)
	return out
}

func matches(rp *ResolvedProduct, f Filter) bool {
	p := &rp.Product

	if f.Category != "" && f.Category != CategoryAll && p.Category != f.Category {
		return false
	}

	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		name := strings.ToLower(p.Name)
		desc := strings.ToLower(p.Description)
		if !strings.Contains(name, q) && !strings.Contains(desc, q) {
			return false
		}
	}

	if f.priceActive() {
		if p.Price < f.PriceMin {
			return false
		}
		// PriceMax == 0 means no upper bound.
		if f.PriceMax != 0 && p.Price > f.PriceMax {
			return false
		}
	}

	if len(f.Tags) > 0 && !intersects(p.Tags, f.Tags) {
		return false
	}

	if f.InStockOnly && !p.InStock() {
		return false
	}

	for id, want := range f.Fields {
		if strings.TrimSpace(want) == "" {
			continue
		}
		if !fieldMatches(rp, id, want) {
			return false
		}
	}
	return true
}

// fieldMatches applies the type-specific predicate for one custom field.
// Drift fields (not in the current schema) and unknown ids never match a
// filter; they are display-only.
func fieldMatches(rp *ResolvedProduct, id, want string) bool {
	i, ok := rp.byID[id]
	if !ok || !rp.Fields[i].InSchema {
		return false
	}
	v := rp.Fields[i].Value

	switch v.Type {
	case domain.FieldBoolean:
		w := strings.ToLower(strings.TrimSpace(want))
		return v.Bool == (w == "yes" || w == "true")
	case domain.FieldMultiselect:
		for _, e := range v.List {
			if strings.EqualFold(e, want) {
				return true
			}
		}
		return false
	case domain.FieldSelect:
		// Select values come from a closed option list; exact match.
		return strings.EqualFold(v.Text, want)
	case domain.FieldNumber, domain.FieldPercentage:
		return strings.Contains(formatNumber(v.Number), strings.TrimSpace(want))
	default:
		return strings.Contains(strings.ToLower(v.Text), strings.ToLower(strings.TrimSpace(want)))
	}
}

func intersects(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}
