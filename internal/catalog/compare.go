package catalog

import (
	"github.com/google/uuid"

	"github.com/cataloguehub/cataloguehub/internal/domain"
)

// MaxCompare is the hard cap on side-by-side comparison size.
const MaxCompare = 4

// Selection is the ordered set of product ids picked for comparison.
type Selection []uuid.UUID

// Toggle removes the id when present, appends it when there is room, and
// returns the selection unchanged when the cap is reached. The receiver
// is never mutated.
func (s Selection) Toggle(id uuid.UUID) Selection {
	for i, existing := range s {
		if existing == id {
			out := make(Selection, 0, len(s)-1)
			out = append(out, s[:i]...)
			return append(out, s[i+1:]...)
		}
	}
	if len(s) >= MaxCompare {
		return s
	}
	out := make(Selection, len(s), len(s)+1)
	copy(out, s)
	return append(out, id)
}

func (s Selection) Contains(id uuid.UUID) bool {
	for _, existing := range s {
		if existing == id {
			return true
		}
	}
	return false
}

// Row is one comparison-table line: a field plus its formatted value for
// each product, in product order.
type Row struct {
	Field  domain.FieldDefinition
	Values []string
}

// Stats aggregates the comparison set. AvgRating is nil when no product
// carries a rating.
type Stats struct {
	PriceMin   float64
	PriceMax   float64
	AvgRating  *float64
	InStock    int
	Total      int
	Categories int
}

type Comparison struct {
	Products []ResolvedProduct
	Fields   []domain.FieldDefinition
	Rows     []Row
	Stats    Stats
}

// Compare builds the side-by-side structure for an already-resolved set.
// It declines sets over the cap, returning ok=false and the zero value so
// callers keep whatever they were showing before.
func Compare(products []ResolvedProduct) (Comparison, bool) {
	if len(products) > MaxCompare {
		return Comparison{}, false
	}

	cmp := Comparison{Products: products}
	cmp.Fields = availableFields(products)
	for _, def := range cmp.Fields {
		row := Row{Field: def, Values: make([]string, 0, len(products))}
		for i := range products {
			v, ok := products[i].Field(def.ID)
			if !ok {
				v = FieldValue{Type: def.Type, Missing: true}
			}
			row.Values = append(row.Values, FormatFieldValue(v, def.Unit))
		}
		cmp.Rows = append(cmp.Rows, row)
	}
	cmp.Stats = computeStats(products)
	return cmp, true
}

// availableFields keeps every field, in first-seen order, that has at
// least one non-empty value across the set.
func availableFields(products []ResolvedProduct) []domain.FieldDefinition {
	var order []string
	defs := make(map[string]domain.FieldDefinition)
	hasData := make(map[string]bool)

	for i := range products {
		for _, rf := range products[i].Fields {
			if _, seen := defs[rf.Def.ID]; !seen {
				defs[rf.Def.ID] = rf.Def
				order = append(order, rf.Def.ID)
			}
			if !rf.Value.Empty() {
				hasData[rf.Def.ID] = true
			}
		}
	}

	out := make([]domain.FieldDefinition, 0, len(order))
	for _, id := range order {
		if hasData[id] {
			out = append(out, defs[id])
		}
	}
	return out
}

func computeStats(products []ResolvedProduct) Stats {
	st := Stats{Total: len(products)}
	cats := make(map[string]bool)
	var ratingSum float64
	var rated int

	for i := range products {
		p := &products[i].Product
		if i == 0 || p.Price < st.PriceMin {
			st.PriceMin = p.Price
		}
		if p.Price > st.PriceMax {
			st.PriceMax = p.Price
		}
		if p.Rating != nil {
			ratingSum += *p.Rating
			rated++
		}
		if p.InStock() {
			st.InStock++
		}
		if p.Category != "" {
			cats[p.Category] = true
		}
	}
	if rated > 0 {
		avg := ratingSum / float64(rated)
		st.AvgRating = &avg
	}
	st.Categories = len(cats)
	return st
}
