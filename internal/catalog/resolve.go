// Package catalog holds the dynamic field resolver and the query/compare
// engine used by the public catalogue view. Every function here is a pure
// transformation over in-memory snapshots: no I/O, no mutation of inputs,
// and no fatal errors — malformed data degrades to typed defaults so the
// public read path never breaks.
package catalog

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/cast"

	"github.com/cataloguehub/cataloguehub/internal/domain"
)

// FieldValue is the typed result of coercing one stored field value.
// Exactly one payload is meaningful, selected by Type. Invalid marks a
// coercion failure (the default payload is substituted); Missing marks a
// field the product never carried.
type FieldValue struct {
	Type    domain.FieldType
	Text    string
	Number  float64
	Bool    bool
	Date    time.Time
	List    []string
	Raw     string
	Invalid bool
	Missing bool
}

// Empty reports whether the value counts as "no data" for comparison and
// field-availability purposes. Zero numbers, false booleans and valid
// dates still count as data; only absent or blank values are empty.
func (v FieldValue) Empty() bool {
	if v.Missing {
		return true
	}
	switch v.Type {
	case domain.FieldMultiselect:
		return len(v.List) == 0
	case domain.FieldNumber, domain.FieldPercentage, domain.FieldBoolean:
		return false
	case domain.FieldDate:
		return v.Invalid && strings.TrimSpace(v.Raw) == ""
	default:
		return strings.TrimSpace(v.Text) == ""
	}
}

// ResolvedField pairs a definition with its coerced value. InSchema is
// false for snapshot-only fields the current template no longer defines;
// those stay visible read-only but are excluded from filtering.
type ResolvedField struct {
	Def      domain.FieldDefinition
	Value    FieldValue
	InSchema bool
}

type ResolvedProduct struct {
	Product domain.Product
	Fields  []ResolvedField

	byID map[string]int
}

// Field returns the resolved value for a field id.
func (rp *ResolvedProduct) Field(id string) (FieldValue, bool) {
	i, ok := rp.byID[id]
	if !ok {
		return FieldValue{}, false
	}
	return rp.Fields[i].Value, true
}

// Resolve coerces a product's stored field snapshots against the given
// definitions. Output preserves definition order; snapshot-only fields
// with no matching definition are appended after, resolved from their own
// denormalized type. Defined fields the product lacks get type defaults
// with the Missing flag set, so downstream code never sees an absent
// entry.
func Resolve(p domain.Product, defs []domain.FieldDefinition) ResolvedProduct {
	stored := make(map[string]domain.ProductField, len(p.CustomFields))
	for _, f := range p.CustomFields {
		if _, dup := stored[f.FieldID]; !dup {
			stored[f.FieldID] = f
		}
	}

	rp := ResolvedProduct{Product: p, byID: make(map[string]int)}
	seen := make(map[string]bool, len(defs))

	for _, def := range defs {
		seen[def.ID] = true
		var v FieldValue
		if f, ok := stored[def.ID]; ok {
			v = coerce(def.Type, f.Value)
		} else {
			v = defaultValue(def.Type)
		}
		rp.byID[def.ID] = len(rp.Fields)
		rp.Fields = append(rp.Fields, ResolvedField{Def: def, Value: v, InSchema: true})
	}

	// Schema drift: the product still carries values the template no
	// longer defines. Surface them from the snapshot itself.
	for _, f := range p.CustomFields {
		if seen[f.FieldID] {
			continue
		}
		seen[f.FieldID] = true
		def := domain.FieldDefinition{ID: f.FieldID, Name: f.FieldName, Type: f.FieldType, Unit: f.Unit}
		if !def.Type.Valid() {
			def.Type = domain.FieldText
		}
		rp.byID[def.ID] = len(rp.Fields)
		rp.Fields = append(rp.Fields, ResolvedField{Def: def, Value: coerce(def.Type, f.Value), InSchema: false})
	}

	return rp
}

// ResolveAll resolves every product against the same definition set.
func ResolveAll(products []domain.Product, defs []domain.FieldDefinition) []ResolvedProduct {
	out := make([]ResolvedProduct, 0, len(products))
	for _, p := range products {
		out = append(out, Resolve(p, defs))
	}
	return out
}

func coerce(t domain.FieldType, raw any) FieldValue {
	v := FieldValue{Type: t}
	switch t {
	case domain.FieldNumber, domain.FieldPercentage:
		n, err := cast.ToFloat64E(raw)
		if err != nil {
			v.Invalid = true
			v.Raw = cast.ToString(raw)
			return v
		}
		v.Number = n
	case domain.FieldBoolean:
		switch x := raw.(type) {
		case bool:
			v.Bool = x
		case string:
			s := strings.ToLower(strings.TrimSpace(x))
			v.Bool = s == "yes" || s == "true"
		default:
			v.Bool = false
		}
	case domain.FieldDate:
		s := strings.TrimSpace(cast.ToString(raw))
		d, err := dateparse.ParseAny(s)
		if err != nil || s == "" {
			v.Invalid = true
			v.Raw = s
			return v
		}
		v.Date = d
	case domain.FieldMultiselect:
		v.List = toStringList(raw)
	default:
		v.Text = strings.TrimSpace(cast.ToString(raw))
	}
	return v
}

// toStringList accepts a stored multiselect value in any of the shapes
// JSON round-tripping produces; a scalar wraps into a one-element list.
func toStringList(raw any) []string {
	switch x := raw.(type) {
	case nil:
		return []string{}
	case []string:
		out := make([]string, len(x))
		copy(out, x)
		return out
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			out = append(out, cast.ToString(e))
		}
		return out
	default:
		s := strings.TrimSpace(cast.ToString(x))
		if s == "" {
			return []string{}
		}
		return []string{s}
	}
}

func defaultValue(t domain.FieldType) FieldValue {
	v := FieldValue{Type: t, Missing: true}
	switch t {
	case domain.FieldMultiselect:
		v.List = []string{}
	case domain.FieldDate:
		v.Date = time.Now()
	}
	return v
}
