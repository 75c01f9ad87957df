package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cataloguehub/cataloguehub/internal/domain"
)

func named(list []ResolvedProduct) []string {
	out := make([]string, 0, len(list))
	for i := range list {
		out = append(out, list[i].Product.Name)
	}
	return out
}

func TestQueryPriceRange(t *testing.T) {
	products := []domain.Product{
		{Name: "Cheap", Price: 50},
		{Name: "Mid", Price: 150},
		{Name: "Pricey", Price: 300},
	}

	got := Query(products, nil, Filter{PriceMin: 100, PriceMax: 200})
	require.Len(t, got, 1)
	assert.Equal(t, "Mid", got[0].Product.Name)

	// boundaries are inclusive
	got = Query(products, nil, Filter{PriceMin: 50, PriceMax: 300})
	assert.Len(t, got, 3)
}

func TestQueryPriceLowerBoundOnly(t *testing.T) {
	products := []domain.Product{
		{Name: "Cheap", Price: 45},
		{Name: "Mid", Price: 120},
		{Name: "Pricey", Price: 300},
	}

	got := Query(products, nil, Filter{PriceMin: 100})
	assert.ElementsMatch(t, []string{"Mid", "Pricey"}, named(got))

	got = Query(products, nil, Filter{PriceMax: 100})
	assert.ElementsMatch(t, []string{"Cheap"}, named(got))
}

func TestQueryTextSearch(t *testing.T) {
	products := []domain.Product{
		{Name: "Summer Dress"},
		{Name: "Tech Gadget"},
		{Name: "Plain Shirt", Description: "a dress-adjacent item"},
	}

	got := Query(products, nil, Filter{Query: "dress"})
	assert.ElementsMatch(t, []string{"Summer Dress", "Plain Shirt"}, named(got))

	got = Query(products, nil, Filter{Query: "DRESS"})
	assert.Contains(t, named(got), "Summer Dress")
}

func TestQueryCategorySentinel(t *testing.T) {
	products := []domain.Product{
		{Name: "A", Category: "Furniture"},
		{Name: "B", Category: "Electronics"},
	}

	assert.Len(t, Query(products, nil, Filter{Category: CategoryAll}), 2)
	assert.Len(t, Query(products, nil, Filter{Category: ""}), 2)

	got := Query(products, nil, Filter{Category: "Furniture"})
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Product.Name)
}

func TestQueryTagsIntersect(t *testing.T) {
	products := []domain.Product{
		{Name: "A", Tags: []string{"office", "wood"}},
		{Name: "B", Tags: []string{"outdoor"}},
		{Name: "C"},
	}

	got := Query(products, nil, Filter{Tags: []string{"wood", "outdoor"}})
	assert.ElementsMatch(t, []string{"A", "B"}, named(got))
}

func TestQueryInStockOnly(t *testing.T) {
	products := []domain.Product{
		{Name: "Stocked", Status: domain.ProductActive},
		{Name: "Gone", Status: domain.ProductOutOfStock},
	}

	got := Query(products, nil, Filter{InStockOnly: true})
	require.Len(t, got, 1)
	assert.Equal(t, "Stocked", got[0].Product.Name)
}

func TestQueryMultiselectMembership(t *testing.T) {
	defs := []domain.FieldDefinition{
		{ID: "colors", Name: "Colors", Type: domain.FieldMultiselect, Options: []string{"red", "green", "blue"}},
	}
	products := []domain.Product{
		{Name: "Scarf", CustomFields: []domain.ProductField{
			{FieldID: "colors", FieldType: domain.FieldMultiselect, Value: []any{"red", "blue"}},
		}},
	}

	got := Query(products, defs, Filter{Fields: map[string]string{"colors": "red"}})
	assert.Len(t, got, 1)

	got = Query(products, defs, Filter{Fields: map[string]string{"colors": "green"}})
	assert.Empty(t, got)
}

func TestQueryBooleanAndSelectFields(t *testing.T) {
	defs := []domain.FieldDefinition{
		{ID: "wireless", Name: "Wireless", Type: domain.FieldBoolean},
		{ID: "material", Name: "Material", Type: domain.FieldSelect, Options: []string{"wood", "wood composite"}},
		{ID: "notes", Name: "Notes", Type: domain.FieldText},
	}
	products := []domain.Product{
		{Name: "Lamp", CustomFields: []domain.ProductField{
			{FieldID: "wireless", FieldType: domain.FieldBoolean, Value: true},
			{FieldID: "material", FieldType: domain.FieldSelect, Value: "wood"},
			{FieldID: "notes", FieldType: domain.FieldText, Value: "hand finished"},
		}},
	}

	assert.Len(t, Query(products, defs, Filter{Fields: map[string]string{"wireless": "Yes"}}), 1)
	assert.Empty(t, Query(products, defs, Filter{Fields: map[string]string{"wireless": "No"}}))

	// select is exact match, not substring
	assert.Len(t, Query(products, defs, Filter{Fields: map[string]string{"material": "wood"}}), 1)
	assert.Empty(t, Query(products, defs, Filter{Fields: map[string]string{"material": "woo"}}))

	// free text is substring, case-insensitive
	assert.Len(t, Query(products, defs, Filter{Fields: map[string]string{"notes": "FINISH"}}), 1)
}

func TestQueryDriftFieldsNeverFilter(t *testing.T) {
	products := []domain.Product{
		{Name: "A", CustomFields: []domain.ProductField{
			{FieldID: "legacy", FieldName: "Legacy", FieldType: domain.FieldText, Value: "x"},
		}},
	}

	got := Query(products, nil, Filter{Fields: map[string]string{"legacy": "x"}})
	assert.Empty(t, got)
}

func TestQueryMonotonic(t *testing.T) {
	products := []domain.Product{
		{Name: "A", Price: 10, Tags: []string{"t"}},
		{Name: "B", Price: 20},
		{Name: "C", Price: 30, Status: domain.ProductOutOfStock},
	}
	filters := []Filter{
		{},
		{Query: "a"},
		{PriceMin: 5, PriceMax: 25},
		{Tags: []string{"t"}},
		{InStockOnly: true},
		{Category: "nope"},
	}

	index := map[string]bool{"A": true, "B": true, "C": true}
	for _, f := range filters {
		got := Query(products, nil, f)
		assert.LessOrEqual(t, len(got), len(products))
		for _, n := range named(got) {
			assert.True(t, index[n])
		}
	}
}

func TestSortKeys(t *testing.T) {
	r1, r2 := 4.0, 2.0
	products := []domain.Product{
		{Name: "banana", Price: 30, Rating: &r2},
		{Name: "Apple", Price: 10, Rating: &r1},
		{Name: "cherry", Price: 20},
	}

	got := Query(products, nil, Filter{SortBy: SortName})
	assert.Equal(t, []string{"Apple", "banana", "cherry"}, named(got))

	got = Query(products, nil, Filter{SortBy: SortPriceLow})
	assert.Equal(t, []string{"Apple", "cherry", "banana"}, named(got))

	got = Query(products, nil, Filter{SortBy: SortPriceHigh})
	assert.Equal(t, []string{"banana", "cherry", "Apple"}, named(got))

	// missing rating sorts as 0
	got = Query(products, nil, Filter{SortBy: SortRating})
	assert.Equal(t, []string{"Apple", "banana", "cherry"}, named(got))
}

func TestSortStableWithNameTieBreak(t *testing.T) {
	products := []domain.Product{
		{Name: "Zeta", Price: 10},
		{Name: "Alpha", Price: 10},
		{Name: "Mid", Price: 10},
	}

	first := Query(products, nil, Filter{SortBy: SortPriceLow})
	second := Query(products, nil, Filter{SortBy: SortPriceLow})
	assert.Equal(t, named(first), named(second))
	assert.Equal(t, []string{"Alpha", "Mid", "Zeta"}, named(first))
}
