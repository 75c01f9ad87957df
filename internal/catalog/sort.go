package catalog

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sort keys accepted by the public catalogue view.
const (
	SortName      = "name"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortRating    = "rating"
)

// Sort orders products in place by the given key. Unknown keys fall back
// to name. The sort is stable and equal primary keys tie-break by name
// ascending, so repeated runs over the same input are deterministic.
func Sort(list []ResolvedProduct, sortBy string) {
	// Collators carry internal buffers, so build one per call instead
	// of sharing.
	c := collate.New(language.English, collate.IgnoreCase)

	byName := func(a, b *ResolvedProduct) int {
		return c.CompareString(a.Product.Name, b.Product.Name)
	}

	sort.SliceStable(list, func(i, j int) bool {
		a, b := &list[i], &list[j]
		switch sortBy {
		case SortPriceLow:
			if a.Product.Price != b.Product.Price {
				return a.Product.Price < b.Product.Price
			}
		case SortPriceHigh:
			if a.Product.Price != b.Product.Price {
				return a.Product.Price > b.Product.Price
			}
		case SortRating:
			ra, rb := ratingOrZero(a), ratingOrZero(b)
			if ra != rb {
				return ra > rb
			}
		default:
			return byName(a, b) < 0
		}
		return byName(a, b) < 0
	})
}

func ratingOrZero(rp *ResolvedProduct) float64 {
	if rp.Product.Rating == nil {
		return 0
	}
	return *rp.Product.Rating
}
