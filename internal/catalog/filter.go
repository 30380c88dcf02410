package catalog

import (
	"sort"
	"strings"
)

// SortKey selects the comparator applied as the final filter stage.
type SortKey string

const (
	SortFeatured  SortKey = "featured"
	SortNewest    SortKey = "newest"
	SortPopular   SortKey = "popular"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
)

func (k SortKey) Valid() bool {
	switch k {
	case SortFeatured, SortNewest, SortPopular, SortPriceLow, SortPriceHigh:
		return true
	}
	return false
}

// ViewMode is the storefront grid density. It never affects filtering; it is
// carried here so one state object round-trips the whole browse UI.
type ViewMode string

const (
	ViewGrid    ViewMode = "grid"
	ViewCompact ViewMode = "compact"
)

// FilterState holds every browse control in one value. An empty selector
// slice means "no filtering at that stage". Invariant: PriceFloor <= PriceCeil.
type FilterState struct {
	Search      string        `json:"search"`
	Materials   []Material    `json:"materials"`
	Types       []ProductType `json:"types"`
	Occasions   []Occasion    `json:"occasions"`
	Collections []int64       `json:"collections"`
	PriceFloor  int64         `json:"price_floor"`
	PriceCeil   int64         `json:"price_ceil"`
	Sort        SortKey       `json:"sort"`
	View        ViewMode      `json:"view"`
}

// DefaultFilterState is the reset state: nothing selected, the full price
// range of the catalog as bounds, featured sort, grid view.
func DefaultFilterState(priceFloor, priceCeil int64) FilterState {
	return FilterState{
		PriceFloor: priceFloor,
		PriceCeil:  priceCeil,
		Sort:       SortFeatured,
		View:       ViewGrid,
	}
}

// Apply recomputes the visible product list for the given state. It is a pure
// function: the input slice is never mutated and identical inputs always
// produce the identical ordering. Stages only narrow the set, in fixed order:
// search, material, type, occasion, collection, price range, sort.
func Apply(items []Product, f FilterState) []Product {
	floor, ceil := f.PriceFloor, f.PriceCeil
	if floor > ceil {
		floor, ceil = ceil, floor
	}

	out := make([]Product, 0, len(items))
	query := strings.ToLower(strings.TrimSpace(f.Search))

	for _, item := range items {
		if query != "" && !matchesSearch(item, query) {
			continue
		}
		if len(f.Materials) > 0 && !containsMaterial(f.Materials, item.Material) {
			continue
		}
		if len(f.Types) > 0 && !containsType(f.Types, item.Type) {
			continue
		}
		if len(f.Occasions) > 0 && !matchesOccasion(f.Occasions, item.Occasion) {
			continue
		}
		if len(f.Collections) > 0 && !matchesCollection(f.Collections, item.CollectionID) {
			continue
		}
		// Both bounds must hold: an item whose minimum sits below the floor is
		// out even when its maximum fits.
		if item.MinPriceCents < floor || item.MaxPriceCents > ceil {
			continue
		}
		out = append(out, item)
	}

	sortProducts(out, f.Sort)
	return out
}

func matchesSearch(p Product, query string) bool {
	if strings.Contains(strings.ToLower(p.Name), query) {
		return true
	}
	if strings.Contains(strings.ToLower(string(p.Material)), query) {
		return true
	}
	if strings.Contains(strings.ToLower(string(p.Type)), query) {
		return true
	}
	if p.CollectionName != nil && strings.Contains(strings.ToLower(*p.CollectionName), query) {
		return true
	}
	return false
}

func containsMaterial(set []Material, m Material) bool {
	for _, v := range set {
		if v == m {
			return true
		}
	}
	return false
}

func containsType(set []ProductType, t ProductType) bool {
	for _, v := range set {
		if v == t {
			return true
		}
	}
	return false
}

func matchesOccasion(set []Occasion, o *Occasion) bool {
	if o == nil {
		return false
	}
	for _, v := range set {
		if v == *o {
			return true
		}
	}
	return false
}

func matchesCollection(set []int64, id *int64) bool {
	if id == nil {
		return false
	}
	for _, v := range set {
		if v == *id {
			return true
		}
	}
	return false
}

// sortProducts orders in place. Flag-based keys are stable so the incoming
// order is preserved within each half.
func sortProducts(items []Product, key SortKey) {
	switch key {
	case SortNewest:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].NewArrival && !items[j].NewArrival
		})
	case SortPopular:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].MostLoved && !items[j].MostLoved
		})
	case SortPriceLow:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].MinPriceCents < items[j].MinPriceCents
		})
	case SortPriceHigh:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].MaxPriceCents > items[j].MaxPriceCents
		})
	default: // SortFeatured
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Featured && !items[j].Featured
		})
	}
}
