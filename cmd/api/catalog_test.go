package main

import (
	"net/url"
	"testing"

	"lumiere/internal/catalog"

	"github.com/stretchr/testify/assert"
)

func newTestApp() *application {
	return &application{}
}

func TestParseFilterStateDefaults(t *testing.T) {
	app := newTestApp()

	f := app.parseFilterState(url.Values{}, 1000, 500000)

	assert.Equal(t, catalog.DefaultFilterState(1000, 500000), f)
}

func TestParseFilterStateFullQuery(t *testing.T) {
	app := newTestApp()

	q := url.Values{}
	q.Set("search", "  diamond ring ")
	q.Set("materials", "gold,platinum")
	q.Set("types", "ring,necklace")
	q.Set("occasions", "bridal")
	q.Set("collections", "3,7")
	q.Set("price_min", "20000")
	q.Set("price_max", "90000")
	q.Set("sort", "price-low")
	q.Set("view", "compact")

	f := app.parseFilterState(q, 1000, 500000)

	assert.Equal(t, "diamond ring", f.Search)
	assert.Equal(t, []catalog.Material{catalog.MaterialGold, catalog.MaterialPlatinum}, f.Materials)
	assert.Equal(t, []catalog.ProductType{catalog.TypeRing, catalog.TypeNecklace}, f.Types)
	assert.Equal(t, []catalog.Occasion{catalog.OccasionBridal}, f.Occasions)
	assert.Equal(t, []int64{3, 7}, f.Collections)
	assert.Equal(t, int64(20000), f.PriceFloor)
	assert.Equal(t, int64(90000), f.PriceCeil)
	assert.Equal(t, catalog.SortPriceLow, f.Sort)
	assert.Equal(t, catalog.ViewCompact, f.View)
}

func TestParseFilterStateDropsUnknownValues(t *testing.T) {
	app := newTestApp()

	q := url.Values{}
	q.Set("materials", "gold,copper")
	q.Set("types", "ring,watch")
	q.Set("occasions", "bridal,birthday")
	q.Set("collections", "3,oops")
	q.Set("sort", "cheapest")
	q.Set("view", "list")

	f := app.parseFilterState(q, 0, 100)

	assert.Equal(t, []catalog.Material{catalog.MaterialGold}, f.Materials)
	assert.Equal(t, []catalog.ProductType{catalog.TypeRing}, f.Types)
	assert.Equal(t, []catalog.Occasion{catalog.OccasionBridal}, f.Occasions)
	assert.Equal(t, []int64{3}, f.Collections)
	assert.Equal(t, catalog.SortFeatured, f.Sort)
	assert.Equal(t, catalog.ViewGrid, f.View)
}

func TestSplitCSV(t *testing.T) {
	assert.Nil(t, splitCSV(""))
	assert.Nil(t, splitCSV("   "))
	assert.Equal(t, []string{"a"}, splitCSV("a"))
	assert.Equal(t, []string{"a", "b"}, splitCSV(" a , b ,"))
}
