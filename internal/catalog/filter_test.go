package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func sampleItems() []Product {
	return []Product{
		{ID: 1, Name: "Solitaire Ring", Type: TypeRing, Material: MaterialGold, Occasion: ptr(OccasionBridal), CollectionID: ptr(int64(1)), CollectionName: ptr("Heritage"), MinPriceCents: 50_00, MaxPriceCents: 90_00, Featured: true},
		{ID: 2, Name: "Pearl Necklace", Type: TypeNecklace, Material: MaterialSilver, MinPriceCents: 10_00, MaxPriceCents: 20_00, NewArrival: true},
		{ID: 3, Name: "Bangle Duo", Type: TypeBangle, Material: MaterialRoseGold, Occasion: ptr(OccasionFestive), MinPriceCents: 30_00, MaxPriceCents: 60_00, MostLoved: true},
	}
}

func wideOpen() FilterState { return DefaultFilterState(0, 1_000_00) }

func TestApplySearchMatchesAnyField(t *testing.T) {
	items := sampleItems()

	t.Run("by name fragment", func(t *testing.T) {
		f := wideOpen()
		f.Search = "pearl"
		got := Apply(items, f)
		require.Len(t, got, 1)
		assert.Equal(t, int64(2), got[0].ID)
	})

	t.Run("by material", func(t *testing.T) {
		f := wideOpen()
		f.Search = "rose-gold"
		got := Apply(items, f)
		require.Len(t, got, 1)
		assert.Equal(t, int64(3), got[0].ID)
	})

	t.Run("by collection name, case-insensitive", func(t *testing.T) {
		f := wideOpen()
		f.Search = "HERITAGE"
		got := Apply(items, f)
		require.Len(t, got, 1)
		assert.Equal(t, int64(1), got[0].ID)
	})

	t.Run("no match", func(t *testing.T) {
		f := wideOpen()
		f.Search = "tiara"
		assert.Empty(t, Apply(items, f))
	})
}

func TestApplySetFilters(t *testing.T) {
	items := sampleItems()

	f := wideOpen()
	f.Materials = []Material{MaterialGold, MaterialSilver}
	got := Apply(items, f)
	require.Len(t, got, 2)

	f.Types = []ProductType{TypeNecklace}
	got = Apply(items, f)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)

	// occasion filter drops items with no occasion at all
	f = wideOpen()
	f.Occasions = []Occasion{OccasionFestive}
	got = Apply(items, f)
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].ID)

	f = wideOpen()
	f.Collections = []int64{1}
	got = Apply(items, f)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestApplyPriceRangeBothBoundsMustHold(t *testing.T) {
	items := []Product{
		{ID: 1, MinPriceCents: 100_00, MaxPriceCents: 900_00},
		{ID: 2, MinPriceCents: 250_00, MaxPriceCents: 400_00},
	}
	f := DefaultFilterState(200_00, 500_00)

	got := Apply(items, f)
	require.Len(t, got, 1, "item with min below the floor is excluded even though its max fits")
	assert.Equal(t, int64(2), got[0].ID)
}

func TestApplySwapsInvertedPriceBounds(t *testing.T) {
	items := []Product{{ID: 1, MinPriceCents: 30_00, MaxPriceCents: 40_00}}
	f := DefaultFilterState(50_00, 20_00)
	assert.Len(t, Apply(items, f), 1)
}

func TestSortOrders(t *testing.T) {
	mins := func(got []Product) []int64 {
		out := make([]int64, len(got))
		for i, p := range got {
			out[i] = p.MinPriceCents
		}
		return out
	}
	maxes := func(got []Product) []int64 {
		out := make([]int64, len(got))
		for i, p := range got {
			out[i] = p.MaxPriceCents
		}
		return out
	}

	items := []Product{
		{ID: 1, MinPriceCents: 50, MaxPriceCents: 50},
		{ID: 2, MinPriceCents: 10, MaxPriceCents: 10},
		{ID: 3, MinPriceCents: 30, MaxPriceCents: 30},
	}

	f := DefaultFilterState(0, 100)
	f.Sort = SortPriceLow
	assert.Equal(t, []int64{10, 30, 50}, mins(Apply(items, f)))

	f.Sort = SortPriceHigh
	assert.Equal(t, []int64{50, 30, 10}, maxes(Apply(items, f)))
}

func TestSortFlagFirstIsStable(t *testing.T) {
	items := []Product{
		{ID: 1}, {ID: 2, NewArrival: true}, {ID: 3}, {ID: 4, NewArrival: true},
	}
	f := DefaultFilterState(0, 100)
	f.Sort = SortNewest

	got := Apply(items, f)
	ids := []int64{got[0].ID, got[1].ID, got[2].ID, got[3].ID}
	assert.Equal(t, []int64{2, 4, 1, 3}, ids)
}

func TestApplyIsDeterministicAndDoesNotMutateInput(t *testing.T) {
	items := sampleItems()
	f := wideOpen()
	f.Sort = SortPriceHigh

	first := Apply(items, f)
	second := Apply(items, f)
	assert.Equal(t, first, second)

	// source order untouched
	assert.Equal(t, int64(1), items[0].ID)
	assert.Equal(t, int64(2), items[1].ID)
	assert.Equal(t, int64(3), items[2].ID)
}

func TestDefaultFilterState(t *testing.T) {
	f := DefaultFilterState(10, 90)
	assert.Equal(t, SortFeatured, f.Sort)
	assert.Equal(t, ViewGrid, f.View)
	assert.Empty(t, f.Materials)
	assert.Equal(t, int64(10), f.PriceFloor)
	assert.Equal(t, int64(90), f.PriceCeil)
}
