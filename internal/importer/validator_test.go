package importer

import (
	"testing"

	"lumiere/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rowWith(fields map[string]string) RawRow {
	return RawRow{Index: 1, Fields: fields}
}

func validFields() map[string]string {
	return map[string]string{
		"name":     "Gold Hoop Earrings",
		"type":     "earring",
		"material": "gold",
		"stock":    "25",
		"slug":     "gold-hoop-earrings",
	}
}

func TestValidateRowHappyPath(t *testing.T) {
	fields := validFields()
	fields["occasion"] = "festive"
	fields["sku"] = "EAR-200"
	fields["featured"] = "TRUE"
	fields["sizes"] = "S, M, L"

	row := ValidateRow(rowWith(fields))

	require.True(t, row.Valid(), "unexpected errors: %v", row.Errors)
	assert.Equal(t, "Gold Hoop Earrings", row.Product.Name)
	assert.Equal(t, catalog.TypeEarring, row.Product.Type)
	assert.Equal(t, catalog.MaterialGold, row.Product.Material)
	require.NotNil(t, row.Product.Occasion)
	assert.Equal(t, catalog.OccasionFestive, *row.Product.Occasion)
	assert.Equal(t, 25, row.Product.Stock)
	assert.True(t, row.Product.Featured)
	assert.False(t, row.Product.MostLoved)
	assert.Equal(t, []string{"S", "M", "L"}, row.Product.Sizes)
}

func TestValidateRowRequiredFields(t *testing.T) {
	for _, field := range []string{"name", "type", "material", "stock"} {
		t.Run("missing "+field, func(t *testing.T) {
			fields := validFields()
			delete(fields, field)
			row := ValidateRow(rowWith(fields))

			require.False(t, row.Valid())
			assert.Contains(t, row.Errors, field+" is required")
		})
	}

	t.Run("missing slug and name errors on both", func(t *testing.T) {
		fields := validFields()
		delete(fields, "name")
		delete(fields, "slug")
		row := ValidateRow(rowWith(fields))

		assert.Contains(t, row.Errors, "name is required")
		assert.Contains(t, row.Errors, "slug is required")
	})

	t.Run("whitespace-only counts as missing", func(t *testing.T) {
		fields := validFields()
		fields["material"] = "   "
		row := ValidateRow(rowWith(fields))
		assert.Contains(t, row.Errors, "material is required")
	})

	t.Run("errors keep a fixed field order", func(t *testing.T) {
		row := ValidateRow(rowWith(map[string]string{}))
		assert.Equal(t, []string{
			"name is required",
			"type is required",
			"material is required",
			"stock is required",
			"slug is required",
		}, row.Errors)
	})
}

func TestValidateRowEnumChecks(t *testing.T) {
	fields := validFields()
	fields["type"] = "tiara"
	row := ValidateRow(rowWith(fields))
	require.False(t, row.Valid())
	assert.Contains(t, row.Errors, "type must be one of ring, necklace, earring, bracelet, bangle")

	fields = validFields()
	fields["material"] = "copper"
	row = ValidateRow(rowWith(fields))
	assert.Contains(t, row.Errors, "material must be one of gold, silver, platinum, rose-gold")

	fields = validFields()
	fields["occasion"] = "birthday"
	row = ValidateRow(rowWith(fields))
	assert.Contains(t, row.Errors, "occasion must be one of bridal, festive, daily, gifting")

	// absent occasion is fine
	row = ValidateRow(rowWith(validFields()))
	assert.True(t, row.Valid())
	assert.Nil(t, row.Product.Occasion)
}

func TestValidateRowCollectsEveryError(t *testing.T) {
	row := ValidateRow(rowWith(map[string]string{
		"type":     "tiara",
		"material": "copper",
		"stock":    "lots",
	}))

	// name, slug, type enum, material enum, stock numeric
	assert.GreaterOrEqual(t, len(row.Errors), 5)
}

func TestValidateRowStockCoercion(t *testing.T) {
	fields := validFields()
	fields["stock"] = "abc"
	row := ValidateRow(rowWith(fields))
	assert.Contains(t, row.Errors, "stock must be a number")

	fields["stock"] = "-3"
	row = ValidateRow(rowWith(fields))
	assert.Contains(t, row.Errors, "stock cannot be negative")
}

func TestValidateRowDerivesSlug(t *testing.T) {
	fields := validFields()
	fields["name"] = "Diamond Engagement Ring!"
	delete(fields, "slug")

	row := ValidateRow(rowWith(fields))

	require.True(t, row.Valid(), "unexpected errors: %v", row.Errors)
	assert.Equal(t, "diamond-engagement-ring", row.Product.Slug)
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Diamond Engagement Ring!": "diamond-engagement-ring",
		"  Rose   Gold Bangle  ":   "rose-gold-bangle",
		"Éclat":                    "clat",
		"already-a-slug":           "already-a-slug",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "Slugify(%q)", in)
	}
}

func TestCoerceSizes(t *testing.T) {
	fields := validFields()
	fields["sizes"] = "S, M, L"
	assert.Equal(t, []string{"S", "M", "L"}, ValidateRow(rowWith(fields)).Product.Sizes)

	fields["sizes"] = ""
	assert.Equal(t, []string{}, ValidateRow(rowWith(fields)).Product.Sizes)

	delete(fields, "sizes")
	assert.Equal(t, []string{}, ValidateRow(rowWith(fields)).Product.Sizes)

	fields["sizes"] = " , ,M,"
	assert.Equal(t, []string{"M"}, ValidateRow(rowWith(fields)).Product.Sizes)
}

func TestCoerceBooleans(t *testing.T) {
	fields := validFields()
	fields["featured"] = "True"
	fields["most_loved"] = "yes"
	fields["new_arrival"] = "1"

	row := ValidateRow(rowWith(fields))
	assert.True(t, row.Product.Featured)
	assert.False(t, row.Product.MostLoved, `only the literal "true" coerces to true`)
	assert.False(t, row.Product.NewArrival)
}
