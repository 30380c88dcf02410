package importer

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"lumiere/internal/catalog"
)

// ImageFile is one uploaded image handed to the pipeline alongside the
// spreadsheet. Open is called once per upload attempt, so multipart file
// headers map onto it directly.
type ImageFile struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// Row is the transient record for one spreadsheet row: the normalized product
// fields plus everything the preview table and executor need. It is never
// persisted; the executor consumes it and the caller drops it.
type Row struct {
	Index      int
	Product    catalog.Product
	Errors     []string
	ImageFiles []ImageFile
	ImageURLs  []string
}

// Valid reports whether the row may enter an import batch.
func (r *Row) Valid() bool { return len(r.Errors) == 0 }

var (
	slugStripRe = regexp.MustCompile(`[^a-z0-9]+`)
	slugTrimRe  = regexp.MustCompile(`^-|-$`)
)

// Slugify derives a URL-safe handle from a display name: lower-cased, runs of
// non-alphanumeric characters collapsed to single hyphens, hyphens trimmed.
func Slugify(name string) string {
	slug := strings.ToLower(name)
	slug = slugStripRe.ReplaceAllString(slug, "-")
	return slugTrimRe.ReplaceAllString(slug, "")
}

// ValidateRow normalizes one parsed row into a Row, collecting every
// applicable error instead of stopping at the first. It never fails hard:
// a row with errors is still returned so the preview can annotate it.
func ValidateRow(raw RawRow) *Row {
	row := &Row{Index: raw.Index}
	get := func(key string) string { return strings.TrimSpace(raw.Fields[key]) }

	name := get("name")
	slug := get("slug")
	if slug == "" && name != "" {
		slug = Slugify(name)
	}

	required := []struct{ field, value string }{
		{"name", name},
		{"type", get("type")},
		{"material", get("material")},
		{"stock", get("stock")},
		{"slug", slug},
	}
	for _, r := range required {
		if r.value == "" {
			row.Errors = append(row.Errors, fmt.Sprintf("%s is required", r.field))
		}
	}

	if v := get("type"); v != "" {
		pt := catalog.ProductType(strings.ToLower(v))
		if !pt.Valid() {
			row.Errors = append(row.Errors, fmt.Sprintf("type must be one of %s", joinTypes()))
		} else {
			row.Product.Type = pt
		}
	}

	if v := get("material"); v != "" {
		m := catalog.Material(strings.ToLower(v))
		if !m.Valid() {
			row.Errors = append(row.Errors, fmt.Sprintf("material must be one of %s", joinMaterials()))
		} else {
			row.Product.Material = m
		}
	}

	if v := get("occasion"); v != "" {
		o := catalog.Occasion(strings.ToLower(v))
		if !o.Valid() {
			row.Errors = append(row.Errors, fmt.Sprintf("occasion must be one of %s", joinOccasions()))
		} else {
			row.Product.Occasion = &o
		}
	}

	if v := get("stock"); v != "" {
		stock, err := strconv.Atoi(v)
		if err != nil {
			row.Errors = append(row.Errors, "stock must be a number")
		} else if stock < 0 {
			row.Errors = append(row.Errors, "stock cannot be negative")
		} else {
			row.Product.Stock = stock
		}
	}

	row.Product.Name = name
	row.Product.Slug = slug
	row.Product.SKU = get("sku")
	if v := get("description"); v != "" {
		row.Product.Description = &v
	}
	if v := get("meta_title"); v != "" {
		row.Product.MetaTitle = &v
	}
	if v := get("meta_description"); v != "" {
		row.Product.MetaDescription = &v
	}

	row.Product.Featured = coerceBool(get("featured"))
	row.Product.MostLoved = coerceBool(get("most_loved"))
	row.Product.NewArrival = coerceBool(get("new_arrival"))
	row.Product.Sizes = coerceSizes(get("sizes"))

	return row
}

// ValidateRows runs ValidateRow over every parsed row, preserving file order.
func ValidateRows(raws []RawRow) []*Row {
	rows := make([]*Row, 0, len(raws))
	for _, raw := range raws {
		rows = append(rows, ValidateRow(raw))
	}
	return rows
}

// coerceBool accepts only the literal string "true", any casing. Everything
// else, including absence, is false.
func coerceBool(v string) bool {
	return strings.EqualFold(v, "true")
}

// coerceSizes splits a comma-separated list, trimming entries and dropping
// empty ones. Absence yields an empty (non-nil) list.
func coerceSizes(v string) []string {
	sizes := []string{}
	for _, part := range strings.Split(v, ",") {
		if s := strings.TrimSpace(part); s != "" {
			sizes = append(sizes, s)
		}
	}
	return sizes
}

func joinTypes() string {
	parts := make([]string, len(catalog.ProductTypes))
	for i, t := range catalog.ProductTypes {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}

func joinMaterials() string {
	parts := make([]string, len(catalog.Materials))
	for i, m := range catalog.Materials {
		parts[i] = string(m)
	}
	return strings.Join(parts, ", ")
}

func joinOccasions() string {
	parts := make([]string, len(catalog.Occasions))
	for i, o := range catalog.Occasions {
		parts[i] = string(o)
	}
	return strings.Join(parts, ", ")
}
