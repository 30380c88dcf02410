package importer

import "strings"

// MaxImagesPerRow caps how many uploaded files a single row may claim.
const MaxImagesPerRow = 5

// AssignImages matches uploaded files to rows by filename heuristics: a file
// belongs to a row when its lower-cased name contains the row's slug, its SKU,
// or its hyphenated name. Matching is substring containment, so two rows may
// claim the same file; no exclusivity is enforced. Files are assigned in their
// original upload order, at most MaxImagesPerRow per row.
func AssignImages(rows []*Row, files []ImageFile) {
	for _, row := range rows {
		row.ImageFiles = matchFiles(row, files)
	}
}

func matchFiles(row *Row, files []ImageFile) []ImageFile {
	slug := strings.ToLower(row.Product.Slug)
	sku := strings.ToLower(row.Product.SKU)
	hyphenated := strings.ToLower(strings.ReplaceAll(row.Product.Name, " ", "-"))

	var matched []ImageFile
	for _, f := range files {
		if len(matched) == MaxImagesPerRow {
			break
		}
		name := strings.ToLower(f.Name)
		switch {
		case slug != "" && strings.Contains(name, slug):
		case sku != "" && strings.Contains(name, sku):
		case hyphenated != "" && strings.Contains(name, hyphenated):
		default:
			continue
		}
		matched = append(matched, f)
	}
	return matched
}
