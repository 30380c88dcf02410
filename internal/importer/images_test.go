package importer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func namedFiles(names ...string) []ImageFile {
	files := make([]ImageFile, len(names))
	for i, n := range names {
		files[i] = ImageFile{Name: n}
	}
	return files
}

func fileNames(files []ImageFile) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Name
	}
	return out
}

func TestAssignImagesMatchRules(t *testing.T) {
	rows := []*Row{{Index: 1}}
	rows[0].Product.Name = "Gold Hoop Earrings"
	rows[0].Product.Slug = "gold-hoop-earrings"
	rows[0].Product.SKU = "EAR-200"

	files := namedFiles(
		"gold-hoop-earrings-main.jpg", // slug containment
		"IMG_EAR-200_side.png",        // SKU containment
		"Gold-Hoop-Earrings.webp",     // hyphenated name, case-insensitive
		"silver-bangle.jpg",           // no match
	)

	AssignImages(rows, files)

	assert.Equal(t, []string{
		"gold-hoop-earrings-main.jpg",
		"IMG_EAR-200_side.png",
		"Gold-Hoop-Earrings.webp",
	}, fileNames(rows[0].ImageFiles))
}

func TestAssignImagesCapsAtFive(t *testing.T) {
	row := &Row{Index: 1}
	row.Product.Slug = "bangle"

	var names []string
	for i := 0; i < 8; i++ {
		names = append(names, fmt.Sprintf("bangle-%d.jpg", i))
	}
	AssignImages([]*Row{row}, namedFiles(names...))

	require.Len(t, row.ImageFiles, MaxImagesPerRow)
	// original file order is kept
	assert.Equal(t, "bangle-0.jpg", row.ImageFiles[0].Name)
	assert.Equal(t, "bangle-4.jpg", row.ImageFiles[4].Name)
}

func TestAssignImagesAllowsDuplicateClaims(t *testing.T) {
	// "ring" is a substring of "ring-of-fire", so both rows claim ring.jpg.
	a := &Row{Index: 1}
	a.Product.Slug = "ring"
	b := &Row{Index: 2}
	b.Product.Slug = "ring-of-fire"

	AssignImages([]*Row{a, b}, namedFiles("ring-of-fire.jpg"))

	assert.Len(t, a.ImageFiles, 1)
	assert.Len(t, b.ImageFiles, 1)
}

func TestAssignImagesEmptyKeysNeverMatch(t *testing.T) {
	row := &Row{Index: 1} // no slug, no sku, no name
	AssignImages([]*Row{row}, namedFiles("anything.jpg"))
	assert.Empty(t, row.ImageFiles)
}
