package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// TemplateColumns is the canonical header order for bulk uploads. The parser
// is header-driven, so extra or reordered columns still work, but the template
// keeps admins on the known-good path.
var TemplateColumns = []string{
	"name", "description", "sku", "type", "material", "occasion", "stock",
	"featured", "most_loved", "new_arrival", "sizes", "meta_title",
	"meta_description", "slug",
}

var templateRows = [][]string{
	{
		"Diamond Solitaire Ring", "Classic solitaire in 18k gold", "RNG-001",
		"ring", "gold", "bridal", "12", "true", "false", "true", "6, 7, 8",
		"Diamond Solitaire Ring", "A timeless 18k gold solitaire",
		"diamond-solitaire-ring",
	},
	{
		"Pearl Drop Earrings", "Freshwater pearls on silver hooks", "EAR-014",
		"earring", "silver", "festive", "30", "false", "true", "false", "",
		"", "", "pearl-drop-earrings",
	},
}

// SampleCSV renders the downloadable two-row CSV template.
func SampleCSV() []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(TemplateColumns)
	for _, row := range templateRows {
		_ = w.Write(row)
	}
	w.Flush()
	return buf.Bytes()
}

// WriteTemplateXLSX writes a single-sheet workbook template with a styled
// header row and the same two example rows as the CSV.
func WriteTemplateXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Products"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"B8860B"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, col := range TemplateColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}
		name, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheet, name, name, 18)
	}

	for r, row := range templateRows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
