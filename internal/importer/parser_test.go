package importer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseCSV(t *testing.T) {
	data := "Name,TYPE, material \nGold Ring,ring,gold\nSilver Bangle,bangle,silver\n"

	rows, err := ParseCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// headers are lower-cased and trimmed
	assert.Equal(t, "Gold Ring", rows[0].Fields["name"])
	assert.Equal(t, "ring", rows[0].Fields["type"])
	assert.Equal(t, "gold", rows[0].Fields["material"])
	assert.Equal(t, 1, rows[0].Index)
	assert.Equal(t, 2, rows[1].Index)
}

func TestParseCSVRaggedRows(t *testing.T) {
	data := "name,type,material\nGold Ring,ring\n"
	rows, err := ParseCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0].Fields["material"])
}

func TestParseCSVMalformed(t *testing.T) {
	data := "name,type\n\"unterminated,ring\n"
	_, err := ParseCSV(strings.NewReader(data))
	assert.Error(t, err)
}

func TestParseWorkbookFirstSheetOnly(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Catalog"))
	require.NoError(t, f.SetCellValue("Catalog", "A1", "Name"))
	require.NoError(t, f.SetCellValue("Catalog", "B1", "Stock"))
	require.NoError(t, f.SetCellValue("Catalog", "A2", "Gold Ring"))
	require.NoError(t, f.SetCellValue("Catalog", "B2", "12"))

	// a second sheet must be ignored
	_, err := f.NewSheet("Ignored")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Ignored", "A1", "junk"))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	rows, err := ParseWorkbook(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Gold Ring", rows[0].Fields["name"])
	assert.Equal(t, "12", rows[0].Fields["stock"])
}

func TestParseWorkbookGarbage(t *testing.T) {
	_, err := ParseWorkbook(strings.NewReader("not a zip archive"))
	assert.Error(t, err)
}

func TestParseDispatch(t *testing.T) {
	rows, err := Parse("upload.CSV", strings.NewReader("name\nRing\n"))
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = Parse("upload.pdf", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestSampleCSVRoundTrips(t *testing.T) {
	rows, err := ParseCSV(bytes.NewReader(SampleCSV()))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// the shipped template must validate cleanly
	for _, row := range ValidateRows(rows) {
		assert.True(t, row.Valid(), "template row %d has errors: %v", row.Index, row.Errors)
	}
}

func TestTemplateXLSXRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTemplateXLSX(&buf))

	rows, err := ParseWorkbook(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Diamond Solitaire Ring", rows[0].Fields["name"])
}
