package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for uploads that are neither CSV nor XLSX.
var ErrUnsupportedFormat = errors.New("only .csv and .xlsx files are supported")

// RawRow is one parsed spreadsheet row before validation. Index is the
// 1-based data row number used in user-facing error messages (the header row
// is not counted).
type RawRow struct {
	Index  int
	Fields map[string]string
}

// Parse dispatches on the uploaded filename's extension. The whole file must
// parse; a malformed file yields a single error and no rows.
func Parse(filename string, r io.Reader) ([]RawRow, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ParseCSV(r)
	case ".xlsx":
		return ParseWorkbook(r)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// ParseCSV reads a comma-separated file with a header row. Headers are
// lower-cased and trimmed so column matching is forgiving about casing.
func ParseCSV(r io.Reader) ([]RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are handled per cell below

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}
	normalizeHeaders(headers)

	var rows []RawRow
	index := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV row %d: %w", index+1, err)
		}

		index++
		rows = append(rows, RawRow{Index: index, Fields: recordToFields(headers, record)})
	}
	return rows, nil
}

// ParseWorkbook reads the first sheet of an XLSX workbook; other sheets are
// ignored.
func ParseWorkbook(r io.Reader) ([]RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	sheetRows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(sheetRows) == 0 {
		return nil, errors.New("workbook has no header row")
	}

	headers := sheetRows[0]
	normalizeHeaders(headers)

	var rows []RawRow
	for i, record := range sheetRows[1:] {
		rows = append(rows, RawRow{Index: i + 1, Fields: recordToFields(headers, record)})
	}
	return rows, nil
}

func normalizeHeaders(headers []string) {
	for i := range headers {
		headers[i] = strings.TrimSpace(strings.ToLower(headers[i]))
	}
}

func recordToFields(headers, record []string) map[string]string {
	fields := make(map[string]string, len(headers))
	for i, value := range record {
		if i < len(headers) && headers[i] != "" {
			fields[headers[i]] = strings.TrimSpace(value)
		}
	}
	return fields
}
