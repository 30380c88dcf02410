package importer

import (
	"context"
	"fmt"

	"lumiere/internal/catalog"

	"go.uber.org/zap"
)

// ImageUploader is the image-storage collaborator: one file in, one
// publicly-resolvable URL out. Content-type and size limits are the
// collaborator's concern, not the pipeline's.
type ImageUploader interface {
	UploadProductImage(ctx context.Context, file ImageFile) (string, error)
}

// CatalogCreator persists one fully-formed product. A constraint violation
// (duplicate slug, etc.) surfaces as an error.
type CatalogCreator interface {
	CreateProduct(ctx context.Context, p *catalog.Product) (*catalog.Product, error)
}

// ProgressFunc receives a running completion count out of total. Total is
// validRows*2: one tick for a row's image stage, one for its create stage.
type ProgressFunc func(completed, total int)

// RowError pairs a skipped row's index with its validation errors for the
// final report.
type RowError struct {
	Index  int      `json:"row"`
	Errors []string `json:"errors"`
}

// Report summarizes one import run. DegradedRows lists rows that were created
// with fewer images than matched because some uploads failed.
type Report struct {
	Uploaded     int        `json:"uploaded"`
	Skipped      []RowError `json:"skipped,omitempty"`
	DegradedRows []int      `json:"degraded_rows,omitempty"`
}

func (r *Report) Message() string {
	return fmt.Sprintf("%d products uploaded", r.Uploaded)
}

// Executor runs the import batch strictly serially: rows one at a time, each
// row's images one at a time, each step awaited before the next begins. There
// is no cancellation beyond the passed context.
type Executor struct {
	uploader ImageUploader
	creator  CatalogCreator
	logger   *zap.SugaredLogger
	progress ProgressFunc
}

func NewExecutor(uploader ImageUploader, creator CatalogCreator, logger *zap.SugaredLogger, progress ProgressFunc) *Executor {
	if progress == nil {
		progress = func(int, int) {}
	}
	return &Executor{uploader: uploader, creator: creator, logger: logger, progress: progress}
}

// Run imports every valid row; rows with validation errors are excluded
// entirely and reported as skipped. A failed image upload is logged and
// skipped; the row proceeds with whatever URLs succeeded and is flagged
// degraded. A failed create aborts the batch immediately: rows already
// created stay created, the report so far is returned with the error.
func (e *Executor) Run(ctx context.Context, rows []*Row, createdBy int64) (*Report, error) {
	report := &Report{}

	valid := make([]*Row, 0, len(rows))
	for _, row := range rows {
		if row.Valid() {
			valid = append(valid, row)
		} else {
			report.Skipped = append(report.Skipped, RowError{Index: row.Index, Errors: row.Errors})
		}
	}

	total := len(valid) * 2
	completed := 0

	for _, row := range valid {
		degraded := false
		for _, file := range row.ImageFiles {
			url, err := e.uploader.UploadProductImage(ctx, file)
			if err != nil {
				e.logger.Errorw("image upload failed, continuing row with partial set",
					"row", row.Index, "file", file.Name, "error", err)
				degraded = true
				continue
			}
			row.ImageURLs = append(row.ImageURLs, url)
		}
		completed++
		e.progress(completed, total)

		product := row.Product
		product.ImageURLs = row.ImageURLs
		product.CreatedBy = &createdBy

		if _, err := e.creator.CreateProduct(ctx, &product); err != nil {
			return report, fmt.Errorf("create product (row %d): %w", row.Index, err)
		}
		report.Uploaded++
		if degraded {
			report.DegradedRows = append(report.DegradedRows, row.Index)
		}
		completed++
		e.progress(completed, total)
	}

	return report, nil
}
