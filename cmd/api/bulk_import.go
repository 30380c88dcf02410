package main

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"lumiere/internal/catalog"
	"lumiere/internal/importer"
	"lumiere/internal/mailer"

	"github.com/google/uuid"
)

// cloudinaryRowUploader adapts the app's Cloudinary client to the importer.
type cloudinaryRowUploader struct {
	app *application
}

func (u *cloudinaryRowUploader) UploadProductImage(ctx context.Context, file importer.ImageFile) (string, error) {
	rc, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", file.Name, err)
	}
	defer rc.Close()

	return u.app.uploadToCloudinary(ctx, rc, "products")
}

// storeRowCreator adapts the catalog store to the importer.
type storeRowCreator struct {
	app *application
}

func (c *storeRowCreator) CreateProduct(ctx context.Context, p *catalog.Product) (*catalog.Product, error) {
	return c.app.store.Catalog.Create(ctx, p)
}

func multipartImageFiles(headers []*multipart.FileHeader) []importer.ImageFile {
	files := make([]importer.ImageFile, 0, len(headers))
	for _, fh := range headers {
		fh := fh
		files = append(files, importer.ImageFile{
			Name: fh.Filename,
			Open: func() (io.ReadCloser, error) { return fh.Open() },
		})
	}
	return files
}

// bulkImportHandler godoc
//
//	@Summary		Bulk import products
//	@Description	Accepts a CSV or XLSX "file" part plus any number of "images" files. Rows are validated, images matched by slug, SKU or hyphenated name, then imported one row at a time. Invalid rows are skipped and reported; a failed product create aborts the batch.
//	@Tags			admin-import
//	@Accept			multipart/form-data
//	@Produce		json
//	@Success		200	{object}	importer.Report
//	@Failure		400	{object}	ErrorBadRequestResponse
//	@Failure		500	{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/admin/import [post]
func (app *application) bulkImportHandler(w http.ResponseWriter, r *http.Request) {
	const maxBytes = 100 * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("failed to parse form: %w", err))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("catalog file is required"))
		return
	}
	defer file.Close()

	rawRows, err := importer.Parse(header.Filename, file)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if len(rawRows) == 0 {
		app.badRequestResponse(w, r, fmt.Errorf("file contains no data rows"))
		return
	}

	rows := importer.ValidateRows(rawRows)
	importer.AssignImages(rows, multipartImageFiles(r.MultipartForm.File["images"]))

	user := getUserFromContext(r)
	batchID := uuid.New().String()

	app.logger.Infow("bulk import started",
		"batch_id", batchID, "file", header.Filename, "rows", len(rows), "user_id", user.ID)

	progress := func(completed, total int) {
		app.logger.Infow("import progress", "batch_id", batchID, "completed", completed, "total", total)
	}

	exec := importer.NewExecutor(
		&cloudinaryRowUploader{app: app},
		&storeRowCreator{app: app},
		app.logger,
		progress,
	)

	report, runErr := exec.Run(r.Context(), rows, user.ID)

	app.sendImportReport(user.Name, user.Email, header.Filename, report)

	if runErr != nil {
		app.logger.Errorw("bulk import aborted", "batch_id", batchID, "file", header.Filename, "error", runErr)

		response := map[string]any{
			"batch_id": batchID,
			"report":   report,
			"error":    runErr.Error(),
		}
		if err := app.jsonResponse(w, http.StatusInternalServerError, response); err != nil {
			app.internalServerError(w, r, err)
		}
		return
	}

	response := map[string]any{
		"batch_id": batchID,
		"report":   report,
		"message":  report.Message(),
	}

	if err := app.jsonResponse(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

type importRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// sendImportReport emails the outcome to the admin who ran the import.
// Failures are logged only; the import already happened.
func (app *application) sendImportReport(username, email, filename string, report *importer.Report) {
	rowErrors := make([]importRowError, 0, len(report.Skipped))
	for _, s := range report.Skipped {
		rowErrors = append(rowErrors, importRowError{Row: s.Index, Message: strings.Join(s.Errors, "; ")})
	}

	vars := struct {
		Username  string
		Filename  string
		Uploaded  int
		Skipped   int
		Degraded  int
		RowErrors []importRowError
	}{
		Username:  username,
		Filename:  filename,
		Uploaded:  report.Uploaded,
		Skipped:   len(report.Skipped),
		Degraded:  len(report.DegradedRows),
		RowErrors: rowErrors,
	}

	go func() {
		status, err := app.mailer.Send(mailer.ImportReportTemplate, username, email, vars)
		if err != nil {
			app.logger.Errorw("error sending import report email", "error", err)
			return
		}
		app.logger.Infow("import report email sent", "status code", status)
	}()
}

// downloadCSVTemplateHandler godoc
//
//	@Summary	Download the CSV import template
//	@Tags		admin-import
//	@Produce	text/csv
//	@Success	200	{string}	string	"CSV template"
//	@Security	ApiKeyAuth
//	@Router		/admin/import/template.csv [get]
func (app *application) downloadCSVTemplateHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="catalog-template.csv"`)
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(importer.SampleCSV()); err != nil {
		app.logger.Errorw("error writing csv template", "error", err)
	}
}

// downloadXLSXTemplateHandler godoc
//
//	@Summary	Download the XLSX import template
//	@Tags		admin-import
//	@Produce	application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
//	@Success	200	{string}	string	"XLSX template"
//	@Security	ApiKeyAuth
//	@Router		/admin/import/template.xlsx [get]
func (app *application) downloadXLSXTemplateHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="catalog-template-%s.xlsx"`, time.Now().Format("2006-01-02")))
	w.WriteHeader(http.StatusOK)

	if err := importer.WriteTemplateXLSX(w); err != nil {
		app.logger.Errorw("error writing xlsx template", "error", err)
	}
}
