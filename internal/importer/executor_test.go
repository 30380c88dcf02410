package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"lumiere/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubUploader struct {
	calls   int
	failOn  map[string]bool // filenames that fail
	uploads []string
}

func (s *stubUploader) UploadProductImage(_ context.Context, file ImageFile) (string, error) {
	s.calls++
	if s.failOn[file.Name] {
		return "", errors.New("upstream rejected file")
	}
	url := "https://cdn.example.com/" + file.Name
	s.uploads = append(s.uploads, url)
	return url, nil
}

type stubCreator struct {
	created []*catalog.Product
	failOn  string // slug that fails
}

func (s *stubCreator) CreateProduct(_ context.Context, p *catalog.Product) (*catalog.Product, error) {
	if p.Slug == s.failOn {
		return nil, errors.New("duplicate slug")
	}
	s.created = append(s.created, p)
	return p, nil
}

func openable(name string) ImageFile {
	return ImageFile{Name: name, Open: func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader("bytes")), nil
	}}
}

func validRow(index int, slug string, files ...ImageFile) *Row {
	row := &Row{Index: index, ImageFiles: files}
	row.Product.Name = strings.ReplaceAll(slug, "-", " ")
	row.Product.Slug = slug
	row.Product.Type = catalog.TypeRing
	row.Product.Material = catalog.MaterialGold
	row.Product.Stock = 5
	return row
}

func testLogger() *zap.SugaredLogger { return zap.NewNop().Sugar() }

func TestRunImportsValidRowsAndSkipsInvalid(t *testing.T) {
	uploader := &stubUploader{}
	creator := &stubCreator{}

	var fractions []float64
	progress := func(completed, total int) {
		fractions = append(fractions, float64(completed)/float64(total))
	}

	rows := []*Row{
		validRow(1, "gold-ring", openable("gold-ring.jpg")),
		{Index: 2, Errors: []string{"stock is required"}},
		validRow(3, "silver-bangle"),
	}

	report, err := NewExecutor(uploader, creator, testLogger(), progress).Run(context.Background(), rows, 7)

	require.NoError(t, err)
	assert.Equal(t, 2, report.Uploaded)
	assert.Equal(t, "2 products uploaded", report.Message())
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, 2, report.Skipped[0].Index)
	assert.Empty(t, report.DegradedRows)

	// only the two valid rows reached the create step
	require.Len(t, creator.created, 2)
	assert.Equal(t, "gold-ring", creator.created[0].Slug)
	assert.Equal(t, []string{"https://cdn.example.com/gold-ring.jpg"}, creator.created[0].ImageURLs)
	require.NotNil(t, creator.created[0].CreatedBy)
	assert.Equal(t, int64(7), *creator.created[0].CreatedBy)

	// progress ticks twice per valid row and ends at 100%
	require.Len(t, fractions, 4)
	assert.Equal(t, 1.0, fractions[len(fractions)-1])
}

func TestRunImageFailureDegradesRowButContinues(t *testing.T) {
	uploader := &stubUploader{failOn: map[string]bool{"ring-2.jpg": true}}
	creator := &stubCreator{}

	row := validRow(1, "ring", openable("ring-1.jpg"), openable("ring-2.jpg"), openable("ring-3.jpg"))
	report, err := NewExecutor(uploader, creator, testLogger(), nil).Run(context.Background(), []*Row{row}, 1)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Uploaded)
	assert.Equal(t, []int{1}, report.DegradedRows)

	require.Len(t, creator.created, 1)
	assert.Equal(t, []string{
		"https://cdn.example.com/ring-1.jpg",
		"https://cdn.example.com/ring-3.jpg",
	}, creator.created[0].ImageURLs, "surviving URLs keep original file order")
}

func TestRunCreateFailureAbortsBatch(t *testing.T) {
	uploader := &stubUploader{}
	creator := &stubCreator{failOn: "bad-slug"}

	rows := []*Row{
		validRow(1, "first"),
		validRow(2, "bad-slug"),
		validRow(3, "never-reached"),
	}

	report, err := NewExecutor(uploader, creator, testLogger(), nil).Run(context.Background(), rows, 1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
	// the row already created stays created; nothing after the failure runs
	assert.Equal(t, 1, report.Uploaded)
	require.Len(t, creator.created, 1)
	assert.Equal(t, "first", creator.created[0].Slug)
}

func TestRunEmptyBatch(t *testing.T) {
	report, err := NewExecutor(&stubUploader{}, &stubCreator{}, testLogger(), nil).Run(context.Background(), nil, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Uploaded)
}

func TestEndToEndParseValidateAssignRun(t *testing.T) {
	csvData := "name,type,material,stock,sku\n" +
		"Gold Ring,ring,gold,4,RNG-1\n" +
		"Silver Bangle,bangle,silver,9,BNG-1\n" +
		"Broken Row,ring,gold,,RNG-2\n"

	raws, err := ParseCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, raws, 3)

	rows := ValidateRows(raws)
	AssignImages(rows, []ImageFile{openable("gold-ring-hero.jpg"), openable("unrelated.png")})

	uploader := &stubUploader{}
	creator := &stubCreator{}
	var last float64
	report, err := NewExecutor(uploader, creator, testLogger(), func(c, t int) {
		last = float64(c) / float64(t)
	}).Run(context.Background(), rows, 42)

	require.NoError(t, err)
	assert.Equal(t, 2, report.Uploaded)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, 3, report.Skipped[0].Index)
	assert.Equal(t, 1.0, last, "progress reaches 100%% regardless of the invalid row")
	assert.Equal(t, 1, uploader.calls, "only the matched image is uploaded")
}

// schemaCreator rejects products the way the products table would, so the
// pipeline's output is checked against the real column constraints.
type schemaCreator struct {
	created []*catalog.Product
	slugs   map[string]bool
}

func (s *schemaCreator) CreateProduct(_ context.Context, p *catalog.Product) (*catalog.Product, error) {
	switch {
	case p.Slug == "":
		return nil, errors.New(`null value in column "slug"`)
	case s.slugs[p.Slug]:
		return nil, errors.New(`duplicate key value violates unique constraint "products_slug_key"`)
	case p.Stock < 0:
		return nil, errors.New(`new row violates check constraint "products_stock_check"`)
	case p.MinPriceCents < 0:
		return nil, errors.New(`new row violates check constraint "products_min_price_cents_check"`)
	case p.MaxPriceCents < p.MinPriceCents:
		return nil, errors.New(`new row violates check constraint "products_max_price_cents_check"`)
	}
	if s.slugs == nil {
		s.slugs = map[string]bool{}
	}
	s.slugs[p.Slug] = true
	s.created = append(s.created, p)
	return p, nil
}

func TestRunSampleTemplateSatisfiesTableConstraints(t *testing.T) {
	raws, err := ParseCSV(bytes.NewReader(SampleCSV()))
	require.NoError(t, err)
	require.Len(t, raws, 2)

	rows := ValidateRows(raws)
	for _, row := range rows {
		require.Empty(t, row.Errors, "template row %d must be importable as-is", row.Index)
	}

	creator := &schemaCreator{}
	report, err := NewExecutor(&stubUploader{}, creator, testLogger(), nil).Run(context.Background(), rows, 1)

	require.NoError(t, err)
	assert.Equal(t, 2, report.Uploaded)
	require.Len(t, creator.created, 2)
	assert.Equal(t, "diamond-solitaire-ring", creator.created[0].Slug)
}

func TestReportMessage(t *testing.T) {
	for n, want := range map[int]string{0: "0 products uploaded", 3: "3 products uploaded"} {
		assert.Equal(t, want, (&Report{Uploaded: n}).Message(), fmt.Sprintf("n=%d", n))
	}
}
