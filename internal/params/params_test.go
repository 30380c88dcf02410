package params

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePaginationDefaults(t *testing.T) {
	p := ParsePagination(url.Values{})

	assert.Equal(t, 20, p.Limit)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 0, p.Offset)
}

func TestParsePaginationClampsLimit(t *testing.T) {
	q := url.Values{}
	q.Set("limit", "500")
	q.Set("page", "3")

	p := ParsePagination(q)

	assert.Equal(t, 60, p.Limit)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 120, p.Offset)
}

func TestParsePaginationIgnoresGarbage(t *testing.T) {
	q := url.Values{}
	q.Set("limit", "abc")
	q.Set("page", "-2")

	p := ParsePagination(q)

	assert.Equal(t, 20, p.Limit)
	assert.Equal(t, 1, p.Page)
}

func TestComputeMeta(t *testing.T) {
	q := url.Values{}
	q.Set("limit", "10")
	q.Set("page", "2")

	p := ParsePagination(q)
	p.ComputeMeta(35)

	assert.Equal(t, 35, p.Total)
	assert.Equal(t, 4, p.TotalPages)
	assert.True(t, p.HasPrev)
	assert.True(t, p.HasNext)

	p.Page = 4
	p.ComputeMeta(35)
	assert.False(t, p.HasNext)
}
