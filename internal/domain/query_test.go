package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuerySpec_Normalize(t *testing.T) {
	t.Parallel()

	var q QuerySpec
	q.Normalize()
	assert.Equal(t, "createdAt", q.SortField)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, DefaultPageSize, q.PageSize)

	q = QuerySpec{Page: -3, PageSize: 9999, SortField: "views"}
	q.Normalize()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, MaxPageSize, q.PageSize)
	assert.Equal(t, "views", q.SortField)
}

func TestQuerySpec_Offset(t *testing.T) {
	t.Parallel()

	q := QuerySpec{Page: 3, PageSize: 20}
	assert.Equal(t, 40, q.Offset())

	q = QuerySpec{Page: 1, PageSize: 20}
	assert.Zero(t, q.Offset())
}
