package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginationFirstPage(t *testing.T) {
	p := NewPagination(0, 2, []int{1, 2, 3})

	assert.Equal(t, []int{1, 2}, p.Items)
	assert.Equal(t, 1, p.Page)
	assert.True(t, p.HasMore)
	assert.Equal(t, 2, p.NextOffset)
	assert.Equal(t, 2, p.NextPage)
	assert.Equal(t, -1, p.PrevOffset)
}

func TestPaginationLastPage(t *testing.T) {
	p := NewPagination(4, 2, []int{5})

	assert.Equal(t, []int{5}, p.Items)
	assert.Equal(t, 3, p.Page)
	assert.False(t, p.HasMore)
	assert.Equal(t, -1, p.NextOffset)
	assert.Equal(t, 2, p.PrevOffset)
	assert.Equal(t, 2, p.PrevPage)
}

func TestPaginationEmpty(t *testing.T) {
	p := NewPagination[int](0, 0, nil)

	assert.NotNil(t, p.Items)
	assert.Empty(t, p.Items)
	assert.Equal(t, DefaultPagingLimit, p.Limit)
	assert.False(t, p.HasMore)
}

func TestParsePaging(t *testing.T) {
	offset, limit, err := ParsePaging("", "")
	require.NoError(t, err)
	assert.Equal(t, 0, offset)
	assert.Equal(t, DefaultPagingLimit, limit)

	offset, limit, err = ParsePaging("24", "1000")
	require.NoError(t, err)
	assert.Equal(t, 24, offset)
	assert.Equal(t, MaxPagingLimit, limit)

	for _, bad := range [][2]string{{"-1", ""}, {"x", ""}, {"", "0"}, {"", "many"}} {
		_, _, err = ParsePaging(bad[0], bad[1])
		assert.Error(t, err, "offset=%q limit=%q", bad[0], bad[1])
	}
}
