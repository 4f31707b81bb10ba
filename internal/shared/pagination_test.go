package shared

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 25)
	require.Equal(t, 2, p.Page)
	require.Equal(t, 10, p.PerPage)
	require.Equal(t, 25, p.Total)
	require.Equal(t, 3, p.TotalPages)
}

func TestNewPaginationEmptySet(t *testing.T) {
	p := NewPagination(1, 10, 0)
	require.Equal(t, 0, p.Total)
	require.Equal(t, 0, p.TotalPages)
}

func TestNewPaginationCeiling(t *testing.T) {
	cases := []struct {
		total, perPage, pages int
	}{
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{99, 25, 4},
		{100, 25, 4},
		{101, 25, 5},
	}
	for _, tc := range cases {
		p := NewPagination(1, tc.perPage, tc.total)
		require.Equal(t, tc.pages, p.TotalPages, "total=%d perPage=%d", tc.total, tc.perPage)
	}
}

func TestNormalize(t *testing.T) {
	page, perPage := Normalize(0, 0)
	require.Equal(t, 1, page)
	require.Equal(t, DefaultPerPage, perPage)

	page, perPage = Normalize(-3, -1)
	require.Equal(t, 1, page)
	require.Equal(t, DefaultPerPage, perPage)

	_, perPage = Normalize(1, 5000)
	require.Equal(t, MaxPerPage, perPage)
}

func TestOffset(t *testing.T) {
	require.Equal(t, 0, Offset(1, 10))
	require.Equal(t, 10, Offset(2, 10))
	require.Equal(t, 0, Offset(0, 10))
	require.Equal(t, 40, Offset(5, 10))
}
