package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/domain"
)

func TestPaginationParams(t *testing.T) {
	p, err := DefaultPagination.Params(dto.ListQuery{Page: 2, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, p.Offset())
	assert.Equal(t, 5, p.Limit)

	p, err = DefaultPagination.Params(dto.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, 0, p.Offset())

	p, err = DefaultPagination.Params(dto.ListQuery{Page: -3, Search: "  acme "})
	require.NoError(t, err)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, "acme", p.Search)
}

func TestPaginationParams_LimitFueraDeRango(t *testing.T) {
	for _, limit := range []int{-1, 101, 1000} {
		_, err := DefaultPagination.Params(dto.ListQuery{Limit: limit})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "limit %d", limit)
	}
	_, err := DefaultPagination.Params(dto.ListQuery{Limit: 100})
	assert.NoError(t, err)
}

func TestNormalizeRUT(t *testing.T) {
	got, err := normalizeRUT("tax_id", "33.333.333-3")
	require.NoError(t, err)
	assert.Equal(t, "33333333-3", got)

	_, err = normalizeRUT("tax_id", "33.333.333-4")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = normalizeRUT("tax_id", " ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
