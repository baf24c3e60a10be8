package fetch_test

import (
	"testing"

	"shop/internal/core/domain/model/fetch"
	"shop/internal/core/domain/model/order"
	"shop/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		version  string
		expected fetch.Strategy
	}{
		{"v1", fetch.NaiveEntity},
		{"v2", fetch.DTOPostMap},
		{"v3", fetch.FetchJoin},
		{"v3.1", fetch.SplitBatched},
		{"v4", fetch.ProjectionLoop},
		{"v5", fetch.ProjectionBatched},
		{"v6", fetch.FlatProjection},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			s, err := fetch.ParseVersion(tt.version)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, s)
			assert.Equal(t, tt.version, s.Version())
		})
	}

	t.Run("unknown version", func(t *testing.T) {
		s, err := fetch.ParseVersion("v7")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, fetch.Unknown, s)
	})
}

func TestStrategy_Pagination(t *testing.T) {
	for _, s := range fetch.All() {
		multiplies := s == fetch.FetchJoin || s == fetch.FlatProjection
		assert.Equal(t, multiplies, s.MultipliesRows(), s.Version())
		assert.Equal(t, !multiplies, s.Paginable(), s.Version())
	}

	assert.True(t, fetch.SplitBatched.AlwaysPaged())
	assert.False(t, fetch.ProjectionBatched.AlwaysPaged())
	assert.False(t, fetch.Unknown.Paginable())
}

func TestParseSimpleVersion(t *testing.T) {
	for _, s := range fetch.AllSimple() {
		parsed, err := fetch.ParseSimpleVersion(s.Version())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := fetch.ParseSimpleVersion("v5")
	require.Error(t, err)
	assert.Equal(t, "simple-v3", fetch.SimpleFetchJoin.String())
}

func TestNewPage(t *testing.T) {
	p, err := fetch.NewPage(10, 5)
	require.NoError(t, err)
	require.NoError(t, p.Validate())
	assert.Equal(t, 10, p.Offset())
	assert.Equal(t, 5, p.Limit())

	_, err = fetch.NewPage(-1, 0)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	assert.Contains(t, err.Error(), "offset")
	assert.Contains(t, err.Error(), "limit")

	require.ErrorIs(t, fetch.Page{}.Validate(), fetch.ErrPageIsNotConstructed)
}

func TestOrderSearch(t *testing.T) {
	assert.True(t, fetch.OrderSearch{}.IsEmpty())
	assert.False(t, fetch.OrderSearch{MemberName: "userA"}.IsEmpty())
	require.NoError(t, fetch.OrderSearch{}.Validate())
	require.NoError(t, fetch.OrderSearch{Status: order.Cancelled}.Validate())
	require.Error(t, fetch.OrderSearch{Status: order.Status(9)}.Validate())
}
