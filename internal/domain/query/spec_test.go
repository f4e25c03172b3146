package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/bootcamp-directory/pkg/apperror"
)

func mustValues(t *testing.T, raw string) url.Values {
	t.Helper()
	v, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return v
}

func TestParse_Example(t *testing.T) {
	spec, err := Parse(mustValues(t, "price[gte]=100&select=name,price&sort=-price&page=2&limit=10"))
	require.NoError(t, err)

	assert.Equal(t, []Predicate{{Field: "price", Op: OpGte, Values: []string{"100"}}}, spec.Filters)
	assert.Equal(t, []string{"name", "price"}, spec.Select)
	assert.Equal(t, []SortKey{{Field: "price", Desc: true}}, spec.Sort)
	assert.Equal(t, 2, spec.Page)
	assert.Equal(t, 10, spec.Limit)
	assert.Equal(t, 10, spec.Offset())
}

func TestParse_ReservedNeverFilter(t *testing.T) {
	spec, err := Parse(mustValues(t, "select=name&sort=name&page=1&limit=5"))
	require.NoError(t, err)
	assert.Empty(t, spec.Filters)
}

func TestParse_Defaults(t *testing.T) {
	tests := []struct {
		raw   string
		page  int
		limit int
	}{
		{"", DefaultPage, DefaultLimit},
		{"page=abc&limit=-3", DefaultPage, DefaultLimit},
		{"page=0&limit=0", DefaultPage, DefaultLimit},
		{"page=3&limit=1000", 3, MaxLimit},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			spec, err := Parse(mustValues(t, tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.page, spec.Page)
			assert.Equal(t, tt.limit, spec.Limit)
		})
	}
}

func TestParse_Operators(t *testing.T) {
	spec, err := Parse(mustValues(t, "averageCost[lt]=10000&housing=true&careers[in]=Business,UI/UX&careers[in]=Other&weeks[GT]=4"))
	require.NoError(t, err)

	assert.ElementsMatch(t, []Predicate{
		{Field: "averageCost", Op: OpLt, Values: []string{"10000"}},
		{Field: "careers", Op: OpIn, Values: []string{"Business", "UI/UX", "Other"}},
		{Field: "housing", Op: OpEq, Values: []string{"true"}},
		{Field: "weeks", Op: OpGt, Values: []string{"4"}},
	}, spec.Filters)
}

func TestParse_Rejects(t *testing.T) {
	for _, raw := range []string{
		"price[regex]=.*",
		"price[gte=1",
		"[gte]=1",
		"price]=1",
		"careers[in]=,",
	} {
		t.Run(raw, func(t *testing.T) {
			_, err := Parse(mustValues(t, raw))
			require.Error(t, err)
			assert.True(t, apperror.Is(err, apperror.KindValidation))
		})
	}
}

func TestSpec_Pagination(t *testing.T) {
	s := Spec{Page: 2, Limit: 10}
	assert.True(t, s.HasPrev())
	assert.True(t, s.HasNext(21))
	assert.False(t, s.HasNext(20))

	first := Spec{Page: 1, Limit: 10}
	assert.False(t, first.HasPrev())
}
