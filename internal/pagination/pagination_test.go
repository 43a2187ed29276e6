package pagination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name              string
		page, limit       int
		defPage, defLimit int
		want              Pagination
	}{
		{name: "defaults when absent", defPage: 1, defLimit: 10, want: Pagination{Page: 1, Limit: 10, Skip: 0}},
		{name: "requested values win", page: 3, limit: 5, defPage: 1, defLimit: 10, want: Pagination{Page: 3, Limit: 5, Skip: 10}},
		{name: "only page requested", page: 2, defPage: 1, defLimit: 10, want: Pagination{Page: 2, Limit: 10, Skip: 10}},
		{name: "only limit requested", limit: 25, defPage: 1, defLimit: 10, want: Pagination{Page: 1, Limit: 25, Skip: 0}},
		{name: "limit is not capped", page: 1, limit: 100000, defPage: 1, defLimit: 10, want: Pagination{Page: 1, Limit: 100000, Skip: 0}},
		{name: "custom defaults", defPage: 2, defLimit: 20, want: Pagination{Page: 2, Limit: 20, Skip: 20}},
		{name: "skip saturates", page: math.MaxInt, limit: 2, defPage: 1, defLimit: 10, want: Pagination{Page: math.MaxInt, Limit: 2, Skip: math.MaxInt}},
		{name: "huge limit on first page", page: 1, limit: math.MaxInt, defPage: 1, defLimit: 10, want: Pagination{Page: 1, Limit: math.MaxInt, Skip: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.page, tt.limit, tt.defPage, tt.defLimit)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultsResolve(t *testing.T) {
	d := Defaults{Page: 1, Limit: 10}
	assert.Equal(t, Pagination{Page: 4, Limit: 10, Skip: 30}, d.Resolve(4, 0))
}

func TestOverflows(t *testing.T) {
	assert.False(t, Pagination{Page: 1, Limit: math.MaxInt}.Overflows())
	assert.False(t, Pagination{Page: 2, Limit: math.MaxInt}.Overflows())
	assert.True(t, Pagination{Page: 3, Limit: math.MaxInt/2 + 1}.Overflows())
	assert.True(t, Pagination{Page: math.MaxInt, Limit: 2}.Overflows())
	assert.False(t, Pagination{Page: math.MaxInt, Limit: 1}.Overflows())
}

func TestNewPage_NilData(t *testing.T) {
	p := NewPage[int](nil, 0, Pagination{Page: 1, Limit: 10})
	assert.NotNil(t, p.Data)
	assert.Empty(t, p.Data)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Limit)
}
