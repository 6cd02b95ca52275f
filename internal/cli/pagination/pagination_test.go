package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carbonflow/carbonflow/internal/factors"
	"github.com/carbonflow/carbonflow/internal/model"
	"github.com/carbonflow/carbonflow/internal/service"
)

func TestPaginationParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  PaginationParams
		wantErr error
	}{
		{name: "zero value", params: PaginationParams{}},
		{name: "offset mode", params: PaginationParams{Limit: 10, Offset: 20}},
		{name: "page mode", params: PaginationParams{Page: 2, PageSize: 10}},
		{name: "negative limit", params: PaginationParams{Limit: -1}, wantErr: ErrNegative},
		{name: "negative page size", params: PaginationParams{PageSize: -5}, wantErr: ErrNegative},
		{name: "mixed modes", params: PaginationParams{Page: 1, PageSize: 2, Offset: 3}, wantErr: ErrMixedModes},
		{name: "page without size", params: PaginationParams{Page: 1}, wantErr: ErrPageWithoutSize},
		{name: "size without page", params: PaginationParams{PageSize: 10}, wantErr: ErrSizeWithoutPage},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.params.Validate()
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestApply(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	tests := []struct {
		name   string
		params PaginationParams
		want   []int
	}{
		{name: "no paging", params: PaginationParams{}, want: items},
		{name: "limit", params: PaginationParams{Limit: 3}, want: []int{1, 2, 3}},
		{name: "offset and limit", params: PaginationParams{Offset: 5, Limit: 3}, want: []int{6, 7}},
		{name: "offset past end", params: PaginationParams{Offset: 10}, want: []int{}},
		{name: "second page", params: PaginationParams{Page: 2, PageSize: 3}, want: []int{4, 5, 6}},
		{name: "page past end shows last", params: PaginationParams{Page: 9, PageSize: 3}, want: []int{7}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Apply(tc.params, items))
		})
	}

	assert.Empty(t, Apply(PaginationParams{Limit: 2}, []string{}))
}

func TestNewPaginationMeta(t *testing.T) {
	tests := []struct {
		name   string
		params PaginationParams
		total  int
		want   PaginationMeta
	}{
		{
			name:  "single page",
			total: 4,
			want:  PaginationMeta{CurrentPage: 1, PageSize: 4, TotalPages: 1, TotalItems: 4},
		},
		{
			name:   "middle page",
			params: PaginationParams{Page: 2, PageSize: 3},
			total:  7,
			want: PaginationMeta{
				CurrentPage: 2, PageSize: 3, TotalPages: 3, TotalItems: 7,
				HasPrevious: true, HasNext: true,
			},
		},
		{
			name:   "offset converted to page",
			params: PaginationParams{Offset: 6, Limit: 3},
			total:  7,
			want: PaginationMeta{
				CurrentPage: 3, PageSize: 3, TotalPages: 3, TotalItems: 7,
				HasPrevious: true,
			},
		},
		{
			name:  "empty",
			total: 0,
			want:  PaginationMeta{CurrentPage: 1},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NewPaginationMeta(tc.params, tc.total))
		})
	}
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		expr      string
		wantField string
		wantOrder string
		wantErr   error
	}{
		{expr: "", wantField: "", wantOrder: SortOrderAsc},
		{expr: "gwp", wantField: "gwp", wantOrder: SortOrderAsc},
		{expr: "gwp:DESC", wantField: "gwp", wantOrder: SortOrderDesc},
		{expr: " name : asc ", wantField: "name", wantOrder: SortOrderAsc},
		{expr: "a:b:c", wantErr: ErrInvalidSortFormat},
		{expr: ":desc", wantErr: ErrInvalidSortFormat},
		{expr: "gwp:up", wantErr: ErrInvalidSortOrder},
	}

	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			field, order, err := ParseSort(tc.expr)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantField, field)
			assert.Equal(t, tc.wantOrder, order)
		})
	}
}

func batchItem(index int, name string, gwp float64, failed bool) service.BatchItem {
	item := service.BatchItem{Index: index, Name: name}
	if failed {
		item.Error = "boom"
		return item
	}
	item.Result = &model.LCAResult{Impacts: []model.ImpactResult{{Category: factors.GWP, Value: gwp}}}
	return item
}

func names(items []service.BatchItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func TestSortBatchItems(t *testing.T) {
	items := []service.BatchItem{
		batchItem(0, "chair", 30, false),
		batchItem(1, "table", 0, true),
		batchItem(2, "bench", 50, false),
	}

	tests := []struct {
		field, order string
		want         []string
	}{
		{"", SortOrderAsc, []string{"chair", "table", "bench"}},
		{FieldName, SortOrderAsc, []string{"bench", "chair", "table"}},
		{FieldGWP, SortOrderDesc, []string{"bench", "chair", "table"}},
		{FieldGWP, SortOrderAsc, []string{"table", "chair", "bench"}},
		{FieldStatus, SortOrderAsc, []string{"chair", "bench", "table"}},
		{FieldIndex, SortOrderDesc, []string{"bench", "table", "chair"}},
	}

	for _, tc := range tests {
		t.Run(tc.field+":"+tc.order, func(t *testing.T) {
			got, err := SortBatchItems(items, tc.field, tc.order)
			require.NoError(t, err)
			assert.Equal(t, tc.want, names(got))
		})
	}

	_, err := SortBatchItems(items, "colour", SortOrderAsc)
	require.ErrorIs(t, err, ErrInvalidSortField)
	assert.Equal(t, []string{"chair", "table", "bench"}, names(items), "input untouched")
}
