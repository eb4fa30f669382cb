package grid

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Romer4ig/image-moderation/internal/utils/platformerrors"
)

func TestParseQueryDefaults(t *testing.T) {
	q, err := ParseQuery(context.Background(), RawQuery{})
	require.NoError(t, err)

	assert.False(t, q.ExplicitProjects)
	assert.Nil(t, q.VisibleProjectIDs)
	assert.Equal(t, SortByID, q.Sort)
	assert.Equal(t, OrderAsc, q.Order)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, DefaultPerPage, q.PerPage)
	assert.Equal(t, 0, q.Offset())
}

func TestParseQuery(t *testing.T) {
	empty := ""
	ids := " p1, p2,,p1 "

	tests := []struct {
		name  string
		raw   RawQuery
		check func(t *testing.T, q Query)
	}{
		{
			name: "explicit empty project list",
			raw:  RawQuery{VisibleProjectIDs: &empty},
			check: func(t *testing.T, q Query) {
				assert.True(t, q.ExplicitProjects)
				assert.Equal(t, []string{}, q.VisibleProjectIDs)
			},
		},
		{
			name: "project ids are trimmed and deduplicated",
			raw:  RawQuery{VisibleProjectIDs: &ids},
			check: func(t *testing.T, q Query) {
				assert.Equal(t, []string{"p1", "p2"}, q.VisibleProjectIDs)
			},
		},
		{
			name: "per_page above the maximum is clamped",
			raw:  RawQuery{PerPage: "5000"},
			check: func(t *testing.T, q Query) {
				assert.Equal(t, MaxPerPage, q.PerPage)
			},
		},
		{
			name: "per_page below the minimum is clamped",
			raw:  RawQuery{PerPage: "0"},
			check: func(t *testing.T, q Query) {
				assert.Equal(t, MinPerPage, q.PerPage)
			},
		},
		{
			name: "page below one becomes one",
			raw:  RawQuery{Page: "-3"},
			check: func(t *testing.T, q Query) {
				assert.Equal(t, 1, q.Page)
			},
		},
		{
			name: "sort and order are case insensitive",
			raw:  RawQuery{Sort: "Last_Generation_At", Order: "DESC", Page: "3", PerPage: "20"},
			check: func(t *testing.T, q Query) {
				assert.Equal(t, SortByLastGenerationAt, q.Sort)
				assert.Equal(t, OrderDesc, q.Order)
				assert.Equal(t, 40, q.Offset())
			},
		},
		{
			name: "filters",
			raw:  RawQuery{Advanced: "no_dynamic", StatusFilter: "not_selected", Search: "  fox ", Type: " anime "},
			check: func(t *testing.T, q Query) {
				assert.Equal(t, AdvancedNoDynamic, q.Advanced)
				assert.Equal(t, StatusFilterNotSelected, q.StatusFilter)
				assert.Equal(t, "fox", q.Search)
				assert.Equal(t, "anime", q.Type)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := ParseQuery(context.Background(), tt.raw)
			require.NoError(t, err)
			tt.check(t, q)
		})
	}
}

func TestParseQueryRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		raw  RawQuery
	}{
		{"non-integer page", RawQuery{Page: "two"}},
		{"non-integer per_page", RawQuery{PerPage: "lots"}},
		{"unknown sort", RawQuery{Sort: "popularity"}},
		{"unknown order", RawQuery{Order: "sideways"}},
		{"unknown advanced filter", RawQuery{Advanced: "has_image"}},
		{"unknown status filter", RawQuery{StatusFilter: "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseQuery(context.Background(), tt.raw)
			require.Error(t, err)
			assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
		})
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, totalPages(0, 100))
	assert.Equal(t, 1, totalPages(100, 100))
	assert.Equal(t, 2, totalPages(101, 100))
}
