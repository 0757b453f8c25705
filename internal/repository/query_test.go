package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestListQueryFilter(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		filter := ListQuery{}.Filter()
		assert.Empty(t, filter)
	})

	t.Run("Search", func(t *testing.T) {
		filter := ListQuery{Search: "widget"}.Filter()

		name, ok := filter["name"].(bson.M)
		require.True(t, ok)
		assert.Equal(t, "widget", name["$regex"])
		assert.Equal(t, "i", name["$options"])
	})

	t.Run("SearchEscapesRegexMeta", func(t *testing.T) {
		filter := ListQuery{Search: "50% off (today)"}.Filter()

		name := filter["name"].(bson.M)
		assert.Equal(t, `50% off \(today\)`, name["$regex"])
	})

	t.Run("Category", func(t *testing.T) {
		filter := ListQuery{Category: "Books"}.Filter()
		assert.Equal(t, "Books", filter["category"])
	})

	t.Run("CategoryAllIsNoFilter", func(t *testing.T) {
		filter := ListQuery{Category: "all"}.Filter()
		assert.NotContains(t, filter, "category")
	})

	t.Run("UnknownCategoryIsDataNotError", func(t *testing.T) {
		// An out-of-enum category still becomes an exact-match filter;
		// it yields zero results rather than an error.
		filter := ListQuery{Category: "Gadgets"}.Filter()
		assert.Equal(t, "Gadgets", filter["category"])
	})
}

func TestListQuerySortSpec(t *testing.T) {
	cases := []struct {
		sort      string
		wantField string
		wantOrder int
	}{
		{"price_low", "price", 1},
		{"price_high", "price", -1},
		{"name", "name", 1},
		{"", "created_at", -1},
		{"bogus", "created_at", -1},
	}

	for _, tc := range cases {
		t.Run(tc.sort, func(t *testing.T) {
			spec := ListQuery{Sort: tc.sort}.SortSpec()
			require.Len(t, spec, 1)
			assert.Equal(t, tc.wantField, spec[0].Key)
			assert.Equal(t, tc.wantOrder, spec[0].Value)
		})
	}
}

func TestListQuerySkip(t *testing.T) {
	assert.Equal(t, int64(0), ListQuery{Page: 1, Limit: 10}.Skip())
	assert.Equal(t, int64(10), ListQuery{Page: 2, Limit: 10}.Skip())
	assert.Equal(t, int64(12), ListQuery{Page: 3, Limit: 6}.Skip())
}

func TestNewPageMeta(t *testing.T) {
	t.Run("ExactFit", func(t *testing.T) {
		meta := NewPageMeta(20, 1, 10)
		assert.Equal(t, 2, meta.TotalPages)
		assert.Equal(t, int64(20), meta.TotalProducts)
		assert.True(t, meta.HasNext)
		assert.False(t, meta.HasPrev)
	})

	t.Run("PartialLastPage", func(t *testing.T) {
		meta := NewPageMeta(21, 3, 10)
		assert.Equal(t, 3, meta.TotalPages)
		assert.False(t, meta.HasNext)
		assert.True(t, meta.HasPrev)
	})

	t.Run("Empty", func(t *testing.T) {
		meta := NewPageMeta(0, 1, 10)
		assert.Equal(t, 0, meta.TotalPages)
		assert.False(t, meta.HasNext)
		assert.False(t, meta.HasPrev)
	})

	t.Run("CeilInvariant", func(t *testing.T) {
		for total := int64(0); total <= 50; total++ {
			for limit := 1; limit <= 7; limit++ {
				meta := NewPageMeta(total, 1, limit)
				want := int(total) / limit
				if int(total)%limit != 0 {
					want++
				}
				require.Equal(t, want, meta.TotalPages,
					"total=%d limit=%d", total, limit)
			}
		}
	})

	t.Run("PageBeyondLast", func(t *testing.T) {
		meta := NewPageMeta(5, 4, 10)
		assert.Equal(t, 1, meta.TotalPages)
		assert.Equal(t, 4, meta.CurrentPage)
		assert.False(t, meta.HasNext)
		assert.True(t, meta.HasPrev)
	})
}
