package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductFilter_CacheKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		filter   ProductFilter
		expected string
	}{
		{"empty filter", ProductFilter{}, "category=&sellerId="},
		{"category only", ProductFilter{Category: CategoryCrop}, "category=Crop&sellerId="},
		{"category and seller", ProductFilter{Category: CategoryDairy, SellerID: "user_1"}, "category=Dairy&sellerId=user_1"},
		{"separators are escaped", ProductFilter{Category: "a:b&c", SellerID: "x=y"}, "category=a%3Ab%26c&sellerId=x%3Dy"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.filter.CacheKey())
		})
	}
}

func TestProductFilter_CacheKey_Distinct(t *testing.T) {
	t.Parallel()

	pairs := [][2]ProductFilter{
		{{Category: "Dairy_user", SellerID: "1"}, {Category: "Dairy", SellerID: "user_1"}},
		{{Category: "Dairy:x"}, {Category: "Dairy", SellerID: "x"}},
		{{Category: "Dairy x"}, {Category: "Dairy_x"}},
	}

	for _, p := range pairs {
		assert.NotEqual(t, p[0].CacheKey(), p[1].CacheKey(), "%+v and %+v must not share a key", p[0], p[1])
	}
}

func TestByProductFilter_CacheKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		filter   ByProductFilter
		expected string
	}{
		{"empty filter", ByProductFilter{}, "sellerId=&type="},
		{"all is the same as no type", ByProductFilter{Type: ByProductTypeAll}, "sellerId=&type="},
		{"type and seller", ByProductFilter{Type: ByProductTypeCattleFeed, SellerID: "user_2"}, "sellerId=user_2&type=cattle-feed"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.filter.CacheKey())
		})
	}

	assert.NotEqual(t,
		ByProductFilter{Type: "byproduct_user", SellerID: "1"}.CacheKey(),
		ByProductFilter{Type: ByProductTypeByProduct, SellerID: "user_1"}.CacheKey(),
	)
}
