package entity

import (
	"net/url"
	"time"
)

// ByProductType classifies agricultural leftovers offered on the by-products marketplace.
type ByProductType string

const (
	ByProductTypeWaste      ByProductType = "waste-product"
	ByProductTypeByProduct  ByProductType = "byproduct"
	ByProductTypeCattleFeed ByProductType = "cattle-feed"

	// ByProductTypeAll is accepted by listings and means "no type filter".
	ByProductTypeAll ByProductType = "all"
)

// ParseByProductType returns the listing type named by s, or false if s is unknown.
// "all" is not a listing type.
func ParseByProductType(s string) (ByProductType, bool) {
	switch t := ByProductType(s); t {
	case ByProductTypeWaste, ByProductTypeByProduct, ByProductTypeCattleFeed:
		return t, true
	}
	return "", false
}

// ByProduct is a listing of agricultural waste, by-product or cattle feed.
type ByProduct struct {
	ID          string        `json:"id"`
	SellerID    string        `json:"sellerId"`
	SellerName  string        `json:"sellerName"`
	Name        string        `json:"name"`
	Type        ByProductType `json:"type"`
	Price       float64       `json:"price"`
	Quantity    string        `json:"quantity"`
	Contact     string        `json:"contact"`
	Image       string        `json:"image"`
	Description string        `json:"description"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// ByProductFilter narrows a by-product listing. Empty fields do not filter.
type ByProductFilter struct {
	Type     ByProductType
	SellerID string
}

// Matches reports whether b satisfies every non-empty field of f.
func (f ByProductFilter) Matches(b *ByProduct) bool {
	if f.Type != "" && f.Type != ByProductTypeAll && b.Type != f.Type {
		return false
	}
	if f.SellerID != "" && b.SellerID != f.SellerID {
		return false
	}
	return true
}

// CacheKey identifies the filter inside a cache namespace.
func (f ByProductFilter) CacheKey() string {
	t := f.Type
	if t == ByProductTypeAll {
		t = ""
	}
	return url.Values{
		"type":     {string(t)},
		"sellerId": {f.SellerID},
	}.Encode()
}
