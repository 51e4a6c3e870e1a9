// Package entity defines the domain models for the catalog feature.
package entity

import (
	"net/url"
	"time"
)

// Category is one of the fixed marketplace sections a product is listed under.
type Category string

const (
	CategoryGrocery   Category = "Grocery"
	CategoryDairy     Category = "Dairy"
	CategoryFlorist   Category = "Florist"
	CategoryCrop      Category = "Crop"
	CategoryLivestock Category = "Livestock"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryGrocery,
	CategoryDairy,
	CategoryFlorist,
	CategoryCrop,
	CategoryLivestock,
}

// ParseCategory returns the Category named by s, or false if s is not a known category.
// The match is exact and case-sensitive.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// DefaultDeliveryDays is applied when a seller does not state a delivery time.
const DefaultDeliveryDays = 3

// Product is a seller's listing in one category.
type Product struct {
	ID           string    `json:"id"`
	SellerID     string    `json:"sellerId"`
	SellerName   string    `json:"sellerName"`
	Name         string    `json:"name"`
	Price        float64   `json:"price"`
	Contact      string    `json:"contact"`
	Image        string    `json:"image"`
	Category     Category  `json:"category"`
	Age          string    `json:"age,omitempty"`
	DeliveryDays int       `json:"deliveryDays"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ProductFilter narrows a product listing. Empty fields do not filter.
type ProductFilter struct {
	Category Category
	SellerID string
}

// Matches reports whether p satisfies every non-empty field of f.
func (f ProductFilter) Matches(p *Product) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.SellerID != "" && p.SellerID != f.SellerID {
		return false
	}
	return true
}

// CacheKey identifies the filter inside a cache namespace.
// Field values are query-escaped so distinct filters never share a key.
func (f ProductFilter) CacheKey() string {
	return url.Values{
		"category": {string(f.Category)},
		"sellerId": {f.SellerID},
	}.Encode()
}
