// Package dto defines data transfer objects for the catalog feature's HTTP transport layer.
package dto

import "agrimarket_backend/internal/feature/catalog/domain/entity"

// CreateProductReq is the request body for creating a product listing.
type CreateProductReq struct {
	SellerID     string  `json:"sellerId"`
	SellerName   string  `json:"sellerName"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Contact      string  `json:"contact"`
	Image        string  `json:"image"`
	Category     string  `json:"category"`
	Age          string  `json:"age"`
	DeliveryDays int     `json:"deliveryDays"`
}

// CreateByProductReq is the request body for creating a by-product listing.
type CreateByProductReq struct {
	SellerID    string  `json:"sellerId"`
	SellerName  string  `json:"sellerName"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Price       float64 `json:"price"`
	Quantity    string  `json:"quantity"`
	Contact     string  `json:"contact"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
}

type ProductListRes struct {
	Products []entity.Product `json:"products"`
}

type ProductRes struct {
	Product *entity.Product `json:"product"`
}

type ByProductListRes struct {
	ByProducts []entity.ByProduct `json:"byProducts"`
}

type ByProductRes struct {
	ByProduct *entity.ByProduct `json:"byProduct"`
}
