// Package handler はcatalogフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	"agrimarket_backend/internal/api"
	"agrimarket_backend/internal/feature/catalog/domain/entity"
	"agrimarket_backend/internal/feature/catalog/transport/http/dto"
	"agrimarket_backend/internal/feature/catalog/usecase"
)

const (
	msgInvalidBody   = "Invalid request body"
	msgInvalidQuery  = "Invalid query parameter"
	msgInternalError = "Internal server error"
)

// CatalogUsecase は商品・副産物カタログのユースケースを定義します。
type CatalogUsecase interface {
	ListProducts(ctx context.Context, f entity.ProductFilter) ([]entity.Product, error)
	CreateProduct(ctx context.Context, in usecase.ProductInput) (*entity.Product, error)
	ListByProducts(ctx context.Context, f entity.ByProductFilter) ([]entity.ByProduct, error)
	CreateByProduct(ctx context.Context, in usecase.ByProductInput) (*entity.ByProduct, error)
}

// CatalogHandler はカタログ関連のHTTPリクエストを処理します。
type CatalogHandler struct {
	catalog CatalogUsecase
}

// NewCatalogHandler はCatalogHandlerの新しいインスタンスを生成します。
func NewCatalogHandler(catalog CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListProducts は GET /api/products を処理します。
// クエリ category, sellerId で絞り込みます（未指定は絞り込みなし）。
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var category, sellerID string
	query := c.Request.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "category", query, &category); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: msgInvalidQuery})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "sellerId", query, &sellerID); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: msgInvalidQuery})
		return
	}

	ps, err := h.catalog.ListProducts(c.Request.Context(), entity.ProductFilter{
		Category: entity.Category(category),
		SellerID: sellerID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	if ps == nil {
		ps = []entity.Product{}
	}
	c.JSON(http.StatusOK, dto.ProductListRes{Products: ps})
}

// CreateProduct は POST /api/products を処理します。成功時は201を返します。
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req dto.CreateProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("create product request malformed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: msgInvalidBody})
		return
	}

	p, err := h.catalog.CreateProduct(c.Request.Context(), usecase.ProductInput{
		SellerID:     req.SellerID,
		SellerName:   req.SellerName,
		Name:         req.Name,
		Price:        req.Price,
		Contact:      req.Contact,
		Image:        req.Image,
		Category:     req.Category,
		Age:          req.Age,
		DeliveryDays: req.DeliveryDays,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	slog.Info("product listed", "id", p.ID, "seller_id", p.SellerID, "category", p.Category)
	c.JSON(http.StatusCreated, dto.ProductRes{Product: p})
}

// ListByProducts は GET /api/byproducts を処理します。
// type=all は種別で絞り込みません。
func (h *CatalogHandler) ListByProducts(c *gin.Context) {
	var typ, sellerID string
	query := c.Request.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "type", query, &typ); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: msgInvalidQuery})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "sellerId", query, &sellerID); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: msgInvalidQuery})
		return
	}

	bs, err := h.catalog.ListByProducts(c.Request.Context(), entity.ByProductFilter{
		Type:     entity.ByProductType(typ),
		SellerID: sellerID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	if bs == nil {
		bs = []entity.ByProduct{}
	}
	c.JSON(http.StatusOK, dto.ByProductListRes{ByProducts: bs})
}

// CreateByProduct は POST /api/byproducts を処理します。
func (h *CatalogHandler) CreateByProduct(c *gin.Context) {
	var req dto.CreateByProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("create by-product request malformed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: msgInvalidBody})
		return
	}

	b, err := h.catalog.CreateByProduct(c.Request.Context(), usecase.ByProductInput{
		SellerID:    req.SellerID,
		SellerName:  req.SellerName,
		Name:        req.Name,
		Type:        req.Type,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Contact:     req.Contact,
		Image:       req.Image,
		Description: req.Description,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	slog.Info("by-product listed", "id", b.ID, "seller_id", b.SellerID, "type", b.Type)
	c.JSON(http.StatusCreated, dto.ByProductRes{ByProduct: b})
}

func writeError(c *gin.Context, err error) {
	var vErr *usecase.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: vErr.Message})
		return
	}
	slog.Error("catalog request failed", "error", err, "path", c.FullPath())
	c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: msgInternalError})
}
