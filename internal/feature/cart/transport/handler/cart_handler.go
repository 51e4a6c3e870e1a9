// Package handler はcartフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"agrimarket_backend/internal/api"
	"agrimarket_backend/internal/feature/cart/domain/entity"
	"agrimarket_backend/internal/feature/cart/usecase"
	session "agrimarket_backend/internal/feature/session/domain/entity"
	"agrimarket_backend/internal/feature/session/transport/middleware"
)

const (
	msgInvalidBody   = "Invalid request body"
	msgInternalError = "Internal server error"
)

// CartUsecase はカート操作のユースケースを定義します。
type CartUsecase interface {
	Get(ctx context.Context, userID string) (*entity.Cart, error)
	Add(ctx context.Context, userID string, in usecase.AddInput) (*entity.Cart, error)
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*entity.Cart, error)
	Remove(ctx context.Context, userID, productID string) (*entity.Cart, error)
}

// AddItemReq は POST /api/cart/items のリクエストボディです。
type AddItemReq struct {
	ProductID    string  `json:"productId"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Image        string  `json:"image"`
	SellerName   string  `json:"sellerName"`
	DeliveryDays int     `json:"deliveryDays"`
	PaymentMode  string  `json:"paymentMode"`
}

// UpdateQuantityReq は PATCH /api/cart/items/:productId のリクエストボディです。
type UpdateQuantityReq struct {
	Quantity *int `json:"quantity"`
}

// CartRes はカートの内容と合計金額です。
type CartRes struct {
	Items []entity.Item `json:"items"`
	Total float64       `json:"total"`
}

type CartHandler struct {
	carts CartUsecase
}

func NewCartHandler(carts CartUsecase) *CartHandler {
	return &CartHandler{carts: carts}
}

// Get は GET /api/cart を処理します。
func (h *CartHandler) Get(c *gin.Context) {
	userID, ok := readyUser(c)
	if !ok {
		return
	}
	cart, err := h.carts.Get(c.Request.Context(), userID)
	h.respond(c, cart, err)
}

// AddItem は POST /api/cart/items を処理します。
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, ok := readyUser(c)
	if !ok {
		return
	}
	var req AddItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: msgInvalidBody})
		return
	}
	cart, err := h.carts.Add(c.Request.Context(), userID, usecase.AddInput{
		ProductID:    req.ProductID,
		Name:         req.Name,
		Price:        req.Price,
		Image:        req.Image,
		SellerName:   req.SellerName,
		DeliveryDays: req.DeliveryDays,
		PaymentMode:  req.PaymentMode,
	})
	h.respond(c, cart, err)
}

// UpdateQuantity は PATCH /api/cart/items/:productId を処理します。
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	userID, ok := readyUser(c)
	if !ok {
		return
	}
	var req UpdateQuantityReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: msgInvalidBody})
		return
	}
	cart, err := h.carts.UpdateQuantity(c.Request.Context(), userID, c.Param("productId"), *req.Quantity)
	h.respond(c, cart, err)
}

// RemoveItem は DELETE /api/cart/items/:productId を処理します。
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, ok := readyUser(c)
	if !ok {
		return
	}
	cart, err := h.carts.Remove(c.Request.Context(), userID, c.Param("productId"))
	h.respond(c, cart, err)
}

// readyUser はセッションがReadyであることを確認し、ユーザーIDを返します。
func readyUser(c *gin.Context) (string, bool) {
	s := session.FromContext(c.Request.Context())
	if err := s.Require(session.StageReady); err != nil {
		middleware.AbortWithStageError(c, err)
		return "", false
	}
	return s.UserID, true
}

func (h *CartHandler) respond(c *gin.Context, cart *entity.Cart, err error) {
	if err != nil {
		var vErr *usecase.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: vErr.Message})
			return
		}
		slog.Error("cart request failed", "error", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: msgInternalError})
		return
	}
	items := cart.Items
	if items == nil {
		items = []entity.Item{}
	}
	c.JSON(http.StatusOK, CartRes{Items: items, Total: cart.Total()})
}
