// Package usecase implements the cart operations of a ready buyer session.
package usecase

import (
	"context"
	"fmt"

	"agrimarket_backend/internal/feature/cart/domain/entity"
)

// CartStore はユーザーごとのカートのスナップショットを保存します。
// 変更のたびにカート全体を書き込みます。
type CartStore interface {
	// Load はカートを返します。保存されていない場合は空のカートを返します。
	Load(ctx context.Context, userID string) (*entity.Cart, error)
	// Save はカート全体を上書き保存します。
	Save(ctx context.Context, userID string, cart *entity.Cart) error
}

// ValidationError reports an item that cannot be added.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AddInput は追加する商品のスナップショットです。
type AddInput struct {
	ProductID    string
	Name         string
	Price        float64
	Image        string
	SellerName   string
	DeliveryDays int
	PaymentMode  string
}

type cartUsecase struct {
	store CartStore
}

// NewCartUsecase はcartUsecaseの新しいインスタンスを生成します。
func NewCartUsecase(store CartStore) *cartUsecase {
	return &cartUsecase{store: store}
}

// Get は現在のカートを返します。
func (u *cartUsecase) Get(ctx context.Context, userID string) (*entity.Cart, error) {
	c, err := u.store.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return c, nil
}

// Add は商品をカートに追加します。同じ商品が既にあれば数量を1増やします。
// カタログ上の存在確認や在庫の引き当ては行いません。
func (u *cartUsecase) Add(ctx context.Context, userID string, in AddInput) (*entity.Cart, error) {
	if in.ProductID == "" {
		return nil, &ValidationError{Message: "Product id is required"}
	}
	if in.Price < 0 {
		return nil, &ValidationError{Message: "Price must not be negative"}
	}
	mode, ok := entity.ParsePaymentMode(in.PaymentMode)
	if !ok {
		return nil, &ValidationError{Message: "Invalid payment mode"}
	}

	return u.mutate(ctx, userID, func(c *entity.Cart) {
		c.Add(entity.Item{
			ProductID:    in.ProductID,
			Name:         in.Name,
			Price:        in.Price,
			Image:        in.Image,
			SellerName:   in.SellerName,
			DeliveryDays: in.DeliveryDays,
			PaymentMode:  mode,
		})
	})
}

// UpdateQuantity は数量を設定します。0以下は削除と同じです。
func (u *cartUsecase) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*entity.Cart, error) {
	return u.mutate(ctx, userID, func(c *entity.Cart) {
		c.UpdateQuantity(productID, quantity)
	})
}

// Remove は商品をカートから削除します。
func (u *cartUsecase) Remove(ctx context.Context, userID, productID string) (*entity.Cart, error) {
	return u.mutate(ctx, userID, func(c *entity.Cart) {
		c.Remove(productID)
	})
}

func (u *cartUsecase) mutate(ctx context.Context, userID string, fn func(c *entity.Cart)) (*entity.Cart, error) {
	c, err := u.store.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	fn(c)
	if err := u.store.Save(ctx, userID, c); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return c, nil
}
