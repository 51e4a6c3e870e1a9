package usecase

import (
	"context"
	"fmt"
	"time"

	"agrimarket_backend/internal/feature/catalog/domain/entity"
)

// ProductRepository は商品の保存と検索を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type ProductRepository interface {
	// Insert は商品を末尾に追加します。
	Insert(ctx context.Context, p *entity.Product) error
	// Find はフィルタに一致する商品を登録順に返します。
	Find(ctx context.Context, f entity.ProductFilter) ([]entity.Product, error)
}

// ByProductRepository は副産物の保存と検索を抽象化します。
type ByProductRepository interface {
	Insert(ctx context.Context, b *entity.ByProduct) error
	Find(ctx context.Context, f entity.ByProductFilter) ([]entity.ByProduct, error)
}

// ProductInput は商品登録の入力値です。
type ProductInput struct {
	SellerID     string
	SellerName   string
	Name         string
	Price        float64
	Contact      string
	Image        string
	Category     string
	Age          string
	DeliveryDays int
}

// ByProductInput は副産物登録の入力値です。
type ByProductInput struct {
	SellerID    string
	SellerName  string
	Name        string
	Type        string
	Price       float64
	Quantity    string
	Contact     string
	Image       string
	Description string
}

// catalogUsecase は商品・副産物カタログのユースケースを実装します。
type catalogUsecase struct {
	products   ProductRepository
	byProducts ByProductRepository
	now        func() time.Time
}

// NewCatalogUsecase はcatalogUsecaseの新しいインスタンスを生成します。
func NewCatalogUsecase(products ProductRepository, byProducts ByProductRepository) *catalogUsecase {
	return &catalogUsecase{
		products:   products,
		byProducts: byProducts,
		now:        time.Now,
	}
}

// ListProducts はカテゴリと出品者で絞り込んだ商品を返します。
// ページングは行いません。
func (u *catalogUsecase) ListProducts(ctx context.Context, f entity.ProductFilter) ([]entity.Product, error) {
	ps, err := u.products.Find(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return ps, nil
}

// CreateProduct は商品を検証して登録します。
// IDは登録時刻のミリ秒から生成するため一意性は保証されません。
func (u *catalogUsecase) CreateProduct(ctx context.Context, in ProductInput) (*entity.Product, error) {
	if in.SellerID == "" || in.Name == "" {
		return nil, invalid("Seller and product name are required")
	}
	if in.Price < 0 {
		return nil, invalid("Price must not be negative")
	}
	category, ok := entity.ParseCategory(in.Category)
	if !ok {
		return nil, invalid("Invalid category")
	}
	if in.DeliveryDays < 0 {
		return nil, invalid("Delivery days must not be negative")
	}

	deliveryDays := in.DeliveryDays
	if deliveryDays == 0 {
		deliveryDays = entity.DefaultDeliveryDays
	}

	now := u.now()
	p := &entity.Product{
		ID:           fmt.Sprintf("product_%d", now.UnixMilli()),
		SellerID:     in.SellerID,
		SellerName:   in.SellerName,
		Name:         in.Name,
		Price:        in.Price,
		Contact:      in.Contact,
		Image:        in.Image,
		Category:     category,
		Age:          in.Age,
		DeliveryDays: deliveryDays,
		CreatedAt:    now,
	}
	if err := u.products.Insert(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}
	return p, nil
}

// ListByProducts は種別と出品者で絞り込んだ副産物を返します。
// 種別が空または"all"の場合は種別で絞り込みません。
func (u *catalogUsecase) ListByProducts(ctx context.Context, f entity.ByProductFilter) ([]entity.ByProduct, error) {
	bs, err := u.byProducts.Find(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to list by-products: %w", err)
	}
	return bs, nil
}

// CreateByProduct は副産物を検証して登録します。
func (u *catalogUsecase) CreateByProduct(ctx context.Context, in ByProductInput) (*entity.ByProduct, error) {
	if in.SellerID == "" || in.Name == "" {
		return nil, invalid("Seller and product name are required")
	}
	if in.Price < 0 {
		return nil, invalid("Price must not be negative")
	}
	typ, ok := entity.ParseByProductType(in.Type)
	if !ok {
		return nil, invalid("Invalid by-product type")
	}

	now := u.now()
	b := &entity.ByProduct{
		ID:          fmt.Sprintf("byproduct_%d", now.UnixMilli()),
		SellerID:    in.SellerID,
		SellerName:  in.SellerName,
		Name:        in.Name,
		Type:        typ,
		Price:       in.Price,
		Quantity:    in.Quantity,
		Contact:     in.Contact,
		Image:       in.Image,
		Description: in.Description,
		CreatedAt:   now,
	}
	if err := u.byProducts.Insert(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to insert by-product: %w", err)
	}
	return b, nil
}
