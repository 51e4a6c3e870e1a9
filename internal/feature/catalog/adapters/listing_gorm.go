package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"

	"agrimarket_backend/internal/feature/catalog/domain/entity"
	"agrimarket_backend/internal/feature/catalog/usecase"
)

// ProductModel はproductsテーブルのGORMモデルです。
// ListingIDは時刻ベースで重複し得るため、登録順はSeqで保持します。
type ProductModel struct {
	Seq          uint   `gorm:"primaryKey;autoIncrement"`
	ListingID    string `gorm:"index;size:64;not null"`
	SellerID     string `gorm:"index;size:128;not null"`
	SellerName   string `gorm:"size:255"`
	Name         string `gorm:"size:255;not null"`
	Price        float64
	Contact      string `gorm:"size:255"`
	Image        string `gorm:"type:text"`
	Category     string `gorm:"index;size:32;not null"`
	Age          string `gorm:"size:64"`
	DeliveryDays int
	CreatedAt    time.Time
}

func (ProductModel) TableName() string { return "products" }

func (m *ProductModel) ToEntity() entity.Product {
	return entity.Product{
		ID:           m.ListingID,
		SellerID:     m.SellerID,
		SellerName:   m.SellerName,
		Name:         m.Name,
		Price:        m.Price,
		Contact:      m.Contact,
		Image:        m.Image,
		Category:     entity.Category(m.Category),
		Age:          m.Age,
		DeliveryDays: m.DeliveryDays,
		CreatedAt:    m.CreatedAt,
	}
}

// ByProductModel はby_productsテーブルのGORMモデルです。
type ByProductModel struct {
	Seq         uint   `gorm:"primaryKey;autoIncrement"`
	ListingID   string `gorm:"index;size:64;not null"`
	SellerID    string `gorm:"index;size:128;not null"`
	SellerName  string `gorm:"size:255"`
	Name        string `gorm:"size:255;not null"`
	Type        string `gorm:"index;size:32;not null"`
	Price       float64
	Quantity    string `gorm:"size:64"`
	Contact     string `gorm:"size:255"`
	Image       string `gorm:"type:text"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
}

func (ByProductModel) TableName() string { return "by_products" }

func (m *ByProductModel) ToEntity() entity.ByProduct {
	return entity.ByProduct{
		ID:          m.ListingID,
		SellerID:    m.SellerID,
		SellerName:  m.SellerName,
		Name:        m.Name,
		Type:        entity.ByProductType(m.Type),
		Price:       m.Price,
		Quantity:    m.Quantity,
		Contact:     m.Contact,
		Image:       m.Image,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
	}
}

// productGorm はProductRepositoryのGORM実装です。
type productGorm struct {
	db *gorm.DB
}

var _ usecase.ProductRepository = (*productGorm)(nil)

// NewProductGorm は指定されたgorm.DB接続でproductGormを生成します。
func NewProductGorm(db *gorm.DB) *productGorm {
	return &productGorm{db: db}
}

// Insert は商品を1行追加します。
func (r *productGorm) Insert(ctx context.Context, p *entity.Product) error {
	m := &ProductModel{
		ListingID:    p.ID,
		SellerID:     p.SellerID,
		SellerName:   p.SellerName,
		Name:         p.Name,
		Price:        p.Price,
		Contact:      p.Contact,
		Image:        p.Image,
		Category:     string(p.Category),
		Age:          p.Age,
		DeliveryDays: p.DeliveryDays,
		CreatedAt:    p.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(m).Error
}

// Find はフィルタに一致する商品を登録順に返します。
func (r *productGorm) Find(ctx context.Context, f entity.ProductFilter) ([]entity.Product, error) {
	q := r.db.WithContext(ctx).Model(&ProductModel{})
	if f.Category != "" {
		q = q.Where("category = ?", string(f.Category))
	}
	if f.SellerID != "" {
		q = q.Where("seller_id = ?", f.SellerID)
	}

	var rows []ProductModel
	if err := q.Order("seq ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Product, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToEntity())
	}
	return out, nil
}

// byProductGorm はByProductRepositoryのGORM実装です。
type byProductGorm struct {
	db *gorm.DB
}

var _ usecase.ByProductRepository = (*byProductGorm)(nil)

func NewByProductGorm(db *gorm.DB) *byProductGorm {
	return &byProductGorm{db: db}
}

func (r *byProductGorm) Insert(ctx context.Context, b *entity.ByProduct) error {
	m := &ByProductModel{
		ListingID:   b.ID,
		SellerID:    b.SellerID,
		SellerName:  b.SellerName,
		Name:        b.Name,
		Type:        string(b.Type),
		Price:       b.Price,
		Quantity:    b.Quantity,
		Contact:     b.Contact,
		Image:       b.Image,
		Description: b.Description,
		CreatedAt:   b.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(m).Error
}

// Find は種別"all"を絞り込みなしとして扱います。
func (r *byProductGorm) Find(ctx context.Context, f entity.ByProductFilter) ([]entity.ByProduct, error) {
	q := r.db.WithContext(ctx).Model(&ByProductModel{})
	if f.Type != "" && f.Type != entity.ByProductTypeAll {
		q = q.Where("type = ?", string(f.Type))
	}
	if f.SellerID != "" {
		q = q.Where("seller_id = ?", f.SellerID)
	}

	var rows []ByProductModel
	if err := q.Order("seq ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.ByProduct, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToEntity())
	}
	return out, nil
}
