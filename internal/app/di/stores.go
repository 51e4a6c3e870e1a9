package di

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	authadapters "agrimarket_backend/internal/feature/auth/adapters"
	authusecase "agrimarket_backend/internal/feature/auth/usecase"
	cartadapters "agrimarket_backend/internal/feature/cart/adapters"
	cartusecase "agrimarket_backend/internal/feature/cart/usecase"
	catalogadapters "agrimarket_backend/internal/feature/catalog/adapters"
	"agrimarket_backend/internal/feature/catalog/domain/entity"
	catalogusecase "agrimarket_backend/internal/feature/catalog/usecase"
	"agrimarket_backend/internal/platform/cache"
	"agrimarket_backend/internal/platform/redisstore"
)

// SQLModels はSQLストアでマイグレーションするモデルです。
func SQLModels() []any {
	return []any{
		&authadapters.UserModel{},
		&catalogadapters.ProductModel{},
		&catalogadapters.ByProductModel{},
	}
}

// NewUserRepository はUSER_STOREに応じたUserRepositoryを生成します。
// MongoDBを使う場合はメールアドレスの一意インデックスを作成します。
func NewUserRepository(ctx context.Context, cfg Config, db *gorm.DB, mdb *mongo.Database) (authusecase.UserRepository, error) {
	switch cfg.UserStore {
	case UserStoreMongo:
		if mdb == nil {
			return nil, errors.New("USER_STORE=mongo requires MONGODB_URI")
		}
		repo := authadapters.NewUserMongo(mdb.Collection("users"))
		if err := repo.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		return repo, nil
	default:
		if db == nil {
			return nil, errors.New("USER_STORE=sql requires a database")
		}
		return authadapters.NewUserGorm(db), nil
	}
}

// NewCatalogRepositories はCATALOG_STOREに応じた商品・副産物のリポジトリを生成します。
// Redisが利用可能な場合は読み取りキャッシュでラップします。
func NewCatalogRepositories(cfg Config, db *gorm.DB, rdb *redis.Client) (catalogusecase.ProductRepository, catalogusecase.ByProductRepository, error) {
	var (
		products   cache.ListingRepository[entity.Product, entity.ProductFilter]
		byProducts cache.ListingRepository[entity.ByProduct, entity.ByProductFilter]
	)
	switch cfg.CatalogStore {
	case CatalogStoreSQL:
		if db == nil {
			return nil, nil, errors.New("CATALOG_STORE=sql requires a database")
		}
		products = catalogadapters.NewProductGorm(db)
		byProducts = catalogadapters.NewByProductGorm(db)
	default:
		products = catalogadapters.NewProductMemory()
		byProducts = catalogadapters.NewByProductMemory()
	}

	if rdb == nil {
		return products, byProducts, nil
	}
	return cache.NewCachingListingRepository(rdb, cfg.CatalogCacheTTL, products, "products"),
		cache.NewCachingListingRepository(rdb, cfg.CatalogCacheTTL, byProducts, "byproducts"),
		nil
}

// NewVerificationStore はRedisが利用可能ならRedis、そうでなければプロセス内のストアを返します。
func NewVerificationStore(rdb *redis.Client) authusecase.VerificationStore {
	if rdb != nil {
		return redisstore.NewVerificationRedis(rdb, "verification", redisstore.DefaultRetention)
	}
	return authadapters.NewVerificationMemory()
}

// NewCartStore はRedisが利用可能ならRedis、そうでなければプロセス内のストアを返します。
func NewCartStore(rdb *redis.Client) cartusecase.CartStore {
	if rdb != nil {
		return redisstore.NewCartRedis(rdb, "cart", 0)
	}
	return cartadapters.NewCartMemory()
}
