package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"

	"agrimarket_backend/internal/feature/catalog/domain/entity"
)

// mockProductRepository はテスト用のListingRepositoryモック実装です。
type mockProductRepository struct {
	insertFn  func(ctx context.Context, p *entity.Product) error
	findFn    func(ctx context.Context, f entity.ProductFilter) ([]entity.Product, error)
	findCalls int
}

func (m *mockProductRepository) Insert(ctx context.Context, p *entity.Product) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, p)
	}
	return nil
}

func (m *mockProductRepository) Find(ctx context.Context, f entity.ProductFilter) ([]entity.Product, error) {
	m.findCalls++
	if m.findFn != nil {
		return m.findFn(ctx, f)
	}
	return []entity.Product{}, nil
}

func newProductCache(rdb *redis.Client, inner *mockProductRepository) *CachingListingRepository[entity.Product, entity.ProductFilter] {
	return NewCachingListingRepository[entity.Product, entity.ProductFilter](rdb, 5*time.Minute, inner, "products")
}

// TestNewCachingListingRepository_Defaults はデフォルト値（TTLとnamespace）が正しく設定されることを検証します。
func TestNewCachingListingRepository_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		ttl               time.Duration
		namespace         string
		expectedTTL       time.Duration
		expectedNamespace string
	}{
		{"default values when zero/empty", 0, "", 5 * time.Minute, "listings"},
		{"negative ttl uses default", -time.Minute, "", 5 * time.Minute, "listings"},
		{"custom values preserved", 10 * time.Minute, "products", 10 * time.Minute, "products"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := NewCachingListingRepository[entity.Product, entity.ProductFilter](nil, tt.ttl, &mockProductRepository{}, tt.namespace)

			if repo.ttl != tt.expectedTTL {
				t.Errorf("expected TTL %v, got %v", tt.expectedTTL, repo.ttl)
			}
			if repo.namespace != tt.expectedNamespace {
				t.Errorf("expected namespace %q, got %q", tt.expectedNamespace, repo.namespace)
			}
		})
	}
}

// TestCachingListingRepository_Find_NilRedis はRedisがnilの場合にキャッシュをバイパスすることを検証します。
func TestCachingListingRepository_Find_NilRedis(t *testing.T) {
	t.Parallel()

	inner := &mockProductRepository{
		findFn: func(ctx context.Context, f entity.ProductFilter) ([]entity.Product, error) {
			return []entity.Product{{ID: "product_1"}}, nil
		},
	}

	repo := newProductCache(nil, inner)

	ps, err := repo.Find(context.Background(), entity.ProductFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ps) != 1 || inner.findCalls != 1 {
		t.Errorf("expected inner to serve 1 product, got %d products / %d calls", len(ps), inner.findCalls)
	}
}

// TestCachingListingRepository_Find_CacheHit はキャッシュヒット時に内部リポジトリを呼ばないことを検証します。
func TestCachingListingRepository_Find_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	cached, _ := json.Marshal([]entity.Product{{ID: "product_1", Category: entity.CategoryCrop}})
	mock.ExpectGet("products:version").RedisNil()
	mock.ExpectGet("products:v0:category=Crop&sellerId=").SetVal(string(cached))

	inner := &mockProductRepository{}
	repo := newProductCache(rdb, inner)

	ps, err := repo.Find(context.Background(), entity.ProductFilter{Category: entity.CategoryCrop})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.findCalls != 0 {
		t.Error("inner repository should not be called on cache hit")
	}
	if len(ps) != 1 || ps[0].ID != "product_1" {
		t.Errorf("unexpected products: %+v", ps)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingListingRepository_Find_CacheMiss はキャッシュミス時に内部リポジトリの結果を現在の世代で保存することを検証します。
func TestCachingListingRepository_Find_CacheMiss(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expected := []entity.Product{{ID: "product_1", SellerID: "s1", Category: entity.CategoryDairy}}
	expectedJSON, _ := json.Marshal(expected)

	mock.ExpectGet("products:version").SetVal("3")
	mock.ExpectGet("products:v3:category=Dairy&sellerId=s1").RedisNil()
	mock.ExpectSet("products:v3:category=Dairy&sellerId=s1", expectedJSON, 5*time.Minute).SetVal("OK")

	inner := &mockProductRepository{
		findFn: func(ctx context.Context, f entity.ProductFilter) ([]entity.Product, error) {
			return expected, nil
		},
	}
	repo := newProductCache(rdb, inner)

	ps, err := repo.Find(context.Background(), entity.ProductFilter{Category: entity.CategoryDairy, SellerID: "s1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ps) != 1 {
		t.Errorf("expected 1 product, got %d", len(ps))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingListingRepository_Find_VersionError は世代が読めない場合にキャッシュを使わないことを検証します。
func TestCachingListingRepository_Find_VersionError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("products:version").SetErr(errors.New("connection refused"))

	inner := &mockProductRepository{
		findFn: func(ctx context.Context, f entity.ProductFilter) ([]entity.Product, error) {
			return []entity.Product{{ID: "product_1"}}, nil
		},
	}
	repo := newProductCache(rdb, inner)

	ps, err := repo.Find(context.Background(), entity.ProductFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ps) != 1 || inner.findCalls != 1 {
		t.Errorf("expected inner to serve 1 product, got %d products / %d calls", len(ps), inner.findCalls)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected redis calls: %v", err)
	}
}

// TestCachingListingRepository_Find_InnerError は内部リポジトリのエラーが伝播されることを検証します。
func TestCachingListingRepository_Find_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("database error")
	mock.ExpectGet("products:version").RedisNil()
	mock.ExpectGet("products:v0:category=&sellerId=").RedisNil()

	inner := &mockProductRepository{
		findFn: func(ctx context.Context, f entity.ProductFilter) ([]entity.Product, error) {
			return nil, expectedErr
		},
	}
	repo := newProductCache(rdb, inner)

	_, err := repo.Find(context.Background(), entity.ProductFilter{})
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}

// TestCachingListingRepository_Find_CorruptedCache は破損したキャッシュを削除してフォールバックすることを検証します。
func TestCachingListingRepository_Find_CorruptedCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expected := []entity.Product{{ID: "product_1"}}
	expectedJSON, _ := json.Marshal(expected)

	mock.ExpectGet("products:version").RedisNil()
	mock.ExpectGet("products:v0:category=&sellerId=").SetVal("invalid json")
	mock.ExpectDel("products:v0:category=&sellerId=").SetVal(1)
	mock.ExpectSet("products:v0:category=&sellerId=", expectedJSON, 5*time.Minute).SetVal("OK")

	inner := &mockProductRepository{
		findFn: func(ctx context.Context, f entity.ProductFilter) ([]entity.Product, error) {
			return expected, nil
		},
	}
	repo := newProductCache(rdb, inner)

	ps, err := repo.Find(context.Background(), entity.ProductFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ps) != 1 {
		t.Errorf("expected 1 product, got %d", len(ps))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingListingRepository_Insert_Invalidation は登録後にnamespaceの世代が進むことを検証します。
func TestCachingListingRepository_Insert_Invalidation(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectIncr("products:version").SetVal(1)

	repo := newProductCache(rdb, &mockProductRepository{})

	if err := repo.Insert(context.Background(), &entity.Product{ID: "product_1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingListingRepository_Insert_InvalidationError は世代の更新に失敗しても登録は成功することを検証します。
func TestCachingListingRepository_Insert_InvalidationError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectIncr("products:version").SetErr(errors.New("connection refused"))

	repo := newProductCache(rdb, &mockProductRepository{})

	if err := repo.Insert(context.Background(), &entity.Product{ID: "product_1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingListingRepository_Insert_InnerError は内部リポジトリのエラー時にキャッシュへ触れないことを検証します。
func TestCachingListingRepository_Insert_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("insert error")
	repo := newProductCache(rdb, &mockProductRepository{
		insertFn: func(ctx context.Context, p *entity.Product) error { return expectedErr },
	})

	err := repo.Insert(context.Background(), &entity.Product{})
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected redis calls: %v", err)
	}
}

// newStoringRepository はスライスに保存し、フィルタで絞り込んで返すモックを返します。
func newStoringRepository() (*mockProductRepository, *[]entity.Product) {
	var stored []entity.Product
	inner := &mockProductRepository{
		insertFn: func(ctx context.Context, p *entity.Product) error {
			stored = append(stored, *p)
			return nil
		},
		findFn: func(ctx context.Context, f entity.ProductFilter) ([]entity.Product, error) {
			out := []entity.Product{}
			for i := range stored {
				if f.Matches(&stored[i]) {
					out = append(out, stored[i])
				}
			}
			return out, nil
		},
	}
	return inner, &stored
}

// TestCachingListingRepository_Miniredis は実際のRedisプロトコル上で読み込み・無効化の流れを検証します。
func TestCachingListingRepository_Miniredis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	inner, _ := newStoringRepository()
	repo := newProductCache(rdb, inner)
	ctx := context.Background()
	crop := entity.ProductFilter{Category: entity.CategoryCrop}

	if err := repo.Insert(ctx, &entity.Product{ID: "product_1", Category: entity.CategoryCrop}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	for i := 0; i < 2; i++ {
		ps, err := repo.Find(ctx, crop)
		if err != nil || len(ps) != 1 {
			t.Fatalf("find #%d: %v %+v", i, err, ps)
		}
	}
	if inner.findCalls != 1 {
		t.Errorf("expected 1 inner call, got %d", inner.findCalls)
	}
	if !mr.Exists("products:v1:category=Crop&sellerId=") {
		t.Errorf("expected cached key for generation 1, got keys %v", mr.Keys())
	}

	if err := repo.Insert(ctx, &entity.Product{ID: "product_2", Category: entity.CategoryCrop}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if v, _ := mr.Get("products:version"); v != "2" {
		t.Errorf("expected generation 2, got %q", v)
	}
	ps, err := repo.Find(ctx, crop)
	if err != nil || len(ps) != 2 {
		t.Fatalf("find after insert: %v %+v", err, ps)
	}
	if inner.findCalls != 2 {
		t.Errorf("expected 2 inner calls, got %d", inner.findCalls)
	}
}

// TestCachingListingRepository_DistinctFilters は区切り文字を含むフィルタ同士が同じキャッシュを共有しないことを検証します。
func TestCachingListingRepository_DistinctFilters(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	inner, _ := newStoringRepository()
	repo := newProductCache(rdb, inner)
	ctx := context.Background()

	if err := repo.Insert(ctx, &entity.Product{ID: "product_1", Category: entity.CategoryDairy, SellerID: "user_1"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// 先に空の結果をキャッシュさせる
	ps, err := repo.Find(ctx, entity.ProductFilter{Category: "Dairy_user", SellerID: "1"})
	if err != nil || len(ps) != 0 {
		t.Fatalf("find Dairy_user/1: %v %+v", err, ps)
	}

	ps, err = repo.Find(ctx, entity.ProductFilter{Category: entity.CategoryDairy, SellerID: "user_1"})
	if err != nil {
		t.Fatalf("find Dairy/user_1: %v", err)
	}
	if len(ps) != 1 || ps[0].ID != "product_1" {
		t.Errorf("expected product_1 for Dairy/user_1, got %+v", ps)
	}
	if inner.findCalls != 2 {
		t.Errorf("expected each filter to reach the inner repository, got %d calls", inner.findCalls)
	}
}

// TestCachingListingRepository_InsertDuringFind は読み込み中に登録された商品が次の一覧に現れることを検証します。
func TestCachingListingRepository_InsertDuringFind(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	inner, stored := newStoringRepository()
	repo := newProductCache(rdb, inner)
	ctx := context.Background()
	crop := entity.ProductFilter{Category: entity.CategoryCrop}

	if err := repo.Insert(ctx, &entity.Product{ID: "product_1", Category: entity.CategoryCrop}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// 内部リポジトリの読み込み後、キャッシュ保存前に別の登録が割り込む
	find := inner.findFn
	inserted := false
	inner.findFn = func(ctx context.Context, f entity.ProductFilter) ([]entity.Product, error) {
		out, err := find(ctx, f)
		if !inserted {
			inserted = true
			if err := repo.Insert(ctx, &entity.Product{ID: "product_2", Category: entity.CategoryCrop}); err != nil {
				t.Fatalf("concurrent insert: %v", err)
			}
		}
		return out, err
	}

	ps, err := repo.Find(ctx, crop)
	if err != nil || len(ps) != 1 {
		t.Fatalf("first find: %v %+v", err, ps)
	}
	if len(*stored) != 2 {
		t.Fatalf("expected 2 stored products, got %d", len(*stored))
	}

	ps, err = repo.Find(ctx, crop)
	if err != nil {
		t.Fatalf("second find: %v", err)
	}
	if len(ps) != 2 {
		t.Errorf("listing cached before the insert must not be served, got %+v", ps)
	}
}
