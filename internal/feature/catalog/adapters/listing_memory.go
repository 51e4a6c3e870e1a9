// Package adapters はcatalogフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"sync"

	"agrimarket_backend/internal/feature/catalog/domain/entity"
	"agrimarket_backend/internal/feature/catalog/usecase"
)

// matcher は要素型Tに対するフィルタ条件です。
type matcher[T any] interface {
	Matches(*T) bool
}

// listingMemory は登録順のスライスで出品を保持するインメモリストアです。
// プロセス終了とともにデータは失われます。
type listingMemory[T any, F matcher[T]] struct {
	mu    sync.RWMutex
	items []T
}

var (
	_ usecase.ProductRepository   = (*listingMemory[entity.Product, entity.ProductFilter])(nil)
	_ usecase.ByProductRepository = (*listingMemory[entity.ByProduct, entity.ByProductFilter])(nil)
)

// NewProductMemory はインメモリの商品ストアを生成します。
func NewProductMemory() *listingMemory[entity.Product, entity.ProductFilter] {
	return &listingMemory[entity.Product, entity.ProductFilter]{}
}

// NewByProductMemory はインメモリの副産物ストアを生成します。
func NewByProductMemory() *listingMemory[entity.ByProduct, entity.ByProductFilter] {
	return &listingMemory[entity.ByProduct, entity.ByProductFilter]{}
}

// Insert は要素のコピーを末尾に追加します。
func (s *listingMemory[T, F]) Insert(_ context.Context, item *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, *item)
	return nil
}

// Find はフィルタに一致する要素のコピーを登録順に返します。
func (s *listingMemory[T, F]) Find(_ context.Context, f F) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, 0, len(s.items))
	for i := range s.items {
		if f.Matches(&s.items[i]) {
			out = append(out, s.items[i])
		}
	}
	return out, nil
}
