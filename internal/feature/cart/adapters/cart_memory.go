// Package adapters はcartフィーチャーのストア実装を提供します。
package adapters

import (
	"context"
	"sync"

	"agrimarket_backend/internal/feature/cart/domain/entity"
	"agrimarket_backend/internal/feature/cart/usecase"
)

// cartMemory はプロセス内にカートのスナップショットを保持します。
type cartMemory struct {
	mu    sync.Mutex
	carts map[string][]entity.Item
}

var _ usecase.CartStore = (*cartMemory)(nil)

func NewCartMemory() *cartMemory {
	return &cartMemory{carts: make(map[string][]entity.Item)}
}

func (s *cartMemory) Load(_ context.Context, userID string) (*entity.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]entity.Item, len(s.carts[userID]))
	copy(items, s.carts[userID])
	return &entity.Cart{Items: items}, nil
}

func (s *cartMemory) Save(_ context.Context, userID string, cart *entity.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]entity.Item, len(cart.Items))
	copy(items, cart.Items)
	s.carts[userID] = items
	return nil
}
