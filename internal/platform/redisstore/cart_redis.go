package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"agrimarket_backend/internal/feature/cart/domain/entity"
	"agrimarket_backend/internal/feature/cart/usecase"
)

// CartRedis implements usecase.CartStore using Redis.
// Each cart is stored as one JSON snapshot per user.
type CartRedis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ usecase.CartStore = (*CartRedis)(nil)

// NewCartRedis creates a new CartRedis instance. A ttl of zero keeps carts forever.
func NewCartRedis(client *redis.Client, prefix string, ttl time.Duration) *CartRedis {
	if prefix == "" {
		prefix = "cart"
	}
	return &CartRedis{client: client, prefix: prefix, ttl: ttl}
}

func (r *CartRedis) key(userID string) string {
	return fmt.Sprintf("%s:%s", r.prefix, userID)
}

// Load returns the stored cart, or an empty cart if the user has none.
func (r *CartRedis) Load(ctx context.Context, userID string) (*entity.Cart, error) {
	data, err := r.client.Get(ctx, r.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &entity.Cart{Items: []entity.Item{}}, nil
		}
		return nil, err
	}

	var cart entity.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart: %w", err)
	}
	if cart.Items == nil {
		cart.Items = []entity.Item{}
	}
	return &cart, nil
}

// Save overwrites the whole cart snapshot.
func (r *CartRedis) Save(ctx context.Context, userID string, cart *entity.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	return r.client.Set(ctx, r.key(userID), data, r.ttl).Err()
}
