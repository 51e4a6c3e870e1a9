// Package redisstore はRedisを使ったキー・バリュー型のストア実装を提供します。
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"agrimarket_backend/internal/feature/auth/domain/entity"
	"agrimarket_backend/internal/feature/auth/usecase"
)

// DefaultRetention は有効期限切れのエントリをRedisに残しておく時間です。
// 期限切れのコードを提示されたときに NotFound ではなく Expired を返すために使います。
const DefaultRetention = time.Hour

// VerificationRedis implements usecase.VerificationStore using Redis.
type VerificationRedis struct {
	client    *redis.Client
	prefix    string
	retention time.Duration
	now       func() time.Time
}

var _ usecase.VerificationStore = (*VerificationRedis)(nil)

// NewVerificationRedis creates a new VerificationRedis instance.
func NewVerificationRedis(client *redis.Client, prefix string, retention time.Duration) *VerificationRedis {
	if prefix == "" {
		prefix = "verification"
	}
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &VerificationRedis{
		client:    client,
		prefix:    prefix,
		retention: retention,
		now:       time.Now,
	}
}

func (r *VerificationRedis) key(email string) string {
	return fmt.Sprintf("%s:%s", r.prefix, email)
}

// Put stores the entry, replacing any pending code for the same email.
func (r *VerificationRedis) Put(ctx context.Context, entry *entity.VerificationEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal verification entry: %w", err)
	}

	ttl := entry.ExpiresAt.Sub(r.now())
	if ttl < 0 {
		ttl = 0
	}
	ttl += r.retention

	return r.client.Set(ctx, r.key(entry.Email), data, ttl).Err()
}

// Get retrieves the pending entry for an email.
func (r *VerificationRedis) Get(ctx context.Context, email string) (*entity.VerificationEntry, error) {
	data, err := r.client.Get(ctx, r.key(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, usecase.ErrVerificationNotFound
		}
		return nil, err
	}

	var entry entity.VerificationEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal verification entry: %w", err)
	}
	return &entry, nil
}

// Delete removes the entry. Missing keys are not an error.
func (r *VerificationRedis) Delete(ctx context.Context, email string) error {
	return r.client.Del(ctx, r.key(email)).Err()
}
