// Package ratelimiter はキーごとの固定ウィンドウ方式のレート制限を提供します。
package ratelimiter

import (
	"log/slog"
	"sync"
	"time"
)

// Limiter は、キー（クライアントIPなど）ごとに操作の頻度を制限するインターフェースです。
type Limiter interface {
	Allow(key string) bool
}

type window struct {
	count     int
	lastReset time.Time
}

// RateLimiter は、interval ごとに limit 回までの操作をキー単位で許可します。
type RateLimiter struct {
	mu       sync.Mutex
	limit    int           // interval あたりの上限
	interval time.Duration // どの単位でリセットするか
	windows  map[string]*window
	now      func() time.Time
}

var _ Limiter = (*RateLimiter)(nil)

// NewRateLimiter は新しいRateLimiterのインスタンスを生成します。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:    limit,
		interval: interval,
		windows:  make(map[string]*window),
		now:      time.Now,
	}
}

// Allow はkeyの操作を1回消費し、上限内であればtrueを返します。
// 待機はせず、上限に達した呼び出しは拒否します。
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[key]
	// interval を過ぎたらカウントリセット
	if !ok || now.Sub(w.lastReset) >= rl.interval {
		w = &window{lastReset: now}
		rl.windows[key] = w
		rl.evict(now)
	}

	w.count++
	if w.count > rl.limit {
		slog.Warn("rate limit exceeded", "key", key, "limit", rl.limit, "retry_after", rl.interval-now.Sub(w.lastReset))
		return false
	}
	return true
}

// evict はウィンドウが終了したキーを削除し、mapが増え続けないようにします。
func (rl *RateLimiter) evict(now time.Time) {
	for k, w := range rl.windows {
		if now.Sub(w.lastReset) >= rl.interval {
			delete(rl.windows, k)
		}
	}
}
