// Package di はアプリケーションコンポーネントを生成するファクトリーを提供します。
package di

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	UserStoreSQL   = "sql"
	UserStoreMongo = "mongo"

	CatalogStoreMemory = "memory"
	CatalogStoreSQL    = "sql"

	defaultPort            = "8080"
	defaultCatalogCacheTTL = 5 * time.Minute
	defaultResetRateLimit  = 5
)

// Config はアプリケーション全体の設定です。
// 各インフラ（DB、Redis、MongoDB、JWT）の接続設定はそれぞれのパッケージが読み込みます。
type Config struct {
	Port                 string
	UserStore            string
	CatalogStore         string
	CatalogCacheTTL      time.Duration
	PasswordResetPersist bool
	// ResetRateLimit はクライアントごとの1分あたりのパスワードリセット要求数の上限です。
	ResetRateLimit     int
	CORSAllowedOrigins []string
}

// LoadConfig は環境変数からアプリケーション設定を読み込みます。
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:                 envOr("PORT", defaultPort),
		UserStore:            envOr("USER_STORE", UserStoreSQL),
		CatalogStore:         envOr("CATALOG_STORE", CatalogStoreMemory),
		CatalogCacheTTL:      defaultCatalogCacheTTL,
		PasswordResetPersist: os.Getenv("PASSWORD_RESET_PERSIST") != "false",
		ResetRateLimit:       defaultResetRateLimit,
	}

	switch cfg.UserStore {
	case UserStoreSQL, UserStoreMongo:
	default:
		return Config{}, fmt.Errorf("invalid USER_STORE %q", cfg.UserStore)
	}
	switch cfg.CatalogStore {
	case CatalogStoreMemory, CatalogStoreSQL:
	default:
		return Config{}, fmt.Errorf("invalid CATALOG_STORE %q", cfg.CatalogStore)
	}

	if v := os.Getenv("CATALOG_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid CATALOG_CACHE_TTL %q", v)
		}
		cfg.CatalogCacheTTL = d
	}
	if v := os.Getenv("RESET_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid RESET_RATE_LIMIT %q", v)
		}
		cfg.ResetRateLimit = n
	}
	for _, o := range strings.Split(os.Getenv("CORS_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}
	return cfg, nil
}

// NeedsSQL はいずれかのストアがリレーショナルDBを使うかを返します。
func (c Config) NeedsSQL() bool {
	return c.UserStore == UserStoreSQL || c.CatalogStore == CatalogStoreSQL
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
