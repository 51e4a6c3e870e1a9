package jwtmw

import (
	"errors"
	"fmt"
	"os"
	"time"
)

const (
	// EnvKeyJWTSecret はセッショントークンの署名鍵を保持する環境変数名です。
	EnvKeyJWTSecret = "JWT_SECRET"
	// EnvKeyJWTExpiration はトークン有効期間（time.ParseDuration形式）の環境変数名です。
	EnvKeyJWTExpiration = "JWT_EXPIRATION"

	defaultExpiration = 24 * time.Hour
)

// Config はトークン生成・検証の設定です。
type Config struct {
	Secret     string
	Expiration time.Duration
}

// LoadConfig は環境変数から設定を読み込みます。JWT_SECRETは必須です。
func LoadConfig() (Config, error) {
	cfg := Config{
		Secret:     os.Getenv(EnvKeyJWTSecret),
		Expiration: defaultExpiration,
	}
	if cfg.Secret == "" {
		return Config{}, errors.New("JWT_SECRET is not set")
	}
	if v := os.Getenv(EnvKeyJWTExpiration); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid JWT_EXPIRATION %q", v)
		}
		cfg.Expiration = d
	}
	return cfg, nil
}
