// Package mongo はMongoDBクライアントの生成を提供します。
package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	defaultDatabase = "agrimarket"
	connectTimeout  = 10 * time.Second
)

// Config はMongoDB接続設定です。
type Config struct {
	URI      string
	Database string
}

// LoadConfig は環境変数からMongoDB設定を読み込みます。
func LoadConfig() Config {
	cfg := Config{
		URI:      os.Getenv("MONGODB_URI"),
		Database: os.Getenv("MONGODB_DATABASE"),
	}
	if cfg.Database == "" {
		cfg.Database = defaultDatabase
	}
	return cfg
}

// Connect はMongoDBへ接続し、プライマリへのPingで疎通を確認します。
func Connect(ctx context.Context, cfg Config) (*mongo.Client, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("MONGODB_URI is not set")
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	slog.Info("MongoDB connection successful", "database", cfg.Database)
	return client, nil
}
