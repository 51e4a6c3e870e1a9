package redis

import (
	"context"
	"net"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "")
	t.Setenv("REDIS_PASSWORD", "secret")
	t.Setenv("REDIS_DB", "2")

	cfg := LoadConfig()

	assert.Equal(t, Config{Host: "cache", Port: "6379", Password: "secret", DB: 2}, cfg)
	assert.Equal(t, "cache:6379", cfg.Addr())
	assert.True(t, cfg.Enabled())
}

func TestLoadConfig_Disabled(t *testing.T) {
	t.Setenv("REDIS_HOST", "")

	assert.False(t, LoadConfig().Enabled())
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, _ := net.SplitHostPort(mr.Addr())

	rdb, err := NewRedisClient(context.Background(), Config{Host: host, Port: port})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	require.NoError(t, rdb.Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, _ := net.SplitHostPort(mr.Addr())
	mr.Close()

	_, err := NewRedisClient(context.Background(), Config{Host: host, Port: port})
	assert.Error(t, err)
}
