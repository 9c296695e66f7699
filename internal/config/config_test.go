package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "LOG_LEVEL", "REDIS_HOST", "REDIS_PORT", "CART_TTL", "RABBITMQ_URL", "MYSQL_MAX_OPEN_CONNS"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 7*24*time.Hour, cfg.CartTTL)
	assert.Equal(t, 100, cfg.MySQLMaxOpenConns)
	assert.Empty(t, cfg.RabbitMQURL)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("CART_TTL", "30m")
	t.Setenv("MYSQL_MAX_OPEN_CONNS", "not-a-number")
	t.Setenv("CACHE_WARMUP_PRODUCT_IDS", "1, 2,x,0")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "cache:6380", cfg.RedisAddr)
	assert.Equal(t, 30*time.Minute, cfg.CartTTL)
	assert.Equal(t, 100, cfg.MySQLMaxOpenConns)
	assert.Equal(t, []uint64{1, 2}, cfg.WarmupProductIDs)
}
