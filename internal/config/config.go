package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port     string
	LogLevel slog.Level

	MySQLUser         string
	MySQLPassword     string
	MySQLHost         string
	MySQLPort         string
	MySQLDatabase     string
	MySQLMaxOpenConns int

	RedisAddr       string
	CartTTL         time.Duration
	ProductCacheTTL time.Duration

	// WarmupProductIDs are loaded into the product cache at startup.
	WarmupProductIDs []uint64

	RabbitMQURL   string
	OrderExchange string
}

func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: parseLevel(getEnv("LOG_LEVEL", "info")),

		MySQLUser:         getEnv("MYSQL_USER", "root"),
		MySQLPassword:     os.Getenv("MYSQL_PASSWORD"),
		MySQLHost:         getEnv("MYSQL_HOST", "localhost"),
		MySQLPort:         getEnv("MYSQL_PORT", "3306"),
		MySQLDatabase:     getEnv("MYSQL_DATABASE", "storefront"),
		MySQLMaxOpenConns: getInt("MYSQL_MAX_OPEN_CONNS", 100),

		RedisAddr:       getEnv("REDIS_HOST", "localhost") + ":" + getEnv("REDIS_PORT", "6379"),
		CartTTL:         getDuration("CART_TTL", 7*24*time.Hour),
		ProductCacheTTL: getDuration("PRODUCT_CACHE_TTL", time.Minute),

		WarmupProductIDs: getIDs("CACHE_WARMUP_PRODUCT_IDS"),

		RabbitMQURL:   os.Getenv("RABBITMQ_URL"),
		OrderExchange: getEnv("ORDER_EXCHANGE", "order.exchange"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func getDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func getIDs(key string) []uint64 {
	var ids []uint64
	for _, part := range strings.Split(os.Getenv(key), ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err == nil && id > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}
