// Package redis はRedisクライアントの生成を提供します。
package redis

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// pingTimeout は起動時の接続確認のタイムアウトです。
const pingTimeout = 3 * time.Second

// Config はRedis接続設定です。
type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Enabled はホストが設定されているかを返します。
func (c Config) Enabled() bool {
	return c.Host != ""
}

// Addr は host:port 形式のアドレスを返します。
func (c Config) Addr() string {
	port := c.Port
	if port == "" {
		port = "6379"
	}
	return net.JoinHostPort(c.Host, port)
}

// NewRedisClient は接続確認済みのRedisクライアントを返します。
// ホストが未設定の場合は nil, nil を返し、呼び出し側はキャッシュなしで動作します。
func NewRedisClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	if !cfg.Enabled() {
		slog.Info("Redis disabled: REDIS_HOST is not set")
		return nil, nil
	}
	addr := cfg.Addr()

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 接続確認
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Error("Redis connection failed", "address", addr, "error", err)
		_ = rdb.Close()
		return nil, err
	}

	slog.Info("Redis connection successful", "address", addr)
	return rdb, nil
}
