// Package ratelimiter は外部API呼び出しの頻度を制限します。
package ratelimiter

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterInterface は、API呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	// Wait は呼び出しが許可されるまで待機します。ctxが終了した場合はそのエラーを返します。
	Wait(ctx context.Context) error
}

// RateLimiter はinterval あたり limit 回までの呼び出しを許可するトークンバケットです。
// 複数のゴルーチンから同時に利用できます。
type RateLimiter struct {
	limiter  *rate.Limiter
	limit    int
	interval time.Duration
}

// NewRateLimiter は新しいRateLimiterのインスタンスを生成します。
// limit が0以下の場合は制限なしとして nil を返します。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	if limit <= 0 {
		return nil
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &RateLimiter{
		limiter:  rate.NewLimiter(rate.Every(interval/time.Duration(limit)), limit),
		limit:    limit,
		interval: interval,
	}
}

// Wait はレートリミットの上限に達しているかを確認し、必要であれば待機します。
// nil のRateLimiterは常に即座に許可します。
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if rl == nil {
		return nil
	}
	r := rl.limiter.Reserve()
	delay := r.Delay()
	if delay == 0 {
		return nil
	}

	slog.Debug("rate limit reached, waiting", "limit", rl.limit, "interval", rl.interval, "delay", delay)
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	}
}
