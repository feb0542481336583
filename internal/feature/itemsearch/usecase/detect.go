package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"finditnow_backend/internal/feature/itemsearch/domain"
	"finditnow_backend/internal/feature/itemsearch/domain/entity"
	"finditnow_backend/internal/shared/ratelimiter"
)

// labelDetector はレートリミットとスロットリング時の再試行を伴ってプロバイダーを呼び出します。
type labelDetector struct {
	provider   LabelProvider
	limiter    ratelimiter.RateLimiterInterface
	opts       entity.DetectOptions
	maxRetries int
	baseDelay  time.Duration
}

// detect は画像のラベルを検出します。
// domain.ErrThrottled 以外のエラーは再試行せずにそのまま返します。
func (d *labelDetector) detect(ctx context.Context, image []byte) ([]entity.Label, error) {
	delay := d.baseDelay
	for attempt := 0; ; attempt++ {
		if d.limiter != nil {
			if err := d.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		labels, err := d.provider.DetectLabels(ctx, image, d.opts)
		if err == nil {
			return labels, nil
		}
		if !errors.Is(err, domain.ErrThrottled) || attempt >= d.maxRetries {
			return nil, err
		}

		slog.Warn("label provider throttled, retrying", "attempt", attempt+1, "delay", delay, "error", err)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		delay = min(delay*2, maxRetryDelay)
	}
}
