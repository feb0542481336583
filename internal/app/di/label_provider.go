package di

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/redis/go-redis/v9"

	"finditnow_backend/internal/app/config"
	"finditnow_backend/internal/feature/itemsearch/adapters/gemini"
	"finditnow_backend/internal/feature/itemsearch/adapters/rekognition"
	"finditnow_backend/internal/feature/itemsearch/adapters/vision"
	"finditnow_backend/internal/feature/itemsearch/usecase"
	"finditnow_backend/internal/platform/cache"
)

// NewLabelProvider は LABEL_PROVIDER に応じたプロバイダーを生成し、Redisキャッシュでラップします。
// 返される close 関数はプロバイダーが保持する接続を閉じます。
func NewLabelProvider(ctx context.Context, cfg config.Config, awsCfg aws.Config, rdb *redis.Client) (*cache.CachingLabelProvider, func() error, error) {
	inner, closeFn, err := newInnerProvider(ctx, cfg, awsCfg)
	if err != nil {
		return nil, nil, err
	}
	p := cache.NewCachingLabelProvider(rdb, cfg.Provider.CacheTTL, inner, "")
	slog.Info("label provider ready", "provider", cfg.Provider.Name, "cache", p.Enabled())
	return p, closeFn, nil
}

func newInnerProvider(ctx context.Context, cfg config.Config, awsCfg aws.Config) (usecase.LabelProvider, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Provider.Name {
	case config.ProviderRekognition:
		return rekognition.NewFromConfig(awsCfg), noop, nil
	case config.ProviderVision:
		p, err := vision.NewVisionLabelProvider(ctx)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	case config.ProviderGemini:
		p, err := gemini.NewGeminiLabelProvider(ctx, cfg.Provider.GeminiModel)
		if err != nil {
			return nil, nil, err
		}
		return p, noop, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownProvider, cfg.Provider.Name)
	}
}
